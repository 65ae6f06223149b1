// Package minio provides the optional exported-artifact object store.
// When configured, STL and glTF exports are uploaded and a presigned GET URL
// is attached to the response; upload failures never fail the export itself.
package minio

import (
	"bytes"
	"context"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gemmology-dev/crystal-api/internal/infrastructure/monitoring/logging"
	"github.com/gemmology-dev/crystal-api/pkg/errors"
)

// Config holds MinIO / S3-compatible object-storage parameters.
type Config struct {
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// Store is the artifact-store contract used by the export handlers.
type Store interface {
	// Upload stores data under key with the given content type and returns a
	// presigned GET URL for it.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Ping verifies the bucket is reachable.
	Ping(ctx context.Context) error
}

type minioStore struct {
	client        *minio.Client
	bucket        string
	presignExpiry time.Duration
	log           logging.Logger
}

// New connects to the object store and creates the bucket when it does not
// exist yet.
func New(ctx context.Context, cfg Config, log logging.Logger) (Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "failed to create minio client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "failed to check bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, errors.CodeStorageError, "failed to create bucket")
		}
	}

	expiry := cfg.PresignExpiry
	if expiry == 0 {
		expiry = time.Hour
	}
	return &minioStore{client: client, bucket: cfg.Bucket, presignExpiry: expiry, log: log}, nil
}

func (s *minioStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeStorageError, "failed to upload artifact")
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.presignExpiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeStorageError, "failed to presign artifact URL")
	}
	return u.String(), nil
}

func (s *minioStore) Ping(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "object store unreachable")
	}
	return nil
}
