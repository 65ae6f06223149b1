// Package crystal orchestrates the CDL pipeline: parse → symmetry expansion
// → half-space intersection → twin composition → post-scaling → encoding.
package crystal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gemmology-dev/crystal-api/internal/domain/cdl"
	"github.com/gemmology-dev/crystal-api/internal/domain/geometry"
	"github.com/gemmology-dev/crystal-api/internal/domain/modifier"
	"github.com/gemmology-dev/crystal-api/internal/domain/twin"
	"github.com/gemmology-dev/crystal-api/internal/export/gltf"
	"github.com/gemmology-dev/crystal-api/internal/export/stl"
	cacheredis "github.com/gemmology-dev/crystal-api/internal/infrastructure/cache/redis"
	"github.com/gemmology-dev/crystal-api/internal/infrastructure/monitoring/logging"
	"github.com/gemmology-dev/crystal-api/internal/infrastructure/monitoring/prometheus"
	"github.com/gemmology-dev/crystal-api/internal/render/svg"
	"github.com/gemmology-dev/crystal-api/pkg/errors"
)

// Service is the pipeline contract consumed by the HTTP handlers and the CLI.
type Service interface {
	// Validate parses the expression and returns the parse tree.
	Validate(ctx context.Context, cdlText string) (*cdl.ParseResult, error)

	// BuildMesh runs the full geometry pipeline and returns the final mesh
	// together with the parse tree it was built from.
	BuildMesh(ctx context.Context, cdlText string) (*geometry.Mesh, *cdl.ParseResult, error)

	// RenderSVG produces the SVG rendering for the given camera parameters.
	RenderSVG(ctx context.Context, cdlText string, p svg.Params) ([]byte, error)

	// ExportSTL produces ASCII STL scaled by the clamped export scale.
	ExportSTL(ctx context.Context, cdlText string, scale float64) ([]byte, error)

	// ExportGLTF produces a glTF 2.0 document scaled by the clamped export
	// scale.
	ExportGLTF(ctx context.Context, cdlText string, scale float64) ([]byte, error)
}

type service struct {
	log     logging.Logger
	metrics *prometheus.Metrics
	cache   cacheredis.Cache
}

// NewService wires the pipeline service.  cache may be the Nop cache;
// metrics may be nil in tests.
func NewService(log logging.Logger, metrics *prometheus.Metrics, cache cacheredis.Cache) Service {
	if cache == nil {
		cache = cacheredis.NewNop()
	}
	return &service{log: log, metrics: metrics, cache: cache}
}

func (s *service) Validate(ctx context.Context, cdlText string) (*cdl.ParseResult, error) {
	start := time.Now()
	parsed, err := cdl.Parse(cdlText)
	s.observe("parse", start, err)
	if err != nil {
		return nil, err
	}
	s.logWarnings(parsed)
	return parsed, nil
}

func (s *service) BuildMesh(ctx context.Context, cdlText string) (*geometry.Mesh, *cdl.ParseResult, error) {
	parsed, err := s.Validate(ctx, cdlText)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	hs := ExpandHalfspaces(parsed)
	s.observe("expand", start, nil)

	var mesh *geometry.Mesh
	start = time.Now()
	if parsed.Twin != nil {
		var warning string
		mesh, warning, err = twin.Compose(hs, parsed.Twin.Law)
		if warning != "" {
			s.log.Warn(warning, logging.String("law", parsed.Twin.Law))
		}
	} else {
		mesh, err = geometry.ComputeMesh(hs)
	}
	s.observe("mesh", start, err)
	if err != nil {
		if s.metrics != nil {
			s.metrics.PipelineErrorsTotal.WithLabelValues(errors.GetCode(err).String()).Inc()
		}
		return nil, nil, err
	}

	// Axial modifications apply to the final composite, twins included.
	modifier.ApplyToMesh(mesh, parsed.Modifications)

	if s.metrics != nil {
		s.metrics.MeshFaces.Observe(float64(len(mesh.Faces)))
	}
	return mesh, parsed, nil
}

func (s *service) RenderSVG(ctx context.Context, cdlText string, p svg.Params) ([]byte, error) {
	p = p.Clamped()
	key := cacheKey("render", cdlText, fmt.Sprintf("%g:%g:%d:%d", p.ElevDeg, p.AzimDeg, p.Width, p.Height))

	return s.cached(ctx, key, func(ctx context.Context) ([]byte, error) {
		mesh, _, err := s.BuildMesh(ctx, cdlText)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		out := svg.Encode(mesh, p)
		s.observe("encode", start, nil)
		return out, nil
	})
}

func (s *service) ExportSTL(ctx context.Context, cdlText string, scale float64) ([]byte, error) {
	scale = stl.ClampScale(scale)
	key := cacheKey("stl", cdlText, fmt.Sprintf("%g", scale))

	return s.cached(ctx, key, func(ctx context.Context) ([]byte, error) {
		mesh, _, err := s.BuildMesh(ctx, cdlText)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		out := stl.Encode(mesh, scale)
		s.observe("encode", start, nil)
		return out, nil
	})
}

func (s *service) ExportGLTF(ctx context.Context, cdlText string, scale float64) ([]byte, error) {
	scale = gltf.ClampScale(scale)
	key := cacheKey("gltf", cdlText, fmt.Sprintf("%g", scale))

	return s.cached(ctx, key, func(ctx context.Context) ([]byte, error) {
		mesh, _, err := s.BuildMesh(ctx, cdlText)
		if err != nil {
			return nil, err
		}
		start := time.Now()
		out, err := gltf.Encode(mesh, scale)
		s.observe("encode", start, err)
		return out, err
	})
}

// cached routes a computation through the artifact cache and records
// hit/miss metrics.
func (s *service) cached(ctx context.Context, key string, compute func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	out, hit, err := s.cache.GetOrCompute(ctx, key, compute)
	if s.metrics != nil && err == nil {
		if hit {
			s.metrics.CacheHitsTotal.Inc()
		} else {
			s.metrics.CacheMissesTotal.Inc()
		}
	}
	return out, err
}

// cacheKey derives a stable key from the artifact kind, the CDL text, and the
// encoder parameters.
func cacheKey(kind, cdlText, params string) string {
	sum := sha256.Sum256([]byte(cdlText + "\x00" + params))
	return kind + ":" + hex.EncodeToString(sum[:])
}

func (s *service) observe(stage string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.ObserveStage(stage, time.Since(start))
	}
	if err != nil {
		s.log.Debug("pipeline stage failed", logging.String("stage", stage), logging.Err(err))
	}
}

func (s *service) logWarnings(parsed *cdl.ParseResult) {
	for _, w := range parsed.Warnings {
		s.log.Warn(w,
			logging.String("system", string(parsed.System)),
			logging.String("point_group", parsed.PointGroup))
	}
}
