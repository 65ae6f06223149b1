// API server entry point for crystal-api.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	appcrystal "github.com/gemmology-dev/crystal-api/internal/application/crystal"
	"github.com/gemmology-dev/crystal-api/internal/config"
	cacheredis "github.com/gemmology-dev/crystal-api/internal/infrastructure/cache/redis"
	"github.com/gemmology-dev/crystal-api/internal/infrastructure/monitoring/logging"
	"github.com/gemmology-dev/crystal-api/internal/infrastructure/monitoring/prometheus"
	storageminio "github.com/gemmology-dev/crystal-api/internal/infrastructure/storage/minio"
	httpserver "github.com/gemmology-dev/crystal-api/internal/interfaces/http"
	"github.com/gemmology-dev/crystal-api/internal/interfaces/http/handlers"
	"github.com/gemmology-dev/crystal-api/internal/interfaces/http/middleware"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: using default configuration: %v\n", err)
		cfg = config.NewDefaultConfig()
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	logger.Info("starting crystal-api server", logging.Int("port", cfg.Server.Port))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := prometheus.New()

	cache := cacheredis.NewNop()
	if cfg.Cache.Enabled {
		c, err := cacheredis.New(ctx, cfg.Cache.Redis, logger.Named("cache"))
		if err != nil {
			logger.Warn("redis unavailable, running without cache", logging.Err(err))
		} else {
			cache = c
		}
	}

	var store storageminio.Store
	if cfg.Storage.Enabled {
		s, err := storageminio.New(ctx, cfg.Storage.MinIO, logger.Named("storage"))
		if err != nil {
			logger.Warn("object store unavailable, exports will not be archived", logging.Err(err))
		} else {
			store = s
		}
	}

	svc := appcrystal.NewService(logger.Named("pipeline"), metrics, cache)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		})
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		CrystalHandler: handlers.NewCrystalHandler(svc, store, metrics, logger.Named("http")),
		HealthHandler:  handlers.NewHealthHandler(cache, store),
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
			MaxAgeSeconds:  cfg.CORS.MaxAgeSeconds,
		},
		RateLimiter: limiter,
		Metrics:     metrics,
		Logger:      logger.Named("http"),
		Mode:        cfg.Server.Mode,
	})

	srv := httpserver.NewServer(httpserver.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		MaxBodySize:     cfg.Server.MaxBodySize,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("http server error", logging.Err(err))
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", logging.Err(err))
	}
	logger.Info("server stopped")
}

// loadConfig attempts to load configuration from file, returning an error
// when the file is absent.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	return config.Load(path)
}
