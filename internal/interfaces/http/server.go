package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gemmology-dev/crystal-api/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds the HTTP server tunables.
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxBodySize     int64
	ShutdownTimeout time.Duration
}

// Server wraps http.Server with graceful shutdown.
type Server struct {
	srv             *http.Server
	log             logging.Logger
	shutdownTimeout time.Duration
}

// NewServer builds the Server around the assembled router.  Request bodies
// are capped at MaxBodySize before reaching any handler.
func NewServer(cfg ServerConfig, router *gin.Engine, log logging.Logger) *Server {
	handler := http.Handler(router)
	if cfg.MaxBodySize > 0 {
		handler = limitBody(handler, cfg.MaxBodySize)
	}
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		log:             log,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// limitBody wraps the handler so every request body reads at most max bytes.
func limitBody(next http.Handler, max int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, max)
		}
		next.ServeHTTP(w, r)
	})
}

// Start begins serving and blocks until the listener stops.  A closed-server
// error is not reported.
func (s *Server) Start() error {
	s.log.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	timeout := s.shutdownTimeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
