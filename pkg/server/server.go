// Package server provides the HTTP server lifecycle for docsum.
// It wraps a gin engine in an http.Server with graceful shutdown on
// SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	httpopts "github.com/kart-io/docsum/pkg/options/http"
)

// Server is an HTTP server backed by a gin engine.
type Server struct {
	engine          *gin.Engine
	server          *http.Server
	opts            *httpopts.Options
	shutdownTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithShutdownTimeout sets the graceful shutdown timeout.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

// WithMode sets the gin mode (debug, release, test).
func WithMode(mode string) Option {
	return func(s *Server) {
		if mode != "" {
			gin.SetMode(mode)
		}
	}
}

// New creates a new Server from HTTP options.
func New(opts *httpopts.Options, options ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		opts:            opts,
		shutdownTimeout: 10 * time.Second,
	}

	for _, opt := range options {
		opt(s)
	}

	s.engine = gin.New()

	return s
}

// Engine returns the underlying gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Use registers gin middlewares on the engine.
func (s *Server) Use(middleware ...gin.HandlerFunc) {
	s.engine.Use(middleware...)
}

// Run starts the server and blocks until a termination signal arrives or
// the listener fails. Shutdown waits for in-flight requests up to the
// configured shutdown timeout.
func (s *Server) Run() error {
	s.server = &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", s.opts.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		logger.Infow("Shutting down server...", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("Server exited")
	return nil
}

// Stop stops the server gracefully. Safe to call before Run.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
