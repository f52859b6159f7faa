package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumegen/internal/config"
	"resumegen/internal/observability"
)

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully
func (s *Server) Start(ctx context.Context) error {
	om, err := s.initializeObservability()
	if err != nil {
		return err
	}
	defer s.shutdownObservability(om)

	if s.deps.Instrument != nil {
		s.deps.Instrument(om.GetMetrics())
	}
	if s.deps.Orchestrator != nil {
		if err := om.RegisterSessionGauge(s.deps.Orchestrator.Store().Len); err != nil {
			return err
		}
	}

	httpServer := s.setupHTTPServer(om)
	if err := s.configureTLS(httpServer); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.startBackgroundTasks(ctx)

	s.displayServerInfo()

	return s.startWithGracefulShutdown(ctx, httpServer)
}

// initializeObservability sets up observability components
func (s *Server) initializeObservability() (*observability.ObservabilityManager, error) {
	om, err := observability.NewObservabilityManager(
		observability.GetObservabilityConfig(s.AppConfig, s.Version), s.AppConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return om, nil
}

// shutdownObservability handles observability cleanup
func (s *Server) shutdownObservability(om *observability.ObservabilityManager) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown observability")
	}
}

func (s *Server) setupHTTPServer(om *observability.ObservabilityManager) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:           s.Handler(om),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.ReadTimeout,
		WriteTimeout:      s.WriteTimeout,
		IdleTimeout:       s.IdleTimeout,
	}
}

// startBackgroundTasks runs the session janitor and the prompt watcher
// until ctx is done
func (s *Server) startBackgroundTasks(ctx context.Context) {
	if s.deps.Orchestrator != nil && s.AppConfig != nil {
		go s.deps.Orchestrator.Store().RunJanitor(ctx, s.AppConfig.Pipeline.CleanupInterval)
	}

	if s.AppConfig == nil || !s.AppConfig.App.WatchPrompts {
		return
	}
	watcher, err := config.NewPromptWatcher(s.AppConfig, s.Logger)
	if err != nil {
		s.Logger.LogError(err, "Prompt hot reload disabled")
		return
	}
	if watcher == nil {
		return
	}
	go func() {
		watcher.Run(ctx)
		if err := watcher.Close(); err != nil {
			s.Logger.LogError(err, "Failed to close prompt watcher")
		}
	}()
	s.Logger.Info("Watching prompt files for changes")
}

// startWithGracefulShutdown serves until ctx is done or the listener fails
func (s *Server) startWithGracefulShutdown(ctx context.Context, server *http.Server) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.Logger.Info("Starting HTTP server",
			"address", server.Addr,
			"tls_enabled", server.TLSConfig != nil)

		var err error
		if server.TLSConfig != nil {
			// certificates are already loaded into TLSConfig
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.Logger.Info("Received shutdown signal, starting graceful shutdown")
		return s.performGracefulShutdown(server)
	}
}

func (s *Server) performGracefulShutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.RateLimiter != nil {
		s.RateLimiter.Close()
	}

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}
