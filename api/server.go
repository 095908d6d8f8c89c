package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"verisight/scan"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Server runs the HTTP listener and the session janitor
type Server struct {
	manager    *scan.Manager
	httpServer *http.Server
	logger     *zap.Logger
	cron       *cron.Cron
	cronID     cron.EntryID
	mu         sync.Mutex
	errs       chan error
}

// NewServer wraps handler in an http.Server listening on addr
func NewServer(handler http.Handler, manager *scan.Manager, addr string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		manager: manager,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
		cron:   cron.New(),
		errs:   make(chan error, 1),
	}
}

// Start binds the listener and serves in the background.
// Errors after startup are reported on Errors.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	s.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
		close(s.errs)
	}()
	return nil
}

// Errors delivers a fatal serve error, or closes when the server stops
func (s *Server) Errors() <-chan error {
	return s.errs
}

// StartCron schedules the janitor that purges expired sessions
func (s *Server) StartCron(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(schedule, s.purge)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cronID = id
	s.cron.Start()
	s.logger.Info("session janitor scheduled", zap.String("schedule", schedule))
	return nil
}

func (s *Server) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.manager.PurgeExpired(ctx, time.Now())
	if err != nil {
		s.logger.Warn("session janitor failed", zap.Error(err))
		return
	}
	s.logger.Debug("session janitor ran", zap.Int("purged", n))
}

// Shutdown stops the janitor, drains HTTP connections and waits for pending scans
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		s.manager.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
