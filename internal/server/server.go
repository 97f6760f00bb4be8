package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ssdpmon/internal/capture"
	"github.com/muurk/ssdpmon/internal/discovery"
	"github.com/muurk/ssdpmon/internal/logging"
	"github.com/muurk/ssdpmon/internal/notify"
	"github.com/muurk/ssdpmon/internal/tracker"
)

// DefaultSweepInterval is how often expired announcements are removed.
const DefaultSweepInterval = 5 * time.Second

// Config holds the server configuration
type Config struct {
	Addr          string // HTTP listen address, e.g. ":8900"
	LogLevel      string
	CaptureDir    string // Directory for raw datagram captures (empty = disabled)
	SweepInterval time.Duration
	Listener      discovery.Options
}

// Server runs a discovery listener and publishes what it sees over HTTP and
// WebSocket.
type Server struct {
	config   *Config
	tracker  *tracker.Tracker
	hub      *Hub
	http     *http.Server
	listener *discovery.Listener
	capture  *capture.Writer
	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = DefaultSweepInterval
	}

	s := &Server{
		config:  config,
		tracker: tracker.New(),
		hub:     NewHub(),
		stop:    make(chan struct{}),
	}
	s.http = &http.Server{
		Addr:              config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Tracker exposes the server's announcement table.
func (s *Server) Tracker() *tracker.Tracker {
	return s.tracker
}

// Start starts the discovery listener and the HTTP server, and blocks until
// ctx is cancelled or the HTTP server fails.
func (s *Server) Start(ctx context.Context) error {
	logging.Info("Starting ssdpmon live feed server",
		zap.String("addr", s.config.Addr),
		zap.String("log_level", s.config.LogLevel),
	)

	opts := s.config.Listener
	if s.config.CaptureDir != "" {
		w, _, err := capture.Create(s.config.CaptureDir)
		if err != nil {
			return err
		}
		s.capture = w
		opts.OnDatagram = w.Datagram
	}

	listener, err := discovery.New(s.HandleMessage, opts)
	if err != nil {
		s.closeCapture()
		return fmt.Errorf("failed to start discovery listener: %w", err)
	}
	s.listener = listener

	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		listener.Stop()
		s.closeCapture()
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	logging.Info("Server listening for connections", zap.String("addr", ln.Addr().String()))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sweepLoop()
	}()

	errChan := make(chan error, 1)
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown requested, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		_ = s.Shutdown(context.Background())
		return err
	}
}

// HandleMessage applies a parsed notification to the tracker and broadcasts
// the resulting change to every feed client.
func (s *Server) HandleMessage(msg notify.Message) {
	change, ok := s.tracker.Apply(msg)
	if !ok {
		logging.Debug("Notification did not change the table", zap.String("usn", msg.USN()))
		return
	}
	s.hub.Broadcast(NewEvent(change))
}

func (s *Server) sweepLoop() {
	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			for _, change := range s.tracker.Sweep(now) {
				logging.Info("Announcement expired", zap.String("usn", change.Entry.USN))
				s.hub.Broadcast(NewEvent(change))
			}
		}
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.stopOnce.Do(func() { close(s.stop) })

	if s.listener != nil {
		s.listener.Stop()
	}

	err := s.http.Shutdown(ctx)
	if err != nil {
		logging.Error("Error shutting down HTTP server", zap.Error(err))
	}
	s.hub.CloseAll()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	s.closeCapture()
	logging.Sync()

	return err
}

func (s *Server) closeCapture() {
	if s.capture == nil {
		return
	}
	if err := s.capture.Close(); err != nil {
		logging.Error("Failed to close capture file", zap.Error(err))
	}
}

// GetActiveConnections returns the number of connected feed clients
func (s *Server) GetActiveConnections() int {
	return s.hub.Count()
}
