package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/molehole/internal/discovery"
	"github.com/muurk/molehole/internal/logging"
)

// DefaultShutdownTimeout bounds a graceful shutdown
const DefaultShutdownTimeout = 10 * time.Second

// Runner executes one discovery run. *discovery.Engine satisfies it.
type Runner interface {
	Run(ctx context.Context, source string, timeoutSeconds float64) discovery.Result
}

// Config holds the server configuration
type Config struct {
	Host string
	Port int

	// DefaultTimeout is the LAN window in seconds for requests that omit one
	DefaultTimeout float64

	ShutdownTimeout time.Duration
}

// Addr returns the host:port listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Server answers discovery requests over HTTP and WebSocket
type Server struct {
	config     *Config
	runner     Runner
	router     *gin.Engine
	httpServer *http.Server
	upgrader   websocket.Upgrader

	// baseCtx is the parent of every run; cancelled on shutdown
	baseCtx    context.Context
	cancelRuns context.CancelFunc

	wg          sync.WaitGroup
	mu          sync.Mutex
	activeConns map[string]*websocket.Conn
}

// New creates a new Server instance
func New(config *Config, runner Runner) (*Server, error) {
	if config == nil {
		return nil, errors.New("server config is required")
	}
	if runner == nil {
		return nil, errors.New("discovery runner is required")
	}
	if config.Port < 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", config.Port)
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultShutdownTimeout
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:      config,
		runner:      runner,
		baseCtx:     baseCtx,
		cancelRuns:  cancel,
		activeConns: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.router = s.newRouter()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves until ctx is
// cancelled or SIGINT/SIGTERM arrives.
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled or a shutdown
// signal arrives, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logging.Info("Server listening for connections",
		zap.String("addr", ln.Addr().String()),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown signal received, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown stops accepting requests, aborts in-flight runs and closes
// every WebSocket connection.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.cancelRuns()

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		logging.Error("Error stopping HTTP server", zap.Error(err))
	}

	// Hijacked connections are not tracked by http.Server
	s.mu.Lock()
	for addr, conn := range s.activeConns {
		logging.Info("Closing active connection", zap.String("remote_addr", addr))
		_ = conn.Close()
	}
	s.mu.Unlock()

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

	logging.Sync()

	if errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// GetActiveConnections returns the number of open WebSocket connections
func (s *Server) GetActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}

func (s *Server) track(remoteAddr string, conn *websocket.Conn) {
	s.mu.Lock()
	s.activeConns[remoteAddr] = conn
	s.mu.Unlock()
}

func (s *Server) untrack(remoteAddr string) {
	s.mu.Lock()
	delete(s.activeConns, remoteAddr)
	s.mu.Unlock()
}
