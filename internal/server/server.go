// Package server exposes the command engine over a websocket endpoint.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	mdwlog "github.com/msto63/textomat/foundation/core/log"
	"github.com/msto63/textomat/foundation/dsl"
	"github.com/msto63/textomat/pkg/core/health"
	"github.com/msto63/textomat/pkg/core/version"
)

// Server is the websocket endpoint server
type Server struct {
	httpServer *http.Server
	engine     *dsl.Engine
	health     *health.Registry
	logger     *mdwlog.Logger
	config     Config

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	AllowedOrigins []string
	// MaxSessions degrades the health report above this many open
	// sessions; zero means no limit
	MaxSessions int64
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           8765,
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 1 << 20,
	}
}

// New creates a new server running commands on engine
func New(cfg Config, engine *dsl.Engine, logger *mdwlog.Logger) (*Server, error) {
	if engine == nil {
		return nil, mdwerror.New("server needs an engine").WithCode(mdwerror.CodeInvalidConfig)
	}
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	def := DefaultConfig()
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = def.MaxMessageSize
	}

	s := &Server{
		engine: engine,
		logger: logger.WithField("component", "server"),
		config: cfg,
		conns:  make(map[*websocket.Conn]struct{}),
	}

	// Create health registry
	s.health = health.NewRegistry("textomat", version.Protocol)
	s.health.Register(health.FuncCheck("engine", s.checkEngine))
	s.health.Register(health.GaugeCheck("sessions", s.sessionCount, cfg.MaxSessions))

	mux := http.NewServeMux()
	mux.Handle("/ws", newWebSocketHandler(s))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/version", s.handleVersion)

	s.httpServer = &http.Server{
		Addr:              s.Address(),
		Handler:           loggingMiddleware(s.logger, mux),
		ReadHeaderTimeout: cfg.ReadTimeout,
	}
	return s, nil
}

// checkEngine runs a fixed command through a fresh session
func (s *Server) checkEngine(ctx context.Context) error {
	res, err := s.engine.Process(s.engine.NewSession(), "a,b\n1,2", "h;t:i", dsl.TriggerRun)
	if err != nil {
		return err
	}
	if res.Output == "" {
		return errors.New("engine produced no output")
	}
	return nil
}

func (s *Server) sessionCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.conns))
}

// track registers or forgets an open connection
func (s *Server) track(conn *websocket.Conn, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

// handleHealth answers "ok" while every check is healthy. With ?verbose
// the full report is returned as JSON.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.CheckWithTimeout(5 * time.Second)
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}

	if _, verbose := r.URL.Query()["verbose"]; verbose {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(report)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if report.Healthy() {
		fmt.Fprint(w, "ok")
		return
	}
	fmt.Fprint(w, report.Status)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"app":      version.App,
		"grammar":  version.Grammar,
		"protocol": version.Protocol,
	})
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *mdwlog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Debug("HTTP request", mdwlog.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   wrapper.statusCode,
			"duration": time.Since(start).String(),
		})
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade take over the connection
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("Starting websocket endpoint", mdwlog.Fields{
		"host": s.config.Host,
		"port": s.config.Port,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return mdwerror.Wrap(err, "server failed").WithCode(mdwerror.CodeIO)
	}
	return nil
}

// Stop gracefully stops the server and closes open websocket connections
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping websocket endpoint")

	s.mu.Lock()
	for conn := range s.conns {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
	}
	s.mu.Unlock()

	return s.httpServer.Shutdown(ctx)
}

// Address returns the server address
func (s *Server) Address() string {
	return net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
}
