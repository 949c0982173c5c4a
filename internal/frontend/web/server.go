// Package web serves the route planner over HTTP: an HTML form for people and
// a small JSON API for tools.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cory-johannsen/zoneroute/internal/config"
	"github.com/cory-johannsen/zoneroute/internal/travel/lookup"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 5 * time.Second

// Server is the HTTP front end. It implements the lifecycle Service interface.
type Server struct {
	cfg      config.WebConfig
	planner  *lookup.Planner
	gatherer prometheus.Gatherer
	logger   *zap.Logger
	engine   *gin.Engine

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	ready      chan struct{}
	stopped    bool
}

// NewServer creates the web front end.
//
// Precondition: planner and logger must be non-nil. gatherer may be nil, in
// which case /metrics is not served.
// Postcondition: Returns a Server ready to be started with Start.
func NewServer(cfg config.WebConfig, planner *lookup.Planner, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		planner:  planner,
		gatherer: gatherer,
		logger:   logger,
		ready:    make(chan struct{}),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))
	router.SetHTMLTemplate(template.Must(template.New("index").Parse(indexTemplate)))

	h := &handlers{planner: s.planner, logger: s.logger}
	router.GET("/", h.index)
	router.POST("/", h.submit)

	api := router.Group("/api")
	api.GET("/route", h.apiRoute)
	api.GET("/zones", h.apiZones)

	router.GET("/healthz", h.health)
	if s.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
	return router
}

// Start listens on the configured address and serves until Stop is called.
//
// Postcondition: Returns nil after a graceful Stop, or the listen/serve error.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	listener, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr(), err)
	}
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}
	s.listener = listener
	s.httpServer = srv
	close(s.ready)
	s.mu.Unlock()

	s.logger.Info("web server listening", zap.String("addr", listener.Addr().String()))

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// Stop gracefully shuts the server down. It is safe to call more than once.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	if s.httpServer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warn("web server shutdown", zap.Error(err))
	}
	s.logger.Info("web server stopped")
}

// requestLogger logs one line per request with zap.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
