// Package http provides the HTTP adapter of the closing dashboard.
// Handlers translate requests into application service calls.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// DefaultServerConfig listens on :8080 and allows the Vite dev origin
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		CORSOrigins:     []string{"http://localhost:5173"},
	}
}

// Server is the HTTP server adapter
type Server struct {
	config   ServerConfig
	router   *gin.Engine
	handlers *Handlers
	logger   Logger
}

// NewServer wires handlers, middleware and routes
func NewServer(config ServerConfig, deps Deps, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		handlers: NewHandlers(deps, logger),
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()
	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())

	if len(s.config.CORSOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:     s.config.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", ActorHeader},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
}

// requestLogger logs one line per request. The route template is logged
// instead of the raw path so report and task IDs group together.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"took_ms", time.Since(began).Milliseconds(),
		}
		if actor := c.GetHeader(ActorHeader); actor != "" {
			fields = append(fields, "actor", actor)
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			s.logger.Error("Request failed", fields...)
			return
		}
		s.logger.Info("Request served", fields...)
	}
}

func (s *Server) setupRoutes() {
	h := s.handlers

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)

		// Business units and report review
		api.GET("/business-units", h.ListBusinessUnits)
		api.GET("/business-units/summary", h.BusinessUnitSummary)
		api.GET("/business-units/:buId", h.GetBUDetails)
		api.GET("/business-units/:buId/reports", h.ListReports)
		api.GET("/business-units/:buId/reports/:reportId", h.GetReport)
		api.POST("/business-units/:buId/reports/:reportId/approve", h.ApproveReport)
		api.POST("/business-units/:buId/reports/:reportId/reject", h.RejectReport)
		api.GET("/validation-messages", h.ValidationMessages)

		// BU tasks
		api.GET("/tasks", h.ListTasks)
		api.GET("/tasks/summary", h.TaskSummary)
		api.GET("/tasks/export.xlsx", h.ExportTasks)
		api.POST("/tasks/:index/confirm", h.ConfirmTask)
		api.GET("/operations/:id", h.GetOperation)

		// Consolidation
		api.GET("/consolidated", h.ListConsolidated)
		api.GET("/consolidated/:id", h.GetConsolidated)
		api.GET("/consolidated/:id/export.xlsx", h.ExportConsolidated)

		// Management and assistant
		api.GET("/management/overview", h.ManagementOverview)
		api.POST("/chat", h.Chat)
		api.GET("/chat/suggestions", h.ChatSuggestions)

		// Audit trail and session
		api.GET("/history", h.RecentHistory)
		api.GET("/history/:kind/:id", h.History)
		api.POST("/session/reset", h.ResetSession)
	}
}

// Start listens on the configured address and serves until ctx is done
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Address())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Address(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then drains open
// requests for at most ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.logger.Info("Dashboard API listening", "address", ln.Addr().String())

	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.logger.Error("Dashboard API stopped unexpectedly", "error", err)
		return err
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("Dashboard API drained")
	return nil
}

// Router exposes the engine to httptest
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address is host:port
func (s *Server) Address() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}
