// Package api exposes the analysis engine over a REST boundary
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/arionlabs/arion/internal/config"
	"github.com/arionlabs/arion/internal/forecast"
	"github.com/arionlabs/arion/internal/metrics"
	"github.com/arionlabs/arion/internal/orchestrator"
)

// Server is the REST API server around the cycle orchestrator
type Server struct {
	router       *gin.Engine
	orchestrator *orchestrator.CycleOrchestrator
	model        forecast.PredictiveModel
	cfg          config.APIConfig
	server       *http.Server
	limiter      *rate.Limiter
}

// NewServer creates a new API server. model is the predictive model injected
// into every cycle this server runs.
func NewServer(cfg config.APIConfig, orch *orchestrator.CycleOrchestrator, model forecast.PredictiveModel) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	s := &Server{
		router:       router,
		orchestrator: orch,
		model:        model,
		cfg:          cfg,
		limiter:      rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
	}
	s.setupRoutes()
	return s
}

// Start starts the HTTP server and blocks until shutdown
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.GetAPIAddr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("addr", s.cfg.GetAPIAddr()).Msg("Starting API server")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	log.Info().Msg("Stopping API server")

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
	}
	return nil
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	v1.Use(s.rateLimitMiddleware())
	{
		v1.POST("/analyze", s.handleAnalyze)
		v1.POST("/shock", s.handleShock)
	}
}

// rateLimitMiddleware bounds analysis requests; cycles are CPU work the
// caller should not be able to stack up.
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// LoggerMiddleware logs each request through zerolog and records the HTTP
// request metrics.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		metrics.HTTPRequests.WithLabelValues(path, fmt.Sprintf("%d", status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(path).Observe(latency.Seconds())

		logEvent := log.Info()
		if status >= http.StatusInternalServerError {
			logEvent = log.Error()
		} else if status >= http.StatusBadRequest {
			logEvent = log.Warn()
		}
		logEvent.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("Request processed")
	}
}
