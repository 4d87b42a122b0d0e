package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/submission-digest-api/internal/config"
	"github.com/submission-digest-api/internal/service"
	"github.com/submission-digest-api/pkg/logger"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	limit := rateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	requestTimeout := cfg.Upstream.Timeout + 5*time.Second

	// Handlers
	magazineHandler := NewMagazineHandler(services, requestTimeout, log)
	digestHandler := NewDigestHandler(services, requestTimeout, log)

	// Health check
	router.GET("/health", healthCheck(services))
	router.GET("/metrics", metricsHandler(services))

	// Path used by the existing web front end
	router.GET("/api/magazines", limit, magazineHandler.ListMagazines)

	// API v1
	v1 := router.Group("/v1", limit)
	{
		magazines := v1.Group("/magazines")
		{
			magazines.GET("", magazineHandler.ListMagazines)
			magazines.GET("/rejected", magazineHandler.ListRejected)
		}

		digests := v1.Group("/digests")
		{
			digests.GET("", digestHandler.DownloadDigest)
			digests.POST("", digestHandler.CreateDigest)
			digests.GET("/:digest_id", digestHandler.GetDigest)
			digests.GET("/:digest_id/download", digestHandler.DownloadArchived)
		}

		v1.GET("/archive", digestHandler.ListArchive)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   logger.ServiceName,
			"archive":   services.Archive != nil,
		})
	}
}

// metricsHandler returns pipeline and archive counters
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"digest":    services.Digest.Stats(),
			"timestamp": time.Now().Format(time.RFC3339),
		}

		if services.Archive != nil {
			count, err := services.Archive.Count(c.Request.Context())
			if err == nil {
				body["archive"] = gin.H{"digests": count}
			}
		}

		c.JSON(http.StatusOK, body)
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("request_id", c.GetString(requestIDKey)).
					Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
