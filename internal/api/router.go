package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lecture-insights-go/internal/logger"
)

// NewRouter sets up routes and global middleware.
func NewRouter(h *Handler, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log), cors())

	r.GET("/healthz", h.Health)

	v := r.Group("/api")
	v.POST("/upload", h.Upload)
	v.GET("/status/:job_id", h.Status)
	v.GET("/results/:job_id", h.Results)
	v.GET("/export/:job_id", h.Export)

	return r
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		entry := log.WithRequest(c.Request)
		c.Next()
		entry.WithField("status", c.Writer.Status()).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			Info("request handled")
	}
}

// The frontend is served from a different origin, so allow everything.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "*")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
