package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/patient-analysis-server/internal/domain"
)

// requestIDMiddleware attaches a unique request ID to each request, reusing
// the caller's X-Request-ID when present.
func requestIDMiddleware(ids domain.IDGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = ids.NewID()
		}
		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

// timingWriter injects the X-Process-Time header just before the response is
// committed. Headers set after the handler has written the body are dropped,
// so the elapsed time has to be attached at write time.
type timingWriter struct {
	gin.ResponseWriter
	start time.Time
}

func (w *timingWriter) WriteHeader(code int) {
	w.setProcessTime()
	w.ResponseWriter.WriteHeader(code)
}

func (w *timingWriter) Write(b []byte) (int, error) {
	w.setProcessTime()
	return w.ResponseWriter.Write(b)
}

func (w *timingWriter) WriteString(s string) (int, error) {
	w.setProcessTime()
	return w.ResponseWriter.WriteString(s)
}

func (w *timingWriter) setProcessTime() {
	if !w.Written() {
		w.Header().Set("X-Process-Time", fmt.Sprintf("%.3fs", time.Since(w.start).Seconds()))
	}
}

// requestLoggingMiddleware logs each request with its ID, status and timing,
// and exposes the processing time as a response header.
func requestLoggingMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Writer = &timingWriter{ResponseWriter: c.Writer, start: start}

		logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"client_ip":  c.ClientIP(),
		}).Info("Request received")

		c.Next()

		logger.WithFields(logrus.Fields{
			"request_id":      c.GetString("request_id"),
			"status_code":     c.Writer.Status(),
			"process_time_ms": time.Since(start).Milliseconds(),
		}).Info("Request processed")
	}
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := "*"
	if len(origins) > 0 {
		allowed = strings.Join(origins, ", ")
	}

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowed)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Request-ID, X-Process-Time")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// rateLimitMiddleware rejects requests beyond the configured rate with 429.
func rateLimitMiddleware(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      domain.ErrCodeRateLimit,
				"message":    "rate limit exceeded",
				"request_id": c.GetString("request_id"),
			})
			return
		}
		c.Next()
	}
}
