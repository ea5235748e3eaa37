package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RequestLogger tags every request with a uuid and logs method, path,
// status and latency.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := uuid.New().String()
		c.Set("request_id", reqID)

		start := time.Now()
		log.Printf("request id=%s %s %s from %s", reqID, c.Request.Method, c.Request.URL.Path, c.ClientIP())

		c.Next()

		log.Printf("response id=%s status=%d %s %s latency=%s",
			reqID, c.Writer.Status(), c.Request.Method, c.Request.URL.Path, time.Since(start))
	}
}

// SecurityHeaders adds standard security headers to every response.
func SecurityHeaders() gin.HandlerFunc {
	const csp = "default-src 'self' https://maps.googleapis.com https://maps.gstatic.com; " +
		"img-src 'self' data: blob: https://maps.googleapis.com https://maps.gstatic.com; " +
		"connect-src 'self' https://maps.googleapis.com"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", csp)
		c.Next()
	}
}

// CORS allows browser clients from the configured origins.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// APIKeyAuth is an authentication stub: it reads the X-API-Key header into
// the context but performs no verification yet.
func APIKeyAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader("X-API-Key"); key != "" {
			c.Set("api_key", key)
		}
		c.Next()
	}
}

// RateLimit enforces a fixed-window per-client limit backed by redis
// (INCR + EXPIRE). Without redis, or when redis errors, the limiter fails
// open so a cache outage never takes the API down with it.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())
		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			log.Printf("warning: rate limit check failed: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}
		if count > int64(limit) {
			log.Printf("rate limit exceeded for %s", c.ClientIP())
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
