package http

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// CORSMiddleware handles CORS for the web client
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Check if origin is allowed
		if isAllowedOrigin(origin, allowedOrigins) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, X-Request-ID")
			c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
			c.Writer.Header().Set("Access-Control-Max-Age", "3600")
		}

		// Handle preflight requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// isAllowedOrigin checks if the origin is in the allowed list
func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range allowedOrigins {
		// A trailing wildcard matches any origin with that prefix
		if strings.HasSuffix(allowed, "*") {
			prefix := strings.TrimSuffix(allowed, "*")
			if strings.HasPrefix(origin, prefix) {
				return true
			}
		} else if origin == allowed {
			return true
		}
	}
	return false
}

// RequestIDMiddleware propagates the caller's X-Request-ID or assigns a new one
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}

// requestID returns the id assigned by RequestIDMiddleware
func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// LoggerMiddleware writes one structured access log line per request
func LoggerMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("rid", requestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", c.Writer.Status()).
			Dur("dur", time.Since(start)).
			Int("size", c.Writer.Size()).
			Str("ip", c.ClientIP()).
			Msg("http")
	}
}

// RecoveryMiddleware recovers from panics and answers with a JSON 500
func RecoveryMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec interface{}) {
		logger.Error().
			Str("rid", requestID(c)).
			Interface("panic", rec).
			Bytes("stack", debug.Stack()).
			Msg("panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, newErrorResponse(codeInternal, "Internal server error", nil))
	})
}

// HTTPMetrics receives per-request telemetry
type HTTPMetrics interface {
	ObserveHTTPRequest(route string, code int)
}

// MetricsMiddleware counts requests by matched route and status code
func MetricsMiddleware(metrics HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(route, c.Writer.Status())
	}
}

// visitor is the token bucket of one client IP
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter hands out one limiter per client IP and forgets idle clients
type ipRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idleAfter time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newIPRateLimiter(perMinute int) *ipRateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &ipRateLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     perMinute,
		idleAfter: 3 * time.Minute,
		now:       time.Now,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.idleAfter {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.idleAfter {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// RateLimitMiddleware allows perMinute requests per client IP and answers 429 beyond that
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	limiter := newIPRateLimiter(perMinute)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.Header("Retry-After", strconv.Itoa(int(time.Minute.Seconds())/max(perMinute, 1)+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				newErrorResponse(codeRateLimited, "Too many requests, please try again later", nil))
			return
		}
		c.Next()
	}
}
