package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockplot/internal/domain/dto"
	"github.com/guttosm/stockplot/internal/logger"
)

// RequestLogger is a Gin middleware that logs method, path, status code,
// request latency, and request ID (if available).
//
// Behavior:
//   - Captures start time before request handling.
//   - After request is processed, calculates latency.
//   - Logs through logger.WithRequest so the line carries request_id.
//   - 5xx responses are logged at error level, 4xx at warn, the rest at info.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RequestLogger())
//
// Example log output:
//
//	{"level":"info","request_id":"123e4567-...","method":"POST","path":"/results","status":303,"latency_ms":412,"message":"http_request"}
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log := logger.WithRequest(GetRequestID(c))
		ev := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		}

		ev.Str("method", method).
			Str("path", path).
			Int("status", status).
			Int64("latency_ms", latency.Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("http_request")
	}
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// client represents a rate-limited client with request count and window start.
type client struct {
	windowStart time.Time
	count       int
}

// ipLimiter is an in-memory fixed-window counter keyed by client IP.
// State is per process; multi-instance deployments need a shared store.
type ipLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
	now     func() time.Time
}

func (l *ipLimiter) allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[ip]
	if !ok || now.Sub(cl.windowStart) > l.window {
		l.clients[ip] = &client{windowStart: now, count: 1}
		l.sweep(now)
		return true
	}
	cl.count++
	return cl.count <= l.limit
}

// sweep drops clients whose window ended. Called with mu held.
func (l *ipLimiter) sweep(now time.Time) {
	for ip, cl := range l.clients {
		if now.Sub(cl.windowStart) > l.window {
			delete(l.clients, ip)
		}
	}
}

// RateLimit is a per-client-IP request budget that can guard several
// route groups at once. Each guarded route answers an exhausted budget in
// its own way (JSON 429 for the API, a flash redirect for the HTML form).
type RateLimit struct {
	l *ipLimiter
}

// NewRateLimit allows up to limit requests per window for each client IP.
// A limit <= 0 disables limiting.
func NewRateLimit(limit int, window time.Duration) *RateLimit {
	if limit <= 0 {
		return &RateLimit{}
	}
	return &RateLimit{l: &ipLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}}
}

// Handler returns a middleware that spends from the budget and calls onLimit
// when it is exhausted. The chain is aborted after onLimit returns.
func (r *RateLimit) Handler(onLimit gin.HandlerFunc) gin.HandlerFunc {
	if r.l == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if !r.l.allow(c.ClientIP()) {
			onLimit(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RejectJSON answers an exhausted budget with 429 and a dto.ErrorResponse.
func RejectJSON(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
}

// RateLimiter is a simple in-memory middleware that limits the number of requests per client IP.
//
// Behavior:
//   - Allows up to limit requests per window for each client IP.
//   - A limit <= 0 disables limiting.
//   - If the limit is exceeded, responds 429 Too Many Requests with a dto.ErrorResponse.
//
// Usage:
//
//	v1 := router.Group("/api/v1", middleware.RateLimiter(cfg.Server.RateLimitPerMinute, time.Minute))
//
// Response when limit exceeded:
//
//	HTTP/1.1 429 Too Many Requests
//	{
//	    "message": "rate limit exceeded",
//	    "timestamp": "..."
//	}
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return NewRateLimit(limit, window).Handler(RejectJSON)
}
