package server

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	RequestIDHeader = "X-Request-Id"

	ctxKeyLogger = "logger"
)

// requestID tags the request with the caller's X-Request-Id, or a new one,
// and stores a logger carrying it in the gin context.
func requestID(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Set(ctxKeyLogger, logger.With(zap.String("request_id", id)))
		c.Next()
	}
}

func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(ctxKeyLogger); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.NewNop()
}

// accessLog logs every request. Bodies carry customer names and emails, so
// they're only logged when logBodies is set.
func accessLog(logBodies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var body []byte
		if logBodies && c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if logBodies {
			fields = append(fields, zap.ByteString("body", body))
		}
		getLogger(c).Info("http request", fields...)
	}
}

// recovery turns a panic into a 500 envelope.
func recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				getLogger(c).Error("unhandled panic", zap.Any("error", err), zap.Stack("stack"))
				c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{Message: msgInternalError})
			}
		}()
		c.Next()
	}
}

// limiterIdleTTL is how long a client may stay silent before its limiter is
// dropped. After a full minute the bucket has refilled to its burst, so a
// fresh limiter behaves the same.
const limiterIdleTTL = time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiterStore struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	perMin    int
	lastSweep time.Time
}

func newRateLimiterStore(perMin int) *rateLimiterStore {
	return &rateLimiterStore{
		visitors: make(map[string]*visitor),
		perMin:   perMin,
	}
}

func (s *rateLimiterStore) allow(ip string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= limiterIdleTTL {
		s.sweep(now)
	}

	v, exists := s.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)}
		s.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// sweep drops idle visitors. Must be called with mu held.
func (s *rateLimiterStore) sweep(now time.Time) {
	for ip, v := range s.visitors {
		if now.Sub(v.lastSeen) >= limiterIdleTTL {
			delete(s.visitors, ip)
		}
	}
	s.lastSweep = now
}

// rateLimit allows perMin requests per minute per client IP.
func rateLimit(perMin int) gin.HandlerFunc {
	store := newRateLimiterStore(perMin)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.allow(ip, time.Now()) {
			getLogger(c).Warn("rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, Envelope{Message: msgRateLimited})
			return
		}
		c.Next()
	}
}
