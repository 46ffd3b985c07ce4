package middleware

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fastygo/storefront/api/transport"
)

const codeRateLimited = "RATE_LIMITED"

// RateLimiter keeps one token bucket per client address. Buckets idle for
// longer than the refill of a full burst are dropped.
type RateLimiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu      sync.Mutex
	clients map[string]*visitor
	swept   time.Time
}

type visitor struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewRateLimiter allows burst requests per client, refilled at perMinute.
// A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &RateLimiter{
		burst:   burst,
		now:     time.Now,
		clients: make(map[string]*visitor),
	}
	if perMinute > 0 {
		l.limit = rate.Limit(float64(perMinute) / 60)
		l.idle = time.Duration(burst) * time.Minute / time.Duration(perMinute)
	}
	return l
}

// Allow consumes one token for key and reports whether the request may pass.
func (l *RateLimiter) Allow(key string) bool {
	if l.limit == 0 {
		return true
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)
	v, ok := l.clients[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = v
	}
	v.seen = now
	return v.limiter.AllowN(now, 1)
}

// RetryAfter is the wait until one token is available again.
func (l *RateLimiter) RetryAfter() time.Duration {
	if l.limit == 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(l.limit))
}

func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.swept) < l.idle {
		return
	}
	l.swept = now
	for key, v := range l.clients {
		if now.Sub(v.seen) >= l.idle {
			delete(l.clients, key)
		}
	}
}

// Middleware rejects requests over the limit with 429, keyed by client IP.
func (l *RateLimiter) Middleware(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ip := ctx.RemoteIP().String()
			if l.Allow(ip) {
				next(ctx)
				return
			}
			logger.Warn("rate limit exceeded", zap.String("ip", ip), zap.ByteString("path", ctx.Path()))
			retry := int(l.RetryAfter().Round(time.Second) / time.Second)
			if retry < 1 {
				retry = 1
			}
			ctx.Response.Header.Set("Retry-After", strconv.Itoa(retry))
			ctx.Response.Header.SetContentType("application/json")
			ctx.SetStatusCode(fasthttp.StatusTooManyRequests)
			body, _ := json.Marshal(transport.NewError(codeRateLimited, "too many requests, try again later", nil))
			ctx.SetBody(body)
		}
	}
}
