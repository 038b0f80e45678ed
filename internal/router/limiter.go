package router

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/httpx"
)

// limiterIdle is how long an address may stay quiet before its bucket is dropped.
const limiterIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter is a per-client-IP token bucket for the login endpoint.
type LoginLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
	logger   *zap.SugaredLogger
}

// NewLoginLimiter allows perMinute attempts per address, with the full
// minute's worth available as burst.
func NewLoginLimiter(perMinute int, logger *zap.SugaredLogger) *LoginLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &LoginLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		now:      time.Now,
		logger:   logger,
	}
}

// Allow consumes one token for addr.
func (l *LoginLimiter) Allow(addr string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.visitors[addr]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[addr] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Sweep drops buckets idle for longer than limiterIdle.
func (l *LoginLimiter) Sweep() int {
	cutoff := l.now().Add(-limiterIdle)
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for addr, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, addr)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until done is closed.
func (l *LoginLimiter) Run(done <-chan struct{}) {
	t := time.NewTicker(limiterIdle)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			if n := l.Sweep(); n > 0 {
				l.logger.Debugw("login limiter swept", "removed", n)
			}
		}
	}
}

// Middleware answers 429 once an address runs out of tokens.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := clientIP(r)
		if !l.Allow(addr) {
			l.logger.Warnw("login throttled", "remote", addr, "request_id", RequestID(r.Context()))
			w.Header().Set("Retry-After", "60")
			httpx.Fail(w, http.StatusTooManyRequests, "too many login attempts")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP uses the connection address. Forwarded headers are not trusted
// here; put the server behind a proxy that rewrites RemoteAddr if needed.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
