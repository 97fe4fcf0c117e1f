package chi

import (
	"net"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/philodex/internal/domain"
)

// ClientLimiter throttles requests per client IP.
// Idle client limiters are evicted after the configured TTL.
type ClientLimiter struct {
	limiters *gocache.Cache
	rate     rate.Limit
	burst    int
	ttl      time.Duration
}

// NewClientLimiter creates a limiter allowing perSecond requests with the given burst per client.
func NewClientLimiter(perSecond float64, burst int, idleTTL time.Duration) *ClientLimiter {
	if burst <= 0 {
		burst = 5
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &ClientLimiter{
		limiters: gocache.New(idleTTL, idleTTL),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		ttl:      idleTTL,
	}
}

// Allow reports whether the client may proceed now.
func (l *ClientLimiter) Allow(client string) bool {
	return l.limiter(client).Allow()
}

func (l *ClientLimiter) limiter(client string) *rate.Limiter {
	if v, ok := l.limiters.Get(client); ok {
		l.limiters.Set(client, v, l.ttl)
		return v.(*rate.Limiter)
	}

	lim := rate.NewLimiter(l.rate, l.burst)
	if err := l.limiters.Add(client, lim, l.ttl); err != nil {
		// Lost the race to another request from the same client.
		if v, ok := l.limiters.Get(client); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

// Middleware rejects requests over the client's limit with 429.
func (l *ClientLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, ErrorCodeRateLimited, domain.ErrRateLimited.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the host part of RemoteAddr. chi's RealIP middleware rewrites
// RemoteAddr from proxy headers when it runs first.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
