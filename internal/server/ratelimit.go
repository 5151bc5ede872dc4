package server

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/tartampluch/go-agecalc/internal/config"
	"golang.org/x/time/rate"
)

// rateLimiter keeps one token bucket per client address. Idle buckets expire
// from the LRU, which also caps how many addresses are tracked.
type rateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newRateLimiter(requestsPerMin int) *rateLimiter {
	burst := config.RateLimitBurst
	if requestsPerMin < burst {
		burst = requestsPerMin
	}
	return &rateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](config.RateLimitSources, nil, config.RateLimitTTL),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burst,
	}
}

func (rl *rateLimiter) allow(key string) bool {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}
	return limiter.Allow()
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !rl.allow(key) {
			slog.Warn(config.MsgRateLimited,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyRemote, key)
			writeError(w, http.StatusTooManyRequests, config.HTTPMsgRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey returns the caller address without port. RealIP may already have
// replaced RemoteAddr with a bare IP.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
