package middleware

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/relayhttp/relay/pkg/relay"
)

// RateLimitConfig configures the per-client rate limiter.
type RateLimitConfig struct {
	// Rate is the sustained request rate per key, in requests per second.
	// Default: 10.
	Rate rate.Limit

	// Burst is the burst size per key.
	// Default: 20.
	Burst int

	// KeyFunc derives the limiter key from the request.
	// Default: the client IP (falling back to a single shared bucket when
	// the transport supplied none).
	KeyFunc func(ctx *relay.Context) string
}

// RateLimit creates middleware that rejects requests over the per-key rate
// with 429 Too Many Requests. Limiter state lives in memory for the
// lifetime of the middleware; keys are never evicted, so use a bounded key
// space (client IPs behind sane proxies are fine).
func RateLimit(config RateLimitConfig) relay.Handler {
	if config.Rate == 0 {
		config.Rate = 10
	}
	if config.Burst == 0 {
		config.Burst = 20
	}
	if config.KeyFunc == nil {
		config.KeyFunc = func(ctx *relay.Context) string {
			return ctx.Request.RemoteIP
		}
	}

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
		key := config.KeyFunc(ctx)

		mu.Lock()
		limiter, ok := limiters[key]
		if !ok {
			limiter = rate.NewLimiter(config.Rate, config.Burst)
			limiters[key] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			return relay.Text(http.StatusTooManyRequests,
				http.StatusText(http.StatusTooManyRequests)), nil
		}
		return next()
	})
}
