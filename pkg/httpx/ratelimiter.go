package httpx

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/aussiebroadwan/chatauth/pkg/slogx"
	"golang.org/x/time/rate"
)

const rateLimitedMessage = "Too many requests. Please try again later."

// RateLimiter keeps one token bucket per key. Buckets are only dropped by
// Sweep, which the service's housekeeping calls periodically.
type RateLimiter struct {
	name   string
	config RateLimitConfig
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimitClock overrides time.Now.
func WithRateLimitClock(now func() time.Time) RateLimiterOption {
	return func(l *RateLimiter) { l.now = now }
}

// NewRateLimiter returns a limiter named after what it protects, usually a
// route pattern.
func NewRateLimiter(name string, config RateLimitConfig, opts ...RateLimiterOption) *RateLimiter {
	l := &RateLimiter{
		name:    name,
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name identifies the limiter in housekeeping logs.
func (l *RateLimiter) Name() string { return "ratelimit " + l.name }

// Allow takes a token from key's bucket. When it is empty it reports how long
// until the next token.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.config.limit(), l.config.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	if b.limiter.AllowN(now, 1) {
		return true, 0
	}

	r := b.limiter.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return false, wait
}

// Len is the number of live buckets.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Sweep drops buckets that have been idle long enough to refill completely.
func (l *RateLimiter) Sweep(now time.Time) int {
	idle := l.config.refill()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= idle {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Middleware rejects requests over the limit with 429 and the uniform error
// body. Requests without a key pass through.
func (l *RateLimiter) Middleware(keyFn KeyExtractor) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyFn(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request", "limiter", l.name)
				next.ServeHTTP(w, r)
				return
			}

			ok, wait := l.Allow(key)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := max(int(wait.Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.config.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", l.config.Window.String())

			log.Warn("rate limit exceeded",
				"limiter", l.name,
				"key", key,
				"retry_after", retryAfter,
			)
			WriteMessage(w, http.StatusTooManyRequests, rateLimitedMessage)
		})
	}
}

// IPAndJSONFieldKey limits by client IP plus a JSON body field, such as
// login attempts per IP and email.
func IPAndJSONFieldKey(fieldName string) KeyExtractor {
	return CompositeKeyExtractor(":", IPKeyExtractor, JSONFieldKeyExtractor(fieldName))
}
