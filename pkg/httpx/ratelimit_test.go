package httpx_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/chatauth/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"

		ip := httpx.IPKeyExtractor(req)
		require.Equal(t, "192.168.1.1", ip)
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")

		ip := httpx.IPKeyExtractor(req)
		require.Equal(t, "203.0.113.1", ip)
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")

		ip := httpx.IPKeyExtractor(req)
		require.Equal(t, "203.0.113.2", ip)
	})
}

func TestJSONFieldKeyExtractor(t *testing.T) {
	t.Run("extracts field and restores body", func(t *testing.T) {
		body := `{"email":"  Alice@Example.com ","password":"x"}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

		extractor := httpx.JSONFieldKeyExtractor("email")
		require.Equal(t, "alice@example.com", extractor(req))

		// The handler must still see the full body
		rest, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.Equal(t, body, string(rest))
	})

	t.Run("returns empty for non-JSON body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("email=alice"))

		extractor := httpx.JSONFieldKeyExtractor("email")
		require.Equal(t, "", extractor(req))
	})

	t.Run("returns empty for missing or non-string field", func(t *testing.T) {
		extractor := httpx.JSONFieldKeyExtractor("email")

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"password":"x"}`))
		require.Equal(t, "", extractor(req))

		req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":42}`))
		require.Equal(t, "", extractor(req))
	})
}

func TestCompositeKeyExtractor(t *testing.T) {
	t.Run("combines multiple extractors", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"alice@example.com"}`))
		req.RemoteAddr = "192.168.1.1:12345"

		extractor := httpx.CompositeKeyExtractor(":",
			httpx.IPKeyExtractor,
			httpx.JSONFieldKeyExtractor("email"),
		)

		key := extractor(req)
		require.Equal(t, "192.168.1.1:alice@example.com", key)
	})

	t.Run("skips empty values", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)) // no email field
		req.RemoteAddr = "192.168.1.1:12345"

		extractor := httpx.CompositeKeyExtractor(":",
			httpx.IPKeyExtractor,
			httpx.JSONFieldKeyExtractor("email"),
		)

		key := extractor(req)
		require.Equal(t, "192.168.1.1", key)
	})
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterMiddleware(t *testing.T) {
	config := httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}

	t.Run("blocks after burst and refills over time", func(t *testing.T) {
		clock := newClock()
		l := httpx.NewRateLimiter("GET /", config, httpx.WithRateLimitClock(clock.now))
		h := l.Middleware(httpx.IPKeyExtractor)(okHandler())

		for i := range 3 {
			require.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1").Code, "request %d", i+1)
		}

		rec := hit(h, "192.168.1.1:1")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.Equal(t, "20", rec.Header().Get("Retry-After"), "one token per 20s")
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
		require.JSONEq(t, `{"message":"Too many requests. Please try again later."}`, rec.Body.String())

		clock.advance(20 * time.Second)
		require.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1").Code)
		require.Equal(t, http.StatusTooManyRequests, hit(h, "192.168.1.1:1").Code)
	})

	t.Run("keys are tracked separately", func(t *testing.T) {
		l := httpx.NewRateLimiter("GET /", config, httpx.WithRateLimitClock(newClock().now))
		h := l.Middleware(httpx.IPKeyExtractor)(okHandler())

		for range 3 {
			hit(h, "192.168.1.1:1")
		}
		require.Equal(t, http.StatusTooManyRequests, hit(h, "192.168.1.1:1").Code)
		require.Equal(t, http.StatusOK, hit(h, "192.168.1.2:1").Code)
		require.Equal(t, 2, l.Len())
	})

	t.Run("empty key is not limited", func(t *testing.T) {
		l := httpx.NewRateLimiter("GET /", httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})
		h := l.Middleware(func(*http.Request) string { return "" })(okHandler())

		for range 3 {
			require.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1").Code)
		}
		require.Zero(t, l.Len())
	})
}

func TestRateLimiterSweep(t *testing.T) {
	clock := newClock()
	config := httpx.RateLimitConfig{RequestsPerWindow: 6, Window: time.Minute, Burst: 3}
	l := httpx.NewRateLimiter("POST /auth/login", config, httpx.WithRateLimitClock(clock.now))
	require.Equal(t, "ratelimit POST /auth/login", l.Name())

	l.Allow("a")
	clock.advance(20 * time.Second)
	l.Allow("b")

	// A bucket of 3 at 6/min refills in 30s
	require.Zero(t, l.Sweep(clock.now()))
	require.Equal(t, 1, l.Sweep(clock.now().Add(10*time.Second)))
	require.Equal(t, 1, l.Len())
	require.Equal(t, 1, l.Sweep(clock.now().Add(30*time.Second)))
	require.Zero(t, l.Len())

	// A swept key starts with a full bucket again
	for range 3 {
		ok, _ := l.Allow("a")
		require.True(t, ok)
	}
	ok, wait := l.Allow("a")
	require.False(t, ok)
	require.Equal(t, 10*time.Second, wait)
}

func TestIPAndJSONFieldKeyLimitsPerEmail(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Handlers behind the limiter still get to read the body
		b, _ := io.ReadAll(r.Body)
		if len(b) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	l := httpx.NewRateLimiter("POST /auth/login", httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2})
	h := l.Middleware(httpx.IPAndJSONFieldKey("email"))(handler)

	send := func(email string) int {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"`+email+`"}`))
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("alice@example.com"))
	require.Equal(t, http.StatusOK, send("Alice@Example.com"))
	require.Equal(t, http.StatusTooManyRequests, send("alice@example.com"))

	// Same IP, different email is tracked separately
	require.Equal(t, http.StatusOK, send("bob@example.com"))
}

func TestRateLimitProfiles(t *testing.T) {
	profiles := []httpx.RateLimitConfig{httpx.StrictLimit, httpx.ModerateLimit, httpx.LenientLimit, httpx.PublicLimit}
	for i, config := range profiles {
		require.Positive(t, config.RequestsPerWindow)
		require.Positive(t, config.Window)
		require.Positive(t, config.Burst)
		if i > 0 {
			require.Less(t, profiles[i-1].RequestsPerWindow, config.RequestsPerWindow)
		}
	}
}

func BenchmarkRateLimiterManyIPs(b *testing.B) {
	l := httpx.NewRateLimiter("GET /", httpx.RateLimitConfig{RequestsPerWindow: 1000000, Window: time.Minute, Burst: 1000})
	h := l.Middleware(httpx.IPKeyExtractor)(okHandler())

	for i := 0; b.Loop(); i++ {
		hit(h, fmt.Sprintf("192.168.%d.%d:12345", i%255, (i/255)%255))
	}
}

func TestParseRateLimitFromEnv(t *testing.T) {
	def := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

	tests := []struct {
		name string
		env  map[string]string
		want httpx.RateLimitConfig
	}{
		{"defaults", nil, def},
		{"requests", map[string]string{"RATELIMIT_TEST_REQUESTS": "50"}, httpx.RateLimitConfig{RequestsPerWindow: 50, Window: time.Minute, Burst: 10}},
		{"window", map[string]string{"RATELIMIT_TEST_WINDOW_SEC": "120"}, httpx.RateLimitConfig{RequestsPerWindow: 10, Window: 2 * time.Minute, Burst: 10}},
		{"all", map[string]string{
			"RATELIMIT_TEST_REQUESTS":   "200",
			"RATELIMIT_TEST_WINDOW_SEC": "30",
			"RATELIMIT_TEST_BURST":      "250",
		}, httpx.RateLimitConfig{RequestsPerWindow: 200, Window: 30 * time.Second, Burst: 250}},
		{"invalid keeps defaults", map[string]string{
			"RATELIMIT_TEST_REQUESTS":   "invalid",
			"RATELIMIT_TEST_WINDOW_SEC": "-10",
			"RATELIMIT_TEST_BURST":      "0",
		}, def},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			require.Equal(t, tt.want, httpx.ParseRateLimitFromEnv("TEST", def))
		})
	}
}
