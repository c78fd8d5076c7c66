package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/chatauth/internal/auth/service"
	"github.com/aussiebroadwan/chatauth/pkg/httpx"
	"github.com/aussiebroadwan/chatauth/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/chatauth/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	limiters    []*httpx.RateLimiter

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	db      Pinger
	idpName string

	SessionService *service.SessionService
	Cookies        CookiePolicy

	// Verbose adds error details to error bodies. Off in production.
	Verbose bool

	// Gatherer backs /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer
}

func NewRouter(buildVersion string, db Pinger, idpName string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		db:           db,
		idpName:      idpName,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recoverer,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerRegistration()
	r.registerSession()
	r.registerPassword()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Chat Auth Service API
//	@version		0.1.0
//	@description	Cookie based session lifecycle for the chat API, backed by an Amazon Cognito user pool.
//	@description
//	@description	A session is three cookies: <prefix>-accessToken (readable by scripts), <prefix>-refreshToken and <prefix>-synchronize (both HttpOnly).
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/chatauth
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) authHandler() *AuthHandler {
	return &AuthHandler{
		Session: r.SessionService,
		Cookies: r.Cookies,
		Verbose: r.Verbose,
	}
}

// handle registers h behind its own rate limiter. Every limiter is kept so
// housekeeping can sweep idle buckets.
func (r *Router) handle(pattern string, h http.Handler, limit httpx.RateLimitConfig, key httpx.KeyExtractor) {
	l := httpx.NewRateLimiter(pattern, limit)
	r.limiters = append(r.limiters, l)
	r.Mux.Handle(pattern, httpx.Chain(h, l.Middleware(key)))
}

// RateLimiters returns the limiters created by ApplyRoutes.
func (r *Router) RateLimiters() []*httpx.RateLimiter {
	return r.limiters
}

func (r *Router) registerRegistration() {
	h := r.authHandler()

	// Public account creation endpoints - strict rate limit by IP
	r.handle("POST /auth/register", http.HandlerFunc(h.HandleRegister), httpx.StrictLimit, httpx.IPKeyExtractor)
	r.handle("POST /auth/confirm-registration", http.HandlerFunc(h.HandleConfirmRegistration), httpx.StrictLimit, httpx.IPKeyExtractor)
	r.handle("POST /auth/resend-confirmation-code", http.HandlerFunc(h.HandleResendConfirmationCode), httpx.StrictLimit, httpx.IPKeyExtractor)
}

func (r *Router) registerSession() {
	h := r.authHandler()

	// Strict by IP + email, IP alone when the body has none
	r.handle("POST /auth/login", http.HandlerFunc(h.HandleLogin), httpx.StrictLimit, httpx.IPAndJSONFieldKey("email"))

	// Cookie driven endpoints - moderate rate limit by IP
	r.handle("POST /auth/refresh", http.HandlerFunc(h.HandleRefresh), httpx.ModerateLimit, httpx.IPKeyExtractor)
	r.handle("POST /auth/logout", http.HandlerFunc(h.HandleLogout), httpx.ModerateLimit, httpx.IPKeyExtractor)

	// Polled by clients
	r.handle("GET /auth/user", http.HandlerFunc(h.HandleGetUser), httpx.LenientLimit, httpx.IPKeyExtractor)
}

func (r *Router) registerPassword() {
	h := r.authHandler()

	r.handle("POST /auth/forgot-password", http.HandlerFunc(h.HandleForgotPassword), httpx.StrictLimit, httpx.IPKeyExtractor)
	r.handle("POST /auth/confirm-forgot-password", http.HandlerFunc(h.HandleConfirmForgotPassword), httpx.StrictLimit, httpx.IPKeyExtractor)
}

func (r *Router) registerSystem() {
	// Monitoring systems may poll frequently
	r.handle("GET /livez", LivezHandler(r.startTime, r.buildVersion), httpx.LenientLimit, httpx.IPKeyExtractor)
	r.handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.db, r.idpName), httpx.LenientLimit, httpx.IPKeyExtractor)

	if r.Gatherer != nil {
		r.handle("GET /metrics", promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{}), httpx.PublicLimit, httpx.IPKeyExtractor)
	}
}
