package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/chatauth/internal/auth/http"
	"github.com/aussiebroadwan/chatauth/internal/auth/identity"
	"github.com/aussiebroadwan/chatauth/internal/auth/identity/localpool"
	"github.com/aussiebroadwan/chatauth/internal/auth/metrics"
	"github.com/aussiebroadwan/chatauth/internal/auth/service"
	"github.com/aussiebroadwan/chatauth/internal/auth/store"
	"github.com/aussiebroadwan/chatauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/chatauth/pkg/cryptox"
	"github.com/aussiebroadwan/chatauth/pkg/slogx"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"

	synchronizeInfo = "chatauth synchronize cookie"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	idp      identity.CognitoAPI
	idpName  string
	sweepers []service.Sweeper

	// Services
	userService         *service.UserService
	sessionService      *service.SessionService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "chatauth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app.initMetrics()

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initIdentityProvider(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"identity_provider", app.idpName,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			app.housekeepingService.Stop()
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

func (app *Application) initMetrics() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.New(app.registry)
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	version, _, err := db.SchemaVersion()
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	app.logger.Info("database migrations applied", "schema_version", version)
	return nil
}

// initIdentityProvider connects to Cognito, or starts the in-process pool.
func (app *Application) initIdentityProvider(ctx context.Context) error {
	switch app.cfg.IDPMode {
	case IDPModeCognito:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(app.cfg.CognitoRegion))
		if err != nil {
			return fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		app.idp = cip.NewFromConfig(awsCfg)
		app.idpName = "cognito"
		app.logger.Info("using Cognito user pool",
			"region", app.cfg.CognitoRegion,
			"user_pool_id", app.cfg.CognitoUserPoolID,
		)

	case IDPModeLocal:
		if app.cfg.CognitoUserPoolID == "" {
			app.cfg.CognitoUserPoolID = "local-pool"
		}
		if app.cfg.CognitoClientID == "" {
			app.cfg.CognitoClientID = "local-client"
		}
		if app.cfg.CognitoClientSecret == "" {
			secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
			if err != nil {
				return fmt.Errorf("failed to generate local client secret: %w", err)
			}
			app.cfg.CognitoClientSecret = secret
		}

		pool, err := localpool.New(localpool.Config{
			UserPoolID:   app.cfg.CognitoUserPoolID,
			ClientID:     app.cfg.CognitoClientID,
			ClientSecret: app.cfg.CognitoClientSecret,
			Issuer:       "chatauth-local",
			StaticCode:   app.cfg.LocalIDPStaticCode,
		})
		if err != nil {
			return fmt.Errorf("failed to start local user pool: %w", err)
		}
		app.idp = pool
		app.idpName = pool.Name()
		app.sweepers = append(app.sweepers, pool)
		app.logger.Warn("using in-process local user pool, users are lost on restart")

	default:
		return fmt.Errorf("unknown identity provider mode %q", app.cfg.IDPMode)
	}
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	secret := []byte(app.cfg.SynchronizeSecret)
	if len(secret) == 0 {
		// Validate only lets this through in development.
		generated, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return fmt.Errorf("failed to generate synchronize secret: %w", err)
		}
		secret = []byte(generated)
		app.logger.Warn("SYNCHRONIZE_SECRET not set, sessions will not survive a restart")
	}

	cipher, err := cryptox.NewCipher(secret, synchronizeInfo)
	if err != nil {
		return fmt.Errorf("failed to initialize synchronize cipher: %w", err)
	}

	app.userService = &service.UserService{Store: app.db, Metrics: app.metrics}
	app.sessionService = &service.SessionService{
		IDP: identity.NewAdapter(app.idp, identity.Config{
			UserPoolID:   app.cfg.CognitoUserPoolID,
			ClientID:     app.cfg.CognitoClientID,
			ClientSecret: app.cfg.CognitoClientSecret,
		}, app.metrics),
		Users:   app.userService,
		Cipher:  cipher,
		Metrics: app.metrics,
	}

	return nil
}

// initHTTP builds the router and server, then housekeeping over the local
// pool and every route rate limiter.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.idpName, app.logger)

	router.SessionService = app.sessionService
	router.Cookies = httpapi.NewCookiePolicy(
		app.cfg.CookiePrefix,
		app.cfg.CookieDomain,
		app.cfg.SecureCookies(),
		app.cfg.AccessTokenCookieBuffer,
		app.cfg.RefreshTokenExpiry,
	)
	router.Verbose = !app.cfg.IsProduction()
	router.Gatherer = app.registry
	router.ApplyRoutes()

	app.router = router

	for _, l := range router.RateLimiters() {
		app.sweepers = append(app.sweepers, l)
	}
	app.housekeepingService = service.NewHousekeepingService(
		app.logger,
		app.cfg.HousekeepingInterval,
		app.sweepers...,
	)

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
