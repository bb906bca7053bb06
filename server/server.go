// Package server assembles the credential store, token service, employee
// repository and HTTP routes into a runnable fiber application.
package server

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/goliatone/go-hr-auth"
	"github.com/goliatone/go-hr-auth/config"
	"github.com/goliatone/go-hr-auth/employees"
	"github.com/goliatone/go-hr-auth/employees/fixtures"
	"github.com/goliatone/go-hr-auth/httpapi"
	"github.com/goliatone/go-hr-auth/logging"
	"github.com/goliatone/go-hr-auth/metrics"
	"github.com/goliatone/go-hr-auth/middleware/jwtware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

const appName = "HR Employee API"

// App is a fully wired server
type App struct {
	Fiber     *fiber.App
	Config    *config.Config
	Auth      *auth.Authenticator
	Store     *auth.CredentialStore
	Employees *employees.Service
	Metrics   *metrics.Collector

	db     *bun.DB
	logger auth.Logger
}

type options struct {
	now      func() time.Time
	registry *prometheus.Registry
	records  []employees.Employee
	seed     uint64
}

// Option customizes New
type Option func(*options)

// WithClock sets the time source for tokens and resignation dates
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRegistry registers metrics on reg instead of a fresh registry
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithEmployees seeds records instead of reading the fixtures file
func WithEmployees(records []employees.Employee) Option {
	return func(o *options) {
		if records == nil {
			records = []employees.Employee{}
		}
		o.records = records
	}
}

// WithFixtureSeed seeds the generator used when the fixtures file is absent
func WithFixtureSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// New builds the application. The caller owns Close.
func New(ctx context.Context, cfg *config.Config, zl *zap.Logger, opts ...Option) (*App, error) {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	logger := logging.NewAdapter(zl)

	store := auth.NewCredentialStore(
		auth.WithHashCost(cfg.BcryptCost),
		auth.WithStoreLogger(logger),
	)

	if _, err := store.Register(ctx, auth.RegisterUserMessage{
		Username:    cfg.AdminUsername,
		Password:    cfg.AdminPassword,
		DisplayName: cfg.AdminDisplayName,
		Email:       cfg.AdminEmail,
	}); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	tokens, err := auth.NewTokenServiceFromConfig(cfg, store, logger, auth.WithClock(o.now))
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector(o.registry)

	authenticator := auth.NewAuthenticator(store, tokens).
		WithLogger(logger).
		WithEventSink(collector)

	db, err := employees.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	records := o.records
	if records == nil {
		var source fixtures.Source
		records, source, err = fixtures.Load(cfg.FixturesPath, fixtures.NewGenerator(o.seed, o.now()))
		if err != nil {
			logger.Warn("fixtures unavailable, using generated employees",
				"path", cfg.FixturesPath,
				"error", err,
			)
		}
		logger.Info("employees loaded", "source", string(source), "count", len(records))
	}

	repo := employees.NewRepository(db)
	if err := repo.Seed(ctx, records); err != nil {
		db.Close()
		return nil, err
	}

	service := employees.NewService(repo, employees.WithServiceClock(o.now))

	app := &App{
		Config:    cfg,
		Auth:      authenticator,
		Store:     store,
		Employees: service,
		Metrics:   collector,
		db:        db,
		logger:    logger,
	}
	app.Fiber = app.routes(o.registry)

	return app, nil
}

func (a *App) routes(reg *prometheus.Registry) *fiber.App {
	f := fiber.New(fiber.Config{
		AppName:               appName,
		ErrorHandler:          httpapi.ErrorHandler(a.logger),
		Views:                 httpapi.NewViewEngine(),
		DisableStartupMessage: true,
	})

	f.Use(recover.New())
	f.Use(cors.New(corsConfig(a.Config.CORSOrigins)))
	f.Use(a.Metrics.Middleware())
	f.Use(httpapi.RequestLogger(a.logger))

	protected := jwtware.New(jwtware.Config{
		Verifier: a.Auth,
		Logger:   a.logger,
	})

	httpapi.NewAuthController(
		httpapi.WithAuthenticator(a.Auth),
		httpapi.WithAuthLogger(a.logger),
		httpapi.WithSecureCookie(a.Config.CookieSecure),
		httpapi.WithDebug(a.Config.LogLevel == "debug"),
	).Mount(f, protected)

	httpapi.NewEmployeeController(a.Employees, a.logger).Mount(f, protected)

	f.Get("/docs", httpapi.Docs(appName)).Name("docs")
	f.Get("/health", httpapi.Health).Name("health")
	f.Get("/metrics", metrics.FiberHandler(reg)).Name("metrics")

	return f
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		// credentials cannot be combined with a wildcard origin
		AllowCredentials: !slices.Contains(origins, "*"),
	}
}

// Listen serves on addr until Shutdown
func (a *App) Listen(addr string) error {
	a.logger.Info("listening", "addr", addr)
	return a.Fiber.Listen(addr)
}

// Shutdown stops the HTTP server and closes the database
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Fiber.ShutdownWithContext(ctx)
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

// Close releases the database
func (a *App) Close() error {
	return a.db.Close()
}
