package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aussiebroadwan/records/internal/records/cache"
	"github.com/aussiebroadwan/records/internal/records/cache/provider/bigcache"
	"github.com/aussiebroadwan/records/internal/records/cache/provider/memcache"
	"github.com/aussiebroadwan/records/internal/records/cache/provider/redis"
	"github.com/aussiebroadwan/records/internal/records/cache/provider/ristretto"
	"github.com/aussiebroadwan/records/internal/records/domain"
	httpapi "github.com/aussiebroadwan/records/internal/records/http"
	"github.com/aussiebroadwan/records/internal/records/service"
	"github.com/aussiebroadwan/records/internal/records/store"
	"github.com/aussiebroadwan/records/internal/records/store/drivers/dynamodb"
	"github.com/aussiebroadwan/records/internal/records/store/drivers/sqlite"
	"github.com/aussiebroadwan/records/pkg/jwtx"
	"github.com/aussiebroadwan/records/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

var (
	ErrUnknownStoreDriver = errors.New("unknown store driver")
	ErrUnknownCacheDriver = errors.New("unknown cache driver")
)

// Application is the records service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	provider   cache.Provider
	queryCache *cache.Cache[[]domain.Account]
	reads      *service.ReadThrough[[]domain.Account]

	clientService  *service.ClientService
	accountService *service.AccountService
	onboarding     *service.Onboarding
	monitor        *service.HealthMonitor

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with the store and cache opened and the
// routes wired.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "records-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Store first; the cache and services sit on top of it
	if err := app.initStore(); err != nil {
		return nil, err
	}

	if err := app.initCache(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	// Nil verifier when no JWT secret is configured
	verifier, err := app.initVerifier()
	if err != nil {
		_ = app.db.Close()
		_ = app.provider.Close(context.Background())
		return nil, err
	}

	app.initServices()
	app.initHTTP(verifier)

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	// Start health probes
	app.monitor.Start()

	app.logger.Info("records service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.monitor.Stop()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains requests, waits for pending cache write-backs and closes
// the cache and the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down records service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.monitor.Stop()
	app.reads.Wait()

	if err := app.provider.Close(ctx); err != nil {
		app.logger.Error("error closing cache", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}

	app.logger.Info("records service stopped")
	return nil
}

// initStore opens the configured store and applies its migrations.
func (app *Application) initStore() error {
	st, err := openStore(context.Background(), app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	app.db = st

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return fmt.Errorf("failed to apply store migrations: %w", err)
	}

	app.logger.Info("store ready", "driver", app.cfg.StoreDriver)
	return nil
}

func openStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "", "sqlite":
		dsn := cfg.DatabaseFile
		if dsn != ":memory:" {
			dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DatabaseFile)
		}
		return sqlite.NewStore(dsn)
	case "dynamodb":
		return dynamodb.Open(ctx, cfg.DynamoRegion, cfg.DynamoEndpoint, dynamodb.Config{
			ClientsTable:  cfg.DynamoClientsTable,
			AccountsTable: cfg.DynamoAccountsTable,
			UniqueTable:   cfg.DynamoUniqueTable,
		})
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStoreDriver, cfg.StoreDriver)
}

// initCache opens the cache provider. A cache that cannot be reached at
// startup is not fatal; reads go to the store until it recovers.
func (app *Application) initCache() error {
	p, err := openProvider(app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	codec, err := cache.NewCodec[[]domain.Account](app.cfg.CacheCodec)
	if err != nil {
		_ = p.Close(context.Background())
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	app.provider = p
	app.queryCache = cache.New(p, codec, app.cfg.CacheTTL)

	app.logger.Info("cache ready",
		"driver", app.cfg.CacheDriver,
		"codec", app.cfg.CacheCodec,
		"ttl", app.queryCache.TTL(),
	)
	return nil
}

func openProvider(cfg Config) (cache.Provider, error) {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}

	switch cfg.CacheDriver {
	case "", "redis":
		return redis.Dial(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), nil
	case "memcache":
		return memcache.Dial(strings.Split(cfg.MemcacheAddr, ",")...), nil
	case "ristretto":
		return ristretto.New(ristretto.DefaultConfig())
	case "bigcache":
		return bigcache.New(bigcache.Config{LifeWindow: ttl})
	case "none":
		return cache.Noop{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCacheDriver, cfg.CacheDriver)
}

// initVerifier returns nil when no JWT secret is configured, which leaves
// the routes open.
func (app *Application) initVerifier() (jwtx.Verifier, error) {
	if app.cfg.JWTSecret == "" {
		app.logger.Warn("RECORDS_JWT_SECRET not set, bearer authentication disabled")
		return nil, nil
	}

	v, err := jwtx.NewHS256([]byte(app.cfg.JWTSecret), app.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT verifier: %w", err)
	}
	return v, nil
}

// initServices wires the record services onto the store and cache.
func (app *Application) initServices() {
	app.reads = service.NewReadThrough(app.queryCache)

	numbers := service.NewNumberGenerator()
	app.clientService = service.NewClientService(app.db)
	app.accountService = service.NewAccountService(app.db, numbers, app.reads)
	app.onboarding = service.NewOnboarding(app.db, numbers)

	app.monitor = service.NewHealthMonitor(app.logger, app.cfg.HealthcheckInterval,
		service.Probe{Name: httpapi.ProbeStore, Check: app.db.Ping},
		service.Probe{Name: httpapi.ProbeCache, Check: app.queryCache.Ping},
	)
}

func (app *Application) initHTTP(verifier jwtx.Verifier) {
	router := httpapi.NewRouter(verifier, BuildVersion, app.logger)

	router.ClientService = app.clientService
	router.AccountService = app.accountService
	router.Onboarding = app.onboarding
	router.Monitor = app.monitor
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
