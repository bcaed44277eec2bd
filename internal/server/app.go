// Package server initializes and runs the auth server: configuration,
// database and migrations, services, the login rate limiter with its sweep
// loop, and the HTTP endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/kriaa9/placehub/internal/logging"
	"github.com/kriaa9/placehub/internal/server/config"
	"github.com/kriaa9/placehub/internal/server/httpapi"
	"github.com/kriaa9/placehub/internal/server/password"
	"github.com/kriaa9/placehub/internal/server/ratelimit"
	"github.com/kriaa9/placehub/internal/server/repositories/repomanager"
	"github.com/kriaa9/placehub/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  *logging.ZapLogger
	db      *sql.DB
	limiter *ratelimit.Limiter
	handler http.Handler
}

func NewApp(cfg *config.Config) (*App, error) {

	logger, err := logging.NewProductionLogger()
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	tokenService := services.NewTokenService(db, rm, cfg, logger)
	userService := services.NewUserService(db, rm, tokenService, password.NewBcryptHasher())

	limiter := ratelimit.NewLimiter(cfg.RateLimitCapacity, cfg.RateLimitWindow)

	h := httpapi.NewHandler(userService, tokenService, limiter, logger, []byte(cfg.SecretKey))

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		limiter: limiter,
		handler: c.Handler(h.Routes()),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "error shutting down http server", "error", err)
		}
	}()

	app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.limiter.Run(ctx, app.config.RateLimitSweepInterval, app.logger)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
	_ = app.logger.Sync()
}
