// Package server wires configuration, storage, cache and services into the
// REST API and runs it until the process is asked to stop.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/cache"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/rest"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	httpServer  *rest.HTTPServer
	closers     []io.Closer
}

// NewApp builds every dependency named by c. Storage migrations are applied
// here, so a returned App is ready to serve.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, os.Stdout)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger}

	rm, err := newRepositoryManager(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.repomanager = rm

	if err := rm.RunMigrations(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	var taskCache cache.TaskCache = cache.NopCache{}
	if c.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, c.RedisAddr)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("cache init error: %w", err)
		}
		app.closers = append(app.closers, client)
		taskCache = cache.NewRedisTaskCache(client, c.CacheTTL)
	}

	hasher, err := auth.NewHasher(c.PasswordHasher)
	if err != nil {
		app.Close()
		return nil, err
	}

	us := services.NewUserService(rm, hasher, c)
	ts := services.NewTaskService(rm, taskCache, logger)

	app.httpServer = rest.NewHTTPServer(c.EndpointAddrHTTP, logger, us, ts, rest.Options{
		RequestTimeout:  c.RequestTimeout,
		ShutdownTimeout: c.ShutdownTimeout,
		AllowedOrigins:  c.AllowedOrigins,
	})

	return app, nil
}

func newRepositoryManager(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.StorageBackend {
	case config.StoragePostgres:
		return repomanager.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
	case config.StorageMemory:
		return repomanager.NewMemoryRepositoryManager(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
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
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases storage and cache connections.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.Close()
	app.logger.Info(context.Background(), "App stopped")
}

// Close releases everything NewApp opened. It is safe to call more than once.
func (app *App) Close() {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil

	if app.repomanager != nil {
		if err := app.repomanager.Close(); err != nil {
			app.logger.Warn(context.Background(), "storage close failed", "error", err)
		}
		app.repomanager = nil
	}

	if z, ok := app.logger.(*logging.ZapLogger); ok {
		_ = z.Sync()
	}
}
