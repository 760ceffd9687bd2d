package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"locallibrary/internal/book"
	"locallibrary/internal/bookinstance"
	"locallibrary/internal/config"
	"locallibrary/internal/logging"
	"locallibrary/internal/store"
	"locallibrary/internal/view"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()
	logger.Info("database connection OK", zap.String("driver", cfg.StoreDriver))

	renderer, err := view.New()
	if err != nil {
		return err
	}

	bookService := book.NewService(repos.books)
	instanceService := bookinstance.NewService(repos.instances, bookService)

	httpServer := &http.Server{
		Addr: cfg.Addr,
		Handler: newRouter(ctx, routerDeps{
			cfg:       cfg,
			logger:    logger,
			view:      renderer,
			books:     bookService,
			instances: instanceService,
			ready:     repos.ping,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr))
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

type repositories struct {
	books     book.Repository
	instances bookinstance.Repository
	ping      func(ctx context.Context) error
	close     func()
}

func openRepositories(ctx context.Context, cfg config.Config) (repositories, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := store.OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return repositories{}, err
		}
		return repositories{
			books:     book.NewPostgresRepo(pool, cfg.DBTimeout),
			instances: bookinstance.NewPostgresRepo(pool, cfg.DBTimeout),
			ping:      pool.Ping,
			close:     pool.Close,
		}, nil
	default:
		client, db, err := store.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return repositories{}, err
		}
		return repositories{
			books:     book.NewMongoRepo(db, cfg.DBTimeout),
			instances: bookinstance.NewMongoRepo(db, cfg.DBTimeout),
			ping:      func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:     func() { _ = client.Disconnect(context.Background()) },
		}, nil
	}
}
