package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/datalouna/skinshop/internal/db"
	"github.com/datalouna/skinshop/internal/handlers"
	"github.com/datalouna/skinshop/internal/logger"
	"github.com/datalouna/skinshop/internal/repository/postgres"
	"github.com/datalouna/skinshop/internal/service/catalog"
	"github.com/datalouna/skinshop/internal/service/pricing"
	"github.com/datalouna/skinshop/internal/service/purchase"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Redis client for the price cache. No startup ping: the cache is
	// optional and the service has to run with redis down
	rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	purchaseService := purchase.NewService(storage)
	priceCache := pricing.NewCache(rdb, logger)
	priceClient := pricing.NewClient(c.SkinportAddr, logger)
	catalogService := catalog.NewService(catalog.Config{}, priceCache, priceClient, logger)

	mux := handlers.NewRouter(
		catalogService,
		purchaseService,
		logger,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server")
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
