package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/example/storefront-cart/internal/api"
	"github.com/example/storefront-cart/internal/auth"
	"github.com/example/storefront-cart/internal/cartbackend"
	"github.com/example/storefront-cart/internal/command"
	"github.com/example/storefront-cart/internal/config"
	"github.com/example/storefront-cart/internal/domain/cart"
	"github.com/example/storefront-cart/internal/infrastructure/kafka"
	"github.com/example/storefront-cart/internal/infrastructure/store"
	"github.com/example/storefront-cart/internal/projection"
	"github.com/example/storefront-cart/internal/query"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("starting storefront cart API",
		zap.String("environment", cfg.Environment),
		zap.String("cart_backend", cfg.CartBackend.URL),
		zap.Strings("kafka_brokers", cfg.Kafka.Brokers),
		zap.String("checkout_topic", cfg.Kafka.CheckoutTopic),
		zap.Bool("postgres", cfg.DatabaseURL != ""),
	)

	// Payment handoff
	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.CheckoutTopic, logger.Named("producer"))
	defer producer.Close()

	var (
		events    store.EventStoreInterface
		checkouts store.CheckoutStore
		wg        sync.WaitGroup
	)
	if cfg.DatabaseURL != "" {
		db, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to PostgreSQL", zap.Error(err))
		}
		defer db.Close()
		if err := store.EnsureSchema(ctx, db); err != nil {
			logger.Fatal("failed to prepare schema", zap.Error(err))
		}
		events = store.NewPostgresEventStore(db, producer, logger.Named("events"))
		checkouts = store.NewPostgresCheckoutStore(db)
		logger.Info("connected to PostgreSQL; checkout history is projected by cmd/projector")
	} else {
		events = store.NewEventStore(producer, logger.Named("events"))
		memory := store.NewMemoryCheckoutStore()
		checkouts = memory

		// Without a database the API projects its own checkout history.
		projector := projection.NewProjector(memory, logger.Named("projector"))
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.CheckoutTopic, cfg.Kafka.ConsumerGroup+"-api", logger.Named("consumer"))
		defer consumer.Close()

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Consume(ctx, projector.HandleEvent); err != nil && ctx.Err() == nil {
				logger.Error("in-process projection stopped", zap.Error(err))
			}
		}()
		logger.Warn("DATABASE_URL not set; checkout history is kept in memory")
	}

	// Cart engine
	backend := cartbackend.NewClient(cfg.CartBackend.URL, cfg.CartBackend.Timeout, logger.Named("cartbackend"))
	carts := cart.NewService(backend.Factory(), cart.EngineConfig{Retention: cfg.CartRetention}, logger.Named("cart"))

	wg.Add(1)
	go func() {
		defer wg.Done()
		carts.RunSweeper(ctx, cfg.Sessions.SweepInterval, cfg.Sessions.IdleTimeout)
	}()

	cmdHandler := command.NewHandler(carts, events, logger.Named("command"))
	queryHandler := query.NewHandler(carts, checkouts, logger.Named("query"))

	handlers := api.NewHandlers(cmdHandler, queryHandler, logger.Named("api"))
	router := api.NewRouter(handlers, auth.NewSessionVerifier(cfg.JWTSecret), logger.Named("http"))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	wg.Wait()
}
