package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/example/storefront-cart/internal/config"
	"github.com/example/storefront-cart/internal/infrastructure/kafka"
	"github.com/example/storefront-cart/internal/infrastructure/store"
	"github.com/example/storefront-cart/internal/projection"
)

func main() {
	cfg, err := config.LoadProjector()
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

	logger.Info("starting checkout projector",
		zap.Strings("kafka_brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.CheckoutTopic),
		zap.String("group", cfg.Kafka.ConsumerGroup),
	)

	db, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()
	if err := store.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("failed to prepare schema", zap.Error(err))
	}

	checkouts := store.NewPostgresCheckoutStore(db)
	projector := projection.NewProjector(checkouts, logger.Named("projector"))

	// Catch up on handoffs recorded while the projector was down. Saves are
	// idempotent, so events the consumer delivers again are harmless.
	events := store.NewPostgresEventStore(db, nil, logger.Named("events"))
	history, err := events.GetAllEvents(ctx)
	if err != nil {
		logger.Fatal("failed to read event history", zap.Error(err))
	}
	if err := projector.Replay(ctx, history); err != nil {
		logger.Error("replay stopped early", zap.Error(err))
	}

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.CheckoutTopic, cfg.Kafka.ConsumerGroup, logger.Named("consumer"))
	defer consumer.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Info("listening for checkout events")
		if err := consumer.Consume(ctx, projector.HandleEvent); err != nil && ctx.Err() == nil {
			logger.Error("consumer error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-done:
	}

	logger.Info("shutting down")
	cancel()
	<-done
}
