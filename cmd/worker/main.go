package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"nestly/classifier"
	"nestly/config"
	"nestly/db"
	"nestly/dispatcher"
	"nestly/eventbus"
	"nestly/internal/logger"
	"nestly/repositories"
	"nestly/services"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	config.InitLogger(cfg.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.Init(ctx); err != nil {
		logger.ErrorWithFields("failed to initialize MongoDB", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	defer db.Disconnect(context.Background())

	brokers, err := eventbus.BrokersFromEnv()
	if err != nil {
		logger.ErrorWithFields("eventbus is not configured", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	if err := eventbus.EnsureTopics(ctx, brokers, eventbus.TopicItemEvents, cfg.Kafka.TopicPartitions); err != nil {
		logger.WarnWithFields("failed to ensure eventbus topics", logger.Fields{"error": err.Error()})
	}

	bus, err := eventbus.NewKafkaEventBus(brokers)
	if err != nil {
		logger.ErrorWithFields("failed to create event bus", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	defer bus.Close()

	database := db.Database()
	itemRepo := repositories.NewItemRepository(database)
	tagRepo := repositories.NewItemTagRepository(database)

	tagging := services.NewTaggingService(
		itemRepo,
		tagRepo,
		classifier.NewFromConfig(ctx, cfg, repositories.NewAILogRepository(database)),
		dispatcher.NewEventDispatcher(bus, "worker"),
	)
	handler := newEventHandler(tagging)

	groupID := eventbus.GroupIDFromEnv("nestly-worker")
	logger.InfoWithFields("starting worker with eventbus...", logger.Fields{"group_id": groupID, "topic": eventbus.TopicItemEvents.Base()})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := bus.Subscribe(ctx, groupID, eventbus.TopicItemEvents, handler.Handle); err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorWithFields("eventbus subscribe error", logger.Fields{"error": err.Error()})
			cancel()
		}
	}()

	select {
	case <-sigChan:
		logger.Log.Info("received shutdown signal, shutting down worker...")
	case <-ctx.Done():
	}

	cancel()
	wg.Wait()

	logger.Log.Info("worker stopped")
}
