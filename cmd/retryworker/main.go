package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"nestly/config"
	"nestly/eventbus"
	"nestly/internal/logger"
)

func main() {
	// Retry worker 는 Mongo 를 쓰지 않는다. 로그 레벨은 LOG_LEVEL 로만 제어한다.
	logger.InitFromEnv("LOG_LEVEL")
	config.InitApp()
	partitions := config.GetConfig().Kafka.TopicPartitions

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	brokers, err := eventbus.BrokersFromEnv()
	if err != nil {
		logger.ErrorWithFields("eventbus is not configured", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	for _, t := range eventbus.AllTopics {
		if err := eventbus.EnsureTopics(ctx, brokers, t, partitions); err != nil {
			logger.WarnWithFields("failed to ensure eventbus topics", logger.Fields{"topic": t.Base(), "error": err.Error()})
		}
	}

	bus, err := eventbus.NewKafkaEventBus(brokers)
	if err != nil {
		logger.ErrorWithFields("failed to create event bus", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	defer bus.Close()

	groupID := eventbus.GroupIDFromEnv("nestly") + "-retry-worker"

	logger.Log.Info("starting retry worker service with eventbus...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	for _, t := range eventbus.AllTopics {
		topic := t
		wg.Add(1)
		go func() {
			defer wg.Done()
			topicGroupID := groupID + "-" + strings.ReplaceAll(topic.Base(), ".", "-")
			if err := bus.StartRetryReinjector(ctx, topicGroupID, topic); err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorWithFields("eventbus retry reinjector error", logger.Fields{"topic": topic.Base(), "error": err.Error()})
			}
		}()
	}

	<-sigChan
	logger.Log.Info("received shutdown signal, shutting down retry worker service...")

	cancel()
	wg.Wait()

	logger.Log.Info("retry worker service stopped")
}
