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

	"nestly/classifier"
	"nestly/cmd/api/auth"
	"nestly/cmd/api/middleware"
	"nestly/cmd/api/router"
	"nestly/config"
	"nestly/db"
	"nestly/dispatcher"
	"nestly/eventbus"
	"nestly/extractor"
	"nestly/internal/logger"
	"nestly/repositories"
	"nestly/services"
)

// @title           Nestly API
// @version         1.0
// @description     Save links from Instagram, TikTok, YouTube and the web, then browse them by topic
// @BasePath        /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	config.InitLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx); err != nil {
		logger.ErrorWithFields("failed to initialize MongoDB", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	defer db.Disconnect(context.Background())

	jwtManager, err := auth.NewJWTManagerFromEnv()
	if err != nil {
		logger.ErrorWithFields("failed to configure auth", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}

	database := db.Database()
	itemRepo := repositories.NewItemRepository(database)
	tagRepo := repositories.NewItemTagRepository(database)
	noteRepo := repositories.NewNoteRepository(database)
	payloadRepo := repositories.NewSharedPayloadRepository(database)
	aiLogRepo := repositories.NewAILogRepository(database)

	// Kafka 가 꺼져 있으면 publisher 는 nil 이고 재분류는 요청 안에서 바로 실행된다.
	var publisher services.EventPublisher
	if cfg.Kafka.Enabled {
		bus, err := newEventBus(ctx, cfg.Kafka)
		if err != nil {
			logger.ErrorWithFields("failed to create event bus", logger.Fields{"error": err.Error()})
			os.Exit(1)
		}
		defer bus.Close()
		publisher = dispatcher.NewEventDispatcher(bus, "api")
	}

	tagging := services.NewTaggingService(itemRepo, tagRepo, classifier.NewFromConfig(ctx, cfg, aiLogRepo), publisher)
	ingest := services.NewIngestService(itemRepo, noteRepo, extractor.New(extractor.ConfigFrom(cfg.Extractor)), tagging, publisher)
	items := services.NewItemService(itemRepo, tagRepo, noteRepo)

	r := router.New(router.Deps{
		Ingest:  ingest,
		Items:   items,
		Tagging: tagging,
		Shares:  services.NewShareService(payloadRepo, ingest),
		Tokens:  jwtManager,
		Ping:    db.Ping,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           middleware.CORS(cfg.Server.CORSAllowedOrigins)(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoWithFields("starting api server", logger.Fields{"addr": srv.Addr, "kafka": cfg.Kafka.Enabled})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithFields("api server stopped", logger.Fields{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("received shutdown signal, shutting down api server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithFields("graceful shutdown failed", logger.Fields{"error": err.Error()})
	}
}

func newEventBus(ctx context.Context, cfg config.KafkaConfig) (*eventbus.KafkaEventBus, error) {
	brokers, err := eventbus.BrokersFromEnv()
	if err != nil {
		return nil, err
	}
	if err := eventbus.EnsureTopics(ctx, brokers, eventbus.TopicItemEvents, cfg.TopicPartitions); err != nil {
		logger.WarnWithFields("failed to ensure eventbus topics", logger.Fields{"error": err.Error()})
	}
	return eventbus.NewKafkaEventBus(brokers)
}
