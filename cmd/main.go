package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RishiKendai/aegis-origin/internal/api"
	"github.com/RishiKendai/aegis-origin/internal/check"
	"github.com/RishiKendai/aegis-origin/internal/config"
	"github.com/RishiKendai/aegis-origin/internal/configs/env"
	"github.com/RishiKendai/aegis-origin/internal/corpus"
	"github.com/RishiKendai/aegis-origin/internal/events"
	"github.com/RishiKendai/aegis-origin/internal/fetch"
	"github.com/RishiKendai/aegis-origin/internal/infra/mongo"
	redisInfra "github.com/RishiKendai/aegis-origin/internal/infra/redis"
	"github.com/RishiKendai/aegis-origin/internal/logger"
	"github.com/RishiKendai/aegis-origin/internal/metrics"
	"github.com/RishiKendai/aegis-origin/internal/models"
	"github.com/RishiKendai/aegis-origin/internal/plagiarism"
	"github.com/RishiKendai/aegis-origin/internal/repository"
	"github.com/RishiKendai/aegis-origin/internal/stream"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := env.LoadEnv(); err != nil {
		log.Warn().Err(err).Msg("Failed to load .env file, continuing with system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	logger.Init(cfg.LogLevel)
	log.Info().Msg("Starting originality server")

	metrics.InitPrometheus()
	metricsServer := api.StartMetricsServer(cfg.MetricsPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect MongoDB
	mongoClient, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create MongoDB client")
	}
	defer mongoClient.Close(context.Background())

	// Connect Redis
	redisClient, err := redisInfra.NewClient(ctx, cfg.RedisHost, cfg.RedisPassword, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis client")
	}
	defer redisClient.Close()

	mongoRepo := repository.NewMongoRepository(mongoClient)
	reportsRepo := repository.NewReportsRepository(mongoRepo)
	fileResultsRepo := repository.NewFileResultsRepository(mongoRepo)

	patterns, err := cfg.CompilePatterns()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid extension patterns")
	}

	workerPool := plagiarism.NewWorkerPool(ctx, cfg.ScoringWorkers)
	defer workerPool.Close()

	checkSvc := check.NewService(
		check.Settings{
			ReferenceDir:   cfg.ReferenceCorpusDir,
			WorkspaceDir:   cfg.WorkspaceDir,
			MinTokenLength: cfg.MinTokenLength,
		},
		fetch.NewGitFetcher(cfg.FetchDepth),
		corpus.NewLoader(patterns),
		workerPool,
	).
		WithPersistence(reportsRepo, fileResultsRepo).
		WithStatus(func(ctx context.Context, checkID string, phase plagiarism.Phase) error {
			return plagiarism.UpdateStatus(ctx, redisClient, checkID, phase)
		})

	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		checkSvc.WithPublisher(publisher)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("Kafka report publisher enabled")
	}

	retryHandler := stream.NewRetryHandler(redisClient.Client, cfg.RedisDeadLetterKey)

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	consumerName := fmt.Sprintf("consumer-%s-%d-%s", hostname, os.Getpid(), uuid.New().String()[:8])
	consumer := stream.NewConsumer(
		redisClient.Client,
		cfg.RedisStreamKey,
		cfg.RedisConsumerGroup,
		consumerName,
		func(ctx context.Context, req *models.CheckRequest) error {
			checkCtx, cancel := context.WithTimeout(ctx, cfg.CheckTimeout)
			defer cancel()
			_, err := checkSvc.Execute(checkCtx, req)
			return err
		},
		retryHandler,
		cfg.StreamRetentionDuration,
		cfg.CheckTimeout+5*time.Minute,
	)
	log.Info().Str("consumer_name", consumerName).Msg("Redis stream consumer initialized")

	router := api.SetupRoutes(cfg, checkSvc, reportsRepo, fileResultsRepo, redisClient)

	consumerCtx, consumerCancel := context.WithCancel(ctx)
	go func() {
		defer consumerCancel()
		if err := consumer.Start(consumerCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Redis consumer error")
		}
	}()
	log.Info().Msg("Redis consumer started")

	srv := api.StartServer("api", router, cfg.ServerPort)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gracefully...")

	consumerCancel()

	if err := api.ShutdownServer(srv, 30*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down API server")
	}

	if err := api.ShutdownServer(metricsServer, 5*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down metrics server")
	}

	log.Info().Msg("Shutdown complete")
}
