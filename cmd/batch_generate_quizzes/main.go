package main

import (
	"context"
	"fmt"

	"skillforge/internal/adapter"
	"skillforge/internal/adapter/llm"
	"skillforge/internal/cache"
	"skillforge/internal/config"
	"skillforge/internal/database"
	"skillforge/internal/logger"
	"skillforge/internal/repository"
	"skillforge/internal/service"

	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger might not be initialized yet, so use fmt for this critical error
		fmt.Printf("Failed to load configuration: %v\n", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		return
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return
	}
	defer logger.Sync()
	appLogger := logger.Get()

	appLogger.Info("Batch quiz generation starting up...")

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Successfully connected to Oracle database.")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis Client", zap.Error(err))
	}
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	ctx := context.Background()
	model, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.LLM.APIKey),
		googleai.WithDefaultModel(cfg.LLM.Model),
	)
	if err != nil {
		appLogger.Fatal("Failed to create generation client", zap.Error(err))
	}
	generator := llm.NewGeminiQuizGenerator(model, cfg.LLM.RequestTimeout)

	quizSetRepo := repository.NewQuizSetDatabaseAdapter(db)
	fallbackRepo := repository.NewFallbackQuestionDatabaseAdapter(db)
	projectRepo := repository.NewProjectDatabaseAdapter(db)

	quizService := service.NewQuizService(quizSetRepo, fallbackRepo, projectRepo, generator, cacheAdapter, &cfg.Quiz)
	batchService := service.NewBatchService(projectRepo, quizSetRepo, quizService, &cfg.Batch, appLogger)

	if err := batchService.PreGenerateQuizSets(ctx); err != nil {
		appLogger.Fatal("Batch quiz generation failed", zap.Error(err))
	}
	appLogger.Info("Batch quiz generation finished.")
}
