// @title SkillForge API
// @version 1.0
// @description Learning platform API: submission verification and quiz generation.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"skillforge/internal/adapter"
	"skillforge/internal/adapter/llm"
	"skillforge/internal/cache"
	"skillforge/internal/config"
	"skillforge/internal/database"
	"skillforge/internal/handler"
	"skillforge/internal/logger"
	"skillforge/internal/middleware"
	"skillforge/internal/repository"
	"skillforge/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Text generation client
	ctx := context.Background()
	model, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.LLM.APIKey),
		googleai.WithDefaultModel(cfg.LLM.Model),
	)
	if err != nil {
		appLogger.Fatal("Failed to create generation client", zap.Error(err))
	}
	grader := llm.NewGeminiGrader(model, cfg.LLM.RequestTimeout)
	generator := llm.NewGeminiQuizGenerator(model, cfg.LLM.RequestTimeout)

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	criteriaRepository := repository.NewCriteriaDatabaseAdapter(db)
	recordRepository := repository.NewVerificationRecordDatabaseAdapter(db)
	quizSetRepository := repository.NewQuizSetDatabaseAdapter(db)
	fallbackRepository := repository.NewFallbackQuestionDatabaseAdapter(db)
	projectRepository := repository.NewProjectDatabaseAdapter(db)

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Initialize services
	verificationService := service.NewVerificationService(criteriaRepository, recordRepository, grader)
	quizService := service.NewQuizService(quizSetRepository, fallbackRepository, projectRepository, generator, cacheAdapter, &cfg.Quiz)

	authService, err := service.NewAuthService(&cfg.Auth)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	// Initialize handlers
	verificationHandler := handler.NewVerificationHandler(verificationService)
	quizHandler := handler.NewQuizHandler(quizService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := cacheAdapter.Ping(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "redis unavailable")
		}
		if err := db.PingContext(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	apiGroup := app.Group("/api")
	apiGroup.Post("/submissions/verify", middleware.Protected(authService), verificationHandler.VerifySubmission)
	apiGroup.Post("/quizzes/generate", middleware.Protected(authService), quizHandler.GenerateQuiz)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
