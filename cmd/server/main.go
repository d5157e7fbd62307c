package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/testhive/testhive-backend/internal/config"
	"github.com/testhive/testhive-backend/internal/database"
	"github.com/testhive/testhive-backend/internal/generator"
	"github.com/testhive/testhive-backend/internal/handler"
	"github.com/testhive/testhive-backend/internal/logger"
	"github.com/testhive/testhive-backend/internal/middleware"
	"github.com/testhive/testhive-backend/internal/repository"
	"github.com/testhive/testhive-backend/internal/router"
	"github.com/testhive/testhive-backend/internal/service"
	"github.com/testhive/testhive-backend/internal/validator"
	"github.com/testhive/testhive-backend/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting TestHive Backend")

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Repositories.
	userRepo := repository.NewUserRepository(pool)
	testRepo := repository.NewTestRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	proctorRepo := repository.NewProctorEventRepository(pool)

	// Question generation: Gemini when a key is configured, the local
	// fallback always as a safety net.
	var gemini generator.Generator
	if cfg.GeminiAPIKey != "" {
		gemini = generator.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, log)
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, test generation uses the fallback generator")
	}

	// Services.
	authService := service.NewAuthService(cfg, userRepo, rdb)
	testService := service.NewTestService(testRepo, gemini, generator.NewFallback(), log)
	submissionService := service.NewSubmissionService(testRepo, resultRepo, cfg.AllowRetakes, log)
	resultService := service.NewResultService(resultRepo, testRepo, userRepo, proctorRepo, log)

	// Handlers.
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Test:       handler.NewTestHandler(testService, cfg.MaxUploadBytes),
		Submission: handler.NewSubmissionHandler(submissionService),
		Result:     handler.NewResultHandler(resultService),
		WS:         handler.NewWSHandler(rdb, testService, log, cfg.AllowedOrigins),
	}

	generateLimiter := middleware.NewRateLimiter(rdb, "generate", cfg.GenerateRateLimit, cfg.GenerateRateWindow, log)

	// Background workers.
	workerCtx, workerCancel := context.WithCancel(context.Background())

	proctorWorker := worker.NewProctorWorker(pool, rdb, log)
	go proctorWorker.Start(workerCtx)

	r := router.SetupRouter(authService, handlers, generateLimiter, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
