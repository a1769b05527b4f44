package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/user/pomelo-checker/internal/adapter/api"
	"github.com/user/pomelo-checker/internal/adapter/api/handler"
	"github.com/user/pomelo-checker/internal/adapter/discord"
	"github.com/user/pomelo-checker/internal/adapter/metrics"
	"github.com/user/pomelo-checker/internal/adapter/repository/postgres"
	redisrepo "github.com/user/pomelo-checker/internal/adapter/repository/redis"
	"github.com/user/pomelo-checker/internal/pkg/config"
	"github.com/user/pomelo-checker/internal/pkg/logger"
	"github.com/user/pomelo-checker/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logger.New(cfg.LogLevel)
	slog.SetDefault(logger)

	m := metrics.NewCheckerMetrics()

	// --- Admin & Metrics Server ---
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	adminServer := &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: adminMux,
	}

	go func() {
		logger.Info("starting admin & metrics server", "addr", adminServer.Addr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("admin & metrics server failed", "error", err)
		}
	}()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database and Redis Connections ---
	db, err := postgres.Open(cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisAddr)
	if err != nil {
		logger.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	// --- Repositories and Clients ---
	apiKeyRepo := postgres.NewAPIKeyRepository(db, logger, cfg.APIKeyCacheTTL, m)
	tokenRepo := postgres.NewTokenRepository(db, logger)
	savedRepo := postgres.NewSavedUsernameRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	historyRepo := postgres.NewHistoryRepository(db)
	quotaRepo := redisrepo.NewQuotaRepository(redisClient, logger)

	discordClient := discord.NewClient(cfg.DiscordAPIURL, cfg.DiscordBotToken, cfg.DiscordRateRPS, logger)

	// --- Use Cases ---
	checkUseCase := usecase.NewCheckUsernamesUseCase(tokenRepo, discordClient, m, logger, cfg.CheckConcurrency)
	apiCheckUseCase := usecase.NewAPICheckUseCase(checkUseCase, apiKeyRepo, quotaRepo, profileRepo, historyRepo, m, logger, usecase.APICheckConfig{
		MaxBatch:          cfg.CheckMaxBatch,
		RequestInterval:   cfg.RequestInterval,
		FreeDailyLimit:    cfg.FreeDailyLimit,
		PremiumDailyLimit: cfg.PremiumDailyLimit,
	})
	lookupUseCase := usecase.NewLookupUserUseCase(discordClient, m, logger)
	profileUseCase := usecase.NewProfileUseCase(profileRepo, apiKeyRepo, logger)
	statsUseCase := usecase.NewStatsUseCase(tokenRepo, historyRepo, savedRepo, logger)
	savedUseCase := usecase.NewSavedUseCase(savedRepo, logger)
	tokenUseCase := usecase.NewTokenUseCase(tokenRepo, logger)

	// --- HTTP Server ---
	router := api.NewRouter(logger, apiKeyRepo, api.Handlers{
		Check:  handler.NewCheckHandler(checkUseCase, apiCheckUseCase, logger, cfg.GlobalAccountID, cfg.GlobalTokenName, cfg.CheckMaxBatch),
		Lookup: handler.NewLookupHandler(lookupUseCase, logger),
		User:   handler.NewUserHandler(profileUseCase, logger),
		Stats:  handler.NewStatsHandler(statsUseCase, logger),
		Saved:  handler.NewSavedHandler(savedUseCase, logger),
		Tokens: handler.NewTokenHandler(tokenUseCase, logger),
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
		// A full batch of probes can take a while against a slow upstream;
		// the write timeout must cover the whole fan-out.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		logger.Info("starting checker server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("checker server failed", "error", err)
			stop() // Trigger shutdown on server error
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	logger.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin server shutdown failed", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("checker server shutdown failed", "error", err)
	}

	logger.Info("servers shut down gracefully")
}
