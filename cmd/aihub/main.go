package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kmabbott81/ai-hub-production/config"
	"github.com/kmabbott81/ai-hub-production/internal/application"
	"github.com/kmabbott81/ai-hub-production/internal/handler"
	"github.com/kmabbott81/ai-hub-production/internal/infrastructure/cache"
	"github.com/kmabbott81/ai-hub-production/internal/infrastructure/persistence"
	"github.com/kmabbott81/ai-hub-production/internal/infrastructure/persistence/db"
	"github.com/kmabbott81/ai-hub-production/internal/infrastructure/provider"
	"github.com/kmabbott81/ai-hub-production/internal/infrastructure/security"

	"github.com/go-redis/redis/v8"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Auth.JwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	logger, closeLog := config.SetupLogger(cfg.Log)
	defer closeLog()

	gormDB, err := db.InitGorm(cfg.Postgres.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	logger.Info("database connected")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})
	costTracker, err := cache.NewCostTracker(redisClient)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	defer costTracker.Close()

	registry := provider.Build(cfg.Providers, &http.Client{})
	if len(registry.Adapters) == 0 {
		logger.Warn("no provider API keys configured, dispatch will always fail")
	} else {
		logger.Info("providers enabled", "providers", registry.Enabled())
	}

	users := persistence.NewUserRepository(gormDB)
	projects := persistence.NewProjectRepository(gormDB)
	threads := persistence.NewThreadRepository(gormDB)

	jwtService := security.NewJWTService(cfg.Auth.JwtSecret, cfg.Auth.ExpireAccessH, cfg.Auth.ExpireRefreshH)
	authService := application.NewAuthService(users, security.NewBcryptHasher(), jwtService, security.NewTOTPService(), logger)
	workspaceService := application.NewWorkspaceService(projects, threads, logger)
	dispatchService := application.NewDispatchService(
		threads, registry.Adapters, registry.Models, costTracker,
		cfg.Dispatch.Timeout, cfg.Dispatch.Retries, logger,
	)

	router := handler.NewRouter(
		handler.NewAuthHandler(authService),
		handler.NewWorkspaceHandler(workspaceService),
		handler.NewChatHandler(dispatchService, registry.Enabled()),
		authService,
		redisClient,
		cfg.Redis.RateLimitQPS,
		logger,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}
