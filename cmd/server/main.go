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

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/sociograph/config"
	"github.com/d60-Lab/sociograph/internal/api/handler"
	"github.com/d60-Lab/sociograph/internal/api/router"
	"github.com/d60-Lab/sociograph/internal/cache"
	"github.com/d60-Lab/sociograph/internal/repository"
	"github.com/d60-Lab/sociograph/internal/service"
	"github.com/d60-Lab/sociograph/pkg/database"
	"github.com/d60-Lab/sociograph/pkg/logger"
	"github.com/d60-Lab/sociograph/pkg/tracer"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// @title sociograph API
// @version 1.0
// @description 关系链与时间线服务
// @BasePath /api/v1
func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level, cfg.Server.Mode == "debug"); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	if cfg.Trace.Enabled {
		shutdown := must(tracer.Init(context.Background(), "sociograph", cfg.Trace.Endpoint))
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	db := must(database.InitDB(cfg))
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	requestRepo := repository.NewFollowRequestRepository(db)
	closeFriendRepo := repository.NewCloseFriendRepository(db)
	postRepo := repository.NewPostRepository(db)
	storyRepo := repository.NewStoryRepository(db)

	followerCache := cache.NewFollowerCache(followRepo, rdb, time.Duration(cfg.Cache.FollowerTTLMinutes)*time.Minute)
	resetTokens := cache.NewResetTokenStore(rdb, time.Duration(cfg.Auth.ResetTokenTTLMinutes)*time.Minute)

	tokenTTL := time.Duration(cfg.JWT.ExpireHours) * time.Hour
	authService := service.NewAuthService(userRepo, followRepo, requestRepo, resetTokens, followerCache, cfg.JWT.Secret, tokenTTL)
	relService := service.NewRelationshipService(userRepo, followRepo, requestRepo, closeFriendRepo, followerCache)
	timelineService := service.NewTimelineService(followRepo, postRepo)
	postService := service.NewPostService(db, postRepo)
	storyService := service.NewStoryService(storyRepo, followRepo)

	h := handler.New(authService, relService, timelineService, postService, storyService, followerCache, int(tokenTTL.Seconds()))
	engine := router.Setup(cfg, h, authService)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
