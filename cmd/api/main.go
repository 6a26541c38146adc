package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exercise_tracker/internal/cache"
	"exercise_tracker/internal/config"
	"exercise_tracker/internal/handler"
	"exercise_tracker/internal/observability"
	"exercise_tracker/internal/queue"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg := config.Load()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.WithError(err).Warn("Invalid LOG_LEVEL, using info")
	}
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)
	logrus.Info("Metrics initialized")

	stores, err := handler.OpenStores(ctx, cfg, metrics)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open store")
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			logrus.WithError(err).Error("Failed to close store connection")
		}
	}()

	deps := handler.Dependencies{
		Config:       cfg,
		UserRepo:     stores.Users,
		ExerciseRepo: stores.Exercises,
		Metrics:      metrics,
		Gatherer:     reg,
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = cache.SetupRedis(ctx, &cfg.Redis)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				logrus.WithError(err).Error("Failed to close redis connection")
			}
		}()
		deps.Redis = rdb
		deps.Cache = cache.NewRedisCache(rdb, cache.UserCacheTTL)
	} else {
		logrus.Info("REDIS_HOST not set; user cache and rate limiting disabled")
	}

	if cfg.RabbitMQ.Enabled() {
		conn, err := queue.SetupRabbitMQ(&cfg.RabbitMQ)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to connect to RabbitMQ")
		}
		defer func() {
			if err := conn.Close(); err != nil {
				logrus.WithError(err).Error("Failed to close RabbitMQ connection")
			}
		}()

		publisher, err := queue.NewRabbitPublisher(conn, cfg.RabbitMQ.Queue, metrics)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to set up event publisher")
		}
		deps.Publisher = publisher
	} else {
		logrus.Info("RABBITMQ_URL not set; exercise events disabled")
	}

	r := handler.SetupHandler(deps)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("Starting %s on :%s (store=%s)", cfg.AppName, cfg.AppPort, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}
	logrus.Info("Server exited")
}
