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
	"exercise_tracker/internal/observability"
	"exercise_tracker/internal/queue"
	"exercise_tracker/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code; deferred cleanup runs before exit.
func run() int {
	exitCode := 0

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg := config.Load()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	if !cfg.RabbitMQ.Enabled() || !cfg.Redis.Enabled() {
		logrus.Fatal("RABBITMQ_URL and REDIS_HOST are required to run the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := cache.SetupRedis(ctx, &cfg.Redis)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close redis connection")
		}
	}()

	conn, err := queue.SetupRabbitMQ(&cfg.RabbitMQ)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to RabbitMQ")
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close RabbitMQ connection")
		}
	}()

	consumerChannel, err := queue.CreateChannel(conn)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create RabbitMQ channel")
	}
	if _, err := queue.DeclareQueue(consumerChannel, cfg.RabbitMQ.Queue); err != nil {
		logrus.WithError(err).Fatal("Failed to declare RabbitMQ queue")
	}
	if err := consumerChannel.Close(); err != nil {
		logrus.WithError(err).Fatal("Failed to close RabbitMQ channel")
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	logrus.Info("Metrics initialized")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	metricsSrv := &http.Server{
		Addr:              ":" + cfg.Worker.MetricsPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.Infof("Worker metrics server started on :%s", cfg.Worker.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start metrics server")
		}
	}()

	proc := worker.NewProcessor(cache.NewActivityStats(rdb))

	poolErr := worker.RunPool(ctx, cfg.Worker.Count, func(ctx context.Context, id int) error {
		return worker.New(id, cfg.RabbitMQ.Queue, proc, metrics).Run(ctx, conn)
	})
	if poolErr != nil {
		logrus.WithError(poolErr).Error("No consumers left, exiting")
	} else {
		logrus.Info("Shutting down workers...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Failed to shut down metrics server")
	}

	if poolErr != nil {
		// Non-zero exit lets the supervisor restart the worker.
		exitCode = 1
	}
	return exitCode
}
