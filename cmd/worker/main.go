package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/medhub/ambulatorio-api/internal/config"
	mongorepo "github.com/medhub/ambulatorio-api/internal/repository/mongo"
	"github.com/medhub/ambulatorio-api/pkg/logger"
	"github.com/medhub/ambulatorio-api/pkg/messaging/redis"
	"github.com/medhub/ambulatorio-api/pkg/worker"
)

// workerConfig is read from the environment; the worker runs as a separate
// process and does not share the API's config file.
type workerConfig struct {
	MongoURI      string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string        `envconfig:"MONGO_DATABASE" default:"ambulatorio"`
	RedisURL      string        `envconfig:"REDIS_URL" default:"redis://localhost:6379"`
	BatchSize     int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
	PollInterval  time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	RetryAttempts int           `envconfig:"OUTBOX_RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `envconfig:"OUTBOX_RETRY_DELAY" default:"2s"`
	MetricsPort   int           `envconfig:"METRICS_PORT" default:"9091"`
}

func main() {
	log := logger.NewLogger(nil)

	var cfg workerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal(err, "failed to load worker config")
	}

	db, err := mongorepo.NewDB(config.MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Client().Disconnect(ctx); err != nil {
			log.Error(err, "failed to disconnect from database")
		}
	}()

	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.RedisURL,
		MaxRetries:   3,
		RetryBackoff: 500 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &zl)
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	metrics := &worker.Metrics{
		EventsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ambulatorio_worker_events_processed_total",
			Help: "Outbox events published to the broker",
		}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ambulatorio_worker_events_failed_total",
			Help: "Outbox events that failed to publish",
		}),
		ProcessingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "ambulatorio_worker_processing_seconds",
			Help: "Duration of one outbox drain pass",
		}),
	}
	prometheus.MustRegister(metrics.EventsProcessed, metrics.EventsFailed, metrics.ProcessingLatency)

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.MetricsPort), nil); err != nil {
			log.Error(err, "metrics server failed")
		}
	}()

	processor := worker.NewOutboxProcessor(
		mongorepo.NewOutboxRepository(db),
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.BatchSize,
			PollInterval:  cfg.PollInterval,
			RetryAttempts: cfg.RetryAttempts,
			RetryDelay:    cfg.RetryDelay,
		},
		log,
		metrics,
	)

	ctx, cancel := context.WithCancel(context.Background())
	go processor.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker")
	cancel()
}
