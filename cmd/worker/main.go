package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/adapters/event"
	"github.com/khoahotran/folio/adapters/persistence"
	viewUC "github.com/khoahotran/folio/internal/application/usecase/view"
	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/pkg/logger"
	"github.com/khoahotran/folio/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: cannot load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.App.LogLevel)
	defer appLogger.Sync()
	appLogger.Info("Starting folio view worker...")

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("Worker needs Kafka brokers", errors.New("kafka.brokers is empty"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(ctx, cfg, appLogger, "folio-worker")
	if err != nil {
		appLogger.Fatal("Cannot init tracer provider", err)
	}
	defer tp.Shutdown(context.Background())

	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	viewRepo, closeViewStore, err := persistence.NewViewStore(ctx, cfg, dbPool, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open view store", err, zap.String("store", cfg.Views.Store))
	}
	defer closeViewStore()

	processViewUC := viewUC.NewProcessViewEventUseCase(viewRepo, appLogger)

	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.ViewTopic,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", cfg.Kafka.ViewTopic), zap.String("group_id", cfg.Kafka.GroupID))

	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		v, err := event.DecodeView(msg)
		if err != nil {
			appLogger.Warn("Skipping malformed view event", zap.Error(err), zap.Int64("offset", msg.Offset))
			commitMessage(ctx, consumer, msg, appLogger)
			continue
		}

		if err := processViewUC.Execute(ctx, v); err != nil {
			// Views are best-effort; the next commit on this partition moves past it.
			appLogger.Error("Failed to store view", err, zap.String("profile_id", v.ProfileID.String()))
			continue
		}

		commitMessage(ctx, consumer, msg, appLogger)
	}
}

func commitMessage(ctx context.Context, consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(ctx, msg); err != nil {
		log.Error("Failed to commit message", err, zap.Int64("offset", msg.Offset))
	}
}
