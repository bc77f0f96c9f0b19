package app

import (
	"context"
	"strconv"
	"time"

	"hrcore/internal/messaging/kafka"
	"hrcore/internal/messaging/kafka/producer"
	"hrcore/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays pending outbox rows to Kafka until ctx is cancelled.
func RunWorker(ctx context.Context, logger *zap.Logger) error {
	db, err := connection.ConnectGORMWithRetry(
		env("DB_HOST", "localhost"),
		env("DB_USER", "postgres"),
		env("DB_PASSWORD", "postgres"),
		env("DB_NAME", "hrcore"),
		env("DB_PORT", "5432"),
		env("DB_SSLMODE", "disable"),
		connectRetries,
	)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	writer, err := connection.ConnectKafkaWithRetry(env("KAFKA_BROKER", "localhost:9092"), connectRetries)
	if err != nil {
		return err
	}
	defer writer.Close()

	pollSeconds, err := strconv.Atoi(env("OUTBOX_POLL_SECONDS", "3"))
	if err != nil {
		pollSeconds = 3
	}

	repo := kafka.NewOutboxRepository(sqlDB)
	producer.ProcessOutboxEvents(ctx, repo, writer, logger, time.Duration(pollSeconds)*time.Second)
	return nil
}
