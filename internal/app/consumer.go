package app

import (
	"context"
	"strconv"
	"strings"

	"hrcore/internal/events"
	"hrcore/internal/notification"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunConsumer drains both notification topics and sends mail for each
// event. One failing topic stops the whole consumer so the process can
// restart cleanly.
func RunConsumer(ctx context.Context, logger *zap.Logger) error {
	brokers := strings.Split(env("KAFKA_BROKER", "localhost:9092"), ",")

	smtpPort, err := strconv.Atoi(env("SMTP_PORT", "587"))
	if err != nil {
		smtpPort = 587
	}

	mailer := notification.NewSMTPMailer(
		env("SMTP_HOST", "localhost"),
		smtpPort,
		env("SMTP_USERNAME", ""),
		env("SMTP_PASSWORD", ""),
		env("SMTP_FROM", "no-reply@hrcore.local"),
		logger,
	)

	groupID := env("KAFKA_CONSUMER_GROUP", "hrcore-notifications")

	g, gctx := errgroup.WithContext(ctx)
	for _, topic := range []string{events.LeaveNotificationTopic, events.EmployeeLifecycleTopic} {
		c := notification.NewConsumer(brokers, groupID, topic, mailer, logger)
		g.Go(func() error {
			return c.Run(gctx)
		})
	}
	return g.Wait()
}
