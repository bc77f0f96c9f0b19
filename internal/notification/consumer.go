package notification

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"hrcore/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer reads notification events off Kafka and hands them to the
// mailer. Mail failures are logged, not retried: the offset is committed
// either way so one bad address cannot wedge the partition.
type Consumer struct {
	reader *kafkago.Reader
	mailer Mailer
	logger *zap.Logger
}

func NewConsumer(brokers []string, groupID, topic string, mailer Mailer, logger ...*zap.Logger) *Consumer {
	l := zap.L().Named("notification.consumer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.consumer")
	}
	return &Consumer{
		reader: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
		mailer: mailer,
		logger: l.With(zap.String("topic", topic)),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if err := c.handle(ctx, msg); err != nil {
			c.logger.Warn("notification delivery failed",
				zap.String("key", string(msg.Key)),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

func (c *Consumer) handle(_ context.Context, msg kafkago.Message) error {
	switch c.reader.Config().Topic {
	case events.LeaveNotificationTopic:
		var event events.LeaveNotificationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return err
		}
		return c.mailer.SendLeaveNotification(event)

	case events.EmployeeLifecycleTopic:
		var event events.EmployeeInvitedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return err
		}
		return c.mailer.SendEmployeeInvite(event)

	default:
		c.logger.Warn("message on unexpected topic dropped",
			zap.String("topic", msg.Topic),
		)
		return nil
	}
}
