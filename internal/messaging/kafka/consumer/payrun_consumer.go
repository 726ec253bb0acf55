package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-payday/internal/events"
	"go-payday/internal/payrun"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PayrunConsumer executes payroll runs requested asynchronously over Kafka.
// A failed run is logged and the message committed anyway: per-employee
// failures are part of the run result and the run itself is idempotent, so
// redelivery would only repeat the same outcome.
type PayrunConsumer struct {
	reader  *kafkago.Reader
	service payrun.Service
	logger  *zap.Logger
}

func NewPayrunConsumer(brokers []string, groupID string, service payrun.Service, logger *zap.Logger) *PayrunConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   events.PayrunRequestedTopic,
	})

	return &PayrunConsumer{
		reader:  reader,
		service: service,
		logger:  logger.Named("consumer.payrun"),
	}
}

func (c *PayrunConsumer) Start(ctx context.Context) error {
	c.logger.Info("payrun consumer started", zap.String("topic", events.PayrunRequestedTopic))

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("commit message failed", zap.Error(err))
		}
	}
}

func (c *PayrunConsumer) handle(ctx context.Context, msg kafkago.Message) {
	var event events.PayrunRequestedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("malformed payrun request, skipping",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return
	}

	resp, err := c.service.Run(ctx, event.CompanyID, event.RequestedBy, payrun.RunPayrollRequest{
		Period:      event.Period,
		EmployeeIDs: event.EmployeeIDs,
	})
	if err != nil {
		c.logger.Error("payroll run failed",
			zap.String("company_id", event.CompanyID),
			zap.String("period", event.Period),
			zap.Error(err),
		)
		return
	}

	c.logger.Info("payroll run completed",
		zap.String("company_id", event.CompanyID),
		zap.String("period", event.Period),
		zap.Int("succeeded", resp.Succeeded),
		zap.Int("failed", resp.Failed),
	)
}

func (c *PayrunConsumer) Close() error {
	return c.reader.Close()
}
