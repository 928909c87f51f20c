package worker

import (
	"context"
	"fmt"

	"travel-booking/pkg/mq"
	"travel-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher puts accepted webhook event ids on the settlement topic. The
// message body is the event row id and nothing else; keying by the id keeps
// redeliveries of one event on one partition.
type Publisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewPublisher(config utils.KafkaConfig, log *zap.Logger) *Publisher {
	return &Publisher{
		writer: mq.NewWriter(config.Brokers, config.SettlementTopic),
		log:    log.With(zap.String("worker", "settlement-publisher")),
	}
}

func (p *Publisher) Publish(ctx context.Context, eventID uuid.UUID) error {
	id := []byte(eventID.String())
	if err := mq.Publish(ctx, p.writer, id, id); err != nil {
		return fmt.Errorf("publish settlement task %s: %w", eventID.String(), err)
	}
	p.log.Debug("Settlement task published", zap.String("event_id", eventID.String()))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
