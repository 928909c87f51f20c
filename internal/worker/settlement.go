package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"travel-booking/internal/usecase"
	"travel-booking/pkg/metrics"
	"travel-booking/pkg/mq"
	"travel-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Settlement consumes the settlement topic and drives event processing.
// Each consumer goroutine owns one reader in the shared group; commits are
// explicit and happen only after the task either succeeded or was parked on
// the dead-letter topic, so an uncommitted crash redelivers the task.
type Settlement struct {
	service     usecase.SettlementService
	kafkaConfig utils.KafkaConfig
	concurrency int
	maxAttempts int
	deadLetter  *kafka.Writer
	log         *zap.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	readers []*kafka.Reader

	// backoff between attempts, replaced in tests
	sleep func(ctx context.Context, d time.Duration)
}

func NewSettlement(service usecase.SettlementService, config *utils.Config, log *zap.Logger) *Settlement {
	concurrency := config.Worker.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	maxAttempts := config.Worker.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &Settlement{
		service:     service,
		kafkaConfig: config.Kafka,
		concurrency: concurrency,
		maxAttempts: maxAttempts,
		deadLetter:  mq.NewWriter(config.Kafka.Brokers, config.Kafka.DeadLetterTopic),
		log:         log.With(zap.String("worker", "settlement")),
		sleep:       sleepCtx,
	}
}

func (w *Settlement) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	for i := 0; i < w.concurrency; i++ {
		reader := mq.NewReader(w.kafkaConfig.Brokers, w.kafkaConfig.ConsumerGroup, w.kafkaConfig.SettlementTopic)
		w.readers = append(w.readers, reader)

		w.wg.Add(1)
		go func(id int, reader *kafka.Reader) {
			defer w.wg.Done()
			w.consume(ctx, id, reader)
		}(i, reader)
	}

	w.log.Info("Settlement workers started", zap.Int("concurrency", w.concurrency))
}

func (w *Settlement) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	for _, reader := range w.readers {
		if err := reader.Close(); err != nil {
			w.log.Warn("Failed to close settlement reader", zap.Error(err))
		}
	}
	w.wg.Wait()
	if err := w.deadLetter.Close(); err != nil {
		w.log.Warn("Failed to close dead-letter writer", zap.Error(err))
	}
	w.log.Info("Settlement workers stopped")
}

func (w *Settlement) consume(ctx context.Context, id int, reader *kafka.Reader) {
	log := w.log.With(zap.Int("consumer", id))

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, kafka.ErrGroupClosed) {
				return
			}
			log.Error("Failed to fetch settlement task", zap.Error(err))
			w.sleep(ctx, time.Second)
			continue
		}

		w.handle(ctx, log, msg)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("Failed to commit settlement task",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

// handle runs one task to a terminal outcome: success, or parked on the
// dead-letter topic. A malformed message goes straight to the dead letter;
// a processing error retries with exponential backoff first.
func (w *Settlement) handle(ctx context.Context, log *zap.Logger, msg kafka.Message) {
	eventID, err := uuid.Parse(string(msg.Value))
	if err != nil {
		log.Error("Settlement task carries an invalid event id", zap.ByteString("value", msg.Value))
		w.park(ctx, log, msg, 0, fmt.Errorf("invalid event id: %w", err))
		return
	}

	var lastErr error
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		lastErr = w.service.ProcessEvent(ctx, eventID)
		if lastErr == nil {
			metrics.SettlementProcessed.WithLabelValues("ok").Inc()
			return
		}
		if ctx.Err() != nil {
			return
		}

		log.Warn("Settlement attempt failed",
			zap.String("event_id", eventID.String()),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
		if attempt < w.maxAttempts {
			metrics.SettlementProcessed.WithLabelValues("retried").Inc()
			w.sleep(ctx, backoff(attempt))
		}
	}

	w.park(ctx, log, msg, w.maxAttempts, lastErr)
}

// park moves an exhausted task to the dead-letter topic with enough headers
// to trace it back. The event row keeps processed=false, so replaying the
// dead letter later is safe.
func (w *Settlement) park(ctx context.Context, log *zap.Logger, msg kafka.Message, attempts int, cause error) {
	headers := []kafka.Header{
		{Key: mq.HeaderOriginalTopic, Value: []byte(msg.Topic)},
		{Key: mq.HeaderOriginalPartition, Value: []byte(strconv.Itoa(msg.Partition))},
		{Key: mq.HeaderOriginalOffset, Value: []byte(strconv.FormatInt(msg.Offset, 10))},
		{Key: mq.HeaderAttempts, Value: []byte(strconv.Itoa(attempts))},
		{Key: mq.HeaderErrorMessage, Value: []byte(cause.Error())},
	}

	if err := mq.Publish(ctx, w.deadLetter, msg.Key, msg.Value, headers...); err != nil {
		log.Error("Failed to publish to dead-letter topic",
			zap.ByteString("value", msg.Value),
			zap.Error(err),
		)
		return
	}

	metrics.SettlementProcessed.WithLabelValues("dead_letter").Inc()
	log.Error("Settlement task dead-lettered",
		zap.ByteString("value", msg.Value),
		zap.Int("attempts", attempts),
		zap.Error(cause),
	)
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
