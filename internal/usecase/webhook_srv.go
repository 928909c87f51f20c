package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/dto/response"
	"travel-booking/pkg/gateway"
	"travel-booking/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SettlementPublisher hands an accepted webhook event to the settlement
// queue. Only the event row id travels; the worker re-reads everything else.
type SettlementPublisher interface {
	Publish(ctx context.Context, eventID uuid.UUID) error
}

type WebhookService interface {
	// Ingest verifies, persists and enqueues one gateway delivery. The
	// stored row is the source of truth; losing the queue message only
	// delays processing until the gateway redelivers.
	Ingest(ctx context.Context, provider, providerEventID string, body []byte, signature string) (*response.WebhookAckResponse, error)
}

type webhookService struct {
	repo      *repository.Repository
	gateway   gateway.Client
	publisher SettlementPublisher
	log       *zap.Logger
}

func NewWebhookService(repo *repository.Repository, gw gateway.Client, publisher SettlementPublisher, log *zap.Logger) WebhookService {
	return &webhookService{
		repo:      repo,
		gateway:   gw,
		publisher: publisher,
		log:       log.With(zap.String("service", "webhook")),
	}
}

func (s *webhookService) Ingest(ctx context.Context, provider, providerEventID string, body []byte, signature string) (*response.WebhookAckResponse, error) {
	if providerEventID == "" {
		metrics.WebhookEventsReceived.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: missing event id", ErrInvalidRequest)
	}

	if !s.gateway.VerifyWebhookSignature(body, signature) {
		metrics.WebhookEventsReceived.WithLabelValues("invalid_signature").Inc()
		s.log.Warn("Webhook signature verification failed",
			zap.String("provider", provider),
			zap.String("provider_event_id", providerEventID),
		)
		return nil, ErrInvalidSignature
	}

	var envelope struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Event == "" {
		metrics.WebhookEventsReceived.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: malformed webhook payload", ErrInvalidRequest)
	}

	event := &entity.WebhookEvent{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Provider:        provider,
		ProviderEventID: providerEventID,
		EventType:       envelope.Event,
		Payload:         body,
	}

	inserted, err := s.repo.WebhookEvent.Insert(ctx, event)
	if err != nil {
		metrics.WebhookEventsReceived.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("store webhook event: %w", err)
	}

	if inserted {
		metrics.WebhookEventsReceived.WithLabelValues("accepted").Inc()
		s.enqueue(ctx, event.ID, providerEventID)
		return &response.WebhookAckResponse{Received: true}, nil
	}

	// Redelivery. If the first delivery persisted the row but the enqueue
	// was lost, this is the recovery path: re-publish while unprocessed.
	metrics.WebhookEventsReceived.WithLabelValues("duplicate").Inc()
	existing, err := s.repo.WebhookEvent.FindByProviderEventID(ctx, provider, providerEventID)
	if err != nil {
		return nil, fmt.Errorf("find webhook event: %w", err)
	}
	if existing != nil && !existing.Processed {
		s.enqueue(ctx, existing.ID, providerEventID)
	}

	return &response.WebhookAckResponse{Received: true, Duplicate: true}, nil
}

// enqueue publishes best-effort. The row is already durable, so a publish
// failure is logged and left for the gateway's redelivery to retry.
func (s *webhookService) enqueue(ctx context.Context, eventID uuid.UUID, providerEventID string) {
	if err := s.publisher.Publish(ctx, eventID); err != nil {
		s.log.Error("Failed to enqueue webhook event for settlement",
			zap.String("event_id", eventID.String()),
			zap.String("provider_event_id", providerEventID),
			zap.Error(err),
		)
	}
}
