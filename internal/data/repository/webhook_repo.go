package repository

import (
	"context"
	"fmt"

	"travel-booking/internal/data/entity"
	"travel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type WebhookEventRepository interface {
	// Insert persists the event. It returns inserted=false when the
	// (provider, provider_event_id) uniqueness constraint fired; that
	// constraint is the idempotency guarantee, not a prior existence check.
	Insert(ctx context.Context, event *entity.WebhookEvent) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.WebhookEvent, error)
	FindByProviderEventID(ctx context.Context, provider, providerEventID string) (*entity.WebhookEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
}

type webhookEventRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewWebhookEventRepository(db database.PgxIface, log *zap.Logger) WebhookEventRepository {
	return &webhookEventRepository{
		db:  db,
		log: log.With(zap.String("repository", "webhook_event")),
	}
}

func (r *webhookEventRepository) Insert(ctx context.Context, event *entity.WebhookEvent) (bool, error) {
	query := `
		INSERT INTO webhook_events (id, provider, provider_event_id, event_type, payload, processed, created_at)
		VALUES ($1, $2, $3, $4, $5, false, $6)
		ON CONFLICT (provider, provider_event_id) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query,
		event.ID,
		event.Provider,
		event.ProviderEventID,
		event.EventType,
		event.Payload,
		event.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to insert webhook event",
			zap.Error(err),
			zap.String("provider_event_id", event.ProviderEventID),
		)
		return false, fmt.Errorf("insert webhook event %s: %w", event.ProviderEventID, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *webhookEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.WebhookEvent, error) {
	query := `
		SELECT id, provider, provider_event_id, event_type, payload, processed, processed_at, created_at
		FROM webhook_events
		WHERE id = $1
	`

	var event entity.WebhookEvent
	err := r.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Provider,
		&event.ProviderEventID,
		&event.EventType,
		&event.Payload,
		&event.Processed,
		&event.ProcessedAt,
		&event.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find webhook event",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return nil, fmt.Errorf("find webhook event %s: %w", id.String(), err)
	}

	return &event, nil
}

func (r *webhookEventRepository) FindByProviderEventID(ctx context.Context, provider, providerEventID string) (*entity.WebhookEvent, error) {
	query := `
		SELECT id, provider, provider_event_id, event_type, payload, processed, processed_at, created_at
		FROM webhook_events
		WHERE provider = $1 AND provider_event_id = $2
	`

	var event entity.WebhookEvent
	err := r.db.QueryRow(ctx, query, provider, providerEventID).Scan(
		&event.ID,
		&event.Provider,
		&event.ProviderEventID,
		&event.EventType,
		&event.Payload,
		&event.Processed,
		&event.ProcessedAt,
		&event.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find webhook event by provider event ID",
			zap.Error(err),
			zap.String("provider_event_id", providerEventID),
		)
		return nil, fmt.Errorf("find webhook event %s/%s: %w", provider, providerEventID, err)
	}

	return &event, nil
}

func (r *webhookEventRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE webhook_events SET processed = true, processed_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark webhook event processed",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return fmt.Errorf("mark webhook event %s processed: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("webhook event %s not found", id.String())
	}

	return nil
}
