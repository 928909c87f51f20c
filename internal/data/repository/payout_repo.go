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

type PayoutRepository interface {
	// Insert records a payout for one booking item. Returns inserted=false
	// when a payout for the item already exists (unique on booking_item_id).
	Insert(ctx context.Context, payout *entity.ProviderPayout) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ProviderPayout, error)
	FindByProviderID(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.ProviderPayout, error)
	List(ctx context.Context, limit, offset int) ([]*entity.ProviderPayout, error)
	// MarkPaid and MarkFailed flip a pending payout exactly once; the status
	// predicate in the update makes paid terminal.
	MarkPaid(ctx context.Context, id uuid.UUID) (bool, error)
	MarkFailed(ctx context.Context, id uuid.UUID) (bool, error)
}

type payoutRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPayoutRepository(db database.PgxIface, log *zap.Logger) PayoutRepository {
	return &payoutRepository{
		db:  db,
		log: log.With(zap.String("repository", "payout")),
	}
}

const payoutColumns = `id, booking_item_id, provider_id, amount, platform_fee, net_amount,
	status, settlement_period, created_at, updated_at`

func scanPayout(row pgx.Row) (*entity.ProviderPayout, error) {
	var p entity.ProviderPayout
	err := row.Scan(
		&p.ID,
		&p.BookingItemID,
		&p.ProviderID,
		&p.Amount,
		&p.PlatformFee,
		&p.NetAmount,
		&p.Status,
		&p.SettlementPeriod,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *payoutRepository) Insert(ctx context.Context, payout *entity.ProviderPayout) (bool, error) {
	query := `
		INSERT INTO provider_payouts (id, booking_item_id, provider_id, amount, platform_fee,
			net_amount, status, settlement_period, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (booking_item_id) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query,
		payout.ID,
		payout.BookingItemID,
		payout.ProviderID,
		payout.Amount,
		payout.PlatformFee,
		payout.NetAmount,
		payout.Status,
		payout.SettlementPeriod,
		payout.CreatedAt,
		payout.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to insert payout",
			zap.Error(err),
			zap.String("booking_item_id", payout.BookingItemID.String()),
		)
		return false, fmt.Errorf("insert payout for item %s: %w", payout.BookingItemID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *payoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ProviderPayout, error) {
	query := `SELECT ` + payoutColumns + ` FROM provider_payouts WHERE id = $1`

	payout, err := scanPayout(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payout by ID",
			zap.Error(err),
			zap.String("payout_id", id.String()),
		)
		return nil, fmt.Errorf("find payout by ID %s: %w", id.String(), err)
	}

	return payout, nil
}

func (r *payoutRepository) FindByProviderID(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*entity.ProviderPayout, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM provider_payouts
		WHERE provider_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, providerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find payouts by provider",
			zap.Error(err),
			zap.String("provider_id", providerID.String()),
		)
		return nil, fmt.Errorf("find payouts of provider %s: %w", providerID.String(), err)
	}
	defer rows.Close()

	return collectPayouts(rows)
}

func (r *payoutRepository) List(ctx context.Context, limit, offset int) ([]*entity.ProviderPayout, error) {
	query := `SELECT ` + payoutColumns + ` FROM provider_payouts ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list payouts", zap.Error(err))
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	defer rows.Close()

	return collectPayouts(rows)
}

func (r *payoutRepository) MarkPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE provider_payouts
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`

	result, err := r.db.Exec(ctx, query, id, entity.PayoutStatusPaid, entity.PayoutStatusPending)
	if err != nil {
		r.log.Error("Failed to mark payout paid",
			zap.Error(err),
			zap.String("payout_id", id.String()),
		)
		return false, fmt.Errorf("mark payout %s paid: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *payoutRepository) MarkFailed(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE provider_payouts
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`

	result, err := r.db.Exec(ctx, query, id, entity.PayoutStatusFailed, entity.PayoutStatusPending)
	if err != nil {
		r.log.Error("Failed to mark payout failed",
			zap.Error(err),
			zap.String("payout_id", id.String()),
		)
		return false, fmt.Errorf("mark payout %s failed: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func collectPayouts(rows pgx.Rows) ([]*entity.ProviderPayout, error) {
	var payouts []*entity.ProviderPayout
	for rows.Next() {
		payout, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payout row: %w", err)
		}
		payouts = append(payouts, payout)
	}
	return payouts, nil
}
