package repository

import (
	"context"
	"fmt"

	"travel-booking/internal/data/entity"
	"travel-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RefundRepository interface {
	// Upsert inserts a refund keyed by the gateway refund id, or updates the
	// status/amount of an existing row. The unique constraint on
	// gateway_refund_id is what makes redelivered refund events harmless.
	Upsert(ctx context.Context, refund *entity.Refund) error
	// SumProcessedByPaymentID re-aggregates the confirmed refund total from
	// the ledger. Settlement always trusts this sum, never event ordering.
	SumProcessedByPaymentID(ctx context.Context, paymentID uuid.UUID) (int64, error)
	// SumNonFailedByPaymentID also counts initiated refunds the gateway has
	// not confirmed yet. This is the bound on what may still be refunded.
	SumNonFailedByPaymentID(ctx context.Context, paymentID uuid.UUID) (int64, error)
	FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*entity.Refund, error)
}

type refundRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRefundRepository(db database.PgxIface, log *zap.Logger) RefundRepository {
	return &refundRepository{
		db:  db,
		log: log.With(zap.String("repository", "refund")),
	}
}

func (r *refundRepository) Upsert(ctx context.Context, refund *entity.Refund) error {
	query := `
		INSERT INTO refunds (id, payment_id, gateway_refund_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (gateway_refund_id)
		DO UPDATE SET status = EXCLUDED.status, amount = EXCLUDED.amount
	`

	_, err := r.db.Exec(ctx, query,
		refund.ID,
		refund.PaymentID,
		refund.GatewayRefundID,
		refund.Amount,
		refund.Status,
		refund.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to upsert refund",
			zap.Error(err),
			zap.String("payment_id", refund.PaymentID.String()),
			zap.String("gateway_refund_id", refund.GatewayRefundID),
		)
		return fmt.Errorf("upsert refund %s: %w", refund.GatewayRefundID, err)
	}

	return nil
}

func (r *refundRepository) SumProcessedByPaymentID(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0) FROM refunds
		WHERE payment_id = $1 AND status = $2
	`

	var sum int64
	err := r.db.QueryRow(ctx, query, paymentID, entity.RefundStatusProcessed).Scan(&sum)
	if err != nil {
		r.log.Error("Failed to sum processed refunds",
			zap.Error(err),
			zap.String("payment_id", paymentID.String()),
		)
		return 0, fmt.Errorf("sum processed refunds for payment %s: %w", paymentID.String(), err)
	}

	return sum, nil
}

func (r *refundRepository) SumNonFailedByPaymentID(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0) FROM refunds
		WHERE payment_id = $1 AND status != $2
	`

	var sum int64
	err := r.db.QueryRow(ctx, query, paymentID, entity.RefundStatusFailed).Scan(&sum)
	if err != nil {
		r.log.Error("Failed to sum refunds",
			zap.Error(err),
			zap.String("payment_id", paymentID.String()),
		)
		return 0, fmt.Errorf("sum refunds for payment %s: %w", paymentID.String(), err)
	}

	return sum, nil
}

func (r *refundRepository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*entity.Refund, error) {
	query := `
		SELECT id, payment_id, gateway_refund_id, amount, status, created_at
		FROM refunds
		WHERE payment_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, paymentID)
	if err != nil {
		r.log.Error("Failed to find refunds",
			zap.Error(err),
			zap.String("payment_id", paymentID.String()),
		)
		return nil, fmt.Errorf("find refunds for payment %s: %w", paymentID.String(), err)
	}
	defer rows.Close()

	var refunds []*entity.Refund
	for rows.Next() {
		var refund entity.Refund
		err := rows.Scan(
			&refund.ID,
			&refund.PaymentID,
			&refund.GatewayRefundID,
			&refund.Amount,
			&refund.Status,
			&refund.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan refund row: %w", err)
		}
		refunds = append(refunds, &refund)
	}

	return refunds, nil
}
