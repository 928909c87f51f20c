package repository

import (
	"context"
	"fmt"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrCapacityExceeded = fmt.Errorf("capacity exceeded")

// AvailabilityRepository is the per-resource, per-day inventory ledger.
// Reserve and Release must run inside the caller's transaction (WithTx) so a
// date-range decrement commits or rolls back as a whole.
type AvailabilityRepository interface {
	// Reserve decrements available for every day in [start, end). Any day
	// with insufficient units aborts with ErrCapacityExceeded; no partial
	// decrement survives because the caller's transaction rolls back.
	Reserve(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) error
	// Release adds units back for every day in [start, end). It only ever
	// reverses a prior successful Reserve of the same quantity, so it cannot
	// push available past total when used correctly; the ceiling predicate
	// still guards the invariant.
	Release(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) error
	// CheckAvailable reports whether every day in [start, end) has at least
	// quantity units, without decrementing.
	CheckAvailable(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) (bool, error)
	FindRange(ctx context.Context, resourceID uuid.UUID, start, end time.Time) ([]*entity.AvailabilityRecord, error)
}

type availabilityRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAvailabilityRepository(db database.PgxIface, log *zap.Logger) AvailabilityRepository {
	return &availabilityRepository{
		db:  db,
		log: log.With(zap.String("repository", "availability")),
	}
}

// DaysIn expands [start, end) into calendar days. A two-night stay yields
// exactly two days.
func DaysIn(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (r *availabilityRepository) Reserve(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) error {
	query := `
		UPDATE availability
		SET available = available - $3, updated_at = NOW()
		WHERE resource_id = $1 AND day = $2 AND available >= $3
	`

	for _, day := range DaysIn(start, end) {
		result, err := r.db.Exec(ctx, query, resourceID, day, quantity)
		if err != nil {
			r.log.Error("Failed to reserve availability",
				zap.Error(err),
				zap.String("resource_id", resourceID.String()),
				zap.Time("day", day),
			)
			return fmt.Errorf("reserve %d units of %s on %s: %w",
				quantity, resourceID.String(), day.Format("2006-01-02"), err)
		}

		if result.RowsAffected() == 0 {
			return fmt.Errorf("reserve %d units of %s on %s: %w",
				quantity, resourceID.String(), day.Format("2006-01-02"), ErrCapacityExceeded)
		}
	}

	return nil
}

func (r *availabilityRepository) Release(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) error {
	query := `
		UPDATE availability
		SET available = available + $3, updated_at = NOW()
		WHERE resource_id = $1 AND day = $2 AND available + $3 <= total
	`

	for _, day := range DaysIn(start, end) {
		result, err := r.db.Exec(ctx, query, resourceID, day, quantity)
		if err != nil {
			r.log.Error("Failed to release availability",
				zap.Error(err),
				zap.String("resource_id", resourceID.String()),
				zap.Time("day", day),
			)
			return fmt.Errorf("release %d units of %s on %s: %w",
				quantity, resourceID.String(), day.Format("2006-01-02"), err)
		}

		if result.RowsAffected() == 0 {
			return fmt.Errorf("release %d units of %s on %s: row missing or over total",
				quantity, resourceID.String(), day.Format("2006-01-02"))
		}
	}

	return nil
}

func (r *availabilityRepository) CheckAvailable(ctx context.Context, resourceID uuid.UUID, start, end time.Time, quantity int) (bool, error) {
	days := DaysIn(start, end)
	if len(days) == 0 {
		return false, nil
	}

	query := `
		SELECT COUNT(*) FROM availability
		WHERE resource_id = $1 AND day >= $2 AND day < $3 AND available >= $4
	`

	var count int
	err := r.db.QueryRow(ctx, query, resourceID, start, end, quantity).Scan(&count)
	if err != nil {
		r.log.Error("Failed to check availability",
			zap.Error(err),
			zap.String("resource_id", resourceID.String()),
		)
		return false, fmt.Errorf("check availability of %s: %w", resourceID.String(), err)
	}

	return count == len(days), nil
}

func (r *availabilityRepository) FindRange(ctx context.Context, resourceID uuid.UUID, start, end time.Time) ([]*entity.AvailabilityRecord, error) {
	query := `
		SELECT resource_id, day, total, available, updated_at
		FROM availability
		WHERE resource_id = $1 AND day >= $2 AND day < $3
		ORDER BY day
	`

	rows, err := r.db.Query(ctx, query, resourceID, start, end)
	if err != nil {
		r.log.Error("Failed to find availability range",
			zap.Error(err),
			zap.String("resource_id", resourceID.String()),
		)
		return nil, fmt.Errorf("find availability range of %s: %w", resourceID.String(), err)
	}
	defer rows.Close()

	var records []*entity.AvailabilityRecord
	for rows.Next() {
		var rec entity.AvailabilityRecord
		err := rows.Scan(&rec.ResourceID, &rec.Day, &rec.Total, &rec.Available, &rec.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan availability row: %w", err)
		}
		records = append(records, &rec)
	}

	return records, nil
}
