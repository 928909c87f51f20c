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

type BookingItemRepository interface {
	CreateBatch(ctx context.Context, items []*entity.BookingItem) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BookingItem, error)
}

type bookingItemRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingItemRepository(db database.PgxIface, log *zap.Logger) BookingItemRepository {
	return &bookingItemRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking_item")),
	}
}

const bookingItemColumns = `id, booking_id, product_type, product_id, start_date, end_date,
	quantity, unit_price, total_price, permit_required, created_at`

func scanBookingItem(row pgx.Row) (*entity.BookingItem, error) {
	var item entity.BookingItem
	err := row.Scan(
		&item.ID,
		&item.BookingID,
		&item.ProductType,
		&item.ProductID,
		&item.StartDate,
		&item.EndDate,
		&item.Quantity,
		&item.UnitPrice,
		&item.TotalPrice,
		&item.PermitRequired,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *bookingItemRepository) CreateBatch(ctx context.Context, items []*entity.BookingItem) error {
	query := `
		INSERT INTO booking_items (id, booking_id, product_type, product_id, start_date, end_date,
			quantity, unit_price, total_price, permit_required, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, item := range items {
		_, err := r.db.Exec(ctx, query,
			item.ID,
			item.BookingID,
			item.ProductType,
			item.ProductID,
			item.StartDate,
			item.EndDate,
			item.Quantity,
			item.UnitPrice,
			item.TotalPrice,
			item.PermitRequired,
			item.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create booking item",
				zap.Error(err),
				zap.String("booking_id", item.BookingID.String()),
				zap.String("product_id", item.ProductID.String()),
			)
			return fmt.Errorf("create booking item for %s: %w", item.BookingID.String(), err)
		}
	}

	return nil
}

func (r *bookingItemRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingItem, error) {
	query := `SELECT ` + bookingItemColumns + ` FROM booking_items WHERE booking_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find booking items",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find booking items for %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var items []*entity.BookingItem
	for rows.Next() {
		item, err := scanBookingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking item row: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}

func (r *bookingItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BookingItem, error) {
	query := `SELECT ` + bookingItemColumns + ` FROM booking_items WHERE id = $1`

	item, err := scanBookingItem(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking item by ID",
			zap.Error(err),
			zap.String("item_id", id.String()),
		)
		return nil, fmt.Errorf("find booking item by ID %s: %w", id.String(), err)
	}

	return item, nil
}
