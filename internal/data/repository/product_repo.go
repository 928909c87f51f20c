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

// ProductRepository is the read-only catalog view. Catalog CRUD belongs to
// the catalog service; the booking engine only resolves price, capacity,
// and provider ownership.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	FindByTypeAndID(ctx context.Context, productType entity.ProductType, id uuid.UUID) (*entity.Product, error)
}

type productRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProductRepository(db database.PgxIface, log *zap.Logger) ProductRepository {
	return &productRepository{
		db:  db,
		log: log.With(zap.String("repository", "product")),
	}
}

const productColumns = `id, provider_id, product_type, name, unit_price, capacity,
	date_ranged, permit_required, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID,
		&p.ProviderID,
		&p.Type,
		&p.Name,
		&p.UnitPrice,
		&p.Capacity,
		&p.DateRanged,
		&p.PermitRequired,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find product by ID",
			zap.Error(err),
			zap.String("product_id", id.String()),
		)
		return nil, fmt.Errorf("find product by ID %s: %w", id.String(), err)
	}

	return product, nil
}

func (r *productRepository) FindByTypeAndID(ctx context.Context, productType entity.ProductType, id uuid.UUID) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_type = $1 AND id = $2`

	product, err := scanProduct(r.db.QueryRow(ctx, query, productType, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find product",
			zap.Error(err),
			zap.String("product_type", string(productType)),
			zap.String("product_id", id.String()),
		)
		return nil, fmt.Errorf("find %s product %s: %w", string(productType), id.String(), err)
	}

	return product, nil
}
