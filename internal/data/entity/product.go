package entity

import (
	"github.com/google/uuid"
)

type ProductType string

const (
	ProductTypeTour     ProductType = "tour"
	ProductTypeHomestay ProductType = "homestay"
	ProductTypeVehicle  ProductType = "vehicle"
	ProductTypeGuide    ProductType = "guide"
)

// Product is the narrow catalog view the booking engine needs. Catalog CRUD
// lives outside this service; only these fields are ever read here.
type Product struct {
	Base
	ProviderID     uuid.UUID   `db:"provider_id"`
	Type           ProductType `db:"product_type"`
	Name           string      `db:"name"`
	UnitPrice      int64       `db:"unit_price"`
	Capacity       int         `db:"capacity"`
	DateRanged     bool        `db:"date_ranged"`
	PermitRequired bool        `db:"permit_required"`
	IsActive       bool        `db:"is_active"`
}
