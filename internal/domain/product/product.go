package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase.
type Product struct {
	ID               int64
	ManufacturerID   *int64 // nil when unbranded
	ManufacturerName string // populated on read via join
	Name             string
	Description      string
	Price            decimal.Decimal
	StockQuantity    int
}

// Repository defines operations on the product catalog.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	// Update changes the mutable catalog fields: price and stock.
	// Line items of existing orders keep their snapshotted unit price.
	Update(ctx context.Context, id int64, price decimal.Decimal, stock int) error
	Delete(ctx context.Context, id int64) error
}
