package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrUnknownProduct is reported by Repository.Create when a line item
// references a product that does not exist. The whole order is rolled back.
var ErrUnknownProduct = errors.New("line item references an unknown product")

// Order represents an order header together with its line items.
// Total is derived from the items at read time and is never persisted.
type Order struct {
	ID         int64
	CustomerID int64
	Date       time.Time
	Items      []LineItem
	Total      decimal.Decimal
}

// LineItem is one product entry within an order. UnitPrice is snapshotted at
// order time and does not follow later changes to the product's catalog
// price. ProductName is populated only when the order is read back through
// the product join.
type LineItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	Quantity    int
	UnitPrice   decimal.Decimal
	ProductName string
}

// Subtotal returns quantity × unit price for this line item.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// ComputeTotal sums the line item subtotals in exact decimal arithmetic.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order header and all of its line items as one
	// atomic unit, assigning o.ID and o.Date. On failure nothing is
	// persisted. Line items are not re-read; their generated identifiers
	// stay zero.
	Create(ctx context.Context, o *Order) error

	// GetByCustomer returns the customer's orders ascending by order id,
	// each with its line items (product names joined in) and computed
	// total. A customer with no orders yields an empty slice.
	GetByCustomer(ctx context.Context, customerID int64) ([]Order, error)
}
