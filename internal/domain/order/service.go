package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrEmptyItems is returned when an order is placed without line items.
var ErrEmptyItems = errors.New("at least one line item is required")

// UnknownCustomerError indicates the referenced customer does not exist.
type UnknownCustomerError struct {
	CustomerID int64
}

func (e *UnknownCustomerError) Error() string {
	return fmt.Sprintf("no customer with id %d", e.CustomerID)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %d", e.ProductID)
}

// InvalidUnitPriceError indicates a line item has a negative unit price.
type InvalidUnitPriceError struct {
	ProductID int64
}

func (e *InvalidUnitPriceError) Error() string {
	return fmt.Sprintf("unit price must not be negative for product %d", e.ProductID)
}

// CustomerDirectory reports whether a customer exists. It decouples the
// order subsystem from the customer repository.
type CustomerDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// NewItem is one requested line item: the product, how many, and the unit
// price captured at order time.
type NewItem struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateRequest holds the order header and line items supplied by the caller.
// A zero Date lets the store assign its default timestamp.
type CreateRequest struct {
	CustomerID int64
	Date       time.Time
	Items      []NewItem
}

// Service validates order requests and mediates between callers and the
// order repository.
type Service struct {
	customers CustomerDirectory
	orders    Repository
}

// NewService creates an order Service with the required dependencies.
func NewService(customers CustomerDirectory, orders Repository) *Service {
	return &Service{
		customers: customers,
		orders:    orders,
	}
}

// Create validates the request and persists the order atomically. Validation
// failures are rejected before any database access. On success the returned
// order carries its assigned identifier and timestamp; product names are not
// joined in on the write path.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		if item.UnitPrice.IsNegative() {
			return nil, &InvalidUnitPriceError{ProductID: item.ProductID}
		}
	}

	exists, err := s.customers.Exists(ctx, req.CustomerID)
	if err != nil {
		return nil, errors.Wrap(err, "check customer")
	}
	if !exists {
		return nil, &UnknownCustomerError{CustomerID: req.CustomerID}
	}

	o := &Order{
		CustomerID: req.CustomerID,
		Date:       req.Date,
		Items:      make([]LineItem, len(req.Items)),
	}
	for i, item := range req.Items {
		o.Items[i] = LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// GetForCustomer returns the customer's orders ascending by order id. A
// customer with no orders yields an empty slice, never an error.
func (s *Service) GetForCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	orders, err := s.orders.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "get orders")
	}
	return orders, nil
}
