package customer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Sentinel errors for customer lookups and writes.
var (
	ErrNotFound       = errors.New("customer not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Customer represents a registered customer account.
type Customer struct {
	ID        int64
	Name      string
	Email     string
	Phone     string // optional
	Address   string // optional
	CreatedAt time.Time
}

// Repository defines persistence operations for customers.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	List(ctx context.Context) ([]Customer, error)
	GetByID(ctx context.Context, id int64) (*Customer, error)
	Update(ctx context.Context, id int64, c *Customer) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}
