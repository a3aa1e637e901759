package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ordercraft/storefront/internal/domain/customer"
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Create inserts the customer and fills in the generated id and timestamp.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	const query = `INSERT INTO customers (name, email, phone, address)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		RETURNING customer_id, created_at`

	err := r.pool.QueryRow(ctx, query, c.Name, c.Email, c.Phone, c.Address).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return customer.ErrDuplicateEmail
		}
		return fmt.Errorf("inserting customer: %w", err)
	}
	return nil
}

// List returns all customers ordered by id.
func (r *CustomerRepository) List(ctx context.Context) ([]customer.Customer, error) {
	const query = `SELECT customer_id, name, email, COALESCE(phone, ''), COALESCE(address, ''), created_at
		FROM customers
		ORDER BY customer_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	customers := make([]customer.Customer, 0)
	for rows.Next() {
		var c customer.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning customer row: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customer rows: %w", err)
	}
	return customers, nil
}

// GetByID returns a single customer, or customer.ErrNotFound.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	const query = `SELECT customer_id, name, email, COALESCE(phone, ''), COALESCE(address, ''), created_at
		FROM customers
		WHERE customer_id = $1`

	var c customer.Customer
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("getting customer %d: %w", id, err)
	}
	return &c, nil
}

// Update replaces the customer's mutable fields.
func (r *CustomerRepository) Update(ctx context.Context, id int64, c *customer.Customer) error {
	const query = `UPDATE customers
		SET name = $2, email = $3, phone = NULLIF($4, ''), address = NULLIF($5, '')
		WHERE customer_id = $1`

	tag, err := r.pool.Exec(ctx, query, id, c.Name, c.Email, c.Phone, c.Address)
	if err != nil {
		if isUniqueViolation(err) {
			return customer.ErrDuplicateEmail
		}
		return fmt.Errorf("updating customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// Delete removes the customer.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE customer_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// Exists reports whether a customer with the given id is registered.
func (r *CustomerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE customer_id = $1)`, id).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking customer %d: %w", id, err)
	}
	return exists, nil
}
