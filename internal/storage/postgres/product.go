package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ordercraft/storefront/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts the product and fills in the generated id.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	const query = `INSERT INTO products (manufacturer_id, name, description, price, stock_quantity)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING product_id`

	err := r.pool.QueryRow(ctx, query,
		p.ManufacturerID, p.Name, p.Description, p.Price, p.StockQuantity,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

// List returns all products with their manufacturer name joined in,
// ordered by id.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	const query = `SELECT p.product_id, p.manufacturer_id, COALESCE(m.name, '') AS manufacturer_name,
			p.name, COALESCE(p.description, ''), p.price, p.stock_quantity
		FROM products p
		LEFT JOIN manufacturers m ON p.manufacturer_id = m.manufacturer_id
		ORDER BY p.product_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	products := make([]product.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}
	return products, nil
}

// GetByID returns a single product, or product.ErrNotFound.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	const query = `SELECT p.product_id, p.manufacturer_id, COALESCE(m.name, '') AS manufacturer_name,
			p.name, COALESCE(p.description, ''), p.price, p.stock_quantity
		FROM products p
		LEFT JOIN manufacturers m ON p.manufacturer_id = m.manufacturer_id
		WHERE p.product_id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &p, nil
}

// Update changes the product's price and stock. Unit prices snapshotted on
// existing order line items are unaffected.
func (r *ProductRepository) Update(ctx context.Context, id int64, price decimal.Decimal, stock int) error {
	const query = `UPDATE products SET price = $2, stock_quantity = $3 WHERE product_id = $1`

	tag, err := r.pool.Exec(ctx, query, id, price, stock)
	if err != nil {
		return fmt.Errorf("updating product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete removes the product from the catalog.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID,
		&p.ManufacturerID,
		&p.ManufacturerName,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.StockQuantity,
	)
	return p, err
}
