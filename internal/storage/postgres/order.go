package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ordercraft/storefront/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

const insertOrderSQL = `INSERT INTO orders (customer_id, order_date)
	VALUES ($1, COALESCE($2, now()))
	RETURNING order_id, order_date`

const insertLineItemSQL = `INSERT INTO orders_products (order_id, product_id, quantity, unit_price)
	VALUES ($1, $2, $3, $4)`

// Rows for one order are contiguous (ordered by order id); the secondary
// sort keeps line items in their insertion order within each order.
const selectOrdersByCustomerSQL = `SELECT
		o.order_id,
		o.order_date,
		p.product_id,
		p.name AS product_name,
		op.quantity,
		op.unit_price
	FROM orders o
	JOIN orders_products op ON o.order_id = op.order_id
	JOIN products p ON op.product_id = p.product_id
	WHERE o.customer_id = $1
	ORDER BY o.order_id, op.order_product_id`

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order header and its line items in one transaction.
// The header insert returns the generated order id and timestamp; line items
// go in as a single batch referencing that id. Any failure rolls back the
// whole order — the deferred rollback also covers panics, so no connection
// is ever returned to the pool mid-transaction.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			// The original write error is the one surfaced to the caller;
			// a failed rollback must not mask it.
			zctx.From(ctx).Error("order create rollback failed", zap.Error(rbErr))
		}
	}()

	var date any
	if !o.Date.IsZero() {
		date = o.Date
	}

	var (
		orderID   int64
		orderDate time.Time
	)
	if err := tx.QueryRow(ctx, insertOrderSQL, o.CustomerID, date).Scan(&orderID, &orderDate); err != nil {
		return fmt.Errorf("inserting order header: %w", err)
	}

	batch := &pgx.Batch{}
	for _, item := range o.Items {
		batch.Queue(insertLineItemSQL, orderID, item.ProductID, item.Quantity, item.UnitPrice)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range o.Items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isForeignKeyViolation(err) {
				return errors.Wrapf(order.ErrUnknownProduct, "product %d", o.Items[i].ProductID)
			}
			return fmt.Errorf("inserting line item %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("closing line item batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit")
	}

	o.ID = orderID
	o.Date = orderDate
	for i := range o.Items {
		o.Items[i].OrderID = orderID
	}
	return nil
}

// GetByCustomer runs the single join query and folds the flat row stream
// into nested orders. No rows is not an error: the fold of an empty stream
// is an empty slice.
func (r *OrderRepository) GetByCustomer(ctx context.Context, customerID int64) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, selectOrdersByCustomerSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("querying orders for customer %d: %w", customerID, err)
	}
	defer rows.Close()

	var flat []order.JoinedRow
	for rows.Next() {
		var jr order.JoinedRow
		if err := rows.Scan(
			&jr.OrderID,
			&jr.OrderDate,
			&jr.ProductID,
			&jr.ProductName,
			&jr.Quantity,
			&jr.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		flat = append(flat, jr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return order.GroupRows(customerID, flat), nil
}
