package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// JoinedRow is one flat row of the orders / line-items / products join.
type JoinedRow struct {
	OrderID     int64
	OrderDate   time.Time
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// GroupRows folds a flat row stream into nested orders with running totals.
//
// Rows for the same order must be contiguous; callers guarantee this by
// ordering the query on ascending order id, which is also the order of the
// returned slice. Totals accumulate in exact decimal arithmetic, no
// intermediate floats. It is a pure function so the grouping is testable
// with literal fixtures, independent of query execution.
func GroupRows(customerID int64, rows []JoinedRow) []Order {
	orders := make([]Order, 0)
	var current *Order

	for _, row := range rows {
		if current == nil || current.ID != row.OrderID {
			if current != nil {
				orders = append(orders, *current)
			}
			current = &Order{
				ID:         row.OrderID,
				CustomerID: customerID,
				Date:       row.OrderDate,
				Items:      []LineItem{},
				Total:      decimal.Zero,
			}
		}

		item := LineItem{
			OrderID:     row.OrderID,
			ProductID:   row.ProductID,
			Quantity:    row.Quantity,
			UnitPrice:   row.UnitPrice,
			ProductName: row.ProductName,
		}
		current.Items = append(current.Items, item)
		current.Total = current.Total.Add(item.Subtotal())
	}

	if current != nil {
		orders = append(orders, *current)
	}
	return orders
}
