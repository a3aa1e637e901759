package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCustomerDirectory struct {
	exists    bool
	err       error
	lastID    int64
	callCount int
}

func (m *mockCustomerDirectory) Exists(_ context.Context, id int64) (bool, error) {
	m.callCount++
	m.lastID = id
	return m.exists, m.err
}

type mockOrderRepo struct {
	createErr   error
	createCalls int
	created     *Order

	orders  []Order
	listErr error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	m.createCalls++
	m.created = o
	if m.createErr != nil {
		return m.createErr
	}
	o.ID = 42
	o.Date = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return nil
}

func (m *mockOrderRepo) GetByCustomer(_ context.Context, _ int64) ([]Order, error) {
	return m.orders, m.listErr
}

func TestServiceCreate_Success(t *testing.T) {
	customers := &mockCustomerDirectory{exists: true}
	repo := &mockOrderRepo{}
	svc := NewService(customers, repo)

	o, err := svc.Create(context.Background(), CreateRequest{
		CustomerID: 7,
		Items: []NewItem{
			{ProductID: 10, Quantity: 2, UnitPrice: d("10.00")},
			{ProductID: 11, Quantity: 3, UnitPrice: d("4.50")},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, int64(42), o.ID)
	assert.Equal(t, int64(7), o.CustomerID)
	assert.False(t, o.Date.IsZero())
	require.Len(t, o.Items, 2)
	assert.Equal(t, int64(10), o.Items[0].ProductID)
	assert.Equal(t, 2, o.Items[0].Quantity)

	assert.Equal(t, int64(7), customers.lastID)
	assert.Equal(t, 1, repo.createCalls)
}

func TestServiceCreate_EmptyItems(t *testing.T) {
	customers := &mockCustomerDirectory{exists: true}
	repo := &mockOrderRepo{}
	svc := NewService(customers, repo)

	_, err := svc.Create(context.Background(), CreateRequest{CustomerID: 7})

	assert.ErrorIs(t, err, ErrEmptyItems)
	assert.Zero(t, customers.callCount, "validation must reject before any lookup")
	assert.Zero(t, repo.createCalls)
}

func TestServiceCreate_InvalidQuantity(t *testing.T) {
	svc := NewService(&mockCustomerDirectory{exists: true}, &mockOrderRepo{})

	for _, qty := range []int{0, -1} {
		_, err := svc.Create(context.Background(), CreateRequest{
			CustomerID: 7,
			Items:      []NewItem{{ProductID: 10, Quantity: qty, UnitPrice: d("1.00")}},
		})

		var invalid *InvalidQuantityError
		require.ErrorAs(t, err, &invalid, "quantity %d", qty)
		assert.Equal(t, int64(10), invalid.ProductID)
	}
}

func TestServiceCreate_NegativeUnitPrice(t *testing.T) {
	svc := NewService(&mockCustomerDirectory{exists: true}, &mockOrderRepo{})

	_, err := svc.Create(context.Background(), CreateRequest{
		CustomerID: 7,
		Items:      []NewItem{{ProductID: 10, Quantity: 1, UnitPrice: d("-0.01")}},
	})

	var invalid *InvalidUnitPriceError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, int64(10), invalid.ProductID)
}

func TestServiceCreate_ZeroUnitPriceAllowed(t *testing.T) {
	svc := NewService(&mockCustomerDirectory{exists: true}, &mockOrderRepo{})

	o, err := svc.Create(context.Background(), CreateRequest{
		CustomerID: 7,
		Items:      []NewItem{{ProductID: 10, Quantity: 1, UnitPrice: decimal.Zero}},
	})

	require.NoError(t, err)
	assert.True(t, decimal.Zero.Equal(o.Items[0].UnitPrice))
}

func TestServiceCreate_UnknownCustomer(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := NewService(&mockCustomerDirectory{exists: false}, repo)

	_, err := svc.Create(context.Background(), CreateRequest{
		CustomerID: 999,
		Items:      []NewItem{{ProductID: 10, Quantity: 1, UnitPrice: d("1.00")}},
	})

	var unknown *UnknownCustomerError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, int64(999), unknown.CustomerID)
	assert.Zero(t, repo.createCalls)
}

func TestServiceCreate_DirectoryError(t *testing.T) {
	svc := NewService(&mockCustomerDirectory{err: errors.New("connection reset")}, &mockOrderRepo{})

	_, err := svc.Create(context.Background(), CreateRequest{
		CustomerID: 7,
		Items:      []NewItem{{ProductID: 10, Quantity: 1, UnitPrice: d("1.00")}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "check customer")
}

func TestServiceCreate_RepoErrorPropagates(t *testing.T) {
	repo := &mockOrderRepo{createErr: errors.Wrap(ErrUnknownProduct, "product 10")}
	svc := NewService(&mockCustomerDirectory{exists: true}, repo)

	_, err := svc.Create(context.Background(), CreateRequest{
		CustomerID: 7,
		Items:      []NewItem{{ProductID: 10, Quantity: 1, UnitPrice: d("1.00")}},
	})

	assert.ErrorIs(t, err, ErrUnknownProduct)
}

func TestServiceGetForCustomer(t *testing.T) {
	repo := &mockOrderRepo{orders: []Order{{ID: 1}, {ID: 2}}}
	svc := NewService(&mockCustomerDirectory{exists: true}, repo)

	orders, err := svc.GetForCustomer(context.Background(), 7)

	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestServiceGetForCustomer_Empty(t *testing.T) {
	repo := &mockOrderRepo{orders: []Order{}}
	svc := NewService(&mockCustomerDirectory{}, repo)

	orders, err := svc.GetForCustomer(context.Background(), 7)

	require.NoError(t, err)
	require.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestServiceGetForCustomer_Error(t *testing.T) {
	repo := &mockOrderRepo{listErr: errors.New("query failed")}
	svc := NewService(&mockCustomerDirectory{}, repo)

	_, err := svc.GetForCustomer(context.Background(), 7)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "get orders")
}
