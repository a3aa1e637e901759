package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordercraft/storefront/internal/domain/customer"
	"github.com/ordercraft/storefront/internal/domain/order"
	"github.com/ordercraft/storefront/internal/domain/product"
)

type stubCustomerRepo struct {
	customers map[int64]customer.Customer
	createErr error
	updateErr error
	deleteErr error
}

func newStubCustomerRepo(customers ...customer.Customer) *stubCustomerRepo {
	m := make(map[int64]customer.Customer, len(customers))
	for _, c := range customers {
		m[c.ID] = c
	}
	return &stubCustomerRepo{customers: m}
}

func (s *stubCustomerRepo) Create(_ context.Context, c *customer.Customer) error {
	if s.createErr != nil {
		return s.createErr
	}
	c.ID = int64(len(s.customers) + 1)
	s.customers[c.ID] = *c
	return nil
}

func (s *stubCustomerRepo) List(_ context.Context) ([]customer.Customer, error) {
	out := make([]customer.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubCustomerRepo) GetByID(_ context.Context, id int64) (*customer.Customer, error) {
	c, ok := s.customers[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return &c, nil
}

func (s *stubCustomerRepo) Update(_ context.Context, id int64, c *customer.Customer) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.customers[id]; !ok {
		return customer.ErrNotFound
	}
	c.ID = id
	s.customers[id] = *c
	return nil
}

func (s *stubCustomerRepo) Delete(_ context.Context, id int64) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.customers[id]; !ok {
		return customer.ErrNotFound
	}
	delete(s.customers, id)
	return nil
}

func (s *stubCustomerRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := s.customers[id]
	return ok, nil
}

type stubProductRepo struct {
	products  map[int64]product.Product
	createErr error
}

func newStubProductRepo(products ...product.Product) *stubProductRepo {
	m := make(map[int64]product.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &stubProductRepo{products: m}
}

func (s *stubProductRepo) Create(_ context.Context, p *product.Product) error {
	if s.createErr != nil {
		return s.createErr
	}
	p.ID = int64(len(s.products) + 1)
	s.products[p.ID] = *p
	return nil
}

func (s *stubProductRepo) List(_ context.Context) ([]product.Product, error) {
	out := make([]product.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (s *stubProductRepo) Update(_ context.Context, id int64, price decimal.Decimal, stock int) error {
	p, ok := s.products[id]
	if !ok {
		return product.ErrNotFound
	}
	p.Price = price
	p.StockQuantity = stock
	s.products[id] = p
	return nil
}

func (s *stubProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := s.products[id]; !ok {
		return product.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

type stubOrderRepo struct {
	orders    []order.Order
	createErr error
	listErr   error
}

func (s *stubOrderRepo) Create(_ context.Context, o *order.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	o.ID = int64(len(s.orders) + 1)
	s.orders = append(s.orders, *o)
	return nil
}

func (s *stubOrderRepo) GetByCustomer(_ context.Context, _ int64) ([]order.Order, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.orders, nil
}

func newTestMux(customers customer.Repository, products product.Repository, orders order.Repository) *http.ServeMux {
	h := NewHandler(customers, products, order.NewService(customers, orders))
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCreateCustomer(t *testing.T) {
	repo := newStubCustomerRepo()
	mux := newTestMux(repo, newStubProductRepo(), &stubOrderRepo{})

	rec := doRequest(t, mux, http.MethodPost, "/api/customers",
		`{"name":"Ada Lovelace","email":"ada@example.com","phone":"555-0101"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp customerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Ada Lovelace", resp.Name)
	assert.Equal(t, "ada@example.com", resp.Email)
}

func TestCreateCustomer_Invalid(t *testing.T) {
	mux := newTestMux(newStubCustomerRepo(), newStubProductRepo(), &stubOrderRepo{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"unknown field", `{"name":"Ada","email":"ada@example.com","nickname":"al"}`},
		{"missing name", `{"email":"ada@example.com"}`},
		{"bad email", `{"name":"Ada","email":"not-an-email"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, mux, http.MethodPost, "/api/customers", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	repo := newStubCustomerRepo()
	repo.createErr = customer.ErrDuplicateEmail
	mux := newTestMux(repo, newStubProductRepo(), &stubOrderRepo{})

	rec := doRequest(t, mux, http.MethodPost, "/api/customers",
		`{"name":"Ada Lovelace","email":"ada@example.com"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetCustomer_NotFound(t *testing.T) {
	mux := newTestMux(newStubCustomerRepo(), newStubProductRepo(), &stubOrderRepo{})

	rec := doRequest(t, mux, http.MethodGet, "/api/customers/999", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCustomer_BadID(t *testing.T) {
	mux := newTestMux(newStubCustomerRepo(), newStubProductRepo(), &stubOrderRepo{})

	rec := doRequest(t, mux, http.MethodGet, "/api/customers/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCustomer(t *testing.T) {
	repo := newStubCustomerRepo(customer.Customer{ID: 3, Name: "Old", Email: "old@example.com"})
	mux := newTestMux(repo, newStubProductRepo(), &stubOrderRepo{})

	rec := doRequest(t, mux, http.MethodPut, "/api/customers/3",
		`{"name":"New Name","email":"new@example.com"}`)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "New Name", repo.customers[3].Name)
}

func TestDeleteCustomer(t *testing.T) {
	repo := newStubCustomerRepo(customer.Customer{ID: 3, Name: "Ada", Email: "ada@example.com"})
	mux := newTestMux(repo, newStubProductRepo(), &stubOrderRepo{})

	rec := doRequest(t, mux, http.MethodDelete, "/api/customers/3", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, mux, http.MethodDelete, "/api/customers/3", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProduct(t *testing.T) {
	mux := newTestMux(newStubCustomerRepo(), newStubProductRepo(), &stubOrderRepo{})

	rec := doRequest(t, mux, http.MethodPost, "/api/products",
		`{"name":"Widget","price":"19.99","stock_quantity":40}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp productResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Widget", resp.Name)
	assert.True(t, decimal.RequireFromString("19.99").Equal(resp.Price))
}

func TestCreateProduct_Invalid(t *testing.T) {
	mux := newTestMux(newStubCustomerRepo(), newStubProductRepo(), &stubOrderRepo{})

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"price":"1.00"}`},
		{"negative price", `{"name":"Widget","price":"-1.00"}`},
		{"negative stock", `{"name":"Widget","price":"1.00","stock_quantity":-5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, mux, http.MethodPost, "/api/products", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	repo := newStubProductRepo(product.Product{ID: 5, Name: "Widget", Price: decimal.RequireFromString("10.00"), StockQuantity: 3})
	mux := newTestMux(newStubCustomerRepo(), repo, &stubOrderRepo{})

	rec := doRequest(t, mux, http.MethodPut, "/api/products/5",
		`{"price":"12.50","stock_quantity":8}`)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, decimal.RequireFromString("12.50").Equal(repo.products[5].Price))
	assert.Equal(t, 8, repo.products[5].StockQuantity)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	mux := newTestMux(newStubCustomerRepo(), newStubProductRepo(), &stubOrderRepo{})

	rec := doRequest(t, mux, http.MethodPut, "/api/products/404",
		`{"price":"12.50","stock_quantity":8}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProducts_Empty(t *testing.T) {
	mux := newTestMux(newStubCustomerRepo(), newStubProductRepo(), &stubOrderRepo{})

	rec := doRequest(t, mux, http.MethodGet, "/api/products", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
