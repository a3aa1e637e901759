// Package handler implements the JSON HTTP transport over the domain
// services and repositories.
package handler

import (
	"net/http"

	"github.com/ordercraft/storefront/internal/domain/customer"
	"github.com/ordercraft/storefront/internal/domain/order"
	"github.com/ordercraft/storefront/internal/domain/product"
)

// Handler holds the domain dependencies behind the HTTP API.
type Handler struct {
	customers    customer.Repository
	products     product.Repository
	orderService *order.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	customers customer.Repository,
	products product.Repository,
	orderService *order.Service,
) *Handler {
	return &Handler{
		customers:    customers,
		products:     products,
		orderService: orderService,
	}
}

// Register mounts all API routes on mux under /api.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/customers", h.CreateCustomer)
	mux.HandleFunc("GET /api/customers", h.ListCustomers)
	mux.HandleFunc("GET /api/customers/{id}", h.GetCustomer)
	mux.HandleFunc("PUT /api/customers/{id}", h.UpdateCustomer)
	mux.HandleFunc("DELETE /api/customers/{id}", h.DeleteCustomer)
	mux.HandleFunc("GET /api/customers/{id}/orders", h.ListCustomerOrders)

	mux.HandleFunc("POST /api/products", h.CreateProduct)
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("PUT /api/products/{id}", h.UpdateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", h.DeleteProduct)

	mux.HandleFunc("POST /api/orders", h.CreateOrder)
}
