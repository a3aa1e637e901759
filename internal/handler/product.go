package handler

import (
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ordercraft/storefront/internal/domain/product"
)

type productRequest struct {
	ManufacturerID *int64          `json:"manufacturer_id,omitempty"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Price          decimal.Decimal `json:"price"`
	StockQuantity  int             `json:"stock_quantity"`
}

func (req productRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	if req.Price.IsNegative() {
		return errors.New("price must not be negative")
	}
	if req.StockQuantity < 0 {
		return errors.New("stock_quantity must not be negative")
	}
	return nil
}

type productResponse struct {
	ID               int64           `json:"id"`
	ManufacturerID   *int64          `json:"manufacturer_id,omitempty"`
	ManufacturerName string          `json:"manufacturer_name,omitempty"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Price            decimal.Decimal `json:"price"`
	StockQuantity    int             `json:"stock_quantity"`
}

func toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:               p.ID,
		ManufacturerID:   p.ManufacturerID,
		ManufacturerName: p.ManufacturerName,
		Name:             p.Name,
		Description:      p.Description,
		Price:            p.Price,
		StockQuantity:    p.StockQuantity,
	}
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := product.Product{
		ManufacturerID: req.ManufacturerID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		StockQuantity:  req.StockQuantity,
	}
	if err := h.products.Create(r.Context(), &p); err != nil {
		respondInternal(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProductResponse(p))
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondInternal(r.Context(), w, err)
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondInternal(r.Context(), w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(*p))
}

type updateProductRequest struct {
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
}

// UpdateProduct changes the catalog price and stock. Existing order line
// items keep the unit price captured when they were placed.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req updateProductRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Price.IsNegative() || req.StockQuantity < 0 {
		respondError(w, http.StatusBadRequest, "price and stock_quantity must not be negative")
		return
	}

	if err := h.products.Update(r.Context(), id, req.Price, req.StockQuantity); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondInternal(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondInternal(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
