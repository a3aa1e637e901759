package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ordercraft/storefront/internal/domain/order"
)

type orderItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type createOrderRequest struct {
	CustomerID int64              `json:"customer_id"`
	Date       *time.Time         `json:"date,omitempty"`
	Items      []orderItemRequest `json:"items"`
}

type lineItemResponse struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type orderResponse struct {
	ID         int64              `json:"id"`
	CustomerID int64              `json:"customer_id"`
	Date       time.Time          `json:"date"`
	Items      []lineItemResponse `json:"items"`
	Total      decimal.Decimal    `json:"total"`
}

func toOrderResponse(o order.Order) orderResponse {
	items := make([]lineItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = lineItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	return orderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Date:       o.Date,
		Items:      items,
		Total:      o.ComputeTotal(),
	}
}

// CreateOrder places a new order with its line items as one atomic unit.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CustomerID <= 0 {
		respondError(w, http.StatusBadRequest, "customer_id is required")
		return
	}

	domReq := order.CreateRequest{
		CustomerID: req.CustomerID,
		Items:      make([]order.NewItem, len(req.Items)),
	}
	if req.Date != nil {
		domReq.Date = *req.Date
	}
	for i, item := range req.Items {
		domReq.Items[i] = order.NewItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	created, err := h.orderService.Create(r.Context(), domReq)
	if err != nil {
		h.respondOrderError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toOrderResponse(*created))
}

// ListCustomerOrders returns the customer's orders ascending by order id,
// each with nested line items and computed total.
func (h *Handler) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	orders, err := h.orderService.GetForCustomer(r.Context(), id)
	if err != nil {
		respondInternal(r.Context(), w, err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	respondJSON(w, http.StatusOK, resp)
}

// respondOrderError maps order placement failures to HTTP statuses:
// malformed input is 400, semantically invalid references are 422,
// everything else is an operator problem.
func (h *Handler) respondOrderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrEmptyItems):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrUnknownProduct):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		var (
			unknownCustomer *order.UnknownCustomerError
			badQuantity     *order.InvalidQuantityError
			badPrice        *order.InvalidUnitPriceError
		)
		switch {
		case errors.As(err, &unknownCustomer):
			respondError(w, http.StatusUnprocessableEntity, unknownCustomer.Error())
		case errors.As(err, &badQuantity):
			respondError(w, http.StatusUnprocessableEntity, badQuantity.Error())
		case errors.As(err, &badPrice):
			respondError(w, http.StatusUnprocessableEntity, badPrice.Error())
		default:
			respondInternal(r.Context(), w, err)
		}
	}
}
