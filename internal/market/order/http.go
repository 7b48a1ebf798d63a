// Copyright (c) 2026 FarmConnect. All rights reserved.

package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmconnect/api/internal/platform/middleware"
	requestutil "github.com/farmconnect/api/internal/platform/request"
	"github.com/farmconnect/api/internal/platform/respond"
	"github.com/farmconnect/api/internal/platform/validate"
	"github.com/farmconnect/api/pkg/pagination"
)

// Handler exposes orders over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates the HTTP handler for order routes.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the order endpoints. Everything here requires authentication.
func (h *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/", h.place)
	router.Get("/", h.list)

	return router
}

// placeRequest is the new-order payload. There is deliberately no buyer field:
// the buyer is whoever holds the session.
type placeRequest struct {
	Items []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
	DeliveryAddress string `json:"delivery_address"`
	Notes           string `json:"notes"`
}

// place handles POST /api/v1/orders.
func (h *Handler) place(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload placeRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		Required("delivery_address", payload.DeliveryAddress).
		MaxLen("delivery_address", payload.DeliveryAddress, 500).
		MaxLen("notes", payload.Notes, 1000).
		Custom("items", len(payload.Items) == 0, "Order must contain at least one item")
	for _, item := range payload.Items {
		validator.UUID("items.product_id", item.ProductID)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	lines := make([]LineInput, 0, len(payload.Items))
	for _, item := range payload.Items {
		lines = append(lines, LineInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	placed, err := h.service.Place(request.Context(), PlaceInput{
		BuyerID:         identity.AccountID,
		Lines:           lines,
		DeliveryAddress: payload.DeliveryAddress,
		Notes:           payload.Notes,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, placed)
}

// list handles GET /api/v1/orders. The visible set depends on who asks.
func (h *Handler) list(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	orders, meta, err := h.service.ListFor(request.Context(), identity, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, orders, meta)
}
