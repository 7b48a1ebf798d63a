// Copyright (c) 2026 FarmConnect. All rights reserved.

package product

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/farmconnect/api/internal/platform/middleware"
	requestutil "github.com/farmconnect/api/internal/platform/request"
	"github.com/farmconnect/api/internal/platform/respond"
	"github.com/farmconnect/api/internal/platform/validate"
	"github.com/farmconnect/api/pkg/pagination"
)

// Handler exposes the product catalogue over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates the HTTP handler for product routes.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the product endpoints. Browsing is public; creating a listing
// requires a FARMER account.
func (h *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", h.list)
	router.Get("/{slug}", h.getBySlug)

	router.Group(func(farmers chi.Router) {
		farmers.Use(middleware.RequireFarmer)
		farmers.Post("/", h.create)
	})

	return router
}

// createRequest is the new-listing payload.
type createRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	ImageURL    string  `json:"image_url"`
	Stock       int     `json:"stock"`
	Organic     bool    `json:"organic"`
	HarvestDate string  `json:"harvest_date"` // RFC 3339 date, optional
	Location    string  `json:"location"`
}

// list handles GET /api/v1/products.
func (h *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	products, meta, err := h.service.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, meta)
}

// getBySlug handles GET /api/v1/products/{slug}.
func (h *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	productSlug := requestutil.Param(request, "slug")

	product, err := h.service.GetBySlug(request.Context(), productSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

// create handles POST /api/v1/products.
func (h *Handler) create(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload createRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	harvestDate, err := parseHarvestDate(payload.HarvestDate)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	err = validator.
		Required("name", payload.Name).
		MaxLen("name", payload.Name, 200).
		MaxLen("description", payload.Description, 2000).
		OneOf("category", payload.Category, Categories...).
		Custom("price", payload.Price <= 0, "Must be a positive amount").
		OneOf("unit", payload.Unit, Units...).
		MaxLen("image_url", payload.ImageURL, 2048).
		Custom("stock", payload.Stock < 0, "Cannot be negative").
		MaxLen("location", payload.Location, 200).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := h.service.Create(request.Context(), CreateInput{
		FarmerID:    identity.AccountID,
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
		Price:       payload.Price,
		Unit:        payload.Unit,
		ImageURL:    payload.ImageURL,
		Stock:       payload.Stock,
		Organic:     payload.Organic,
		HarvestDate: harvestDate,
		Location:    payload.Location,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, product)
}

// parseHarvestDate parses the optional harvest date field.
func parseHarvestDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Also accept a bare date, the common client format.
		parsed, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, validate.RequiredError("harvest_date", "Must be an RFC 3339 date")
		}
	}
	return &parsed, nil
}
