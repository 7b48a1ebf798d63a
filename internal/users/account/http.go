// Copyright (c) 2026 FarmConnect. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmconnect/api/internal/platform/middleware"
	requestutil "github.com/farmconnect/api/internal/platform/request"
	"github.com/farmconnect/api/internal/platform/respond"
	"github.com/farmconnect/api/internal/platform/validate"
	"github.com/farmconnect/api/pkg/pagination"
)

// Handler exposes the farmer directory and admin account tooling over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates the HTTP handler for account routes.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the public farmer directory.
func (h *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", h.listFarmers)
	return router
}

// AdminRoutes mounts the account administration endpoints. Every route is
// gated to ADMIN accounts.
func (h *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAdmin)

	router.Get("/farmers/pending", h.listPendingFarmers)
	router.Post("/farmers/{accountID}/approve", h.approveFarmer)
	router.Post("/accounts/{accountID}/suspend", h.suspendAccount)
	router.Post("/accounts/{accountID}/activate", h.activateAccount)

	return router
}

// listFarmers handles GET /api/v1/farmers.
func (h *Handler) listFarmers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	listings, meta, err := h.service.ListFarmers(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listings, meta)
}

// listPendingFarmers handles GET /api/v1/admin/farmers/pending.
func (h *Handler) listPendingFarmers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	pending, meta, err := h.service.ListPendingFarmers(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, pending, meta)
}

// approveFarmer handles POST /api/v1/admin/farmers/{accountID}/approve.
func (h *Handler) approveFarmer(writer http.ResponseWriter, request *http.Request) {
	accountID, err := pathAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.service.ApproveFarmer(request.Context(), accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"status": "ACTIVE"})
}

// suspendAccount handles POST /api/v1/admin/accounts/{accountID}/suspend.
func (h *Handler) suspendAccount(writer http.ResponseWriter, request *http.Request) {
	accountID, err := pathAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actorID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.service.SuspendAccount(request.Context(), actorID, accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"status": "SUSPENDED"})
}

// activateAccount handles POST /api/v1/admin/accounts/{accountID}/activate.
func (h *Handler) activateAccount(writer http.ResponseWriter, request *http.Request) {
	accountID, err := pathAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.service.ActivateAccount(request.Context(), accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"status": "ACTIVE"})
}

// pathAccountID extracts and validates the {accountID} URL parameter.
func pathAccountID(request *http.Request) (string, error) {
	accountID := requestutil.Param(request, "accountID")

	validator := &validate.Validator{}
	if err := validator.UUID("accountID", accountID).Err(); err != nil {
		return "", err
	}
	return accountID, nil
}
