// Copyright (c) 2026 FarmConnect. All rights reserved.

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/farmconnect/api/internal/platform/constants"
	"github.com/farmconnect/api/internal/platform/middleware"
	requestutil "github.com/farmconnect/api/internal/platform/request"
	"github.com/farmconnect/api/internal/platform/respond"
	"github.com/farmconnect/api/internal/platform/sec"
	"github.com/farmconnect/api/internal/platform/validate"
)

// Handler exposes the auth domain over HTTP.
type Handler struct {
	service *Service

	// secureCookies marks the session cookie Secure in production so it is
	// only ever sent over TLS.
	secureCookies bool
}

// NewHandler creates the HTTP handler for the auth routes.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{service: service, secureCookies: secureCookies}
}

// Routes mounts the auth endpoints.
//
// authLimit is the per-IP fixed-window limiter applied to the credential
// endpoints only; /me and /logout are not attack surfaces for guessing.
func (h *Handler) Routes(authLimit func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Group(func(limited chi.Router) {
		limited.Use(authLimit)
		limited.Post("/register", h.register)
		limited.Post("/login", h.login)
	})

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/me", h.me)
		protected.Post("/logout", h.logout)
	})

	return router
}

// # Wire Types

// registerRequest is the registration payload. The profile fields are
// interpreted according to userType.
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	UserType string `json:"userType"`

	FarmName    string `json:"farmName"`
	Location    string `json:"location"`
	Description string `json:"description"`

	Address string `json:"address"`
	Phone   string `json:"phone"`

	Role string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// accountView is the client-facing projection of an account. The password
// hash never appears here.
type accountView struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	UserType  sec.AccountType `json:"userType"`
	Status    Status          `json:"status"`
	Profile   Profile         `json:"profile"`
	CreatedAt time.Time       `json:"created_at"`
}

// sessionResponse carries the token alongside the account so browser clients
// (cookie) and API clients (bearer) are both served by one payload.
type sessionResponse struct {
	Token string      `json:"token"`
	User  accountView `json:"user"`
}

func newAccountView(account *Account, profile Profile) accountView {
	return accountView{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		UserType:  account.Type,
		Status:    account.Status,
		Profile:   profile,
		CreatedAt: account.CreatedAt,
	}
}

// # Handlers

// register handles POST /api/v1/auth/register.
func (h *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var payload registerRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validateRegister(&payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := h.service.Register(request.Context(), RegisterInput{
		Email:       payload.Email,
		Password:    payload.Password,
		Name:        payload.Name,
		Type:        sec.AccountType(payload.UserType),
		FarmName:    payload.FarmName,
		Location:    payload.Location,
		Description: payload.Description,
		Address:     payload.Address,
		Phone:       payload.Phone,
		Role:        AdminRole(payload.Role),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	h.setSessionCookie(writer, session)
	respond.Created(writer, sessionResponse{
		Token: session.Token,
		User:  newAccountView(session.Account, session.Profile),
	})
}

// login handles POST /api/v1/auth/login.
func (h *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var payload loginRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	err := validator.
		Required(FieldEmail, payload.Email).
		Email(FieldEmail, payload.Email).
		Required(FieldPassword, payload.Password).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := h.service.Authenticate(request.Context(), payload.Email, payload.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	h.setSessionCookie(writer, session)
	respond.OK(writer, sessionResponse{
		Token: session.Token,
		User:  newAccountView(session.Account, session.Profile),
	})
}

// me handles GET /api/v1/auth/me.
func (h *Handler) me(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, profile, err := h.service.CurrentAccount(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newAccountView(account, profile))
}

// logout handles POST /api/v1/auth/logout.
//
// Session tokens are stateless, so logout simply expires the cookie; bearer
// clients discard the token themselves.
func (h *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	h.clearSessionCookie(writer)
	respond.NoContent(writer)
}

// # Validation

// validateRegister runs the full registration rule chain, including the
// profile rules for the declared account type.
func validateRegister(payload *registerRequest) error {
	validator := &validate.Validator{}

	validator.
		Required(FieldEmail, payload.Email).
		MinLen(FieldEmail, payload.Email, 5).
		MaxLen(FieldEmail, payload.Email, 254).
		Email(FieldEmail, payload.Email).
		Password(FieldPassword, payload.Password).
		Required(FieldName, payload.Name).
		MaxLen(FieldName, payload.Name, 100).
		Name(FieldName, payload.Name).
		OneOf(FieldUserType, payload.UserType,
			string(sec.AccountTypeFarmer), string(sec.AccountTypeBuyer), string(sec.AccountTypeAdmin))

	switch sec.AccountType(payload.UserType) {
	case sec.AccountTypeFarmer:
		validator.
			Required(FieldFarmName, payload.FarmName).
			MaxLen(FieldFarmName, payload.FarmName, 200).
			Required(FieldLocation, payload.Location).
			MaxLen(FieldLocation, payload.Location, 200).
			MaxLen(FieldDescription, payload.Description, 1000)

	case sec.AccountTypeBuyer:
		validator.
			MaxLen(FieldAddress, payload.Address, 500).
			Phone(FieldPhone, payload.Phone)

	case sec.AccountTypeAdmin:
		if payload.Role != "" {
			validator.OneOf(FieldRole, payload.Role,
				string(AdminRoleSuperAdmin), string(AdminRoleAdmin), string(AdminRoleModerator))
		}
	}

	return validator.Err()
}

// # Cookie Management

// setSessionCookie attaches the session token as an httpOnly cookie scoped to
// the whole API. SameSite=Strict keeps it out of cross-site requests.
func (h *Handler) setSessionCookie(writer http.ResponseWriter, session *Session) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AuthCookieName,
		Value:    session.Token,
		Path:     constants.AuthCookiePath,
		Expires:  session.ExpiresAt,
		MaxAge:   int(constants.SessionTokenTTL / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func (h *Handler) clearSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AuthCookieName,
		Value:    "",
		Path:     constants.AuthCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
