// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderhq/wander/internal/platform/apperr"
	"github.com/wanderhq/wander/internal/platform/middleware"
	requestutil "github.com/wanderhq/wander/internal/platform/request"
	"github.com/wanderhq/wander/internal/platform/respond"
	"github.com/wanderhq/wander/internal/platform/sec"
	"github.com/wanderhq/wander/internal/platform/validate"
	"github.com/wanderhq/wander/internal/users/auth"
	"github.com/wanderhq/wander/pkg/pagination"
)

// Handler implements the profile and account-administration endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the account routes on the /api/v1/users subrouter.
//
// Everything here requires authentication; the admin surface additionally
// requires the admin role.
func (handler *Handler) RegisterRoutes(router chi.Router, protect func(http.Handler) http.Handler) {
	router.Group(func(protected chi.Router) {
		protected.Use(protect)

		// Self-service
		protected.Get("/me", handler.me)
		protected.Patch("/updateMe", handler.updateMe)
		protected.Delete("/deleteMe", handler.deleteMe)

		// Administration
		protected.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireRole(sec.RoleAdmin))

			admin.Get("/", handler.listAccounts)
			admin.Post("/", handler.createAccount)
			admin.Get("/{id}", handler.getAccount)
			admin.Patch("/{id}", handler.updateAccount)
			admin.Delete("/{id}", handler.deleteAccount)
		})
	})
}

// # Request Payloads

type updateMeRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Photo *string `json:"photo"`

	// Captured only to reject password smuggling with a pointed message.
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"passwordConfirm"`
}

type adminUpdateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Photo *string `json:"photo"`
	Role  *string `json:"role"`
}

// # Self-Service Endpoints

/*
Me returns the authenticated user's own profile.

GET /api/v1/users/me

Response:
  - 200: Profile
  - 401: Unauthenticated
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, NewProfile(user))
}

/*
UpdateMe applies partial changes to the caller's own profile.

PATCH /api/v1/users/updateMe

Description: Only name, email, and photo are writable here. Any password
field in the payload is rejected outright so members are funneled to the
dedicated password route with its re-verification step.

Response:
  - 200: Profile: Updated profile
  - 400: ValidationError: Password field present, or invalid input
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Password != nil || input.PasswordConfirm != nil {
		respond.Error(writer, request, apperr.ValidationError(
			"This route is not for password updates. Please use /updateMyPassword."))
		return
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(auth.FieldName, *input.Name).MaxLen(auth.FieldName, *input.Name, 100)
	}
	if input.Email != nil {
		validator.Email(auth.FieldEmail, *input.Email)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Name:  input.Name,
		Email: input.Email,
		Photo: input.Photo,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, NewProfile(user))
}

/*
DeleteMe deactivates the caller's own account.

DELETE /api/v1/users/deleteMe

Description: Soft delete. The row survives for referential integrity, but
the account stops resolving everywhere, including the authentication gate.

Response:
  - 204: No Content
*/
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeactivateProfile(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Administration Endpoints

func (handler *Handler) listAccounts(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	users, total, err := handler.service.ListAccounts(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profiles := make([]Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, NewProfile(user))
	}

	respond.Paginated(writer, profiles, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// createAccount is intentionally not implemented: accounts only come into
// existence through the signup flow, where the password handling lives.
func (handler *Handler) createAccount(writer http.ResponseWriter, request *http.Request) {
	respond.Error(writer, request, &apperr.AppError{
		Code:        "INTERNAL_ERROR",
		Message:     "This route is not defined! Please use /signup instead!",
		HTTPStatus:  http.StatusInternalServerError,
		Operational: true,
	})
}

func (handler *Handler) getAccount(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.service.GetAccount(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, NewProfile(user))
}

func (handler *Handler) updateAccount(writer http.ResponseWriter, request *http.Request) {
	var input adminUpdateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateAccount(request.Context(), requestutil.ID(request, "id"), AdminUpdateInput{
		Name:  input.Name,
		Email: input.Email,
		Photo: input.Photo,
		Role:  input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, NewProfile(user))
}

func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteAccount(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
