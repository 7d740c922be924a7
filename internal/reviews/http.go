// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package reviews

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderhq/wander/internal/platform/middleware"
	requestutil "github.com/wanderhq/wander/internal/platform/request"
	"github.com/wanderhq/wander/internal/platform/respond"
	"github.com/wanderhq/wander/internal/platform/sec"
	"github.com/wanderhq/wander/internal/platform/validate"
	"github.com/wanderhq/wander/pkg/pagination"
)

// Handler implements the review HTTP endpoints.
//
// # Route Shapes
//
// Reviews are reachable two ways: the flat /api/v1/reviews surface and the
// nested /api/v1/tours/{tourID}/reviews surface, where the tour comes from
// the path instead of the payload. The legacy /createReview and
// /updateReview aliases are kept for older clients.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the flat review routes on the /api/v1/reviews
// subrouter. Every route requires authentication; writes are further
// restricted per handler.
func (handler *Handler) RegisterRoutes(router chi.Router, protect func(http.Handler) http.Handler) {
	router.Use(protect)

	router.Get("/", handler.listReviews)
	router.Get("/{id}", handler.getReview)

	memberOnly := middleware.RequireRole(sec.RoleUser)
	router.With(memberOnly).Post("/", handler.createReview)
	router.With(memberOnly).Post("/createReview", handler.createReview) // legacy alias

	ownerOrAdmin := middleware.RequireRole(sec.RoleUser, sec.RoleAdmin)
	router.With(ownerOrAdmin).Patch("/updateReview", handler.updateReviewAlias) // legacy alias
	router.With(ownerOrAdmin).Patch("/{id}", handler.updateReview)
	router.With(ownerOrAdmin).Delete("/{id}", handler.deleteReview)
}

// RegisterTourRoutes mounts the nested routes on the
// /api/v1/tours/{tourID}/reviews subrouter.
func (handler *Handler) RegisterTourRoutes(router chi.Router, protect func(http.Handler) http.Handler) {
	router.Use(protect)

	router.Get("/", handler.listTourReviews)

	memberOnly := middleware.RequireRole(sec.RoleUser)
	router.With(memberOnly).Post("/", handler.createTourReview)
	router.With(memberOnly).Post("/createReview", handler.createTourReview) // legacy alias
}

// # Request Payloads

type createReviewRequest struct {
	TourID string `json:"tourId"`
	Review string `json:"review"`
	Rating int    `json:"rating"`
}

type updateReviewRequest struct {
	Review *string `json:"review"`
	Rating *int    `json:"rating"`
}

type updateReviewAliasRequest struct {
	ID     string  `json:"id"`
	Review *string `json:"review"`
	Rating *int    `json:"rating"`
}

// # Endpoints

func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	reviews, total, err := handler.service.List(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) listTourReviews(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	tourID := requestutil.ID(request, "tourID")

	reviews, total, err := handler.service.ListByTour(request.Context(), tourID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	review, err := handler.service.GetReview(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
CreateReview posts a review via the flat surface.

POST /api/v1/reviews
POST /api/v1/reviews/createReview (alias)

Description: The tour comes from the payload; the author is ALWAYS the
authenticated identity, regardless of what the payload claims.

Response:
  - 201: Review
  - 409: DuplicateKey: The user already reviewed this tour
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	var input createReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.TourID == "" {
		respond.Error(writer, request, validate.RequiredError(FieldTourID, "This field is required"))
		return
	}

	handler.create(writer, request, input)
}

// createTourReview posts a review via the nested surface: the tour ID comes
// from the URL, and any tourId in the payload is ignored.
func (handler *Handler) createTourReview(writer http.ResponseWriter, request *http.Request) {
	var input createReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.TourID = requestutil.ID(request, "tourID")
	handler.create(writer, request, input)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request, input createReviewRequest) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.CreateReview(request.Context(), CreateInput{
		TourID: input.TourID,
		UserID: userID,
		Review: input.Review,
		Rating: input.Rating,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	handler.update(writer, request, requestutil.ID(request, "id"))
}

// updateReviewAlias serves the legacy PATCH /updateReview route, where the
// review ID travels in the payload instead of the path.
func (handler *Handler) updateReviewAlias(writer http.ResponseWriter, request *http.Request) {
	var input updateReviewAliasRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.ID == "" {
		respond.Error(writer, request, validate.RequiredError("id", "This field is required"))
		return
	}

	handler.applyUpdate(writer, request, input.ID, UpdateInput{Review: input.Review, Rating: input.Rating})
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request, id string) {
	var input updateReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.applyUpdate(writer, request, id, UpdateInput{Review: input.Review, Rating: input.Rating})
}

func (handler *Handler) applyUpdate(writer http.ResponseWriter, request *http.Request, id string, input UpdateInput) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.UpdateReview(request.Context(), id, actor, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteReview(request.Context(), requestutil.ID(request, "id"), actor); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
