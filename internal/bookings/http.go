// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package bookings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderhq/wander/internal/platform/middleware"
	requestutil "github.com/wanderhq/wander/internal/platform/request"
	"github.com/wanderhq/wander/internal/platform/respond"
	"github.com/wanderhq/wander/internal/platform/sec"
	"github.com/wanderhq/wander/pkg/pagination"
)

// Handler implements the booking HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the booking routes on the /api/v1/bookings
// subrouter. Checkout is open to any authenticated member; the CRUD
// surface is staff only.
func (handler *Handler) RegisterRoutes(router chi.Router, protect func(http.Handler) http.Handler) {
	router.Use(protect)

	router.Get("/checkout-session/{tourID}", handler.checkoutSession)

	router.Group(func(staff chi.Router) {
		staff.Use(middleware.RequireRole(sec.RoleAdmin, sec.RoleLeadGuide))

		staff.Get("/", handler.listBookings)
		staff.Post("/", handler.createBooking)
		staff.Get("/{id}", handler.getBooking)
		staff.Patch("/{id}", handler.updateBooking)
		staff.Delete("/{id}", handler.deleteBooking)
	})
}

// # Request Payloads

type createBookingRequest struct {
	TourID string  `json:"tourId"`
	UserID string  `json:"userId"`
	Price  float64 `json:"price"`
	Paid   bool    `json:"paid"`
}

type updateBookingRequest struct {
	Price *float64 `json:"price"`
	Paid  *bool    `json:"paid"`
}

// # Endpoints

/*
CheckoutSession opens a hosted checkout for one tour.

GET /api/v1/bookings/checkout-session/{tourID}

Description: Creates a session with the payment provider and returns its
ID and redirect URL. The client sends the customer to that URL; the
provider redirects back to our success URL after payment.

Response:
  - 200: {session}: Provider session with redirect URL
  - 404: NotFound: Unknown tour
  - 502: PaymentGateway: Provider unreachable or rejected the request
*/
func (handler *Handler) checkoutSession(writer http.ResponseWriter, request *http.Request) {
	customer, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.StartCheckout(request.Context(), requestutil.ID(request, "tourID"), customer)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"session": session})
}

func (handler *Handler) listBookings(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	bookings, total, err := handler.service.ListBookings(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, bookings, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) createBooking(writer http.ResponseWriter, request *http.Request) {
	var input createBookingRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	booking, err := handler.service.CreateBooking(request.Context(), CreateInput{
		TourID: input.TourID,
		UserID: input.UserID,
		Price:  input.Price,
		Paid:   input.Paid,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, booking)
}

func (handler *Handler) getBooking(writer http.ResponseWriter, request *http.Request) {
	booking, err := handler.service.GetBooking(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, booking)
}

func (handler *Handler) updateBooking(writer http.ResponseWriter, request *http.Request) {
	var input updateBookingRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	booking, err := handler.service.UpdateBooking(request.Context(), requestutil.ID(request, "id"), UpdateInput{
		Price: input.Price,
		Paid:  input.Paid,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, booking)
}

func (handler *Handler) deleteBooking(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteBooking(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
