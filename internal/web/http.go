// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wanderhq/wander/internal/bookings"
	"github.com/wanderhq/wander/internal/platform/apperr"
	requestutil "github.com/wanderhq/wander/internal/platform/request"
	"github.com/wanderhq/wander/internal/platform/sec"
	"github.com/wanderhq/wander/internal/reviews"
	"github.com/wanderhq/wander/internal/tours"
)

// reviewsPerTourPage caps how many reviews the detail page shows.
const reviewsPerTourPage = 20

// Handler serves the rendered pages.
type Handler struct {
	renderer *Renderer
	tours    *tours.Service
	reviews  *reviews.Service
	bookings *bookings.Service
	logger   *slog.Logger
}

// NewHandler constructs a new [Handler].
func NewHandler(renderer *Renderer, tourService *tours.Service, reviewService *reviews.Service, bookingService *bookings.Service, logger *slog.Logger) *Handler {
	return &Handler{
		renderer: renderer,
		tours:    tourService,
		reviews:  reviewService,
		bookings: bookingService,
		logger:   logger,
	}
}

// RegisterRoutes mounts the view routes at the site root.
//
// Public pages run behind the non-enforcing identity middleware so the
// header can switch between logged-in and anonymous rendering; the account
// pages require a full login.
func (handler *Handler) RegisterRoutes(router chi.Router, attachIdentity, protect func(http.Handler) http.Handler) {
	router.Group(func(public chi.Router) {
		public.Use(attachIdentity)

		public.Get("/", handler.overview)
		public.Get("/tour/{slug}", handler.tourDetail)
		public.Get("/login", handler.loginForm)
	})

	router.Group(func(private chi.Router) {
		private.Use(protect)

		private.Get("/me", handler.account)
		private.Get("/my-tours", handler.myTours)
	})
}

// viewData is the envelope every template receives.
type viewData struct {
	Title string
	User  *sec.Identity
	Data  any
}

// # Pages

/*
Overview renders the tour catalog landing page.

GET /

It doubles as the checkout success target: when the provider redirects
back with tour/user/price parameters, the booking is recorded and the
parameters are scrubbed with a redirect before the page renders.
*/
func (handler *Handler) overview(writer http.ResponseWriter, request *http.Request) {
	if handler.recordCheckoutBooking(writer, request) {
		return
	}

	catalog, _, err := handler.tours.ListTours(request.Context(), tours.Filter{}, 100, 0)
	if err != nil {
		handler.renderError(writer, request, err)
		return
	}

	handler.renderer.Render(writer, http.StatusOK, "overview", viewData{
		Title: "All Tours",
		User:  requestutil.Identity(request),
		Data:  catalog,
	})
}

// recordCheckoutBooking handles the provider's success redirect. Reports
// whether it wrote a response.
func (handler *Handler) recordCheckoutBooking(writer http.ResponseWriter, request *http.Request) bool {
	query := request.URL.Query()
	tourID := query.Get("tour")
	userID := query.Get("user")
	priceRaw := query.Get("price")
	if tourID == "" || userID == "" || priceRaw == "" {
		return false
	}

	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil {
		handler.logger.Warn("checkout_redirect_bad_price", slog.String("price", priceRaw))
		http.Redirect(writer, request, "/", http.StatusSeeOther)
		return true
	}

	_, err = handler.bookings.CreateBooking(request.Context(), bookings.CreateInput{
		TourID: tourID,
		UserID: userID,
		Price:  price,
		Paid:   true,
	})
	if err != nil {
		// Duplicate or invalid redirects must not break the landing page.
		handler.logger.Error("checkout_booking_failed", slog.Any("error", err))
	}

	// Scrub the query string so a refresh cannot double-book.
	http.Redirect(writer, request, "/", http.StatusSeeOther)
	return true
}

/*
TourDetail renders one tour's page with its reviews.

GET /tour/{slug}
*/
func (handler *Handler) tourDetail(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	tour, err := handler.tours.GetTourBySlug(request.Context(), slug)
	if err != nil {
		handler.renderError(writer, request, apperr.NotFoundMessage("There is no tour with that name."))
		return
	}

	tourReviews, _, err := handler.reviews.ListByTour(request.Context(), tour.ID, reviewsPerTourPage, 0)
	if err != nil {
		handler.renderError(writer, request, err)
		return
	}

	handler.renderer.Render(writer, http.StatusOK, "tour", viewData{
		Title: tour.Name,
		User:  requestutil.Identity(request),
		Data: map[string]any{
			"Tour":    tour,
			"Reviews": tourReviews,
		},
	})
}

/*
LoginForm renders the login page.

GET /login
*/
func (handler *Handler) loginForm(writer http.ResponseWriter, request *http.Request) {
	handler.renderer.Render(writer, http.StatusOK, "login", viewData{
		Title: "Log into your account",
		User:  requestutil.Identity(request),
	})
}

/*
Account renders the member's own settings page.

GET /me (protected)
*/
func (handler *Handler) account(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		handler.renderError(writer, request, err)
		return
	}

	handler.renderer.Render(writer, http.StatusOK, "account", viewData{
		Title: "Your account",
		User:  identity,
	})
}

/*
MyTours renders the member's booked tours.

GET /my-tours (protected)
*/
func (handler *Handler) myTours(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		handler.renderError(writer, request, err)
		return
	}

	myBookings, err := handler.bookings.ListUserBookings(request.Context(), identity.ID)
	if err != nil {
		handler.renderError(writer, request, err)
		return
	}

	handler.renderer.Render(writer, http.StatusOK, "mytours", viewData{
		Title: "My Tours",
		User:  identity,
		Data:  myBookings,
	})
}

// ErrorPage renders a failure as the error page. It is installed into the
// error funnel at startup so failures on view routes, including those raised
// by the middleware pipeline, come back as HTML instead of a JSON envelope.
func (handler *Handler) ErrorPage(writer http.ResponseWriter, request *http.Request, status int, message string) {
	handler.renderer.Render(writer, status, "error", viewData{
		Title: "Something went wrong!",
		User:  requestutil.Identity(request),
		Data:  message,
	})
}

// renderError is the handler-local entry to the HTML branch: same
// classification as the JSON branch, rendered as a page.
func (handler *Handler) renderError(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		handler.logger.Error("unhandled_view_error", slog.Any("error", err))
		appError = apperr.Internal(err)
	}

	message := appError.Message
	if !appError.Operational {
		message = "Please try again later."
	}

	handler.ErrorPage(writer, request, appError.HTTPStatus, message)
}
