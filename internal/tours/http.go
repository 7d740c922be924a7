// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package tours

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wanderhq/wander/internal/platform/middleware"
	requestutil "github.com/wanderhq/wander/internal/platform/request"
	"github.com/wanderhq/wander/internal/platform/respond"
	"github.com/wanderhq/wander/internal/platform/sec"
	"github.com/wanderhq/wander/pkg/pagination"
)

// Handler implements the tour catalog HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the tour routes on the /api/v1/tours subrouter.
//
// Reads are public; every write requires authentication plus the
// admin or lead-guide role.
func (handler *Handler) RegisterRoutes(router chi.Router, protect func(http.Handler) http.Handler) {
	// Public
	router.Get("/", handler.listTours)
	router.Get("/top-5-cheap", handler.topCheap)
	router.Get("/tour-stats", handler.tourStats)
	router.Get("/{id}", handler.getTour)

	// Staff only
	router.Group(func(staff chi.Router) {
		staff.Use(protect)
		staff.Use(middleware.RequireRole(sec.RoleAdmin, sec.RoleLeadGuide))

		staff.Post("/", handler.createTour)
		staff.Patch("/{id}", handler.updateTour)
		staff.Delete("/{id}", handler.deleteTour)
	})
}

// # Request Payloads

type createTourRequest struct {
	Name          string      `json:"name"`
	Duration      int         `json:"duration"`
	MaxGroupSize  int         `json:"maxGroupSize"`
	Difficulty    string      `json:"difficulty"`
	Price         float64     `json:"price"`
	PriceDiscount *float64    `json:"priceDiscount"`
	Summary       string      `json:"summary"`
	Description   string      `json:"description"`
	ImageCover    string      `json:"imageCover"`
	Images        []string    `json:"images"`
	StartDates    []time.Time `json:"startDates"`
	Secret        bool        `json:"secretTour"`
}

type updateTourRequest struct {
	Name          *string  `json:"name"`
	Duration      *int     `json:"duration"`
	MaxGroupSize  *int     `json:"maxGroupSize"`
	Difficulty    *string  `json:"difficulty"`
	Price         *float64 `json:"price"`
	PriceDiscount *float64 `json:"priceDiscount"`
	Summary       *string  `json:"summary"`
	Description   *string  `json:"description"`
	ImageCover    *string  `json:"imageCover"`
	Images        []string `json:"images"`
	Secret        *bool    `json:"secretTour"`
}

// # Endpoints

/*
ListTours returns a filtered, sorted page of the catalog.

GET /api/v1/tours

Query:
  - difficulty: repeatable; a tour matches any of the given values
  - duration, duration[gte], duration[lte]: day-count bounds
  - price[gte], price[lte]: price bounds
  - sort: comma-separated keys, '-' prefix for descending
  - page, limit: pagination

Response:
  - 200: Paginated list of tours
*/
func (handler *Handler) listTours(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	filter := filterFromRequest(request)

	tours, total, err := handler.service.ListTours(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, tours, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
TopCheap returns the five best-rated tours, cheapest first among equals.

GET /api/v1/tours/top-5-cheap

Response:
  - 200: Fixed five-element preset of the catalog
*/
func (handler *Handler) topCheap(writer http.ResponseWriter, request *http.Request) {
	tours, err := handler.service.TopCheap(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tours)
}

/*
TourStats aggregates the catalog per difficulty.

GET /api/v1/tours/tour-stats

Response:
  - 200: One row per difficulty with count, rating, and price aggregates
*/
func (handler *Handler) tourStats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.Stats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

func (handler *Handler) getTour(writer http.ResponseWriter, request *http.Request) {
	tour, err := handler.service.GetTour(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tour)
}

func (handler *Handler) createTour(writer http.ResponseWriter, request *http.Request) {
	var input createTourRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tour, err := handler.service.CreateTour(request.Context(), CreateInput{
		Name:          input.Name,
		Duration:      input.Duration,
		MaxGroupSize:  input.MaxGroupSize,
		Difficulty:    input.Difficulty,
		Price:         input.Price,
		PriceDiscount: input.PriceDiscount,
		Summary:       input.Summary,
		Description:   input.Description,
		ImageCover:    input.ImageCover,
		Images:        input.Images,
		StartDates:    input.StartDates,
		Secret:        input.Secret,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, tour)
}

func (handler *Handler) updateTour(writer http.ResponseWriter, request *http.Request) {
	var input updateTourRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tour, err := handler.service.UpdateTour(request.Context(), requestutil.ID(request, "id"), UpdateInput{
		Name:          input.Name,
		Duration:      input.Duration,
		MaxGroupSize:  input.MaxGroupSize,
		Difficulty:    input.Difficulty,
		Price:         input.Price,
		PriceDiscount: input.PriceDiscount,
		Summary:       input.Summary,
		Description:   input.Description,
		ImageCover:    input.ImageCover,
		Images:        input.Images,
		Secret:        input.Secret,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tour)
}

func (handler *Handler) deleteTour(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteTour(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Query Parsing

// filterFromRequest maps the catalog query parameters onto a [Filter].
//
// Repeated difficulty values survive the parameter-pollution guard because
// difficulty is on its allow-list; every other key arrives single-valued.
func filterFromRequest(request *http.Request) Filter {
	query := request.URL.Query()

	filter := Filter{
		Difficulties: query["difficulty"],
		Sort:         query.Get("sort"),
	}

	if exact, ok := parseIntQuery(query.Get(FieldDuration)); ok {
		filter.MinDuration = &exact
		maxDuration := exact
		filter.MaxDuration = &maxDuration
	}
	if bound, ok := parseIntQuery(query.Get("duration[gte]")); ok {
		filter.MinDuration = &bound
	}
	if bound, ok := parseIntQuery(query.Get("duration[lte]")); ok {
		filter.MaxDuration = &bound
	}
	if bound, ok := parseFloatQuery(query.Get("price[gte]")); ok {
		filter.MinPrice = &bound
	}
	if bound, ok := parseFloatQuery(query.Get("price[lte]")); ok {
		filter.MaxPrice = &bound
	}

	return filter
}

func parseIntQuery(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

func parseFloatQuery(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
