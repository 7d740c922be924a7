// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package bookings

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/wanderhq/wander/internal/platform/payment"
	"github.com/wanderhq/wander/internal/platform/sec"
	"github.com/wanderhq/wander/internal/platform/validate"
	"github.com/wanderhq/wander/internal/tours"
	"github.com/wanderhq/wander/pkg/uuid"
)

// CheckoutCreator is the slice of the payment client this service needs.
type CheckoutCreator interface {
	CreateCheckoutSession(ctx context.Context, params payment.CheckoutParams) (*payment.CheckoutSession, error)
}

// TourCatalog resolves tours for checkout and booking creation.
type TourCatalog interface {
	GetTour(ctx context.Context, id string) (*tours.Tour, error)
}

// Service implements the booking use cases.
type Service struct {
	repo     Repository
	catalog  TourCatalog
	checkout CheckoutCreator
	// publicBaseURL is the externally visible origin used for the
	// provider's success/cancel redirects.
	publicBaseURL string
	logger        *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, catalog TourCatalog, checkout CheckoutCreator, publicBaseURL string, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		catalog:       catalog,
		checkout:      checkout,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}
}

// StartCheckout opens a provider checkout session for one tour.
//
// The success redirect carries the tour, user, and price so the overview
// page can record the booking when the customer lands back. This is the
// pre-webhook reconciliation flow; it is replaced wholesale once provider
// webhooks are wired up.
func (service *Service) StartCheckout(ctx context.Context, tourID string, customer *sec.Identity) (*payment.CheckoutSession, error) {
	tour, err := service.catalog.GetTour(ctx, tourID)
	if err != nil {
		return nil, err
	}

	successURL := fmt.Sprintf("%s/?tour=%s&user=%s&price=%g",
		service.publicBaseURL, tour.ID, customer.ID, tour.Price)
	cancelURL := fmt.Sprintf("%s/tour/%s", service.publicBaseURL, tour.Slug)

	session, err := service.checkout.CreateCheckoutSession(ctx, payment.CheckoutParams{
		ClientReferenceID:  tour.ID,
		CustomerEmail:      customer.Email,
		SuccessURL:         successURL,
		CancelURL:          cancelURL,
		ProductName:        fmt.Sprintf("%s Tour", tour.Name),
		ProductDescription: tour.Summary,
		ImageURL:           tour.ImageCover,
		AmountCents:        int64(math.Round(tour.Price * 100)),
		Currency:           "usd",
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("checkout_session_created",
		slog.String("tour_id", tour.ID),
		slog.String("user_id", customer.ID),
		slog.String("session_id", session.ID),
	)
	return session, nil
}

// CreateInput holds the data for a new booking.
type CreateInput struct {
	TourID string
	UserID string
	Price  float64
	Paid   bool
}

// CreateBooking validates and persists a booking.
//
// Used by the admin surface and by the checkout success redirect.
func (service *Service) CreateBooking(ctx context.Context, input CreateInput) (*Booking, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTourID, input.TourID).
		Required(FieldUserID, input.UserID).
		Positive(FieldPrice, input.Price)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	booking := &Booking{
		ID:     uuid.New(),
		TourID: input.TourID,
		UserID: input.UserID,
		Price:  input.Price,
		Paid:   input.Paid,
	}

	if err := service.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	service.logger.Info("booking_created",
		slog.String("booking_id", booking.ID),
		slog.String("tour_id", booking.TourID),
	)
	return booking, nil
}

func (service *Service) ListBookings(ctx context.Context, limit, offset int) ([]*Booking, int, error) {
	return service.repo.List(ctx, limit, offset)
}

func (service *Service) ListUserBookings(ctx context.Context, userID string) ([]*Booking, error) {
	return service.repo.ListByUser(ctx, userID)
}

func (service *Service) GetBooking(ctx context.Context, id string) (*Booking, error) {
	return service.repo.FindByID(ctx, id)
}

// UpdateInput is the partial-update payload: nil fields stay untouched.
type UpdateInput struct {
	Price *float64
	Paid  *bool
}

func (service *Service) UpdateBooking(ctx context.Context, id string, input UpdateInput) (*Booking, error) {
	booking, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Price != nil {
		booking.Price = *input.Price
	}
	if input.Paid != nil {
		booking.Paid = *input.Paid
	}

	validator := &validate.Validator{}
	validator.Positive(FieldPrice, booking.Price)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	service.logger.Info("booking_updated", slog.String("booking_id", booking.ID))
	return booking, nil
}

func (service *Service) DeleteBooking(ctx context.Context, id string) error {
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.Warn("booking_deleted", slog.String("booking_id", id))
	return nil
}
