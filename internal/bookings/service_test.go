// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package bookings_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderhq/wander/internal/bookings"
	"github.com/wanderhq/wander/internal/platform/apperr"
	"github.com/wanderhq/wander/internal/platform/payment"
	"github.com/wanderhq/wander/internal/platform/sec"
	"github.com/wanderhq/wander/internal/tours"
)

// fakeBookingRepository is an in-memory Repository for service tests.
type fakeBookingRepository struct {
	bookingsByID map[string]*bookings.Booking
}

func newFakeBookingRepository() *fakeBookingRepository {
	return &fakeBookingRepository{bookingsByID: make(map[string]*bookings.Booking)}
}

func (repo *fakeBookingRepository) List(_ context.Context, _, _ int) ([]*bookings.Booking, int, error) {
	listed := make([]*bookings.Booking, 0, len(repo.bookingsByID))
	for _, booking := range repo.bookingsByID {
		listed = append(listed, booking)
	}
	return listed, len(listed), nil
}

func (repo *fakeBookingRepository) ListByUser(_ context.Context, userID string) ([]*bookings.Booking, error) {
	listed := make([]*bookings.Booking, 0)
	for _, booking := range repo.bookingsByID {
		if booking.UserID == userID {
			listed = append(listed, booking)
		}
	}
	return listed, nil
}

func (repo *fakeBookingRepository) FindByID(_ context.Context, id string) (*bookings.Booking, error) {
	booking, found := repo.bookingsByID[id]
	if !found {
		return nil, apperr.NotFound("Booking")
	}
	return booking, nil
}

func (repo *fakeBookingRepository) Create(_ context.Context, booking *bookings.Booking) error {
	repo.bookingsByID[booking.ID] = booking
	return nil
}

func (repo *fakeBookingRepository) Update(_ context.Context, booking *bookings.Booking) error {
	if _, found := repo.bookingsByID[booking.ID]; !found {
		return apperr.NotFound("Booking")
	}
	repo.bookingsByID[booking.ID] = booking
	return nil
}

func (repo *fakeBookingRepository) Delete(_ context.Context, id string) error {
	if _, found := repo.bookingsByID[id]; !found {
		return apperr.NotFound("Booking")
	}
	delete(repo.bookingsByID, id)
	return nil
}

// fakeTourCatalog serves one canned tour.
type fakeTourCatalog struct {
	tour *tours.Tour
}

func (catalog *fakeTourCatalog) GetTour(_ context.Context, id string) (*tours.Tour, error) {
	if catalog.tour == nil || catalog.tour.ID != id {
		return nil, apperr.NotFound("Tour")
	}
	return catalog.tour, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestStartCheckout runs the full checkout handoff against a stubbed provider
endpoint and checks the form fields the provider receives.
*/
func TestStartCheckout(t *testing.T) {
	var receivedForm map[string][]string
	var receivedAuth string

	provider := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, http.MethodPost, request.Method)
		require.Equal(t, "/checkout/sessions", request.URL.Path)
		require.NoError(t, request.ParseForm())

		receivedForm = request.PostForm
		receivedAuth = request.Header.Get("Authorization")

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]string{
			"id":  "cs_test_123",
			"url": "https://checkout.example/pay/cs_test_123",
		})
	}))
	defer provider.Close()

	tour := &tours.Tour{
		ID:      "tour-1",
		Name:    "The Forest Hiker",
		Slug:    "the-forest-hiker",
		Price:   497,
		Summary: "Breathtaking hike",
	}

	service := bookings.NewService(
		newFakeBookingRepository(),
		&fakeTourCatalog{tour: tour},
		payment.NewClient(provider.URL, "sk_test_secret"),
		"https://wander.app",
		discardLogger(),
	)

	customer := &sec.Identity{ID: "user-1", Email: "leo@example.com"}

	session, err := service.StartCheckout(context.Background(), "tour-1", customer)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", session.ID)
	assert.Equal(t, "https://checkout.example/pay/cs_test_123", session.URL)

	// The provider sees the secret key and the single line item.
	assert.Equal(t, "Bearer sk_test_secret", receivedAuth)
	assert.Equal(t, "payment", receivedForm["mode"][0])
	assert.Equal(t, "leo@example.com", receivedForm["customer_email"][0])
	assert.Equal(t, "tour-1", receivedForm["client_reference_id"][0])
	assert.Equal(t, "49700", receivedForm["line_items[0][price_data][unit_amount]"][0])
	assert.Equal(t, "The Forest Hiker Tour", receivedForm["line_items[0][price_data][product_data][name]"][0])

	// The success redirect carries the reconciliation query parameters.
	assert.Equal(t, "https://wander.app/?tour=tour-1&user=user-1&price=497", receivedForm["success_url"][0])
	assert.Equal(t, "https://wander.app/tour/the-forest-hiker", receivedForm["cancel_url"][0])
}

/*
TestStartCheckout_ProviderRejection checks that provider failures surface as
operational gateway errors.
*/
func TestStartCheckout_ProviderRejection(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusPaymentRequired)
		_, _ = writer.Write([]byte(`{"error":{"message":"Your card was declined."}}`))
	}))
	defer provider.Close()

	tour := &tours.Tour{ID: "tour-1", Name: "The Forest Hiker", Slug: "the-forest-hiker", Price: 497}

	service := bookings.NewService(
		newFakeBookingRepository(),
		&fakeTourCatalog{tour: tour},
		payment.NewClient(provider.URL, "sk_test_secret"),
		"https://wander.app",
		discardLogger(),
	)

	_, err := service.StartCheckout(context.Background(), "tour-1",
		&sec.Identity{ID: "user-1", Email: "leo@example.com"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "PAYMENT_GATEWAY_ERROR", ae.Code)
	assert.Equal(t, http.StatusBadGateway, ae.HTTPStatus)
	assert.True(t, ae.Operational)
}

/*
TestStartCheckout_UnknownTour checks that a missing tour stops the flow
before the provider is ever contacted.
*/
func TestStartCheckout_UnknownTour(t *testing.T) {
	providerCalled := false
	provider := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		providerCalled = true
		writer.WriteHeader(http.StatusOK)
	}))
	defer provider.Close()

	service := bookings.NewService(
		newFakeBookingRepository(),
		&fakeTourCatalog{},
		payment.NewClient(provider.URL, "sk_test_secret"),
		"https://wander.app",
		discardLogger(),
	)

	_, err := service.StartCheckout(context.Background(), "missing-tour",
		&sec.Identity{ID: "user-1"})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.False(t, providerCalled)
}

/*
TestCreateBooking checks validation and persistence.
*/
func TestCreateBooking(t *testing.T) {
	repo := newFakeBookingRepository()
	service := bookings.NewService(repo, &fakeTourCatalog{}, nil, "https://wander.app", discardLogger())

	booking, err := service.CreateBooking(context.Background(), bookings.CreateInput{
		TourID: "tour-1",
		UserID: "user-1",
		Price:  497,
		Paid:   true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.True(t, booking.Paid)

	tests := []struct {
		name  string
		input bookings.CreateInput
	}{
		{"missing_tour", bookings.CreateInput{UserID: "user-1", Price: 497}},
		{"missing_user", bookings.CreateInput{TourID: "tour-1", Price: 497}},
		{"zero_price", bookings.CreateInput{TourID: "tour-1", UserID: "user-1", Price: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateBooking(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestUpdateBooking checks the partial admin update.
*/
func TestUpdateBooking(t *testing.T) {
	repo := newFakeBookingRepository()
	service := bookings.NewService(repo, &fakeTourCatalog{}, nil, "https://wander.app", discardLogger())

	created, err := service.CreateBooking(context.Background(), bookings.CreateInput{
		TourID: "tour-1", UserID: "user-1", Price: 497, Paid: false,
	})
	require.NoError(t, err)

	paid := true
	updated, err := service.UpdateBooking(context.Background(), created.ID, bookings.UpdateInput{Paid: &paid})
	require.NoError(t, err)
	assert.True(t, updated.Paid)
	assert.Equal(t, 497.0, updated.Price, "untouched fields survive")
}
