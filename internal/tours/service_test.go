// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package tours_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderhq/wander/internal/platform/apperr"
	"github.com/wanderhq/wander/internal/tours"
)

// fakeTourRepository is an in-memory Repository for service tests.
type fakeTourRepository struct {
	toursByID  map[string]*tours.Tour
	lastFilter tours.Filter
	lastLimit  int
}

func newFakeTourRepository(seed ...*tours.Tour) *fakeTourRepository {
	repo := &fakeTourRepository{toursByID: make(map[string]*tours.Tour)}
	for _, tour := range seed {
		repo.toursByID[tour.ID] = tour
	}
	return repo
}

func (repo *fakeTourRepository) List(_ context.Context, filter tours.Filter, limit, _ int) ([]*tours.Tour, int, error) {
	repo.lastFilter = filter
	repo.lastLimit = limit

	listed := make([]*tours.Tour, 0, len(repo.toursByID))
	for _, tour := range repo.toursByID {
		if tour.Secret {
			continue
		}
		listed = append(listed, tour)
	}
	return listed, len(listed), nil
}

func (repo *fakeTourRepository) FindByID(_ context.Context, id string) (*tours.Tour, error) {
	tour, found := repo.toursByID[id]
	if !found {
		return nil, apperr.NotFound("Tour")
	}
	return tour, nil
}

func (repo *fakeTourRepository) FindBySlug(_ context.Context, slug string) (*tours.Tour, error) {
	for _, tour := range repo.toursByID {
		if tour.Slug == slug && !tour.Secret {
			return tour, nil
		}
	}
	return nil, apperr.NotFound("Tour")
}

func (repo *fakeTourRepository) Create(_ context.Context, tour *tours.Tour) error {
	for _, existing := range repo.toursByID {
		if existing.Name == tour.Name {
			return apperr.DuplicateKey("Tour name already exists")
		}
	}
	repo.toursByID[tour.ID] = tour
	return nil
}

func (repo *fakeTourRepository) Update(_ context.Context, tour *tours.Tour) error {
	if _, found := repo.toursByID[tour.ID]; !found {
		return apperr.NotFound("Tour")
	}
	repo.toursByID[tour.ID] = tour
	return nil
}

func (repo *fakeTourRepository) Delete(_ context.Context, id string) error {
	if _, found := repo.toursByID[id]; !found {
		return apperr.NotFound("Tour")
	}
	delete(repo.toursByID, id)
	return nil
}

func (repo *fakeTourRepository) Stats(_ context.Context) ([]*tours.Stats, error) {
	return nil, nil
}

func newTestService(repo *fakeTourRepository) *tours.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return tours.NewService(repo, logger)
}

// validCreateInput returns an input that satisfies every catalog invariant.
func validCreateInput() tours.CreateInput {
	return tours.CreateInput{
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   tours.DifficultyEasy,
		Price:        397,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
	}
}

/*
TestCreateTour checks slug derivation and the freshly-created defaults.
*/
func TestCreateTour(t *testing.T) {
	repo := newFakeTourRepository()
	service := newTestService(repo)

	tour, err := service.CreateTour(context.Background(), validCreateInput())
	require.NoError(t, err)

	assert.NotEmpty(t, tour.ID)
	assert.Equal(t, "the-forest-hiker", tour.Slug)
	assert.Equal(t, 4.5, tour.RatingsAverage, "new tours start at the default rating")
	assert.Equal(t, 0, tour.RatingsQuantity)
}

/*
TestCreateTour_Validation walks the catalog invariants.
*/
func TestCreateTour_Validation(t *testing.T) {
	discountAbovePrice := 500.0

	tests := []struct {
		name      string
		mutate    func(*tours.CreateInput)
		wantField string
	}{
		{"name_too_short", func(in *tours.CreateInput) { in.Name = "Short" }, "name"},
		{"name_too_long", func(in *tours.CreateInput) {
			in.Name = "This tour name is way way way too long to be accepted"
		}, "name"},
		{"duration_zero", func(in *tours.CreateInput) { in.Duration = 0 }, "duration"},
		{"group_size_too_big", func(in *tours.CreateInput) { in.MaxGroupSize = 500 }, "maxGroupSize"},
		{"unknown_difficulty", func(in *tours.CreateInput) { in.Difficulty = "extreme" }, "difficulty"},
		{"price_zero", func(in *tours.CreateInput) { in.Price = 0 }, "price"},
		{"missing_summary", func(in *tours.CreateInput) { in.Summary = "" }, "summary"},
		{"discount_above_price", func(in *tours.CreateInput) {
			in.PriceDiscount = &discountAbovePrice
		}, "priceDiscount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(newFakeTourRepository())

			input := validCreateInput()
			tt.mutate(&input)

			_, err := service.CreateTour(context.Background(), input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)

			fields := make([]string, 0, len(ae.Details))
			for _, detail := range ae.Details {
				fields = append(fields, detail.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

/*
TestUpdateTour checks partial updates and slug re-derivation on rename.
*/
func TestUpdateTour(t *testing.T) {
	repo := newFakeTourRepository()
	service := newTestService(repo)

	created, err := service.CreateTour(context.Background(), validCreateInput())
	require.NoError(t, err)

	newName := "The Snow Adventurer"
	newPrice := 997.0
	updated, err := service.UpdateTour(context.Background(), created.ID, tours.UpdateInput{
		Name:  &newName,
		Price: &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, "The Snow Adventurer", updated.Name)
	assert.Equal(t, "the-snow-adventurer", updated.Slug, "rename must re-derive the slug")
	assert.Equal(t, 997.0, updated.Price)

	// Untouched fields survive.
	assert.Equal(t, 5, updated.Duration)

	// Updates go through the same invariants as creation.
	badDuration := 0
	_, err = service.UpdateTour(context.Background(), created.ID, tours.UpdateInput{Duration: &badDuration})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestTopCheap checks the preset used by the /top-5-cheap alias route.
*/
func TestTopCheap(t *testing.T) {
	repo := newFakeTourRepository()
	service := newTestService(repo)

	_, err := service.TopCheap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, repo.lastLimit)
	assert.Equal(t, "-ratingsAverage,price", repo.lastFilter.Sort)
}

/*
TestGetTour_NotFound checks the missing-resource path.
*/
func TestGetTour_NotFound(t *testing.T) {
	service := newTestService(newFakeTourRepository())

	_, err := service.GetTour(context.Background(), "0198b2cc-0000-7000-8000-000000000000")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
