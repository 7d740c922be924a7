// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package tours

import (
	"context"
	"log/slog"
	"time"

	"github.com/wanderhq/wander/internal/platform/validate"
	"github.com/wanderhq/wander/pkg/slug"
	"github.com/wanderhq/wander/pkg/uuid"
)

// Defaults for freshly created tours.
const (
	defaultRatingsAverage = 4.5
	minRating             = 1.0
	maxRating             = 5.0
)

// Service implements the tour catalog use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (service *Service) ListTours(ctx context.Context, filter Filter, limit, offset int) ([]*Tour, int, error) {
	return service.repo.List(ctx, filter, limit, offset)
}

func (service *Service) GetTour(ctx context.Context, id string) (*Tour, error) {
	return service.repo.FindByID(ctx, id)
}

func (service *Service) GetTourBySlug(ctx context.Context, tourSlug string) (*Tour, error) {
	return service.repo.FindBySlug(ctx, tourSlug)
}

// CreateInput holds the data required to publish a new tour.
type CreateInput struct {
	Name          string
	Duration      int
	MaxGroupSize  int
	Difficulty    string
	Price         float64
	PriceDiscount *float64
	Summary       string
	Description   string
	ImageCover    string
	Images        []string
	StartDates    []time.Time
	Secret        bool
}

// CreateTour validates and persists a new catalog entry.
//
// The slug is derived from the name; duplicate names surface as a
// duplicate-key failure from storage via the unique index.
func (service *Service) CreateTour(ctx context.Context, input CreateInput) (*Tour, error) {
	tour := &Tour{
		ID:              uuid.New(),
		Name:            input.Name,
		Slug:            slug.From(input.Name),
		Duration:        input.Duration,
		MaxGroupSize:    input.MaxGroupSize,
		Difficulty:      input.Difficulty,
		Price:           input.Price,
		PriceDiscount:   input.PriceDiscount,
		Summary:         input.Summary,
		Description:     input.Description,
		ImageCover:      input.ImageCover,
		Images:          input.Images,
		StartDates:      input.StartDates,
		RatingsAverage:  defaultRatingsAverage,
		RatingsQuantity: 0,
		Secret:          input.Secret,
	}

	if err := validateTour(tour); err != nil {
		return nil, err
	}

	if err := service.repo.Create(ctx, tour); err != nil {
		return nil, err
	}

	service.logger.Info("tour_created", slog.String("tour_id", tour.ID), slog.String("slug", tour.Slug))
	return tour, nil
}

// UpdateInput is the partial-update payload: nil fields stay untouched.
type UpdateInput struct {
	Name          *string
	Duration      *int
	MaxGroupSize  *int
	Difficulty    *string
	Price         *float64
	PriceDiscount *float64
	Summary       *string
	Description   *string
	ImageCover    *string
	Images        []string
	Secret        *bool
}

// UpdateTour applies a partial set of changes to an existing tour.
//
// A name change re-derives the slug, keeping the rendered detail page URL
// consistent with the catalog.
func (service *Service) UpdateTour(ctx context.Context, id string, input UpdateInput) (*Tour, error) {
	tour, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		tour.Name = *input.Name
		tour.Slug = slug.From(*input.Name)
	}
	if input.Duration != nil {
		tour.Duration = *input.Duration
	}
	if input.MaxGroupSize != nil {
		tour.MaxGroupSize = *input.MaxGroupSize
	}
	if input.Difficulty != nil {
		tour.Difficulty = *input.Difficulty
	}
	if input.Price != nil {
		tour.Price = *input.Price
	}
	if input.PriceDiscount != nil {
		tour.PriceDiscount = input.PriceDiscount
	}
	if input.Summary != nil {
		tour.Summary = *input.Summary
	}
	if input.Description != nil {
		tour.Description = *input.Description
	}
	if input.Images != nil {
		tour.Images = input.Images
	}
	if input.ImageCover != nil {
		tour.ImageCover = *input.ImageCover
	}
	if input.Secret != nil {
		tour.Secret = *input.Secret
	}

	if err := validateTour(tour); err != nil {
		return nil, err
	}

	if err := service.repo.Update(ctx, tour); err != nil {
		return nil, err
	}

	service.logger.Info("tour_updated", slog.String("tour_id", tour.ID))
	return tour, nil
}

func (service *Service) DeleteTour(ctx context.Context, id string) error {
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.Warn("tour_deleted", slog.String("tour_id", id))
	return nil
}

// TopCheap returns the five best-rated tours, cheapest first among equals.
func (service *Service) TopCheap(ctx context.Context) ([]*Tour, error) {
	filter := Filter{Sort: "-ratingsAverage,price"}
	tours, _, err := service.repo.List(ctx, filter, 5, 0)
	return tours, err
}

// Stats aggregates the catalog per difficulty.
func (service *Service) Stats(ctx context.Context) ([]*Stats, error) {
	return service.repo.Stats(ctx)
}

// validateTour enforces the catalog invariants shared by create and update.
func validateTour(tour *Tour) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, tour.Name).
		MinLen(FieldName, tour.Name, 10).
		MaxLen(FieldName, tour.Name, 40).
		Range(FieldDuration, tour.Duration, 1, 365).
		Range(FieldMaxGroupSize, tour.MaxGroupSize, 1, 100).
		OneOf(FieldDifficulty, tour.Difficulty, DifficultyEasy, DifficultyMedium, DifficultyDifficult).
		Positive(FieldPrice, tour.Price).
		Required(FieldSummary, tour.Summary)

	if tour.PriceDiscount != nil {
		validator.Custom(FieldPriceDiscount, *tour.PriceDiscount >= tour.Price,
			"Discount price should be below regular price")
	}

	return validator.Err()
}
