// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package reviews

import (
	"context"
	"log/slog"

	"github.com/wanderhq/wander/internal/platform/apperr"
	"github.com/wanderhq/wander/internal/platform/sec"
	"github.com/wanderhq/wander/internal/platform/validate"
	"github.com/wanderhq/wander/pkg/uuid"
)

// Service implements the review use cases.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (service *Service) ListByTour(ctx context.Context, tourID string, limit, offset int) ([]*Review, int, error) {
	return service.repo.ListByTour(ctx, tourID, limit, offset)
}

func (service *Service) List(ctx context.Context, limit, offset int) ([]*Review, int, error) {
	return service.repo.List(ctx, limit, offset)
}

func (service *Service) GetReview(ctx context.Context, id string) (*Review, error) {
	return service.repo.FindByID(ctx, id)
}

// CreateInput holds the data for a new review. TourID and UserID come from
// the route and the authenticated identity, never from the payload.
type CreateInput struct {
	TourID string
	UserID string
	Review string
	Rating int
}

// CreateReview validates and persists a new review.
//
// A second review by the same user for the same tour surfaces as a
// duplicate-key failure from the unique index.
func (service *Service) CreateReview(ctx context.Context, input CreateInput) (*Review, error) {
	validator := &validate.Validator{}
	validator.Required(FieldReview, input.Review).
		Range(FieldRating, input.Rating, 1, 5)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	review := &Review{
		ID:     uuid.New(),
		TourID: input.TourID,
		UserID: input.UserID,
		Review: input.Review,
		Rating: input.Rating,
	}

	if err := service.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	service.logger.Info("review_created",
		slog.String("review_id", review.ID),
		slog.String("tour_id", review.TourID),
	)
	return review, nil
}

// UpdateInput is the partial-update payload: nil fields stay untouched.
type UpdateInput struct {
	Review *string
	Rating *int
}

// UpdateReview applies changes to an existing review.
//
// Ownership: a plain member may only touch their own review; admins may
// touch any.
func (service *Service) UpdateReview(ctx context.Context, id string, actor *sec.Identity, input UpdateInput) (*Review, error) {
	review, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeOwnership(review, actor); err != nil {
		return nil, err
	}

	if input.Review != nil {
		review.Review = *input.Review
	}
	if input.Rating != nil {
		review.Rating = *input.Rating
	}

	validator := &validate.Validator{}
	validator.Required(FieldReview, review.Review).
		Range(FieldRating, review.Rating, 1, 5)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	service.logger.Info("review_updated", slog.String("review_id", review.ID))
	return review, nil
}

// DeleteReview removes a review, subject to the same ownership rule as
// [UpdateReview].
func (service *Service) DeleteReview(ctx context.Context, id string, actor *sec.Identity) error {
	review, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := authorizeOwnership(review, actor); err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.Warn("review_deleted", slog.String("review_id", id))
	return nil
}

// authorizeOwnership allows the review's author and any admin.
func authorizeOwnership(review *Review, actor *sec.Identity) error {
	if actor.Role == sec.RoleAdmin || review.UserID == actor.ID {
		return nil
	}
	return apperr.Forbidden("You do not have permission to perform this action")
}
