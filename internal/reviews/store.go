// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package reviews

import "context"

// Repository defines the data access contract for reviews.
//
// Implementations must keep the owning tour's rating aggregates consistent
// with the review rows: [Create], [Update], and [Delete] recompute them
// atomically with the row change.
type Repository interface {
	// ListByTour returns a page of reviews for one tour plus the total count.
	ListByTour(ctx context.Context, tourID string, limit, offset int) ([]*Review, int, error)

	// List returns a page of all reviews plus the total count.
	List(ctx context.Context, limit, offset int) ([]*Review, int, error)

	// FindByID returns the review with the given ID.
	FindByID(ctx context.Context, id string) (*Review, error)

	// Create persists a new review and refreshes the tour aggregates.
	//
	// Returns a duplicate-key error when the user already reviewed the tour.
	Create(ctx context.Context, review *Review) error

	// Update persists rating/text changes and refreshes the tour aggregates.
	Update(ctx context.Context, review *Review) error

	// Delete removes a review and refreshes the tour aggregates.
	Delete(ctx context.Context, id string) error
}
