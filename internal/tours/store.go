// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package tours

import "context"

// Repository defines the data access contract for the tour catalog.
type Repository interface {
	// List returns a filtered page of non-secret tours plus the total count.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Tour, int, error)

	// FindByID returns the tour with the given ID, secret or not.
	FindByID(ctx context.Context, id string) (*Tour, error)

	// FindBySlug returns the non-secret tour with the given slug.
	FindBySlug(ctx context.Context, slug string) (*Tour, error)

	// Create persists a new tour.
	Create(ctx context.Context, tour *Tour) error

	// Update persists the full mutable state of an existing tour.
	Update(ctx context.Context, tour *Tour) error

	// Delete removes a tour permanently.
	Delete(ctx context.Context, id string) error

	// Stats aggregates the non-secret catalog per difficulty.
	Stats(ctx context.Context) ([]*Stats, error)
}
