// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package bookings

import "context"

// Repository defines the data access contract for bookings.
type Repository interface {
	// List returns a page of bookings plus the total count.
	List(ctx context.Context, limit, offset int) ([]*Booking, int, error)

	// ListByUser returns every booking belonging to one user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Booking, error)

	// FindByID returns the booking with the given ID.
	FindByID(ctx context.Context, id string) (*Booking, error)

	// Create persists a new booking.
	Create(ctx context.Context, booking *Booking) error

	// Update persists price/paid changes to an existing booking.
	Update(ctx context.Context, booking *Booking) error

	// Delete removes a booking permanently.
	Delete(ctx context.Context, id string) error
}
