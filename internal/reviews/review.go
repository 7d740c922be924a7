// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

// Package reviews owns tour reviews: the entity, the one-review-per-tour
// rule, and the rating aggregates it feeds back into the catalog.
package reviews

import "time"

// Review is a member's rating and write-up for one tour.
//
// # Rules
//   - Rating is an integer in [1, 5].
//   - A user may review a given tour at most once (unique index).
//   - Every create, update, and delete recomputes the owning tour's
//     ratingsAverage and ratingsQuantity in the same transaction.
type Review struct {
	ID        string    `json:"id"`
	TourID    string    `json:"tourId"`
	UserID    string    `json:"userId"`
	Review    string    `json:"review"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Read-only author projection for rendering, populated on reads.
	UserName  string `json:"userName,omitempty"`
	UserPhoto string `json:"userPhoto,omitempty"`
}

// # Field Identifiers

const (
	FieldReview = "review"
	FieldRating = "rating"
	FieldTourID = "tourId"
)
