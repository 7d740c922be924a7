// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

// Package bookings owns tour bookings and the hosted-checkout handoff.
//
// A booking records that a user purchased a tour at a price. Money itself
// never moves through this application: the checkout endpoint opens a
// session with the external payment provider and hands its URL to the
// client for redirection.
package bookings

import "time"

// Booking records a purchased tour.
type Booking struct {
	ID        string    `json:"id"`
	TourID    string    `json:"tourId"`
	UserID    string    `json:"userId"`
	Price     float64   `json:"price"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Read-only projections for rendering, populated on reads.
	TourName       string `json:"tourName,omitempty"`
	TourSlug       string `json:"tourSlug,omitempty"`
	TourImageCover string `json:"tourImageCover,omitempty"`
	UserEmail      string `json:"userEmail,omitempty"`
}

// # Field Identifiers

const (
	FieldTourID = "tourId"
	FieldUserID = "userId"
	FieldPrice  = "price"
)
