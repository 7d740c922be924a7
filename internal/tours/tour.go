// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

// Package tours owns the tour catalog: the entity, its storage contract,
// the business rules around pricing and ratings, and the HTTP surface.
package tours

import "time"

// Difficulty levels a tour can carry.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Tour represents a bookable trip in the catalog.
//
// # Rules
//   - Name is unique; the slug is derived from it and is the public
//     identifier on the rendered pages.
//   - PriceDiscount, when set, must be strictly below Price.
//   - RatingsAverage is maintained by the reviews domain and clamped to
//     [1.0, 5.0]; new tours start at 4.5 with zero ratings.
//   - Secret tours never appear in list results or aggregations.
type Tour struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Slug            string      `json:"slug"`
	Duration        int         `json:"duration"`
	MaxGroupSize    int         `json:"maxGroupSize"`
	Difficulty      string      `json:"difficulty"`
	Price           float64     `json:"price"`
	PriceDiscount   *float64    `json:"priceDiscount,omitempty"`
	Summary         string      `json:"summary"`
	Description     string      `json:"description,omitempty"`
	ImageCover      string      `json:"imageCover"`
	Images          []string    `json:"images"`
	StartDates      []time.Time `json:"startDates"`
	RatingsAverage  float64     `json:"ratingsAverage"`
	RatingsQuantity int         `json:"ratingsQuantity"`
	Secret          bool        `json:"-"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// Filter holds the parameters for a tour catalog search.
//
// Difficulties is a set: a tour matches when its difficulty equals ANY of
// the values, which is how repeated ?difficulty= parameters arrive.
type Filter struct {
	Difficulties []string
	MinDuration  *int
	MaxDuration  *int
	MinPrice     *float64
	MaxPrice     *float64
	Sort         string
}

// Stats is one row of the per-difficulty catalog aggregation.
type Stats struct {
	Difficulty string  `json:"difficulty"`
	NumTours   int     `json:"numTours"`
	NumRatings int     `json:"numRatings"`
	AvgRating  float64 `json:"avgRating"`
	AvgPrice   float64 `json:"avgPrice"`
	MinPrice   float64 `json:"minPrice"`
	MaxPrice   float64 `json:"maxPrice"`
}

// # Field Identifiers

const (
	FieldName          = "name"
	FieldDuration      = "duration"
	FieldMaxGroupSize  = "maxGroupSize"
	FieldDifficulty    = "difficulty"
	FieldPrice         = "price"
	FieldPriceDiscount = "priceDiscount"
	FieldSummary       = "summary"
	FieldImageCover    = "imageCover"
)
