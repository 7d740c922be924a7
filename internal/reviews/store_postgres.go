// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package reviews

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderhq/wander/internal/platform/dberr"
)

// PostgresRepository implements [Repository] backed by pgxpool.
//
// Every write runs inside a transaction that also refreshes the owning
// tour's rating aggregates, so readers never observe a tour whose
// ratingsAverage disagrees with its review rows.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-backed review repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// reviewColumns joins the author projection used on every read path.
const reviewColumns = `r.id, r.tour_id, r.user_id, r.review, r.rating, r.created_at, r.updated_at,
	u.name, u.photo`

const reviewFrom = ` FROM reviews r JOIN users u ON u.id = r.user_id `

func scanReview(row interface{ Scan(dest ...any) error }) (*Review, error) {
	review := &Review{}
	err := row.Scan(
		&review.ID, &review.TourID, &review.UserID, &review.Review, &review.Rating,
		&review.CreatedAt, &review.UpdatedAt, &review.UserName, &review.UserPhoto,
	)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (repository *PostgresRepository) ListByTour(ctx context.Context, tourID string, limit, offset int) ([]*Review, int, error) {
	var total int
	if err := repository.db.QueryRow(ctx,
		`SELECT count(*) FROM reviews WHERE tour_id = $1`, tourID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_tour_reviews")
	}

	query := `SELECT ` + reviewColumns + reviewFrom +
		`WHERE r.tour_id = $1 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`

	rows, err := repository.db.Query(ctx, query, tourID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_tour_reviews")
	}
	defer rows.Close()

	return collectReviews(rows, total)
}

func (repository *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*Review, int, error) {
	var total int
	if err := repository.db.QueryRow(ctx, `SELECT count(*) FROM reviews`).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_reviews")
	}

	query := `SELECT ` + reviewColumns + reviewFrom +
		`ORDER BY r.created_at DESC LIMIT $1 OFFSET $2`

	rows, err := repository.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	return collectReviews(rows, total)
}

func collectReviews(rows pgx.Rows, total int) ([]*Review, int, error) {
	var reviews []*Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "collect_reviews")
	}
	return reviews, total, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Review, error) {
	query := `SELECT ` + reviewColumns + reviewFrom + `WHERE r.id = $1`

	review, err := scanReview(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.WrapNotFound(err, "find_review_by_id", "Review")
	}
	return review, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, review *Review) error {
	return repository.inTx(ctx, "create_review", func(tx pgx.Tx) error {
		query := `
			INSERT INTO reviews (id, tour_id, user_id, review, rating, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			review.ID, review.TourID, review.UserID, review.Review, review.Rating,
		).Scan(&review.CreatedAt, &review.UpdatedAt)
		if err != nil {
			return err
		}

		return refreshTourAggregates(ctx, tx, review.TourID)
	})
}

func (repository *PostgresRepository) Update(ctx context.Context, review *Review) error {
	return repository.inTx(ctx, "update_review", func(tx pgx.Tx) error {
		query := `
			UPDATE reviews
			SET review = $2, rating = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at
		`

		if err := tx.QueryRow(ctx, query, review.ID, review.Review, review.Rating).Scan(&review.UpdatedAt); err != nil {
			return err
		}

		return refreshTourAggregates(ctx, tx, review.TourID)
	})
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	return repository.inTx(ctx, "delete_review", func(tx pgx.Tx) error {
		var tourID string
		if err := tx.QueryRow(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING tour_id`, id).Scan(&tourID); err != nil {
			return err
		}

		return refreshTourAggregates(ctx, tx, tourID)
	})
}

// inTx runs fn inside a transaction and funnels failures through dberr.
func (repository *PostgresRepository) inTx(ctx context.Context, action string, fn func(tx pgx.Tx) error) error {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return dberr.Wrap(err, action)
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, action)
	}
	return nil
}

// refreshTourAggregates recomputes ratingsQuantity and ratingsAverage for
// one tour from its review rows. A tour with no reviews falls back to the
// catalog default of 4.5.
func refreshTourAggregates(ctx context.Context, tx pgx.Tx, tourID string) error {
	query := `
		UPDATE tours
		SET ratings_quantity = agg.quantity,
			ratings_average  = coalesce(agg.average, 4.5),
			updated_at       = NOW()
		FROM (
			SELECT count(*) AS quantity, round(avg(rating)::numeric, 1)::float8 AS average
			FROM reviews
			WHERE tour_id = $1
		) AS agg
		WHERE tours.id = $1
	`

	_, err := tx.Exec(ctx, query, tourID)
	return err
}
