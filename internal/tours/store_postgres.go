// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package tours

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderhq/wander/internal/platform/dberr"
)

// PostgresRepository implements [Repository] backed by pgxpool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-backed tour repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const tourColumns = `id, name, slug, duration, max_group_size, difficulty, price, price_discount,
	summary, description, image_cover, images, start_dates, ratings_average, ratings_quantity,
	secret, created_at, updated_at`

// sortColumns whitelists client-facing sort keys against SQL injection.
// A leading '-' on the key flips the direction.
var sortColumns = map[string]string{
	"price":           "price",
	"duration":        "duration",
	"ratingsAverage":  "ratings_average",
	"ratingsQuantity": "ratings_quantity",
	"maxGroupSize":    "max_group_size",
	"name":            "name",
	"createdAt":       "created_at",
}

func scanTour(row interface{ Scan(dest ...any) error }) (*Tour, error) {
	tour := &Tour{}
	err := row.Scan(
		&tour.ID, &tour.Name, &tour.Slug, &tour.Duration, &tour.MaxGroupSize,
		&tour.Difficulty, &tour.Price, &tour.PriceDiscount, &tour.Summary,
		&tour.Description, &tour.ImageCover, &tour.Images, &tour.StartDates,
		&tour.RatingsAverage, &tour.RatingsQuantity, &tour.Secret,
		&tour.CreatedAt, &tour.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return tour, nil
}

func (repository *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Tour, int, error) {
	conditions := []string{"secret = FALSE"}
	args := []any{}

	if len(filter.Difficulties) > 0 {
		args = append(args, filter.Difficulties)
		conditions = append(conditions, fmt.Sprintf("difficulty = ANY($%d)", len(args)))
	}
	if filter.MinDuration != nil {
		args = append(args, *filter.MinDuration)
		conditions = append(conditions, fmt.Sprintf("duration >= $%d", len(args)))
	}
	if filter.MaxDuration != nil {
		args = append(args, *filter.MaxDuration)
		conditions = append(conditions, fmt.Sprintf("duration <= $%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("price <= $%d", len(args)))
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT count(*) FROM tours ` + where
	if err := repository.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_tours")
	}

	query := `SELECT ` + tourColumns + ` FROM tours ` + where +
		` ORDER BY ` + buildOrderBy(filter.Sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_tours")
	}
	defer rows.Close()

	var tours []*Tour
	for rows.Next() {
		tour, err := scanTour(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_tour")
		}
		tours = append(tours, tour)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_tours")
	}

	return tours, total, nil
}

// buildOrderBy translates a comma-separated client sort expression into a
// safe ORDER BY clause. Unknown keys are dropped; an empty result falls
// back to newest-first.
func buildOrderBy(sort string) string {
	var clauses []string
	for _, key := range strings.Split(sort, ",") {
		key = strings.TrimSpace(key)
		direction := "ASC"
		if strings.HasPrefix(key, "-") {
			direction = "DESC"
			key = key[1:]
		}
		column, known := sortColumns[key]
		if !known {
			continue
		}
		clauses = append(clauses, column+" "+direction)
	}

	if len(clauses) == 0 {
		return "created_at DESC"
	}
	return strings.Join(clauses, ", ")
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE id = $1`

	tour, err := scanTour(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.WrapNotFound(err, "find_tour_by_id", "Tour")
	}
	return tour, nil
}

func (repository *PostgresRepository) FindBySlug(ctx context.Context, slug string) (*Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE slug = $1 AND secret = FALSE`

	tour, err := scanTour(repository.db.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, dberr.WrapNotFound(err, "find_tour_by_slug", "Tour")
	}
	return tour, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, tour *Tour) error {
	query := `
		INSERT INTO tours (id, name, slug, duration, max_group_size, difficulty, price, price_discount,
			summary, description, image_cover, images, start_dates, ratings_average, ratings_quantity,
			secret, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := repository.db.QueryRow(ctx, query,
		tour.ID, tour.Name, tour.Slug, tour.Duration, tour.MaxGroupSize, tour.Difficulty,
		tour.Price, tour.PriceDiscount, tour.Summary, tour.Description, tour.ImageCover,
		tour.Images, tour.StartDates, tour.RatingsAverage, tour.RatingsQuantity, tour.Secret,
	).Scan(&tour.CreatedAt, &tour.UpdatedAt)

	return dberr.Wrap(err, "create_tour")
}

func (repository *PostgresRepository) Update(ctx context.Context, tour *Tour) error {
	query := `
		UPDATE tours
		SET name = $2, slug = $3, duration = $4, max_group_size = $5, difficulty = $6,
			price = $7, price_discount = $8, summary = $9, description = $10,
			image_cover = $11, images = $12, start_dates = $13, secret = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := repository.db.QueryRow(ctx, query,
		tour.ID, tour.Name, tour.Slug, tour.Duration, tour.MaxGroupSize, tour.Difficulty,
		tour.Price, tour.PriceDiscount, tour.Summary, tour.Description, tour.ImageCover,
		tour.Images, tour.StartDates, tour.Secret,
	).Scan(&tour.UpdatedAt)

	return dberr.WrapNotFound(err, "update_tour", "Tour")
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	cmd, err := repository.db.Exec(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "delete_tour")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Stats(ctx context.Context) ([]*Stats, error) {
	query := `
		SELECT difficulty,
			count(*)                    AS num_tours,
			coalesce(sum(ratings_quantity), 0) AS num_ratings,
			round(avg(ratings_average)::numeric, 2)::float8 AS avg_rating,
			round(avg(price)::numeric, 2)::float8           AS avg_price,
			min(price)                  AS min_price,
			max(price)                  AS max_price
		FROM tours
		WHERE secret = FALSE
		GROUP BY difficulty
		ORDER BY avg_price ASC
	`

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "tour_stats")
	}
	defer rows.Close()

	var stats []*Stats
	for rows.Next() {
		row := &Stats{}
		if err := rows.Scan(
			&row.Difficulty, &row.NumTours, &row.NumRatings,
			&row.AvgRating, &row.AvgPrice, &row.MinPrice, &row.MaxPrice,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_tour_stats")
		}
		stats = append(stats, row)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "tour_stats")
	}

	return stats, nil
}
