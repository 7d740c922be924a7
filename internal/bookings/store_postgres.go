// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package bookings

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderhq/wander/internal/platform/dberr"
)

// PostgresRepository implements [Repository] backed by pgxpool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-backed booking repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// bookingColumns joins the tour and user projections used on read paths.
const bookingColumns = `b.id, b.tour_id, b.user_id, b.price, b.paid, b.created_at, b.updated_at,
	t.name, t.slug, t.image_cover, u.email`

const bookingFrom = ` FROM bookings b
	JOIN tours t ON t.id = b.tour_id
	JOIN users u ON u.id = b.user_id `

func scanBooking(row interface{ Scan(dest ...any) error }) (*Booking, error) {
	booking := &Booking{}
	err := row.Scan(
		&booking.ID, &booking.TourID, &booking.UserID, &booking.Price, &booking.Paid,
		&booking.CreatedAt, &booking.UpdatedAt,
		&booking.TourName, &booking.TourSlug, &booking.TourImageCover, &booking.UserEmail,
	)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (repository *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*Booking, int, error) {
	var total int
	if err := repository.db.QueryRow(ctx, `SELECT count(*) FROM bookings`).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_bookings")
	}

	query := `SELECT ` + bookingColumns + bookingFrom +
		`ORDER BY b.created_at DESC LIMIT $1 OFFSET $2`

	rows, err := repository.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_bookings")
	}
	defer rows.Close()

	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (repository *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Booking, error) {
	query := `SELECT ` + bookingColumns + bookingFrom +
		`WHERE b.user_id = $1 ORDER BY b.created_at DESC`

	rows, err := repository.db.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_user_bookings")
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]*Booking, error) {
	var bookings []*Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_booking")
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "collect_bookings")
	}
	return bookings, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + bookingFrom + `WHERE b.id = $1`

	booking, err := scanBooking(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.WrapNotFound(err, "find_booking_by_id", "Booking")
	}
	return booking, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, booking *Booking) error {
	query := `
		INSERT INTO bookings (id, tour_id, user_id, price, paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := repository.db.QueryRow(ctx, query,
		booking.ID, booking.TourID, booking.UserID, booking.Price, booking.Paid,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	return dberr.Wrap(err, "create_booking")
}

func (repository *PostgresRepository) Update(ctx context.Context, booking *Booking) error {
	query := `
		UPDATE bookings
		SET price = $2, paid = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := repository.db.QueryRow(ctx, query, booking.ID, booking.Price, booking.Paid).Scan(&booking.UpdatedAt)
	return dberr.WrapNotFound(err, "update_booking", "Booking")
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	cmd, err := repository.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "delete_booking")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
