// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderhq/wander/internal/platform/dberr"
)

// PostgresRepository implements [UserRepository] backed by pgxpool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// userColumns is the canonical projection shared by every read path.
const userColumns = `id, name, email, photo, role, password_hash, password_changed_at, active, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Photo, &user.Role,
		&user.PasswordHash, &user.PasswordChangedAt, &user.Active,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND active = TRUE`

	user, err := scanUser(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.WrapNotFound(err, "find_user_by_id", "User")
	}
	return user, nil
}

func (repository *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND active = TRUE`

	user, err := scanUser(repository.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, dberr.WrapNotFound(err, "find_user_by_email", "User")
	}
	return user, nil
}

func (repository *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	if err := repository.db.QueryRow(ctx, `SELECT count(*) FROM users WHERE active = TRUE`).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE active = TRUE ORDER BY created_at ASC LIMIT $1 OFFSET $2`
	rows, err := repository.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}

	return users, total, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, name, email, photo, role, password_hash, password_changed_at, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := repository.db.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.Photo, user.Role,
		user.PasswordHash, user.PasswordChangedAt,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return dberr.Wrap(err, "create_user")
}

func (repository *PostgresRepository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, photo = $4, role = $5, updated_at = NOW()
		WHERE id = $1 AND active = TRUE
		RETURNING updated_at
	`

	err := repository.db.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.Photo, user.Role,
	).Scan(&user.UpdatedAt)

	return dberr.WrapNotFound(err, "update_user", "User")
}

func (repository *PostgresRepository) UpdatePassword(ctx context.Context, userID, newHash string, changedAt time.Time) error {
	query := `
		UPDATE users
		SET password_hash = $2, password_changed_at = $3, updated_at = NOW()
		WHERE id = $1 AND active = TRUE
	`

	cmd, err := repository.db.Exec(ctx, query, userID, newHash, changedAt)
	if err != nil {
		return dberr.Wrap(err, "update_user_password")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE users SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active = TRUE`

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "deactivate_user")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
