// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

// Package postgres implements identity repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/shelfd/shelfd/internal/identity"
	"github.com/shelfd/shelfd/internal/store"
)

// UserRepository implements identity.UserRepository using PostgreSQL.
type UserRepository struct {
	db store.Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db store.Querier) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a new user.
func (r *UserRepository) Create(ctx context.Context, user *identity.User) error {
	_, err := store.From(ctx, r.db).Exec(ctx, `
		INSERT INTO users (id, username, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		user.ID.String(),
		user.Username,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("USER_USERNAME_TAKEN").
				With("username", user.Username).
				Wrap(identity.ErrUsernameTaken)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("username", user.Username).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id ulid.ULID) (*identity.User, error) {
	row := store.From(ctx, r.db).QueryRow(ctx, `
		SELECT id, username, password_hash, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id.String())
	return r.scanUser(row, "id", id.String())
}

// GetForUpdate retrieves a user by ID with a row lock held for the
// remainder of the surrounding transaction.
func (r *UserRepository) GetForUpdate(ctx context.Context, id ulid.ULID) (*identity.User, error) {
	row := store.From(ctx, r.db).QueryRow(ctx, `
		SELECT id, username, password_hash, role, created_at, updated_at
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, id.String())
	return r.scanUser(row, "id", id.String())
}

// GetByUsername retrieves a user by username (case-insensitive).
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*identity.User, error) {
	row := store.From(ctx, r.db).QueryRow(ctx, `
		SELECT id, username, password_hash, role, created_at, updated_at
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`, username)
	return r.scanUser(row, "username", username)
}

// Update updates an existing user.
func (r *UserRepository) Update(ctx context.Context, user *identity.User) error {
	result, err := store.From(ctx, r.db).Exec(ctx, `
		UPDATE users SET
			username = $2,
			password_hash = $3,
			role = $4,
			updated_at = $5
		WHERE id = $1
	`,
		user.ID.String(),
		user.Username,
		user.PasswordHash,
		string(user.Role),
		time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("USER_USERNAME_TAKEN").
				With("username", user.Username).
				Wrap(identity.ErrUsernameTaken)
		}
		return oops.Code("USER_UPDATE_FAILED").
			With("operation", "update user").
			With("id", user.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", user.ID.String()).
			Wrap(identity.ErrNotFound)
	}
	return nil
}

// scanUser scans a single row into a User.
func (r *UserRepository) scanUser(row pgx.Row, field, value string) (*identity.User, error) {
	var (
		idStr        string
		username     string
		passwordHash string
		role         string
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(&idStr, &username, &passwordHash, &role, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With(field, value).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_SCAN_FAILED").
			With(field, value).
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("USER_INVALID_ID").
			With("id", idStr).
			Wrap(err)
	}

	return &identity.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         identity.Role(role),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Compile-time interface check.
var _ identity.UserRepository = (*UserRepository)(nil)
