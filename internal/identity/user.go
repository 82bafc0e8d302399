// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

// Package identity provides user accounts, credentials, and actor resolution.
package identity

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Role classifies what a user account is allowed to do.
type Role string

// Known roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Username validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// usernameRegex matches usernames that start with a letter and contain
// only letters, numbers, and underscores.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// Sentinel errors for the identity store.
var (
	// ErrNotFound is returned when a requested user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned when a username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
)

// User represents a registered account.
type User struct {
	ID           ulid.ULID
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a validated User with a freshly generated ID.
// The password hash must already be computed by a PasswordHasher.
func NewUser(username, passwordHash string, role Role) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("IDENTITY_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	if !role.Valid() {
		return nil, oops.Code("IDENTITY_INVALID_ROLE").
			With("role", string(role)).
			Errorf("unknown role %q", role)
	}

	now := time.Now()
	return &User{
		ID:           ulid.Make(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ValidateUsername validates a username against account naming rules.
func ValidateUsername(username string) error {
	if username == "" {
		return oops.Code("IDENTITY_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if len(username) < MinUsernameLength {
		return oops.Code("IDENTITY_INVALID_USERNAME").
			With("min", MinUsernameLength).
			Errorf("username must be at least %d characters", MinUsernameLength)
	}
	if len(username) > MaxUsernameLength {
		return oops.Code("IDENTITY_INVALID_USERNAME").
			With("max", MaxUsernameLength).
			Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return oops.Code("IDENTITY_INVALID_USERNAME").
			Errorf("username must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. Returns ErrUsernameTaken when the
	// username is already registered.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetForUpdate retrieves a user by ID and locks the row for the
	// remainder of the surrounding transaction. Outside a transaction it
	// behaves like GetByID.
	GetForUpdate(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByUsername retrieves a user by username (case-insensitive).
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Update updates an existing user.
	Update(ctx context.Context, user *User) error
}
