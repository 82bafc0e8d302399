// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package identity

import (
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ErrForbidden is returned when an actor lacks the role or ownership
// required for an operation.
var ErrForbidden = errors.New("forbidden")

// Actor is the authenticated identity performing an operation.
// The ID is the stable user ID; never the username.
type Actor struct {
	ID   ulid.ULID
	Role Role
}

// Is reports whether the actor holds the given role.
func (a Actor) Is(role Role) bool {
	return a.Role == role
}

// Require returns ErrForbidden unless the actor holds the given role.
// Services check authorization through this single capability rather
// than repeating role predicates per endpoint.
func (a Actor) Require(role Role) error {
	if a.Role != role {
		return oops.Code("FORBIDDEN").
			With("required_role", string(role)).
			With("actor_role", string(a.Role)).
			Wrap(ErrForbidden)
	}
	return nil
}

// RequireSelfOr returns ErrForbidden unless the actor holds the given
// role or is acting on their own account.
func (a Actor) RequireSelfOr(role Role, subject ulid.ULID) error {
	if a.ID.Compare(subject) == 0 {
		return nil
	}
	return a.Require(role)
}
