// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package loan

import "errors"

// Business-rule rejections surfaced by the lifecycle engine. Each is a
// stable machine-checkable kind; callers match with errors.Is and must
// not retry (only ErrConflict indicates a lost race, and the engine has
// already retried it internally).
var (
	// ErrNotFound is returned when a referenced entity is absent. For
	// literature items this deliberately covers both "does not exist"
	// and "no available copies", matching the conditional decrement.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation is returned for semantically disallowed
	// actions, e.g. an admin issuing a book to themselves.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrLimitExceeded is returned when the target user already has the
	// maximum number of open loans.
	ErrLimitExceeded = errors.New("borrowing limit exceeded")

	// ErrAlreadyReturned is returned on a repeated return attempt.
	// Double returns are surfaced as user errors, not absorbed.
	ErrAlreadyReturned = errors.New("transaction already returned")

	// ErrConflict is returned after bounded retries of a lost
	// serialization race against the store.
	ErrConflict = errors.New("concurrent update conflict")
)
