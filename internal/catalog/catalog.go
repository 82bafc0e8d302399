// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

// Package catalog provides authors and literature items, including the
// availability counter the loan lifecycle mutates.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ErrNotFound is returned when a requested catalog entity does not exist.
var ErrNotFound = errors.New("not found")

// Author represents a literature author.
type Author struct {
	ID   ulid.ULID
	Name string
	Bio  *string
}

// NewAuthor creates a validated Author with a freshly generated ID.
func NewAuthor(name string, bio *string) (*Author, error) {
	if name == "" {
		return nil, oops.Code("CATALOG_INVALID_AUTHOR").Errorf("author name cannot be empty")
	}
	return &Author{ID: ulid.Make(), Name: name, Bio: bio}, nil
}

// LiteratureItem represents a lendable title in the catalog.
// AvailableCopies is the live count of lendable copies; it is the only
// field the loan lifecycle mutates and it never goes negative.
type LiteratureItem struct {
	ID              ulid.ULID
	Title           string
	Description     *string
	Genre           *string
	PublicationDate *time.Time
	AuthorID        ulid.ULID
	AvailableCopies int
}

// NewLiteratureItem creates a validated LiteratureItem with a freshly
// generated ID.
func NewLiteratureItem(title string, authorID ulid.ULID, copies int) (*LiteratureItem, error) {
	if title == "" {
		return nil, oops.Code("CATALOG_INVALID_ITEM").Errorf("item title cannot be empty")
	}
	if authorID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("CATALOG_INVALID_ITEM").Errorf("author ID cannot be zero")
	}
	if copies < 0 {
		return nil, oops.Code("CATALOG_INVALID_ITEM").
			With("copies", copies).
			Errorf("available copies cannot be negative")
	}
	return &LiteratureItem{ID: ulid.Make(), Title: title, AuthorID: authorID, AvailableCopies: copies}, nil
}

// AuthorRepository manages author persistence.
type AuthorRepository interface {
	// Create stores a new author.
	Create(ctx context.Context, author *Author) error

	// GetByID retrieves an author by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Author, error)

	// List returns all authors ordered by name.
	List(ctx context.Context) ([]*Author, error)
}

// ItemRepository manages literature item persistence. Availability
// mutations are transaction-aware: inside a Transactor boundary they
// operate on the surrounding database transaction.
type ItemRepository interface {
	// Create stores a new literature item.
	Create(ctx context.Context, item *LiteratureItem) error

	// GetByID retrieves an item by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*LiteratureItem, error)

	// List returns all items ordered by title.
	List(ctx context.Context) ([]*LiteratureItem, error)

	// TryDecrementAvailability atomically decrements available_copies if
	// the item exists and has copies left. Returns false when it does
	// not - the caller cannot distinguish a missing item from an
	// out-of-stock one, which is deliberate: both refuse an issue.
	TryDecrementAvailability(ctx context.Context, id ulid.ULID) (bool, error)

	// IncrementAvailability adds a returned copy back. Returns false
	// without error when the item no longer exists; the caller decides
	// whether that is worth a warning.
	IncrementAvailability(ctx context.Context, id ulid.ULID) (bool, error)
}
