// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/shelfd/shelfd/internal/catalog"
	"github.com/shelfd/shelfd/internal/store"
)

// ItemRepository implements catalog.ItemRepository using PostgreSQL.
type ItemRepository struct {
	db store.Querier
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(db store.Querier) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create stores a new literature item.
func (r *ItemRepository) Create(ctx context.Context, item *catalog.LiteratureItem) error {
	_, err := store.From(ctx, r.db).Exec(ctx, `
		INSERT INTO literature_items (
			id, title, description, genre, publication_date, author_id, available_copies
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		item.ID.String(),
		item.Title,
		item.Description,
		item.Genre,
		item.PublicationDate,
		item.AuthorID.String(),
		item.AvailableCopies,
	)
	if err != nil {
		return oops.Code("ITEM_CREATE_FAILED").
			With("title", item.Title).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves an item by ID.
func (r *ItemRepository) GetByID(ctx context.Context, id ulid.ULID) (*catalog.LiteratureItem, error) {
	row := store.From(ctx, r.db).QueryRow(ctx, `
		SELECT id, title, description, genre, publication_date, author_id, available_copies
		FROM literature_items
		WHERE id = $1
	`, id.String())

	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ITEM_NOT_FOUND").
			With("id", id.String()).
			Wrap(catalog.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ITEM_GET_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return item, nil
}

// List returns all items ordered by title.
func (r *ItemRepository) List(ctx context.Context) ([]*catalog.LiteratureItem, error) {
	rows, err := store.From(ctx, r.db).Query(ctx, `
		SELECT id, title, description, genre, publication_date, author_id, available_copies
		FROM literature_items
		ORDER BY title
	`)
	if err != nil {
		return nil, oops.Code("ITEM_LIST_FAILED").Wrap(err)
	}
	defer rows.Close()

	var items []*catalog.LiteratureItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, oops.Code("ITEM_SCAN_FAILED").Wrap(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("ITEM_LIST_FAILED").Wrap(err)
	}
	return items, nil
}

// TryDecrementAvailability atomically takes one copy if any are left.
// The WHERE clause makes the read-check-decrement a single statement,
// so two concurrent issues can never both take the last copy.
func (r *ItemRepository) TryDecrementAvailability(ctx context.Context, id ulid.ULID) (bool, error) {
	result, err := store.From(ctx, r.db).Exec(ctx, `
		UPDATE literature_items
		SET available_copies = available_copies - 1
		WHERE id = $1 AND available_copies > 0
	`, id.String())
	if err != nil {
		return false, oops.Code("ITEM_DECREMENT_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return result.RowsAffected() > 0, nil
}

// IncrementAvailability puts a returned copy back. A missing item is
// reported as false, not an error.
func (r *ItemRepository) IncrementAvailability(ctx context.Context, id ulid.ULID) (bool, error) {
	result, err := store.From(ctx, r.db).Exec(ctx, `
		UPDATE literature_items
		SET available_copies = available_copies + 1
		WHERE id = $1
	`, id.String())
	if err != nil {
		return false, oops.Code("ITEM_INCREMENT_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return result.RowsAffected() > 0, nil
}

// scanItem scans a single row into a LiteratureItem.
// Callers are responsible for handling pgx.ErrNoRows.
func scanItem(row pgx.Row) (*catalog.LiteratureItem, error) {
	var (
		idStr       string
		title       string
		description *string
		genre       *string
		pubDate     *time.Time
		authorIDStr string
		copies      int
	)
	if err := row.Scan(&idStr, &title, &description, &genre, &pubDate, &authorIDStr, &copies); err != nil {
		return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ITEM_INVALID_ID").With("id", idStr).Wrap(err)
	}
	authorID, err := ulid.Parse(authorIDStr)
	if err != nil {
		return nil, oops.Code("ITEM_INVALID_AUTHOR_ID").With("author_id", authorIDStr).Wrap(err)
	}

	return &catalog.LiteratureItem{
		ID:              id,
		Title:           title,
		Description:     description,
		Genre:           genre,
		PublicationDate: pubDate,
		AuthorID:        authorID,
		AvailableCopies: copies,
	}, nil
}

// Compile-time interface check.
var _ catalog.ItemRepository = (*ItemRepository)(nil)
