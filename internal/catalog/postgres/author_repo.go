// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

// Package postgres implements catalog repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/shelfd/shelfd/internal/catalog"
	"github.com/shelfd/shelfd/internal/store"
)

// AuthorRepository implements catalog.AuthorRepository using PostgreSQL.
type AuthorRepository struct {
	db store.Querier
}

// NewAuthorRepository creates a new AuthorRepository.
func NewAuthorRepository(db store.Querier) *AuthorRepository {
	return &AuthorRepository{db: db}
}

// Create stores a new author.
func (r *AuthorRepository) Create(ctx context.Context, author *catalog.Author) error {
	_, err := store.From(ctx, r.db).Exec(ctx, `
		INSERT INTO authors (id, name, bio)
		VALUES ($1, $2, $3)
	`, author.ID.String(), author.Name, author.Bio)
	if err != nil {
		return oops.Code("AUTHOR_CREATE_FAILED").
			With("name", author.Name).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves an author by ID.
func (r *AuthorRepository) GetByID(ctx context.Context, id ulid.ULID) (*catalog.Author, error) {
	row := store.From(ctx, r.db).QueryRow(ctx, `
		SELECT id, name, bio FROM authors WHERE id = $1
	`, id.String())

	author, err := scanAuthor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("AUTHOR_NOT_FOUND").
			With("id", id.String()).
			Wrap(catalog.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("AUTHOR_GET_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return author, nil
}

// List returns all authors ordered by name.
func (r *AuthorRepository) List(ctx context.Context) ([]*catalog.Author, error) {
	rows, err := store.From(ctx, r.db).Query(ctx, `
		SELECT id, name, bio FROM authors ORDER BY name
	`)
	if err != nil {
		return nil, oops.Code("AUTHOR_LIST_FAILED").Wrap(err)
	}
	defer rows.Close()

	var authors []*catalog.Author
	for rows.Next() {
		author, err := scanAuthor(rows)
		if err != nil {
			return nil, oops.Code("AUTHOR_SCAN_FAILED").Wrap(err)
		}
		authors = append(authors, author)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("AUTHOR_LIST_FAILED").Wrap(err)
	}
	return authors, nil
}

// scanAuthor scans a single row into an Author.
// Callers are responsible for handling pgx.ErrNoRows.
func scanAuthor(row pgx.Row) (*catalog.Author, error) {
	var (
		idStr string
		name  string
		bio   *string
	)
	if err := row.Scan(&idStr, &name, &bio); err != nil {
		return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("AUTHOR_INVALID_ID").With("id", idStr).Wrap(err)
	}
	return &catalog.Author{ID: id, Name: name, Bio: bio}, nil
}

// Compile-time interface check.
var _ catalog.AuthorRepository = (*AuthorRepository)(nil)
