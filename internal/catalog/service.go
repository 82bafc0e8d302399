// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/shelfd/shelfd/internal/identity"
)

// Service provides authorized access to catalog operations. Reads are
// open to any caller; writes require an admin actor.
type Service struct {
	authors AuthorRepository
	items   ItemRepository
}

// NewService creates a new catalog Service.
func NewService(authors AuthorRepository, items ItemRepository) (*Service, error) {
	if authors == nil {
		return nil, oops.Errorf("author repository is required")
	}
	if items == nil {
		return nil, oops.Errorf("item repository is required")
	}
	return &Service{authors: authors, items: items}, nil
}

// CreateAuthor registers a new author. Admin only.
func (s *Service) CreateAuthor(ctx context.Context, actor identity.Actor, name string, bio *string) (*Author, error) {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}
	author, err := NewAuthor(name, bio)
	if err != nil {
		return nil, err
	}
	if err := s.authors.Create(ctx, author); err != nil {
		return nil, oops.Code("CATALOG_CREATE_AUTHOR_FAILED").
			With("name", name).
			Wrap(err)
	}
	return author, nil
}

// ListAuthors returns all authors.
func (s *Service) ListAuthors(ctx context.Context) ([]*Author, error) {
	authors, err := s.authors.List(ctx)
	if err != nil {
		return nil, oops.Code("CATALOG_LIST_AUTHORS_FAILED").Wrap(err)
	}
	return authors, nil
}

// ItemInput carries the fields for creating a literature item.
type ItemInput struct {
	Title           string
	Description     *string
	Genre           *string
	PublicationDate *time.Time
	AuthorID        ulid.ULID
	AvailableCopies int
}

// CreateItem registers a new literature item. Admin only. The author
// must exist.
func (s *Service) CreateItem(ctx context.Context, actor identity.Actor, in ItemInput) (*LiteratureItem, error) {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}

	if _, err := s.authors.GetByID(ctx, in.AuthorID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("CATALOG_CREATE_ITEM_FAILED").
			With("operation", "check author").
			With("author_id", in.AuthorID.String()).
			Wrap(err)
	}

	item, err := NewLiteratureItem(in.Title, in.AuthorID, in.AvailableCopies)
	if err != nil {
		return nil, err
	}
	item.Description = in.Description
	item.Genre = in.Genre
	item.PublicationDate = in.PublicationDate

	if err := s.items.Create(ctx, item); err != nil {
		return nil, oops.Code("CATALOG_CREATE_ITEM_FAILED").
			With("title", in.Title).
			Wrap(err)
	}
	return item, nil
}

// GetItem retrieves a single literature item.
func (s *Service) GetItem(ctx context.Context, id ulid.ULID) (*LiteratureItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("CATALOG_GET_ITEM_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return item, nil
}

// ListItems returns all literature items.
func (s *Service) ListItems(ctx context.Context) ([]*LiteratureItem, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, oops.Code("CATALOG_LIST_ITEMS_FAILED").Wrap(err)
	}
	return items, nil
}
