// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package catalog_test

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shelfd/shelfd/internal/catalog"
	"github.com/shelfd/shelfd/internal/catalog/mocks"
	"github.com/shelfd/shelfd/internal/identity"
)

func newTestService(t *testing.T) (*catalog.Service, *mocks.MockAuthorRepository, *mocks.MockItemRepository) {
	t.Helper()

	authors := mocks.NewMockAuthorRepository(t)
	items := mocks.NewMockItemRepository(t)
	svc, err := catalog.NewService(authors, items)
	require.NoError(t, err)
	return svc, authors, items
}

func catalogAdmin() identity.Actor {
	return identity.Actor{ID: ulid.Make(), Role: identity.RoleAdmin}
}

func TestService_CreateAuthor(t *testing.T) {
	ctx := context.Background()

	t.Run("admin creates author", func(t *testing.T) {
		svc, authors, _ := newTestService(t)

		authors.On("Create", ctx, mock.AnythingOfType("*catalog.Author")).Return(nil)

		author, err := svc.CreateAuthor(ctx, catalogAdmin(), "Octavia Butler", nil)
		require.NoError(t, err)
		assert.Equal(t, "Octavia Butler", author.Name)
	})

	t.Run("reader cannot create author", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		reader := identity.Actor{ID: ulid.Make(), Role: identity.RoleUser}

		author, err := svc.CreateAuthor(ctx, reader, "Octavia Butler", nil)
		require.Error(t, err)
		assert.Nil(t, author)
		assert.ErrorIs(t, err, identity.ErrForbidden)
	})
}

func TestService_CreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("admin creates item for existing author", func(t *testing.T) {
		svc, authors, items := newTestService(t)
		authorID := ulid.Make()

		authors.On("GetByID", ctx, authorID).Return(&catalog.Author{ID: authorID, Name: "Octavia Butler"}, nil)
		items.On("Create", ctx, mock.AnythingOfType("*catalog.LiteratureItem")).Return(nil)

		item, err := svc.CreateItem(ctx, catalogAdmin(), catalog.ItemInput{
			Title:           "Kindred",
			AuthorID:        authorID,
			AvailableCopies: 4,
		})
		require.NoError(t, err)
		assert.Equal(t, "Kindred", item.Title)
		assert.Equal(t, 4, item.AvailableCopies)
	})

	t.Run("rejects unknown author", func(t *testing.T) {
		svc, authors, _ := newTestService(t)
		authorID := ulid.Make()

		authors.On("GetByID", ctx, authorID).Return(nil, catalog.ErrNotFound)

		item, err := svc.CreateItem(ctx, catalogAdmin(), catalog.ItemInput{
			Title:           "Kindred",
			AuthorID:        authorID,
			AvailableCopies: 4,
		})
		require.Error(t, err)
		assert.Nil(t, item)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("reader cannot create item", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		reader := identity.Actor{ID: ulid.Make(), Role: identity.RoleUser}

		item, err := svc.CreateItem(ctx, reader, catalog.ItemInput{
			Title:           "Kindred",
			AuthorID:        ulid.Make(),
			AvailableCopies: 1,
		})
		require.Error(t, err)
		assert.Nil(t, item)
		assert.ErrorIs(t, err, identity.ErrForbidden)
	})
}

func TestService_GetItem(t *testing.T) {
	ctx := context.Background()

	t.Run("returns item", func(t *testing.T) {
		svc, _, items := newTestService(t)
		itemID := ulid.Make()

		items.On("GetByID", ctx, itemID).Return(&catalog.LiteratureItem{ID: itemID, Title: "Kindred"}, nil)

		item, err := svc.GetItem(ctx, itemID)
		require.NoError(t, err)
		assert.Equal(t, "Kindred", item.Title)
	})

	t.Run("unknown item is not found", func(t *testing.T) {
		svc, _, items := newTestService(t)
		itemID := ulid.Make()

		items.On("GetByID", ctx, itemID).Return(nil, catalog.ErrNotFound)

		item, err := svc.GetItem(ctx, itemID)
		require.Error(t, err)
		assert.Nil(t, item)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestService_Lists(t *testing.T) {
	ctx := context.Background()

	t.Run("lists authors", func(t *testing.T) {
		svc, authors, _ := newTestService(t)

		authors.On("List", ctx).Return([]*catalog.Author{
			{ID: ulid.Make(), Name: "Butler"},
			{ID: ulid.Make(), Name: "Le Guin"},
		}, nil)

		got, err := svc.ListAuthors(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("lists items", func(t *testing.T) {
		svc, _, items := newTestService(t)

		items.On("List", ctx).Return([]*catalog.LiteratureItem{
			{ID: ulid.Make(), Title: "Kindred"},
		}, nil)

		got, err := svc.ListItems(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
