// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"github.com/shelfd/shelfd/internal/catalog"
)

type createAuthorRequest struct {
	Name string  `json:"name"`
	Bio  *string `json:"bio,omitempty"`
}

func (s *Server) handleCreateAuthor(c echo.Context) error {
	var req createAuthorRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	author, err := s.catalog.CreateAuthor(c.Request().Context(), actorFrom(c), req.Name, req.Bio)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toAuthorResponse(author))
}

func (s *Server) handleListAuthors(c echo.Context) error {
	authors, err := s.catalog.ListAuthors(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}

	out := make([]authorResponse, 0, len(authors))
	for _, a := range authors {
		out = append(out, toAuthorResponse(a))
	}
	return c.JSON(http.StatusOK, out)
}

type createItemRequest struct {
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	Genre           *string `json:"genre,omitempty"`
	PublicationDate *string `json:"publication_date,omitempty"`
	AuthorID        string  `json:"author_id"`
	AvailableCopies int     `json:"available_copies"`
}

func (s *Server) handleCreateItem(c echo.Context) error {
	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	authorID, err := ulid.Parse(req.AuthorID)
	if err != nil {
		return badRequest(c, "invalid author_id")
	}

	in := catalog.ItemInput{
		Title:           req.Title,
		Description:     req.Description,
		Genre:           req.Genre,
		AuthorID:        authorID,
		AvailableCopies: req.AvailableCopies,
	}
	if req.PublicationDate != nil {
		published, err := time.Parse("2006-01-02", *req.PublicationDate)
		if err != nil {
			return badRequest(c, "publication_date must be YYYY-MM-DD")
		}
		in.PublicationDate = &published
	}

	item, err := s.catalog.CreateItem(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toItemResponse(item))
}

func (s *Server) handleGetItem(c echo.Context) error {
	id, err := ulid.Parse(c.Param("itemID"))
	if err != nil {
		return badRequest(c, "invalid item ID")
	}

	item, err := s.catalog.GetItem(c.Request().Context(), id)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toItemResponse(item))
}

func (s *Server) handleListItems(c echo.Context) error {
	items, err := s.catalog.ListItems(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}

	out := make([]itemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, toItemResponse(i))
	}
	return c.JSON(http.StatusOK, out)
}
