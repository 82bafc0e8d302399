// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
)

type issueRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleIssue(c echo.Context) error {
	itemID, err := ulid.Parse(c.Param("itemID"))
	if err != nil {
		return badRequest(c, "invalid item ID")
	}

	var req issueRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	userID, err := ulid.Parse(req.UserID)
	if err != nil {
		return badRequest(c, "invalid user_id")
	}

	txn, err := s.loans.Issue(c.Request().Context(), actorFrom(c), userID, itemID)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(txn))
}

func (s *Server) handleReturn(c echo.Context) error {
	transactionID, err := ulid.Parse(c.Param("transactionID"))
	if err != nil {
		return badRequest(c, "invalid transaction ID")
	}

	txn, err := s.loans.Return(c.Request().Context(), actorFrom(c), transactionID)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toTransactionResponse(txn))
}

func (s *Server) handleListTransactions(c echo.Context) error {
	userID, err := ulid.Parse(c.Param("userID"))
	if err != nil {
		return badRequest(c, "invalid user ID")
	}

	txns, err := s.loans.ListForUser(c.Request().Context(), actorFrom(c), userID)
	if err != nil {
		return s.fail(c, err)
	}

	out := make([]transactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransactionResponse(t))
	}
	return c.JSON(http.StatusOK, out)
}
