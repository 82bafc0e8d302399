// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"

	"github.com/shelfd/shelfd/internal/catalog"
	"github.com/shelfd/shelfd/internal/identity"
	"github.com/shelfd/shelfd/internal/loan"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"forbidden", identity.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"wrapped forbidden", oops.Code("IDENTITY_FORBIDDEN").Wrap(identity.ErrForbidden), http.StatusForbidden, "forbidden"},
		{"invalid token", oops.Code("IDENTITY_TOKEN_INVALID").Wrap(identity.ErrInvalidToken), http.StatusUnauthorized, "unauthorized"},
		{"invalid credentials", oops.Code("IDENTITY_INVALID_CREDENTIALS").Wrap(identity.ErrInvalidCredentials), http.StatusBadRequest, "invalid_credentials"},
		{"username taken", oops.Code("USER_USERNAME_TAKEN").Wrap(identity.ErrUsernameTaken), http.StatusConflict, "username_taken"},
		{"invalid loan target", oops.Code("LOAN_INVALID_TARGET").Wrap(loan.ErrInvalidOperation), http.StatusBadRequest, "invalid_operation"},
		{"loan limit", oops.Code("LOAN_LIMIT_EXCEEDED").Wrap(loan.ErrLimitExceeded), http.StatusBadRequest, "limit_exceeded"},
		{"already returned", oops.Code("LOAN_ALREADY_RETURNED").Wrap(loan.ErrAlreadyReturned), http.StatusBadRequest, "already_returned"},
		{"lost race", oops.Code("LOAN_CONFLICT").Wrap(loan.ErrConflict), http.StatusConflict, "conflict"},
		{"missing transaction", oops.Code("LOAN_TXN_NOT_FOUND").Wrap(loan.ErrNotFound), http.StatusNotFound, "not_found"},
		{"missing user", oops.Code("USER_NOT_FOUND").Wrap(identity.ErrNotFound), http.StatusNotFound, "not_found"},
		{"missing item", oops.Code("ITEM_NOT_FOUND").Wrap(catalog.ErrNotFound), http.StatusNotFound, "not_found"},
		{"username validation", oops.Code("IDENTITY_INVALID_USERNAME").Errorf("username too short"), http.StatusBadRequest, "invalid_input"},
		{"empty password", oops.Code("IDENTITY_EMPTY_PASSWORD").Errorf("password is required"), http.StatusBadRequest, "invalid_input"},
		{"author validation", oops.Code("CATALOG_INVALID_AUTHOR").Errorf("name is required"), http.StatusBadRequest, "invalid_input"},
		{"unknown oops code", oops.Code("SOMETHING_ELSE").Errorf("boom"), http.StatusInternalServerError, "internal"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := mapError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

// TestMapError_OpaqueInternal verifies that unrecognized errors never
// leak their message to the client.
func TestMapError_OpaqueInternal(t *testing.T) {
	_, body := mapError(errors.New("pq: connection refused host=db.internal"))
	assert.Equal(t, "internal server error", body.Message)
	assert.NotContains(t, body.Message, "db.internal")
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", ""},
		{"bearer token", "Bearer abc123", "abc123"},
		{"case-insensitive scheme", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer", ""},
		{"surrounding whitespace trimmed", "Bearer  abc123", "abc123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())
			assert.Equal(t, tt.want, bearerToken(c))
		})
	}
}
