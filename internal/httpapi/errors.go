// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package httpapi

import (
	"errors"
	"net/http"

	"github.com/samber/oops"

	"github.com/shelfd/shelfd/internal/catalog"
	"github.com/shelfd/shelfd/internal/identity"
	"github.com/shelfd/shelfd/internal/loan"
)

// errorBody is the JSON shape of every error response. Code is a stable
// machine-checkable kind; Message is for humans.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusByOopsCode maps validation failure codes that have no sentinel
// of their own to a 400.
var statusByOopsCode = map[string]int{
	"IDENTITY_INVALID_USERNAME": http.StatusBadRequest,
	"IDENTITY_EMPTY_PASSWORD":   http.StatusBadRequest,
	"IDENTITY_INVALID_ROLE":     http.StatusBadRequest,
	"CATALOG_INVALID_AUTHOR":    http.StatusBadRequest,
	"CATALOG_INVALID_ITEM":      http.StatusBadRequest,
}

// mapError translates a service error into an HTTP status and body.
// Business-rule rejections keep their kind; everything unrecognized is
// an opaque 500.
func mapError(err error) (int, errorBody) {
	switch {
	case errors.Is(err, identity.ErrForbidden):
		return http.StatusForbidden, errorBody{Code: "forbidden", Message: "insufficient permissions"}
	case errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized, errorBody{Code: "unauthorized", Message: "invalid or expired token"}
	case errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusBadRequest, errorBody{Code: "invalid_credentials", Message: "incorrect username or password"}
	case errors.Is(err, identity.ErrUsernameTaken):
		return http.StatusConflict, errorBody{Code: "username_taken", Message: "username already taken"}
	case errors.Is(err, loan.ErrInvalidOperation):
		return http.StatusBadRequest, errorBody{Code: "invalid_operation", Message: "an admin may only issue to a non-admin reader"}
	case errors.Is(err, loan.ErrLimitExceeded):
		return http.StatusBadRequest, errorBody{Code: "limit_exceeded", Message: "user already has the maximum number of open loans"}
	case errors.Is(err, loan.ErrAlreadyReturned):
		return http.StatusBadRequest, errorBody{Code: "already_returned", Message: "transaction already returned"}
	case errors.Is(err, loan.ErrConflict):
		return http.StatusConflict, errorBody{Code: "conflict", Message: "operation lost a concurrent update race, try again"}
	case errors.Is(err, loan.ErrNotFound),
		errors.Is(err, identity.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, errorBody{Code: "not_found", Message: "requested entity not found"}
	}

	if oopsErr, ok := oops.AsOops(err); ok {
		if status, known := statusByOopsCode[oopsErr.Code()]; known {
			return status, errorBody{Code: "invalid_input", Message: oopsErr.Error()}
		}
	}

	return http.StatusInternalServerError, errorBody{Code: "internal", Message: "internal server error"}
}
