// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shelfd/shelfd/internal/identity"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	user, token, err := s.identity.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	actor := actorFrom(c)
	user, err := s.identity.Register(c.Request().Context(), actor, req.Username, req.Password, identity.Role(req.Role))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

type updateMeRequest struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

func (s *Server) handleUpdateMe(c echo.Context) error {
	var req updateMeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	actor := actorFrom(c)
	user, err := s.identity.UpdateCredentials(c.Request().Context(), actor, actor.ID, req.Username, req.Password)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// fail logs server-side failures and writes the mapped error response.
func (s *Server) fail(c echo.Context, err error) error {
	status, body := mapError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}
	return c.JSON(status, body)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorBody{Code: "bad_request", Message: msg})
}
