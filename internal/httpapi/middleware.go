// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shelfd/shelfd/internal/identity"
)

// actorContextKey stores the resolved actor in the echo context.
const actorContextKey = "shelfd.actor"

// requireActor resolves the bearer token into an actor and rejects the
// request when it cannot. The resolved actor is the only identity
// handlers ever consult; the raw token goes no further.
func (s *Server) requireActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return c.JSON(http.StatusUnauthorized, errorBody{
				Code:    "unauthorized",
				Message: "missing bearer token",
			})
		}

		actor, err := s.identity.ResolveActor(c.Request().Context(), token)
		if err != nil {
			status, body := mapError(err)
			return c.JSON(status, body)
		}

		c.Set(actorContextKey, actor)
		return next(c)
	}
}

// optionalActor resolves the bearer token when one is present; without
// a token the request proceeds as an anonymous zero-value actor.
func (s *Server) optionalActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return next(c)
		}

		actor, err := s.identity.ResolveActor(c.Request().Context(), token)
		if err != nil {
			status, body := mapError(err)
			return c.JSON(status, body)
		}

		c.Set(actorContextKey, actor)
		return next(c)
	}
}

// actorFrom returns the actor stored by the middleware, or a zero-value
// anonymous actor.
func actorFrom(c echo.Context) identity.Actor {
	if actor, ok := c.Get(actorContextKey).(identity.Actor); ok {
		return actor
	}
	return identity.Actor{}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// countRequests records per-route request counts when metrics are
// configured.
func (s *Server) countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if s.requests != nil {
			s.requests.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(c.Response().Status),
			).Inc()
		}
		return err
	}
}
