// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

// Package httpapi exposes the identity, catalog, and loan services over
// a JSON HTTP API.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"

	"github.com/shelfd/shelfd/internal/catalog"
	"github.com/shelfd/shelfd/internal/identity"
	"github.com/shelfd/shelfd/internal/loan"
)

// Config holds dependencies for the HTTP API server.
type Config struct {
	Listen   string
	Identity *identity.Service
	Catalog  *catalog.Service
	Loans    *loan.Engine
	Logger   *slog.Logger // defaults to slog.Default()

	// Requests, when set, counts requests by method, path, and status.
	Requests *prometheus.CounterVec
}

// Server serves the JSON API.
type Server struct {
	echo     *echo.Echo
	listen   string
	identity *identity.Service
	catalog  *catalog.Service
	loans    *loan.Engine
	logger   *slog.Logger
	requests *prometheus.CounterVec
}

// NewServer wires routes and middleware into a ready-to-start Server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Listen == "" {
		return nil, oops.Errorf("listen address is required")
	}
	if cfg.Identity == nil {
		return nil, oops.Errorf("identity service is required")
	}
	if cfg.Catalog == nil {
		return nil, oops.Errorf("catalog service is required")
	}
	if cfg.Loans == nil {
		return nil, oops.Errorf("loan engine is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		listen:   cfg.Listen,
		identity: cfg.Identity,
		catalog:  cfg.Catalog,
		loans:    cfg.Loans,
		logger:   cfg.Logger,
		requests: cfg.Requests,
	}

	e.Use(echomw.Recover())
	e.Use(s.countRequests)

	v1 := e.Group("/api/v1")

	v1.POST("/auth/login", s.handleLogin)
	v1.POST("/users", s.handleRegister, s.optionalActor)
	v1.PUT("/users/me", s.handleUpdateMe, s.requireActor)

	v1.GET("/authors", s.handleListAuthors, s.requireActor)
	v1.POST("/authors", s.handleCreateAuthor, s.requireActor)

	v1.GET("/items", s.handleListItems, s.requireActor)
	v1.GET("/items/:itemID", s.handleGetItem, s.requireActor)
	v1.POST("/items", s.handleCreateItem, s.requireActor)

	v1.POST("/transactions/issue/:itemID", s.handleIssue, s.requireActor)
	v1.POST("/transactions/return/:transactionID", s.handleReturn, s.requireActor)
	v1.GET("/transactions/:userID", s.handleListTransactions, s.requireActor)

	return s, nil
}

// Start serves until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.logger.Info("http api listening", "addr", s.listen)
	if err := s.echo.Start(s.listen); err != nil && err != http.ErrServerClosed {
		return oops.With("addr", s.listen).Wrap(err)
	}
	return nil
}

// Stop gracefully drains in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(ctx); err != nil {
		return oops.With("operation", "shutdown_http_api").Wrap(err)
	}
	s.logger.Info("http api stopped")
	return nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
