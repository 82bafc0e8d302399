// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/shelfd/shelfd/internal/catalog"
	catalogpg "github.com/shelfd/shelfd/internal/catalog/postgres"
	"github.com/shelfd/shelfd/internal/config"
	"github.com/shelfd/shelfd/internal/httpapi"
	"github.com/shelfd/shelfd/internal/identity"
	identitypg "github.com/shelfd/shelfd/internal/identity/postgres"
	"github.com/shelfd/shelfd/internal/loan"
	loanpg "github.com/shelfd/shelfd/internal/loan/postgres"
	"github.com/shelfd/shelfd/internal/logging"
	"github.com/shelfd/shelfd/internal/observability"
	"github.com/shelfd/shelfd/internal/store"
	"github.com/shelfd/shelfd/pkg/errutil"
)

const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Shelfd HTTP API server",
		Long: `Start the HTTP API server, serving the catalog, user accounts,
and the loan lifecycle. Also starts an observability server with
Prometheus metrics and health probes unless metrics-addr is empty.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, autoMigrate)
		},
	}

	cmd.Flags().String("listen", config.DefaultListen, "HTTP API listen address")
	cmd.Flags().String("metrics-addr", config.DefaultMetricsAddr, "observability listen address (empty disables)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection string")
	cmd.Flags().String("log-format", config.DefaultLogFormat, "log format (json or text)")
	cmd.Flags().String("token-secret", "", "bearer token signing secret")
	cmd.Flags().Duration("token-lifetime", config.DefaultTokenLifetime, "bearer token lifetime")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "apply pending database migrations on startup")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config, autoMigrate bool) error {
	logging.SetDefault("shelfd", version, cfg.LogFormat)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if autoMigrate {
		if err := applyMigrations(cfg.DatabaseURL, logger); err != nil {
			return err
		}
	}

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := identitypg.NewUserRepository(pool)
	authorRepo := catalogpg.NewAuthorRepository(pool)
	itemRepo := catalogpg.NewItemRepository(pool)
	transactionRepo := loanpg.NewTransactionRepository(pool)
	transactor := store.NewTransactor(pool)

	tokens, err := identity.NewTokenIssuer([]byte(cfg.TokenSecret), cfg.TokenLifetime)
	if err != nil {
		return err
	}
	identitySvc, err := identity.NewService(userRepo, identity.NewArgon2idHasher(), tokens)
	if err != nil {
		return err
	}
	catalogSvc, err := catalog.NewService(authorRepo, itemRepo)
	if err != nil {
		return err
	}

	engineCfg := loan.EngineConfig{
		Users:  userRepo,
		Items:  itemRepo,
		Ledger: transactionRepo,
		Tx:     transactor,
		Logger: logger,
	}

	var obsServer *observability.Server
	var obsErrCh <-chan error
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(pingCtx) == nil
		})
		obsErrCh, err = obsServer.Start()
		if err != nil {
			return err
		}
		engineCfg.Metrics = obsServer.Metrics()
	}

	engine, err := loan.NewEngine(engineCfg)
	if err != nil {
		return err
	}

	apiCfg := httpapi.Config{
		Listen:   cfg.Listen,
		Identity: identitySvc,
		Catalog:  catalogSvc,
		Loans:    engine,
		Logger:   logger,
	}
	if obsServer != nil {
		apiCfg.Requests = obsServer.Metrics().RequestsTotal
	}
	api, err := httpapi.NewServer(apiCfg)
	if err != nil {
		return err
	}

	apiErrCh := make(chan error, 1)
	go func() {
		apiErrCh <- api.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err = <-apiErrCh:
		if err != nil {
			errutil.LogError(logger, "http api server failed", err)
		}
	case obsErr, ok := <-obsErrCh:
		if ok && obsErr != nil {
			errutil.LogError(logger, "observability server failed", obsErr)
			err = obsErr
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if stopErr := api.Stop(shutdownCtx); stopErr != nil {
		errutil.LogError(logger, "http api shutdown failed", stopErr)
	}
	if obsServer != nil {
		if stopErr := obsServer.Stop(shutdownCtx); stopErr != nil {
			errutil.LogError(logger, "observability shutdown failed", stopErr)
		}
	}

	return err
}

func applyMigrations(databaseURL string, logger *slog.Logger) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck // close error is not actionable here

	pending, err := migrator.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		logger.Info("database schema up to date")
		return nil
	}

	logger.Info("applying pending migrations", "count", len(pending))
	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "auto-migrate").Wrap(err)
	}
	logger.Info("migrations applied")
	return nil
}
