// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package main

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/shelfd/shelfd/internal/config"
	"github.com/shelfd/shelfd/internal/identity"
	identitypg "github.com/shelfd/shelfd/internal/identity/postgres"
	"github.com/shelfd/shelfd/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	username string
	password string
	timeout  time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the bootstrap admin account",
		Long: `Creates the initial admin account so the system can be administered.
This command is idempotent - it will not overwrite an existing account
with the same username.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().String("database-url", "", "PostgreSQL connection string")
	cmd.Flags().StringVar(&cfg.username, "username", "admin", "admin account username")
	cmd.Flags().StringVar(&cfg.password, "password", "", "admin account password (required)")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	if cfg.password == "" {
		return oops.Code("CONFIG_INVALID").Errorf("--password is required")
	}

	appCfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if appCfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (flag, config file, or DATABASE_URL)")
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals.
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, appCfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	hasher := identity.NewArgon2idHasher()
	hash, err := hasher.Hash(cfg.password)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "hash password").Wrap(err)
	}

	admin, err := identity.NewUser(cfg.username, hash, identity.RoleAdmin)
	if err != nil {
		return err
	}

	users := identitypg.NewUserRepository(pool)
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, identity.ErrUsernameTaken) {
			cmd.Printf("Account %q already exists, skipping seed\n", cfg.username)
			return nil
		}
		return oops.Code("SEED_FAILED").With("operation", "create admin").Wrap(err)
	}

	cmd.Printf("Admin account %q created (id: %s)\n", admin.Username, admin.ID)
	return nil
}
