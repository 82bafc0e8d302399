// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfd/shelfd/pkg/errutil"
)

func TestSeedCommand_Properties(t *testing.T) {
	cmd := NewSeedCmd()

	assert.Equal(t, "seed", cmd.Use)
	assert.Contains(t, cmd.Short, "admin", "Short description should mention the admin account")
	assert.Contains(t, cmd.Long, "idempotent", "Long description should mention idempotency")
}

func TestSeedCommand_DefaultFlags(t *testing.T) {
	cmd := NewSeedCmd()

	username, err := cmd.Flags().GetString("username")
	require.NoError(t, err)
	assert.Equal(t, "admin", username)

	password, err := cmd.Flags().GetString("password")
	require.NoError(t, err)
	assert.Empty(t, password, "password must have no default")
}

func TestSeed_RequiresPassword(t *testing.T) {
	configFile = ""

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{"seed"})

	err := cmd.Execute()
	require.Error(t, err, "Expected error when --password is missing")
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestSeed_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	configFile = ""

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{"seed", "--password", "s3cret"})

	err := cmd.Execute()
	require.Error(t, err, "Expected error when no database URL is configured")
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}
