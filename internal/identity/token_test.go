// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package identity_test

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfd/shelfd/internal/identity"
)

func newTestIssuer(t *testing.T, lifetime time.Duration) *identity.TokenIssuer {
	t.Helper()
	issuer, err := identity.NewTokenIssuer([]byte("test-secret-do-not-use"), lifetime)
	require.NoError(t, err)
	return issuer
}

func TestNewTokenIssuer(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		issuer, err := identity.NewTokenIssuer(nil, time.Minute)
		require.Error(t, err)
		assert.Nil(t, issuer)
	})

	t.Run("non-positive lifetime falls back to default", func(t *testing.T) {
		issuer, err := identity.NewTokenIssuer([]byte("secret"), 0)
		require.NoError(t, err)
		assert.NotNil(t, issuer)
	})
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := newTestIssuer(t, time.Minute)
	user := &identity.User{ID: ulid.Make(), Username: "alice", Role: identity.RoleAdmin}

	token, err := issuer.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	actor, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.ID)
	assert.Equal(t, identity.RoleAdmin, actor.Role)
}

func TestTokenIssuer_Verify(t *testing.T) {
	issuer := newTestIssuer(t, time.Minute)
	user := &identity.User{ID: ulid.Make(), Username: "alice", Role: identity.RoleUser}

	t.Run("rejects empty token", func(t *testing.T) {
		_, err := issuer.Verify("")
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		_, err := issuer.Verify("not.a.token")
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		other, err := identity.NewTokenIssuer([]byte("another-secret"), time.Minute)
		require.NoError(t, err)

		token, err := other.Issue(user)
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		// Expiry is floored to whole seconds, so a millisecond lifetime
		// plus a generous sleep guarantees an expired token.
		short := newTestIssuer(t, time.Millisecond)
		token, err := short.Issue(user)
		require.NoError(t, err)

		time.Sleep(1100 * time.Millisecond)
		_, err = short.Verify(token)
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})
}
