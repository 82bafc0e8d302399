// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DefaultTokenLifetime is used when no lifetime is configured.
const DefaultTokenLifetime = 30 * time.Minute

// ErrInvalidToken is returned when a bearer token cannot be verified.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer issues and verifies signed bearer tokens.
//
// The subject claim is always the opaque user ID, never the username.
// Usernames are mutable via self-service update; an ID-based subject
// keeps outstanding tokens valid across a rename.
type TokenIssuer struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenIssuer creates a TokenIssuer signing with the given secret.
// A non-positive lifetime falls back to DefaultTokenLifetime.
func NewTokenIssuer(secret []byte, lifetime time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, oops.Code("IDENTITY_TOKEN_SECRET_EMPTY").Errorf("token signing secret is required")
	}
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	return &TokenIssuer{secret: secret, lifetime: lifetime}, nil
}

// Issue creates a signed HS256 token for the user.
func (t *TokenIssuer) Issue(user *User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(t.lifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", oops.Code("IDENTITY_TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Verify checks the token signature and expiry and returns the embedded
// actor. The caller is responsible for confirming the user still exists.
func (t *TokenIssuer) Verify(tokenString string) (Actor, error) {
	if tokenString == "" {
		return Actor{}, oops.Code("IDENTITY_TOKEN_EMPTY").Wrap(ErrInvalidToken)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, oops.Code("IDENTITY_TOKEN_BAD_ALG").
				With("alg", token.Header["alg"]).
				Errorf("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return Actor{}, oops.Code("IDENTITY_TOKEN_INVALID").Wrapf(ErrInvalidToken, "parse token: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Actor{}, oops.Code("IDENTITY_TOKEN_INVALID").Wrap(ErrInvalidToken)
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Actor{}, oops.Code("IDENTITY_TOKEN_INVALID").Wrapf(ErrInvalidToken, "missing subject claim")
	}
	id, err := ulid.Parse(sub)
	if err != nil {
		return Actor{}, oops.Code("IDENTITY_TOKEN_INVALID").Wrapf(ErrInvalidToken, "parse subject: %v", err)
	}

	roleStr, _ := claims["role"].(string)
	role := Role(roleStr)
	if !role.Valid() {
		return Actor{}, oops.Code("IDENTITY_TOKEN_INVALID").Wrapf(ErrInvalidToken, "unknown role %q", roleStr)
	}

	return Actor{ID: id, Role: role}, nil
}
