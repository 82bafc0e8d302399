// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package identity

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ErrInvalidCredentials is returned on login with a wrong username or
// password. The message never reveals which of the two was wrong.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service provides registration, login, and actor resolution.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens *TokenIssuer
}

// NewService creates a new identity Service.
func NewService(users UserRepository, hasher PasswordHasher, tokens *TokenIssuer) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	return &Service{users: users, hasher: hasher, tokens: tokens}, nil
}

// Register creates a new user account.
//
// Anyone may register a reader account. Creating an admin account
// requires an admin actor; a zero-value actor registers as a reader.
func (s *Service) Register(ctx context.Context, actor Actor, username, password string, role Role) (*User, error) {
	if role == "" {
		role = RoleUser
	}
	if role == RoleAdmin {
		if err := actor.Require(RoleAdmin); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := NewUser(username, hash, role)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, err
		}
		return nil, oops.Code("IDENTITY_REGISTER_FAILED").
			With("username", username).
			Wrap(err)
	}
	return user, nil
}

// Login authenticates a user and returns a signed bearer token.
// Uses constant-time operations to prevent timing-based username enumeration.
func (s *Service) Login(ctx context.Context, username, password string) (*User, string, error) {
	user, lookupErr := s.users.GetByUsername(ctx, username)

	// Verify against a dummy hash when the user is unknown so response
	// time does not reveal whether the username exists.
	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("IDENTITY_LOGIN_FAILED").
				With("operation", "get user by username").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, "", invalidCredentials()
		}
		return nil, "", oops.Code("IDENTITY_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		return nil, "", invalidCredentials()
	}

	// Re-hash transparently when the stored hash predates argon2id.
	if s.hasher.NeedsUpgrade(user.PasswordHash) {
		if newHash, hashErr := s.hasher.Hash(password); hashErr == nil {
			user.PasswordHash = newHash
			_ = s.users.Update(ctx, user) //nolint:errcheck // Best effort, login succeeds regardless
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", oops.Code("IDENTITY_LOGIN_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	return user, token, nil
}

// ResolveActor verifies a bearer token and confirms the user still exists.
// This is the access gate consumed by every authenticated endpoint.
func (s *Service) ResolveActor(ctx context.Context, token string) (Actor, error) {
	actor, err := s.tokens.Verify(token)
	if err != nil {
		return Actor{}, err
	}

	// The token carries the role it was issued with; re-read the user so
	// a revoked account or changed role takes effect before expiry.
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Actor{}, oops.Code("IDENTITY_TOKEN_INVALID").
				With("user_id", actor.ID.String()).
				Wrap(ErrInvalidToken)
		}
		return Actor{}, oops.Code("IDENTITY_RESOLVE_FAILED").
			With("operation", "get user by id").
			Wrap(err)
	}

	return Actor{ID: user.ID, Role: user.Role}, nil
}

// UpdateCredentials changes the username and/or password of the actor's
// own account. Empty fields are left unchanged.
func (s *Service) UpdateCredentials(ctx context.Context, actor Actor, userID ulid.ULID, username, password string) (*User, error) {
	if err := actor.RequireSelfOr(RoleAdmin, userID); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if username != "" && username != user.Username {
		if err := ValidateUsername(username); err != nil {
			return nil, err
		}
		user.Username = username
	}
	if password != "" {
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, err
		}
		return nil, oops.Code("IDENTITY_UPDATE_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return user, nil
}

func invalidCredentials() error {
	return oops.Code("IDENTITY_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
}
