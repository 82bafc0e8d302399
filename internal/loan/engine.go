// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package loan

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/shelfd/shelfd/internal/catalog"
	"github.com/shelfd/shelfd/internal/identity"
)

// Conflict retry policy. Lost serialization races are retried with a
// short constant backoff before surfacing ErrConflict.
const (
	conflictMaxRetries = 3
	conflictBackoff    = 10 * time.Millisecond
)

// Engine is the authority that issues and closes loans. Every mutation
// runs inside a single transactional boundary so the availability
// counter, the per-user cap, and the ledger stay consistent under
// concurrent callers.
type Engine struct {
	users   identity.UserRepository
	items   catalog.ItemRepository
	ledger  TransactionRepository
	tx      Transactor
	logger  *slog.Logger
	metrics MetricsRecorder
	now     func() time.Time
}

// EngineConfig holds dependencies for the Engine.
type EngineConfig struct {
	Users   identity.UserRepository
	Items   catalog.ItemRepository
	Ledger  TransactionRepository
	Tx      Transactor
	Logger  *slog.Logger // defaults to slog.Default()
	Metrics MetricsRecorder
	Now     func() time.Time // defaults to time.Now, injectable for tests
}

// NewEngine creates a new lifecycle Engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if cfg.Items == nil {
		return nil, oops.Errorf("item repository is required")
	}
	if cfg.Ledger == nil {
		return nil, oops.Errorf("transaction repository is required")
	}
	if cfg.Tx == nil {
		return nil, oops.Errorf("transactor is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NopMetrics{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{
		users:   cfg.Users,
		items:   cfg.Items,
		ledger:  cfg.Ledger,
		tx:      cfg.Tx,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		now:     cfg.Now,
	}, nil
}

// Issue lends an item to a user on behalf of an admin actor and returns
// the created transaction with its due date.
//
// Validation order, first failing check wins:
// admin gate, target user exists, target is a non-admin other than the
// actor, item has an available copy, target is under the open-loan cap.
func (e *Engine) Issue(ctx context.Context, actor identity.Actor, targetUserID, itemID ulid.ULID) (*Transaction, error) {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}

	var txn *Transaction
	err := e.withConflictRetry(ctx, func(ctx context.Context) error {
		txn = nil
		return e.tx.InTransaction(ctx, func(ctx context.Context) error {
			// Locks the target's user row, serializing concurrent
			// issues for the same user so the cap check below holds.
			target, err := e.users.GetForUpdate(ctx, targetUserID)
			if err != nil {
				if errors.Is(err, identity.ErrNotFound) {
					return oops.Code("LOAN_USER_NOT_FOUND").
						With("entity", "user").
						With("user_id", targetUserID.String()).
						Wrap(ErrNotFound)
				}
				return oops.Code("LOAN_ISSUE_FAILED").
					With("operation", "get target user").
					Wrap(err)
			}

			if target.ID.Compare(actor.ID) == 0 || target.Role == identity.RoleAdmin {
				return oops.Code("LOAN_INVALID_TARGET").
					With("user_id", target.ID.String()).
					Wrapf(ErrInvalidOperation, "an admin may only issue to a non-admin reader")
			}

			// Missing item and zero copies both land here; the
			// conditional decrement cannot tell them apart.
			available, err := e.items.TryDecrementAvailability(ctx, itemID)
			if err != nil {
				return oops.Code("LOAN_ISSUE_FAILED").
					With("operation", "decrement availability").
					With("item_id", itemID.String()).
					Wrap(err)
			}
			if !available {
				return oops.Code("LOAN_ITEM_NOT_FOUND").
					With("entity", "item").
					With("item_id", itemID.String()).
					Wrap(ErrNotFound)
			}

			open, err := e.ledger.CountOpenByUser(ctx, target.ID)
			if err != nil {
				return oops.Code("LOAN_ISSUE_FAILED").
					With("operation", "count open loans").
					Wrap(err)
			}
			if open >= MaxOpenLoans {
				return oops.Code("LOAN_LIMIT_EXCEEDED").
					With("user_id", target.ID.String()).
					With("open_loans", open).
					Wrapf(ErrLimitExceeded, "user already has %d open loans", open)
			}

			txn = NewTransaction(target.ID, itemID, e.now())
			if err := e.ledger.Insert(ctx, txn); err != nil {
				return oops.Code("LOAN_ISSUE_FAILED").
					With("operation", "insert transaction").
					Wrap(err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	e.metrics.RecordIssue()
	e.logger.Info("loan issued",
		"transaction_id", txn.ID.String(),
		"user_id", txn.UserID.String(),
		"item_id", txn.ItemID.String(),
		"due_date", txn.DueDate,
	)
	return txn, nil
}

// Return closes an open loan on behalf of an admin actor and returns
// the updated transaction.
//
// The ledger close is the primary contract; restoring the availability
// counter is best effort. A vanished item logs a data-integrity warning
// without failing the return.
func (e *Engine) Return(ctx context.Context, actor identity.Actor, transactionID ulid.ULID) (*Transaction, error) {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}

	var txn *Transaction
	err := e.withConflictRetry(ctx, func(ctx context.Context) error {
		txn = nil
		return e.tx.InTransaction(ctx, func(ctx context.Context) error {
			found, err := e.ledger.GetForUpdate(ctx, transactionID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return oops.Code("LOAN_TXN_NOT_FOUND").
						With("entity", "transaction").
						With("transaction_id", transactionID.String()).
						Wrap(ErrNotFound)
				}
				return oops.Code("LOAN_RETURN_FAILED").
					With("operation", "get transaction").
					Wrap(err)
			}

			if !found.Open() {
				return oops.Code("LOAN_ALREADY_RETURNED").
					With("transaction_id", transactionID.String()).
					Wrap(ErrAlreadyReturned)
			}

			returnedAt := e.now()
			if err := e.ledger.Close(ctx, transactionID, returnedAt); err != nil {
				return oops.Code("LOAN_RETURN_FAILED").
					With("operation", "close transaction").
					Wrap(err)
			}

			restocked, err := e.items.IncrementAvailability(ctx, found.ItemID)
			if err != nil {
				return oops.Code("LOAN_RETURN_FAILED").
					With("operation", "increment availability").
					Wrap(err)
			}
			if !restocked {
				e.logger.Warn("item missing during return, availability not restored",
					"transaction_id", transactionID.String(),
					"item_id", found.ItemID.String(),
				)
			}

			found.ReturnDate = &returnedAt
			txn = found
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	e.metrics.RecordReturn()
	e.logger.Info("loan returned",
		"transaction_id", txn.ID.String(),
		"item_id", txn.ItemID.String(),
	)
	return txn, nil
}

// ListForUser returns all transactions for a user, most recent loan
// first. Admins may query anyone; other actors only themselves. A user
// with no transactions at all yields ErrNotFound rather than an empty
// list.
func (e *Engine) ListForUser(ctx context.Context, actor identity.Actor, userID ulid.ULID) ([]*Transaction, error) {
	if err := actor.RequireSelfOr(identity.RoleAdmin, userID); err != nil {
		return nil, err
	}

	txns, err := e.ledger.ListByUser(ctx, userID)
	if err != nil {
		return nil, oops.Code("LOAN_LIST_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}
	if len(txns) == 0 {
		return nil, oops.Code("LOAN_TXN_NOT_FOUND").
			With("entity", "transaction").
			With("user_id", userID.String()).
			Wrap(ErrNotFound)
	}
	return txns, nil
}

// withConflictRetry runs fn, retrying a bounded number of times when
// the store reports a lost serialization race, then surfaces
// ErrConflict.
func (e *Engine) withConflictRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(conflictMaxRetries, retry.NewConstant(conflictBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			if isSerializationFailure(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil && isSerializationFailure(err) {
		e.metrics.RecordConflict()
		return oops.Code("LOAN_CONFLICT").Wrapf(ErrConflict, "retries exhausted: %v", err)
	}
	return err
}

// isSerializationFailure reports whether the error is a transaction
// rollback the store expects us to retry (serialization failure or
// deadlock).
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgerrcode.IsTransactionRollback(pgErr.Code)
}
