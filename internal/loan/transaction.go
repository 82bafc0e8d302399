// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

// Package loan implements the loan ledger and the lifecycle engine that
// issues and closes loans against the catalog.
package loan

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Lending policy.
const (
	// LoanPeriod is the time a borrower has before a loan falls due.
	LoanPeriod = 14 * 24 * time.Hour

	// MaxOpenLoans is the per-user cap on simultaneously open loans.
	MaxOpenLoans = 5
)

// Transaction records a single loan of a literature item to a user.
// It is created once by issue, closed at most once by return, and never
// deleted.
type Transaction struct {
	ID         ulid.ULID
	UserID     ulid.ULID
	ItemID     ulid.ULID
	LoanDate   time.Time
	DueDate    time.Time
	ReturnDate *time.Time
}

// NewTransaction creates an open transaction dated now.
func NewTransaction(userID, itemID ulid.ULID, now time.Time) *Transaction {
	return &Transaction{
		ID:       ulid.Make(),
		UserID:   userID,
		ItemID:   itemID,
		LoanDate: now,
		DueDate:  now.Add(LoanPeriod),
	}
}

// Open reports whether the loan has not yet been returned.
func (t *Transaction) Open() bool {
	return t.ReturnDate == nil
}

// Overdue reports whether an open loan is past its due date at the
// given time.
func (t *Transaction) Overdue(now time.Time) bool {
	return t.Open() && now.After(t.DueDate)
}

// TransactionRepository manages loan ledger persistence. Methods are
// transaction-aware: inside a Transactor boundary they operate on the
// surrounding database transaction.
type TransactionRepository interface {
	// Insert appends a new transaction to the ledger.
	Insert(ctx context.Context, txn *Transaction) error

	// GetByID retrieves a transaction.
	GetByID(ctx context.Context, id ulid.ULID) (*Transaction, error)

	// GetForUpdate retrieves a transaction and locks the row for the
	// remainder of the surrounding transaction.
	GetForUpdate(ctx context.Context, id ulid.ULID) (*Transaction, error)

	// Close sets the return date. Returns ErrAlreadyReturned when the
	// transaction is already closed; the close is append-only and the
	// return date is never changed afterwards.
	Close(ctx context.Context, id ulid.ULID, returnedAt time.Time) error

	// CountOpenByUser returns the number of open transactions for a user.
	CountOpenByUser(ctx context.Context, userID ulid.ULID) (int, error)

	// ListByUser returns all transactions for a user, most recent loan
	// first.
	ListByUser(ctx context.Context, userID ulid.ULID) ([]*Transaction, error)
}

// Transactor runs a function inside a single atomic store boundary.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder counts lifecycle outcomes. Implementations must be
// safe for concurrent use.
type MetricsRecorder interface {
	RecordIssue()
	RecordReturn()
	RecordConflict()
}

// NopMetrics is a MetricsRecorder that discards all observations.
type NopMetrics struct{}

// RecordIssue implements MetricsRecorder.
func (NopMetrics) RecordIssue() {}

// RecordReturn implements MetricsRecorder.
func (NopMetrics) RecordReturn() {}

// RecordConflict implements MetricsRecorder.
func (NopMetrics) RecordConflict() {}
