// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

// Package postgres implements the loan ledger using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/shelfd/shelfd/internal/loan"
	"github.com/shelfd/shelfd/internal/store"
)

// TransactionRepository implements loan.TransactionRepository using
// PostgreSQL.
type TransactionRepository struct {
	db store.Querier
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db store.Querier) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Insert appends a new transaction to the ledger.
func (r *TransactionRepository) Insert(ctx context.Context, txn *loan.Transaction) error {
	_, err := store.From(ctx, r.db).Exec(ctx, `
		INSERT INTO transactions (id, user_id, literature_item_id, loan_date, due_date, return_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		txn.ID.String(),
		txn.UserID.String(),
		txn.ItemID.String(),
		txn.LoanDate,
		txn.DueDate,
		txn.ReturnDate,
	)
	if err != nil {
		return oops.Code("TXN_INSERT_FAILED").
			With("id", txn.ID.String()).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a transaction.
func (r *TransactionRepository) GetByID(ctx context.Context, id ulid.ULID) (*loan.Transaction, error) {
	row := store.From(ctx, r.db).QueryRow(ctx, `
		SELECT id, user_id, literature_item_id, loan_date, due_date, return_date
		FROM transactions
		WHERE id = $1
	`, id.String())
	return r.getOne(row, id)
}

// GetForUpdate retrieves a transaction with a row lock held for the
// remainder of the surrounding transaction.
func (r *TransactionRepository) GetForUpdate(ctx context.Context, id ulid.ULID) (*loan.Transaction, error) {
	row := store.From(ctx, r.db).QueryRow(ctx, `
		SELECT id, user_id, literature_item_id, loan_date, due_date, return_date
		FROM transactions
		WHERE id = $1
		FOR UPDATE
	`, id.String())
	return r.getOne(row, id)
}

// Close sets the return date, conditionally on the transaction still
// being open. The return date is append-only and never changes again.
func (r *TransactionRepository) Close(ctx context.Context, id ulid.ULID, returnedAt time.Time) error {
	result, err := store.From(ctx, r.db).Exec(ctx, `
		UPDATE transactions
		SET return_date = $2
		WHERE id = $1 AND return_date IS NULL
	`, id.String(), returnedAt)
	if err != nil {
		return oops.Code("TXN_CLOSE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TXN_ALREADY_CLOSED").
			With("id", id.String()).
			Wrap(loan.ErrAlreadyReturned)
	}
	return nil
}

// CountOpenByUser returns the number of open transactions for a user.
func (r *TransactionRepository) CountOpenByUser(ctx context.Context, userID ulid.ULID) (int, error) {
	var count int
	err := store.From(ctx, r.db).QueryRow(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE user_id = $1 AND return_date IS NULL
	`, userID.String()).Scan(&count)
	if err != nil {
		return 0, oops.Code("TXN_COUNT_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return count, nil
}

// ListByUser returns all transactions for a user, most recent loan first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID ulid.ULID) ([]*loan.Transaction, error) {
	rows, err := store.From(ctx, r.db).Query(ctx, `
		SELECT id, user_id, literature_item_id, loan_date, due_date, return_date
		FROM transactions
		WHERE user_id = $1
		ORDER BY loan_date DESC
	`, userID.String())
	if err != nil {
		return nil, oops.Code("TXN_LIST_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var txns []*loan.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, oops.Code("TXN_SCAN_FAILED").Wrap(err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TXN_LIST_FAILED").Wrap(err)
	}
	return txns, nil
}

func (r *TransactionRepository) getOne(row pgx.Row, id ulid.ULID) (*loan.Transaction, error) {
	txn, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TXN_NOT_FOUND").
			With("id", id.String()).
			Wrap(loan.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TXN_GET_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return txn, nil
}

// scanTransaction scans a single row into a Transaction.
// Callers are responsible for handling pgx.ErrNoRows.
func scanTransaction(row pgx.Row) (*loan.Transaction, error) {
	var (
		idStr      string
		userIDStr  string
		itemIDStr  string
		loanDate   time.Time
		dueDate    time.Time
		returnDate *time.Time
	)
	if err := row.Scan(&idStr, &userIDStr, &itemIDStr, &loanDate, &dueDate, &returnDate); err != nil {
		return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("TXN_INVALID_ID").With("id", idStr).Wrap(err)
	}
	userID, err := ulid.Parse(userIDStr)
	if err != nil {
		return nil, oops.Code("TXN_INVALID_USER_ID").With("user_id", userIDStr).Wrap(err)
	}
	itemID, err := ulid.Parse(itemIDStr)
	if err != nil {
		return nil, oops.Code("TXN_INVALID_ITEM_ID").With("item_id", itemIDStr).Wrap(err)
	}

	return &loan.Transaction{
		ID:         id,
		UserID:     userID,
		ItemID:     itemID,
		LoanDate:   loanDate,
		DueDate:    dueDate,
		ReturnDate: returnDate,
	}, nil
}

// Compile-time interface check.
var _ loan.TransactionRepository = (*TransactionRepository)(nil)
