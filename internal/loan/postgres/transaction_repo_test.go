// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfd/shelfd/internal/loan"
	"github.com/shelfd/shelfd/internal/loan/postgres"
	"github.com/shelfd/shelfd/pkg/errutil"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)
	return mock
}

func testTransaction() *loan.Transaction {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return loan.NewTransaction(ulid.Make(), ulid.Make(), now)
}

func txnColumns() []string {
	return []string{"id", "user_id", "literature_item_id", "loan_date", "due_date", "return_date"}
}

func txnRows(txn *loan.Transaction) *pgxmock.Rows {
	return pgxmock.NewRows(txnColumns()).
		AddRow(txn.ID.String(), txn.UserID.String(), txn.ItemID.String(), txn.LoanDate, txn.DueDate, txn.ReturnDate)
}

func TestTransactionRepository_Insert(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	txn := testTransaction()

	mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(txn.ID.String(), txn.UserID.String(), txn.ItemID.String(), txn.LoanDate, txn.DueDate, txn.ReturnDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := postgres.NewTransactionRepository(mock)
	err := repo.Insert(ctx, txn)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}

func TestTransactionRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("retrieves transaction", func(t *testing.T) {
		mock := newMockPool(t)
		txn := testTransaction()

		mock.ExpectQuery(`FROM transactions\s+WHERE id = \$1`).
			WithArgs(txn.ID.String()).
			WillReturnRows(txnRows(txn))

		repo := postgres.NewTransactionRepository(mock)
		got, err := repo.GetByID(ctx, txn.ID)
		require.NoError(t, err)
		assert.Equal(t, txn.ID, got.ID)
		assert.Equal(t, txn.UserID, got.UserID)
		assert.Nil(t, got.ReturnDate)
	})

	t.Run("missing transaction maps to ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		id := ulid.Make()

		mock.ExpectQuery(`FROM transactions\s+WHERE id = \$1`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(txnColumns()))

		repo := postgres.NewTransactionRepository(mock)
		_, err := repo.GetByID(ctx, id)
		require.Error(t, err)
		assert.ErrorIs(t, err, loan.ErrNotFound)
		errutil.AssertErrorCode(t, err, "TXN_NOT_FOUND")
	})
}

func TestTransactionRepository_GetForUpdate(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	txn := testTransaction()

	mock.ExpectQuery(`FROM transactions\s+WHERE id = \$1\s+FOR UPDATE`).
		WithArgs(txn.ID.String()).
		WillReturnRows(txnRows(txn))

	repo := postgres.NewTransactionRepository(mock)
	got, err := repo.GetForUpdate(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, txn.ID, got.ID)
}

func TestTransactionRepository_Close(t *testing.T) {
	ctx := context.Background()

	t.Run("closes open transaction", func(t *testing.T) {
		mock := newMockPool(t)
		id := ulid.Make()
		returnedAt := time.Now().UTC().Truncate(time.Microsecond)

		mock.ExpectExec(`UPDATE transactions\s+SET return_date = \$2\s+WHERE id = \$1 AND return_date IS NULL`).
			WithArgs(id.String(), returnedAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := postgres.NewTransactionRepository(mock)
		err := repo.Close(ctx, id, returnedAt)
		require.NoError(t, err)
	})

	t.Run("already closed maps to ErrAlreadyReturned", func(t *testing.T) {
		mock := newMockPool(t)
		id := ulid.Make()
		returnedAt := time.Now().UTC().Truncate(time.Microsecond)

		// Zero rows affected: the guard on return_date refused the update.
		mock.ExpectExec(`UPDATE transactions\s+SET return_date = \$2\s+WHERE id = \$1 AND return_date IS NULL`).
			WithArgs(id.String(), returnedAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := postgres.NewTransactionRepository(mock)
		err := repo.Close(ctx, id, returnedAt)
		require.Error(t, err)
		assert.ErrorIs(t, err, loan.ErrAlreadyReturned)
		errutil.AssertErrorCode(t, err, "TXN_ALREADY_CLOSED")
	})
}

func TestTransactionRepository_CountOpenByUser(t *testing.T) {
	ctx := context.Background()
	mock := newMockPool(t)
	userID := ulid.Make()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM transactions\s+WHERE user_id = \$1 AND return_date IS NULL`).
		WithArgs(userID.String()).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	repo := postgres.NewTransactionRepository(mock)
	count, err := repo.CountOpenByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestTransactionRepository_ListByUser(t *testing.T) {
	ctx := context.Background()

	t.Run("lists most recent first", func(t *testing.T) {
		mock := newMockPool(t)
		userID := ulid.Make()
		now := time.Now().UTC().Truncate(time.Microsecond)
		returnedAt := now.Add(-24 * time.Hour)

		rows := pgxmock.NewRows(txnColumns()).
			AddRow(ulid.Make().String(), userID.String(), ulid.Make().String(), now, now.Add(14*24*time.Hour), (*time.Time)(nil)).
			AddRow(ulid.Make().String(), userID.String(), ulid.Make().String(), now.Add(-48*time.Hour), now.Add(12*24*time.Hour), &returnedAt)
		mock.ExpectQuery(`FROM transactions\s+WHERE user_id = \$1\s+ORDER BY loan_date DESC`).
			WithArgs(userID.String()).
			WillReturnRows(rows)

		repo := postgres.NewTransactionRepository(mock)
		got, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.True(t, got[0].Open())
		assert.False(t, got[1].Open())
	})

	t.Run("no transactions yields empty slice", func(t *testing.T) {
		mock := newMockPool(t)
		userID := ulid.Make()

		mock.ExpectQuery(`FROM transactions\s+WHERE user_id = \$1\s+ORDER BY loan_date DESC`).
			WithArgs(userID.String()).
			WillReturnRows(pgxmock.NewRows(txnColumns()))

		repo := postgres.NewTransactionRepository(mock)
		got, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
