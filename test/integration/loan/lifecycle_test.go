// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

//go:build integration

package loan_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/shelfd/shelfd/internal/catalog"
	catalogpg "github.com/shelfd/shelfd/internal/catalog/postgres"
	"github.com/shelfd/shelfd/internal/identity"
	identitypg "github.com/shelfd/shelfd/internal/identity/postgres"
	"github.com/shelfd/shelfd/internal/loan"
	loanpg "github.com/shelfd/shelfd/internal/loan/postgres"
	"github.com/shelfd/shelfd/internal/store"
)

var _ = Describe("Loan lifecycle", func() {
	var (
		ctx    context.Context
		users  *identitypg.UserRepository
		items  *catalogpg.ItemRepository
		ledger *loanpg.TransactionRepository
		engine *loan.Engine
		admin  identity.Actor
	)

	seedUser := func(username string, role identity.Role) *identity.User {
		user, err := identity.NewUser(username, "$argon2id$not-a-real-hash", role)
		Expect(err).NotTo(HaveOccurred())
		Expect(users.Create(ctx, user)).To(Succeed())
		return user
	}

	seedItem := func(title string, copies int) *catalog.LiteratureItem {
		authors := catalogpg.NewAuthorRepository(testPool)
		author, err := catalog.NewAuthor("Octavia Butler", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(authors.Create(ctx, author)).To(Succeed())

		item, err := catalog.NewLiteratureItem(title, author.ID, copies)
		Expect(err).NotTo(HaveOccurred())
		Expect(items.Create(ctx, item)).To(Succeed())
		return item
	}

	availableCopies := func(id ulid.ULID) int {
		item, err := items.GetByID(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		return item.AvailableCopies
	}

	BeforeEach(func() {
		ctx = context.Background()
		resetTables(ctx)

		users = identitypg.NewUserRepository(testPool)
		items = catalogpg.NewItemRepository(testPool)
		ledger = loanpg.NewTransactionRepository(testPool)

		var err error
		engine, err = loan.NewEngine(loan.EngineConfig{
			Users:  users,
			Items:  items,
			Ledger: ledger,
			Tx:     store.NewTransactor(testPool),
		})
		Expect(err).NotTo(HaveOccurred())

		adminUser := seedUser("root", identity.RoleAdmin)
		admin = identity.Actor{ID: adminUser.ID, Role: identity.RoleAdmin}
	})

	Describe("Issue and return", func() {
		It("moves a copy from the shelf to the reader and back", func() {
			reader := seedUser("alice", identity.RoleUser)
			item := seedItem("Kindred", 3)

			txn, err := engine.Issue(ctx, admin, reader.ID, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(txn.DueDate).To(Equal(txn.LoanDate.Add(loan.LoanPeriod)))
			Expect(txn.Open()).To(BeTrue())
			Expect(availableCopies(item.ID)).To(Equal(2))

			returned, err := engine.Return(ctx, admin, txn.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(returned.Open()).To(BeFalse())
			Expect(availableCopies(item.ID)).To(Equal(3))
		})

		It("rejects a second return of the same transaction", func() {
			reader := seedUser("alice", identity.RoleUser)
			item := seedItem("Kindred", 1)

			txn, err := engine.Issue(ctx, admin, reader.ID, item.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = engine.Return(ctx, admin, txn.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = engine.Return(ctx, admin, txn.ID)
			Expect(err).To(MatchError(loan.ErrAlreadyReturned))
			Expect(availableCopies(item.ID)).To(Equal(1), "double return must not inflate availability")
		})

		It("lists a reader's history most recent first", func() {
			reader := seedUser("alice", identity.RoleUser)
			first := seedItem("Kindred", 1)
			second := seedItem("Parable of the Sower", 1)

			_, err := engine.Issue(ctx, admin, reader.ID, first.ID)
			Expect(err).NotTo(HaveOccurred())
			_, err = engine.Issue(ctx, admin, reader.ID, second.ID)
			Expect(err).NotTo(HaveOccurred())

			self := identity.Actor{ID: reader.ID, Role: identity.RoleUser}
			txns, err := engine.ListForUser(ctx, self, reader.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(txns).To(HaveLen(2))
		})
	})

	Describe("Concurrent issues of the last copy", func() {
		It("gives the copy to exactly one reader", func() {
			const contenders = 8

			item := seedItem("Kindred", 1)
			readers := make([]*identity.User, contenders)
			for i := range readers {
				readers[i] = seedUser(fmt.Sprintf("reader%02d", i), identity.RoleUser)
			}

			var wg sync.WaitGroup
			var issued atomic.Int32
			errs := make([]error, contenders)

			for i := range contenders {
				wg.Add(1)
				go func(idx int) {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := engine.Issue(ctx, admin, readers[idx].ID, item.ID)
					if err == nil {
						issued.Add(1)
					}
					errs[idx] = err
				}(i)
			}
			wg.Wait()

			Expect(issued.Load()).To(Equal(int32(1)), "exactly one issue must win the last copy")
			for _, err := range errs {
				if err != nil {
					Expect(err).To(MatchError(loan.ErrNotFound))
				}
			}
			Expect(availableCopies(item.ID)).To(Equal(0))
		})
	})

	Describe("Concurrent issues against the open-loan cap", func() {
		It("never lends a reader more than the cap", func() {
			const attempts = loan.MaxOpenLoans + 4

			reader := seedUser("alice", identity.RoleUser)
			itemIDs := make([]ulid.ULID, attempts)
			for i := range itemIDs {
				itemIDs[i] = seedItem(fmt.Sprintf("Volume %02d", i), 1).ID
			}

			var wg sync.WaitGroup
			var issued atomic.Int32

			for i := range attempts {
				wg.Add(1)
				go func(idx int) {
					defer GinkgoRecover()
					defer wg.Done()
					if _, err := engine.Issue(ctx, admin, reader.ID, itemIDs[idx]); err == nil {
						issued.Add(1)
					}
				}(i)
			}
			wg.Wait()

			Expect(issued.Load()).To(Equal(int32(loan.MaxOpenLoans)))

			open, err := ledger.CountOpenByUser(ctx, reader.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(open).To(Equal(loan.MaxOpenLoans))
		})
	})

	Describe("Policy checks", func() {
		It("rejects issuing to an admin", func() {
			other := seedUser("deputy", identity.RoleAdmin)
			item := seedItem("Kindred", 1)

			_, err := engine.Issue(ctx, admin, other.ID, item.ID)
			Expect(err).To(MatchError(loan.ErrInvalidOperation))
			Expect(availableCopies(item.ID)).To(Equal(1))
		})

		It("rejects issuing to an unknown user without touching the shelf", func() {
			item := seedItem("Kindred", 1)

			_, err := engine.Issue(ctx, admin, ulid.Make(), item.ID)
			Expect(err).To(MatchError(loan.ErrNotFound))
			Expect(availableCopies(item.ID)).To(Equal(1))
		})
	})
})
