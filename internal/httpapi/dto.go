// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shelfd Contributors

package httpapi

import (
	"time"

	"github.com/shelfd/shelfd/internal/catalog"
	"github.com/shelfd/shelfd/internal/identity"
	"github.com/shelfd/shelfd/internal/loan"
)

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *identity.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type authorResponse struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Bio  *string `json:"bio,omitempty"`
}

func toAuthorResponse(a *catalog.Author) authorResponse {
	return authorResponse{ID: a.ID.String(), Name: a.Name, Bio: a.Bio}
}

type itemResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	Genre           *string    `json:"genre,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	AuthorID        string     `json:"author_id"`
	AvailableCopies int        `json:"available_copies"`
}

func toItemResponse(i *catalog.LiteratureItem) itemResponse {
	return itemResponse{
		ID:              i.ID.String(),
		Title:           i.Title,
		Description:     i.Description,
		Genre:           i.Genre,
		PublicationDate: i.PublicationDate,
		AuthorID:        i.AuthorID.String(),
		AvailableCopies: i.AvailableCopies,
	}
}

type transactionResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	ItemID     string     `json:"item_id"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

func toTransactionResponse(t *loan.Transaction) transactionResponse {
	return transactionResponse{
		ID:         t.ID.String(),
		UserID:     t.UserID.String(),
		ItemID:     t.ItemID.String(),
		LoanDate:   t.LoanDate,
		DueDate:    t.DueDate,
		ReturnDate: t.ReturnDate,
	}
}
