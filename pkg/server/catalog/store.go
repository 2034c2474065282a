/* Copyright 2025 Libris Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package catalog provides typed access to the stored catalog and loans
package catalog

import (
	"context"
	"time"

	"github.com/libris/libris/pkg/server/database"
	"github.com/libris/libris/pkg/server/search"
	"github.com/pkg/errors"
)

// ErrNotFound is an error for a record that does not exist
var ErrNotFound = errors.New("not found")

// Store is the catalog repository. Writes that must happen together are run
// through Transaction, whose callback receives a Store bound to the transaction.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error

	FindAuthor(ctx context.Context, id uint) (database.Author, error)
	FindAuthorByName(ctx context.Context, firstName, lastName string) (database.Author, error)
	CountAuthors(ctx context.Context, q search.Query) (int64, error)
	ListAuthors(ctx context.Context, q search.Query, page search.Page) ([]database.Author, error)
	CreateAuthor(ctx context.Context, a *database.Author) error
	DeleteAuthor(ctx context.Context, id uint) error

	FindCategory(ctx context.Context, id uint) (database.Category, error)
	FindCategoryByName(ctx context.Context, name string) (database.Category, error)
	CountCategories(ctx context.Context, q search.Query) (int64, error)
	ListCategories(ctx context.Context, q search.Query, page search.Page) ([]database.Category, error)
	CreateCategory(ctx context.Context, c *database.Category) error
	DeleteCategory(ctx context.Context, id uint) error

	FindBook(ctx context.Context, id uint) (database.Book, error)
	FindBookByISBN(ctx context.Context, isbn string) (database.Book, error)
	CountBooks(ctx context.Context, q search.Query) (int64, error)
	ListBooks(ctx context.Context, q search.Query, page search.Page) ([]database.Book, error)
	CreateBook(ctx context.Context, b *database.Book) error
	DeleteBook(ctx context.Context, id uint) error
	// TakeCopy decrements the available copies of a book if one is left and
	// reports whether it did.
	TakeCopy(ctx context.Context, bookID uint) (bool, error)
	// PutCopyBack increments the available copies of a book unless all copies
	// are already in and reports whether it did.
	PutCopyBack(ctx context.Context, bookID uint) (bool, error)

	FindLoan(ctx context.Context, id uint) (database.Loan, error)
	CountLoans(ctx context.Context, q search.Query) (int64, error)
	ListLoans(ctx context.Context, q search.Query, page search.Page) ([]database.Loan, error)
	CountOpenLoansByCard(ctx context.Context, cardNumber string) (int64, error)
	// LockOpenLoansByCard counts the pending and active loans of a card and
	// locks them until the transaction ends.
	LockOpenLoansByCard(ctx context.Context, cardNumber string) (int64, error)
	CreateLoan(ctx context.Context, l *database.Loan) error
	// CloseLoan marks a loan returned unless it already is and reports whether it did.
	CloseLoan(ctx context.Context, id uint, returnedAt time.Time, comments string) (bool, error)
	// MarkLate promotes active loans due before now to late and returns how many changed.
	MarkLate(ctx context.Context, now time.Time) (int64, error)
}
