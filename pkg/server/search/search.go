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

// Package search composes catalog queries from optional criteria. Every
// present criterion adds one filter and absent criteria add nothing, so the
// resulting query is the conjunction of what the user asked for.
package search

import (
	"strings"
	"time"

	"github.com/libris/libris/pkg/server/database"
	"gorm.io/gorm"
)

// Scope narrows or orders a query
type Scope = func(*gorm.DB) *gorm.DB

// Query is a set of criteria that can be applied to a gorm statement
type Query interface {
	Scopes() []Scope
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern returns a LIKE pattern matching s anywhere. The case is
// folded by the database on both sides, so text and column agree on what
// LOWER does with accented letters.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// matchAny matches text as a substring of any of the given columns
func matchAny(text string, columns ...string) Scope {
	conds := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	pattern := containsPattern(text)
	for i, c := range columns {
		conds[i] = "LOWER(" + c + ") LIKE LOWER(?) ESCAPE '\\'"
		args[i] = pattern
	}

	sql := "(" + strings.Join(conds, " OR ") + ")"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(sql, args...)
	}
}

func joinAuthors(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN authors ON authors.id = books.author_id")
}

func orderBy(order string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(order)
	}
}

func where(query string, args ...interface{}) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

const (
	bookOrder     = "books.title ASC, books.id ASC"
	authorOrder   = "authors.last_name ASC, authors.first_name ASC, authors.id ASC"
	categoryOrder = "categories.name ASC, categories.id ASC"
	loanOrder     = "loans.borrowed_at DESC, loans.id DESC"
)

// BookListing is the simple book browse: free text over title, author name
// and ISBN, and an optional category.
type BookListing struct {
	Text       string
	CategoryID uint
}

// Scopes returns the filters for the listing
func (q BookListing) Scopes() []Scope {
	var ret []Scope

	if q.Text != "" {
		ret = append(ret, joinAuthors, matchAny(q.Text, "books.title", "authors.first_name", "authors.last_name", "books.isbn"))
	}
	if q.CategoryID != 0 {
		ret = append(ret, where("books.category_id = ?", q.CategoryID))
	}

	return append(ret, orderBy(bookOrder))
}

// BookCriteria is the advanced book search. Year bounds are inclusive and
// either may be absent.
type BookCriteria struct {
	Title         string
	Author        string
	CategoryID    uint
	ISBN          string
	AvailableOnly bool
	YearMin       *int
	YearMax       *int
}

// IsEmpty reports whether no criterion is present
func (q BookCriteria) IsEmpty() bool {
	return q == BookCriteria{}
}

// Scopes returns the filters for the search
func (q BookCriteria) Scopes() []Scope {
	var ret []Scope

	if q.Title != "" {
		ret = append(ret, matchAny(q.Title, "books.title"))
	}
	if q.Author != "" {
		ret = append(ret, joinAuthors, matchAny(q.Author, "authors.first_name", "authors.last_name"))
	}
	if q.CategoryID != 0 {
		ret = append(ret, where("books.category_id = ?", q.CategoryID))
	}
	if q.ISBN != "" {
		ret = append(ret, matchAny(q.ISBN, "books.isbn"))
	}
	if q.AvailableOnly {
		ret = append(ret, where("books.copies_available > 0"))
	}
	if q.YearMin != nil {
		ret = append(ret, where("books.publication_year >= ?", *q.YearMin))
	}
	if q.YearMax != nil {
		ret = append(ret, where("books.publication_year <= ?", *q.YearMax))
	}

	return append(ret, orderBy(bookOrder))
}

// BooksByAuthor lists the books written by an author
type BooksByAuthor struct {
	AuthorID uint
}

// Scopes returns the filters for the listing
func (q BooksByAuthor) Scopes() []Scope {
	return []Scope{
		where("books.author_id = ?", q.AuthorID),
		orderBy("books.publication_year DESC, books.title ASC, books.id ASC"),
	}
}

// RecentBooks lists books most recently added to the catalog first
type RecentBooks struct{}

// Scopes returns the ordering for the listing
func (RecentBooks) Scopes() []Scope {
	return []Scope{orderBy("books.created_at DESC, books.id DESC")}
}

// AuthorListing matches text against author first and last names
type AuthorListing struct {
	Text string
}

// Scopes returns the filters for the listing
func (q AuthorListing) Scopes() []Scope {
	var ret []Scope

	if q.Text != "" {
		ret = append(ret, matchAny(q.Text, "authors.first_name", "authors.last_name"))
	}

	return append(ret, orderBy(authorOrder))
}

// CategoryListing lists every category by name
type CategoryListing struct{}

// Scopes returns the ordering for the listing
func (CategoryListing) Scopes() []Scope {
	return []Scope{orderBy(categoryOrder)}
}

// LoanListing filters loans by exact status. An empty status means active.
type LoanListing struct {
	Status string
}

// EffectiveStatus returns the status the listing filters on
func (q LoanListing) EffectiveStatus() string {
	if q.Status == "" {
		return database.LoanStatusActive
	}

	return q.Status
}

// Scopes returns the filters for the listing
func (q LoanListing) Scopes() []Scope {
	return []Scope{
		where("loans.status = ?", q.EffectiveStatus()),
		orderBy(loanOrder),
	}
}

// OpenBookLoans lists the loans currently holding a copy of a book
type OpenBookLoans struct {
	BookID uint
}

// Scopes returns the filters for the listing
func (q OpenBookLoans) Scopes() []Scope {
	return []Scope{
		where("loans.book_id = ?", q.BookID),
		where("loans.status IN ?", []string{database.LoanStatusActive, database.LoanStatusLate}),
		orderBy("loans.due_at ASC, loans.id ASC"),
	}
}

// OverdueLoans lists open loans past their due date, most overdue first
type OverdueLoans struct {
	Now time.Time
}

// Scopes returns the filters for the listing
func (q OverdueLoans) Scopes() []Scope {
	return []Scope{
		where("loans.status IN ?", []string{database.LoanStatusActive, database.LoanStatusLate}),
		where("loans.due_at < ?", q.Now.UTC()),
		orderBy("loans.due_at ASC, loans.id ASC"),
	}
}
