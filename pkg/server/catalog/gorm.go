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

package catalog

import (
	"context"
	"time"

	"github.com/libris/libris/pkg/server/database"
	"github.com/libris/libris/pkg/server/search"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db   *gorm.DB
	inTx bool
}

// New returns a Store backed by the given database
func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Transaction runs fn inside a transaction. The transaction is rolled back
// if fn returns an error or panics. Nested calls join the outer transaction.
func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx := s.conn(ctx).Begin()
	if err := tx.Error; err != nil {
		return errors.Wrap(err, "beginning a transaction")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&gormStore{db: tx, inTx: true}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "committing a transaction")
	}

	return nil
}

// first loads a single record and translates a miss into ErrNotFound
func first(db *gorm.DB, dest interface{}, what string, conds ...interface{}) error {
	err := db.First(dest, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, what)
	}
	if err != nil {
		return errors.Wrapf(err, "finding %s", what)
	}

	return nil
}

func count(db *gorm.DB, model interface{}, q search.Query) (int64, error) {
	var n int64
	if err := db.Model(model).Scopes(q.Scopes()...).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "counting")
	}

	return n, nil
}

func create(db *gorm.DB, value interface{}) error {
	if err := db.Omit(clause.Associations).Create(value).Error; err != nil {
		return database.ClassifyError(err)
	}

	return nil
}

func deleteByID(db *gorm.DB, model interface{}, id uint, what string) error {
	res := db.Delete(model, id)
	if err := res.Error; err != nil {
		return errors.Wrapf(database.ClassifyError(err), "deleting %s %d", what, id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "%s %d", what, id)
	}

	return nil
}

func (s *gormStore) FindAuthor(ctx context.Context, id uint) (database.Author, error) {
	var a database.Author
	err := first(s.conn(ctx), &a, "author", id)

	return a, err
}

func (s *gormStore) FindAuthorByName(ctx context.Context, firstName, lastName string) (database.Author, error) {
	var a database.Author
	err := first(s.conn(ctx).Where("first_name = ? AND last_name = ?", firstName, lastName), &a, "author")

	return a, err
}

func (s *gormStore) CountAuthors(ctx context.Context, q search.Query) (int64, error) {
	return count(s.conn(ctx), &database.Author{}, q)
}

func (s *gormStore) ListAuthors(ctx context.Context, q search.Query, page search.Page) ([]database.Author, error) {
	var ret []database.Author
	err := s.conn(ctx).Model(&database.Author{}).
		Scopes(q.Scopes()...).
		Scopes(page.Scope).
		Find(&ret).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing authors")
	}

	return ret, nil
}

func (s *gormStore) CreateAuthor(ctx context.Context, a *database.Author) error {
	return errors.Wrap(create(s.conn(ctx), a), "creating author")
}

func (s *gormStore) DeleteAuthor(ctx context.Context, id uint) error {
	return deleteByID(s.conn(ctx), &database.Author{}, id, "author")
}

func (s *gormStore) FindCategory(ctx context.Context, id uint) (database.Category, error) {
	var c database.Category
	err := first(s.conn(ctx), &c, "category", id)

	return c, err
}

func (s *gormStore) FindCategoryByName(ctx context.Context, name string) (database.Category, error) {
	var c database.Category
	err := first(s.conn(ctx).Where("name = ?", name), &c, "category")

	return c, err
}

func (s *gormStore) CountCategories(ctx context.Context, q search.Query) (int64, error) {
	return count(s.conn(ctx), &database.Category{}, q)
}

func (s *gormStore) ListCategories(ctx context.Context, q search.Query, page search.Page) ([]database.Category, error) {
	var ret []database.Category
	err := s.conn(ctx).Model(&database.Category{}).
		Scopes(q.Scopes()...).
		Scopes(page.Scope).
		Find(&ret).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing categories")
	}

	return ret, nil
}

func (s *gormStore) CreateCategory(ctx context.Context, c *database.Category) error {
	return errors.Wrap(create(s.conn(ctx), c), "creating category")
}

func (s *gormStore) DeleteCategory(ctx context.Context, id uint) error {
	return deleteByID(s.conn(ctx), &database.Category{}, id, "category")
}

func (s *gormStore) FindBook(ctx context.Context, id uint) (database.Book, error) {
	var b database.Book
	err := first(s.conn(ctx).Preload("Author").Preload("Category"), &b, "book", id)

	return b, err
}

func (s *gormStore) FindBookByISBN(ctx context.Context, isbn string) (database.Book, error) {
	var b database.Book
	err := first(s.conn(ctx).Where("isbn = ?", isbn), &b, "book")

	return b, err
}

func (s *gormStore) CountBooks(ctx context.Context, q search.Query) (int64, error) {
	return count(s.conn(ctx), &database.Book{}, q)
}

func (s *gormStore) ListBooks(ctx context.Context, q search.Query, page search.Page) ([]database.Book, error) {
	var ret []database.Book
	err := s.conn(ctx).Model(&database.Book{}).
		Select("books.*").
		Scopes(q.Scopes()...).
		Scopes(page.Scope).
		Preload("Author").
		Preload("Category").
		Find(&ret).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing books")
	}

	return ret, nil
}

func (s *gormStore) CreateBook(ctx context.Context, b *database.Book) error {
	return errors.Wrap(create(s.conn(ctx), b), "creating book")
}

func (s *gormStore) DeleteBook(ctx context.Context, id uint) error {
	return deleteByID(s.conn(ctx), &database.Book{}, id, "book")
}

func (s *gormStore) TakeCopy(ctx context.Context, bookID uint) (bool, error) {
	res := s.conn(ctx).Model(&database.Book{}).
		Where("id = ? AND copies_available > 0", bookID).
		Update("copies_available", gorm.Expr("copies_available - 1"))
	if err := res.Error; err != nil {
		return false, errors.Wrapf(database.ClassifyError(err), "taking a copy of book %d", bookID)
	}

	return res.RowsAffected == 1, nil
}

func (s *gormStore) PutCopyBack(ctx context.Context, bookID uint) (bool, error) {
	res := s.conn(ctx).Model(&database.Book{}).
		Where("id = ? AND copies_available < copies_total", bookID).
		Update("copies_available", gorm.Expr("copies_available + 1"))
	if err := res.Error; err != nil {
		return false, errors.Wrapf(database.ClassifyError(err), "putting back a copy of book %d", bookID)
	}

	return res.RowsAffected == 1, nil
}

func (s *gormStore) FindLoan(ctx context.Context, id uint) (database.Loan, error) {
	var l database.Loan
	err := first(s.conn(ctx).Preload("Book").Preload("Book.Author"), &l, "loan", id)

	return l, err
}

func (s *gormStore) CountLoans(ctx context.Context, q search.Query) (int64, error) {
	return count(s.conn(ctx), &database.Loan{}, q)
}

func (s *gormStore) ListLoans(ctx context.Context, q search.Query, page search.Page) ([]database.Loan, error) {
	var ret []database.Loan
	err := s.conn(ctx).Model(&database.Loan{}).
		Scopes(q.Scopes()...).
		Scopes(page.Scope).
		Preload("Book").
		Preload("Book.Author").
		Find(&ret).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing loans")
	}

	return ret, nil
}

var openLoanStatuses = []string{database.LoanStatusPending, database.LoanStatusActive}

func (s *gormStore) CountOpenLoansByCard(ctx context.Context, cardNumber string) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&database.Loan{}).
		Where("borrower_card_number = ? AND status IN ?", cardNumber, openLoanStatuses).
		Count(&n).Error
	if err != nil {
		return 0, errors.Wrap(err, "counting open loans")
	}

	return n, nil
}

// LockOpenLoansByCard selects the rows FOR UPDATE, which PostgreSQL does not
// allow on an aggregate. SQLite has no row locks and serializes writers instead.
func (s *gormStore) LockOpenLoansByCard(ctx context.Context, cardNumber string) (int64, error) {
	var ids []uint
	err := s.conn(ctx).Model(&database.Loan{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("borrower_card_number = ? AND status IN ?", cardNumber, openLoanStatuses).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, errors.Wrap(err, "locking open loans")
	}

	return int64(len(ids)), nil
}

func (s *gormStore) CreateLoan(ctx context.Context, l *database.Loan) error {
	return errors.Wrap(create(s.conn(ctx), l), "creating loan")
}

func (s *gormStore) CloseLoan(ctx context.Context, id uint, returnedAt time.Time, comments string) (bool, error) {
	res := s.conn(ctx).Model(&database.Loan{}).
		Where("id = ? AND status <> ?", id, database.LoanStatusReturned).
		Updates(map[string]interface{}{
			"status":      database.LoanStatusReturned,
			"returned_at": returnedAt.UTC(),
			"comments":    comments,
		})
	if err := res.Error; err != nil {
		return false, errors.Wrapf(err, "closing loan %d", id)
	}

	return res.RowsAffected == 1, nil
}

func (s *gormStore) MarkLate(ctx context.Context, now time.Time) (int64, error) {
	res := s.conn(ctx).Model(&database.Loan{}).
		Where("status = ? AND due_at < ?", database.LoanStatusActive, now.UTC()).
		Update("status", database.LoanStatusLate)
	if err := res.Error; err != nil {
		return 0, errors.Wrap(err, "marking late loans")
	}

	return res.RowsAffected, nil
}
