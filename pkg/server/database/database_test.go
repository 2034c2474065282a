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

package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/libris/libris/pkg/assert"
	"github.com/libris/libris/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// openTestDB opens a private in-memory database with the full schema
func openTestDB(t *testing.T) *gorm.DB {
	dsn := SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}

	InitSchema(db)
	if err := Migrate(db); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	return db
}

func TestGetDBLogLevel(t *testing.T) {
	testCases := []struct {
		level    string
		expected logger.LogLevel
	}{
		{log.LevelDebug, logger.Info},
		{log.LevelInfo, logger.Silent},
		{log.LevelWarn, logger.Warn},
		{log.LevelError, logger.Error},
		{"unknown", logger.Silent},
		{"", logger.Silent},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("level %q", tc.level), func(t *testing.T) {
			assert.Equal(t, getDBLogLevel(tc.level), tc.expected, "log level mismatch")
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, SQLiteDSN("/var/lib/libris/server.db"), "/var/lib/libris/server.db?_foreign_keys=on&_busy_timeout=5000", "plain path")
	assert.Equal(t, SQLiteDSN("file:x?mode=memory"), "file:x?mode=memory&_foreign_keys=on&_busy_timeout=5000", "path with query")
}

func TestOpen_unknownDriver(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected a panic for an unknown driver")
		}
	}()

	Open("mysql", "root@/libris")
}

func TestClassifyError(t *testing.T) {
	plain := errors.New("connection reset")
	serialization := &pgconn.PgError{Code: "40001"}

	testCases := []struct {
		name     string
		err      error
		expected error
	}{
		{"nil", nil, nil},
		{"unrelated", plain, plain},
		{"postgres foreign key", &pgconn.PgError{Code: "23503"}, ErrReferenced},
		{"postgres unique", errors.Wrap(&pgconn.PgError{Code: "23505"}, "inserting"), ErrDuplicate},
		{"postgres check", &pgconn.PgError{Code: "23514"}, ErrCheckViolated},
		{"postgres other", serialization, serialization},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyError(tc.err)

			assert.Equal(t, errors.Cause(got), tc.expected, "classification mismatch")
		})
	}
}

func setupCatalog(t *testing.T, db *gorm.DB) (Author, Category, Book) {
	author := Author{FirstName: "Victor", LastName: "Hugo"}
	if err := db.Create(&author).Error; err != nil {
		t.Fatalf("creating author: %v", err)
	}
	category := Category{Name: "Novel"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("creating category: %v", err)
	}
	book := Book{
		Title:           "Les Misérables",
		ISBN:            "9782070409228",
		PublicationYear: 1862,
		AuthorID:        author.ID,
		CategoryID:      &category.ID,
		CopiesTotal:     2,
		CopiesAvailable: 2,
	}
	if err := db.Omit(clause.Associations).Create(&book).Error; err != nil {
		t.Fatalf("creating book: %v", err)
	}

	return author, category, book
}

func TestConstraints(t *testing.T) {
	t.Run("author with books cannot be deleted", func(t *testing.T) {
		db := openTestDB(t)
		author, _, _ := setupCatalog(t, db)

		err := ClassifyError(db.Delete(&Author{}, author.ID).Error)
		assert.Equal(t, errors.Cause(err), ErrReferenced, "error mismatch")

		var count int64
		db.Model(&Author{}).Count(&count)
		assert.Equal(t, count, int64(1), "author should remain")
	})

	t.Run("deleting a category keeps its books", func(t *testing.T) {
		db := openTestDB(t)
		_, category, book := setupCatalog(t, db)

		if err := db.Delete(&Category{}, category.ID).Error; err != nil {
			t.Fatalf("deleting category: %v", err)
		}

		var got Book
		if err := db.First(&got, book.ID).Error; err != nil {
			t.Fatalf("finding book: %v", err)
		}
		assert.Equal(t, got.CategoryID == nil, true, "category should be cleared")
	})

	t.Run("book with loans cannot be deleted", func(t *testing.T) {
		db := openTestDB(t)
		_, _, book := setupCatalog(t, db)

		loan := Loan{
			Reference:          "01HZY8J6W4XK9T3B7Q2M5N1R0C",
			BookID:             book.ID,
			BorrowerName:       "Jean Valjean",
			BorrowerEmail:      "jean@valjean.fr",
			BorrowerCardNumber: "24601000",
			Status:             LoanStatusActive,
		}
		if err := db.Omit(clause.Associations).Create(&loan).Error; err != nil {
			t.Fatalf("creating loan: %v", err)
		}

		err := ClassifyError(db.Delete(&Book{}, book.ID).Error)
		assert.Equal(t, errors.Cause(err), ErrReferenced, "error mismatch")
	})

	t.Run("isbn is unique", func(t *testing.T) {
		db := openTestDB(t)
		_, _, book := setupCatalog(t, db)

		dup := Book{Title: "Copy", ISBN: book.ISBN, PublicationYear: 1900, AuthorID: book.AuthorID}
		err := ClassifyError(db.Omit(clause.Associations).Create(&dup).Error)
		assert.Equal(t, errors.Cause(err), ErrDuplicate, "error mismatch")
	})

	t.Run("author name pair is unique", func(t *testing.T) {
		db := openTestDB(t)
		setupCatalog(t, db)

		err := ClassifyError(db.Create(&Author{FirstName: "Victor", LastName: "Hugo"}).Error)
		assert.Equal(t, errors.Cause(err), ErrDuplicate, "error mismatch")
	})

	t.Run("available copies cannot exceed total", func(t *testing.T) {
		db := openTestDB(t)
		_, _, book := setupCatalog(t, db)

		err := ClassifyError(db.Model(&Book{}).Where("id = ?", book.ID).Update("copies_available", 3).Error)
		assert.Equal(t, errors.Cause(err), ErrCheckViolated, "error mismatch")

		err = ClassifyError(db.Model(&Book{}).Where("id = ?", book.ID).Update("copies_available", -1).Error)
		assert.Equal(t, errors.Cause(err), ErrCheckViolated, "error mismatch")
	})
}
