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

package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/libris/libris/pkg/assert"
	"github.com/libris/libris/pkg/server/buildinfo"
	"github.com/libris/libris/pkg/server/database"
	"github.com/libris/libris/pkg/server/testutils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// openDB opens the database file with the schema in place. The connection is
// closed at the end of the test.
func openDB(t *testing.T, path string) *gorm.DB {
	t.Helper()

	db := database.Open(database.DriverSQLite, path)
	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		t.Fatal(errors.Wrap(err, "migrating"))
	}
	t.Cleanup(func() {
		database.Close(db)
	})

	return db
}

// run executes the command line against the database file and returns what
// it printed
func run(t *testing.T, dbPath, stdin string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--dbPath", dbPath, "--logLevel", "error"))

	err := root.Execute()

	return out.String(), err
}

func contains(t *testing.T, s, substr string) {
	t.Helper()

	if !strings.Contains(s, substr) {
		t.Errorf("output does not contain %q:\n%s", substr, s)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, filepath.Join(t.TempDir(), "test.db"), "", "version")
	if err != nil {
		t.Fatal(errors.Wrap(err, "running"))
	}

	assert.Equal(t, out, fmt.Sprintf("libris-server %s\n", buildinfo.Version), "output mismatch")
}

func TestRequiredFlags(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	for _, args := range [][]string{
		{"book", "remove"},
		{"author", "remove"},
		{"category", "remove"},
		{"loans", "return"},
		{"import"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := run(t, dbPath, "", args...)
			assert.NotEqual(t, err, nil, "should fail")
			if err != nil {
				contains(t, err.Error(), "required flag")
			}
		})
	}
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	file := filepath.Join(dir, "catalog.yml")

	doc := `
categories:
  - name: Novel
authors:
  - first_name: George
    last_name: Sand
books:
  - title: Indiana
    isbn: "9782070384259"
    publication_year: 1832
    author: {first_name: George, last_name: Sand}
    category: Novel
    copies: 2
  - title: La Mare au Diable
    isbn: "9782070367368"
    publication_year: 1846
    author: {first_name: George, last_name: Sand}
`
	if err := os.WriteFile(file, []byte(doc), 0644); err != nil {
		t.Fatal(errors.Wrap(err, "writing catalog"))
	}

	out, err := run(t, dbPath, "", "import", "--file", file)
	if err != nil {
		t.Fatal(errors.Wrap(err, "importing"))
	}
	contains(t, out, "books created: 2")

	// a second run skips the books already there
	out, err = run(t, dbPath, "", "import", "--file", file)
	if err != nil {
		t.Fatal(errors.Wrap(err, "importing again"))
	}
	contains(t, out, "books created: 0")
	contains(t, out, "2 book(s) already in the catalog were skipped")

	db := openDB(t, dbPath)
	var indiana database.Book
	testutils.MustExec(t, db.Where("isbn = ?", "9782070384259").First(&indiana), "finding book")
	assert.Equal(t, indiana.CopiesTotal, 2, "copies total mismatch")
	assert.Equal(t, indiana.CopiesAvailable, 2, "copies available mismatch")

	var count int64
	testutils.MustExec(t, db.Model(&database.Book{}).Count(&count), "counting books")
	assert.Equal(t, count, int64(2), "book count mismatch")
}

func TestImport_missingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, filepath.Join(dir, "test.db"), "", "import", "--file", filepath.Join(dir, "nope.yml"))
	assert.NotEqual(t, err, nil, "should fail")
}

type loanFixture struct {
	book    database.Book
	overdue database.Loan
	current database.Loan
}

// setupLoans creates a book with one overdue and one current loan, dated
// against the real clock the commands run with
func setupLoans(t *testing.T, dbPath string) loanFixture {
	db := openDB(t, dbPath)
	now := time.Now().UTC()

	author := testutils.SetupAuthor(t, db, "Victor", "Hugo")
	book := testutils.SetupBook(t, db, database.Book{
		Title: "Les Misérables", AuthorID: author.ID, CopiesTotal: 3, CopiesAvailable: 1,
	})
	overdue := testutils.SetupLoan(t, db, database.Loan{
		BookID: book.ID, BorrowerName: "Fantine", BorrowerEmail: "fantine@example.fr",
		BorrowedAt: now.AddDate(0, 0, -19), DueAt: now.AddDate(0, 0, -5),
	})
	current := testutils.SetupLoan(t, db, database.Loan{
		BookID: book.ID, BorrowerName: "Cosette", BorrowerEmail: "cosette@example.fr",
		BorrowerCardNumber: "24601001",
		BorrowedAt:         now.AddDate(0, 0, -2), DueAt: now.AddDate(0, 0, 12),
	})
	database.Close(db)

	return loanFixture{book: book, overdue: overdue, current: current}
}

func TestLoansOverdue(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	f := setupLoans(t, dbPath)

	out, err := run(t, dbPath, "", "loans", "overdue")
	if err != nil {
		t.Fatal(errors.Wrap(err, "listing"))
	}
	contains(t, out, "1 overdue loan(s)")
	contains(t, out, fmt.Sprintf("(%d) Les Misérables - Fantine <fantine@example.fr>", f.overdue.ID))
	contains(t, out, "5 day(s) late")
	assert.Equal(t, strings.Contains(out, "Cosette"), false, "current loan should not be listed")
	assert.Equal(t, strings.Contains(out, "reminder"), false, "nothing should be sent without --notify")

	out, err = run(t, dbPath, "", "loans", "overdue", "--notify")
	if err != nil {
		t.Fatal(errors.Wrap(err, "notifying"))
	}
	contains(t, out, "Sent 1 reminder(s)")
}

func TestLoansOverdue_none(t *testing.T) {
	out, err := run(t, filepath.Join(t.TempDir(), "test.db"), "", "loans", "overdue")
	if err != nil {
		t.Fatal(errors.Wrap(err, "listing"))
	}

	contains(t, out, "No overdue loans")
}

func TestLoansMarkLate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	f := setupLoans(t, dbPath)

	out, err := run(t, dbPath, "", "loans", "mark-late")
	if err != nil {
		t.Fatal(errors.Wrap(err, "marking"))
	}
	contains(t, out, "Marked 1 loan(s) as late")

	db := openDB(t, dbPath)
	var overdue, current database.Loan
	testutils.MustExec(t, db.First(&overdue, f.overdue.ID), "finding overdue loan")
	testutils.MustExec(t, db.First(&current, f.current.ID), "finding current loan")
	assert.Equal(t, overdue.Status, database.LoanStatusLate, "overdue loan status mismatch")
	assert.Equal(t, current.Status, database.LoanStatusActive, "current loan status mismatch")
}

func TestLoansReturn(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	f := setupLoans(t, dbPath)

	out, err := run(t, dbPath, "", "loans", "return", "--id", fmt.Sprintf("%d,%d", f.overdue.ID, f.current.ID))
	if err != nil {
		t.Fatal(errors.Wrap(err, "returning"))
	}
	contains(t, out, fmt.Sprintf("Returned loan %d (Les Misérables)", f.overdue.ID))
	contains(t, out, fmt.Sprintf("Returned loan %d (Les Misérables)", f.current.ID))

	db := openDB(t, dbPath)
	var book database.Book
	testutils.MustExec(t, db.First(&book, f.book.ID), "finding book")
	assert.Equal(t, book.CopiesAvailable, 3, "copies should be back on the shelf")

	var loan database.Loan
	testutils.MustExec(t, db.First(&loan, f.overdue.ID), "finding loan")
	assert.Equal(t, loan.Status, database.LoanStatusReturned, "status mismatch")
	assert.NotEqual(t, loan.ReturnedAt, (*time.Time)(nil), "return date should be set")
}

func TestLoansReturn_partialFailure(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	f := setupLoans(t, dbPath)

	if _, err := run(t, dbPath, "", "loans", "return", "--id", fmt.Sprint(f.current.ID)); err != nil {
		t.Fatal(errors.Wrap(err, "returning"))
	}

	out, err := run(t, dbPath, "", "loans", "return",
		"--id", fmt.Sprint(f.current.ID), "--id", "999", "--id", fmt.Sprint(f.overdue.ID))
	assert.NotEqual(t, err, nil, "should fail")
	if err != nil {
		assert.Equal(t, err.Error(), "2 of 3 loan(s) could not be returned", "error mismatch")
	}
	contains(t, out, fmt.Sprintf("Returned loan %d", f.overdue.ID))
	contains(t, out, fmt.Sprintf("Loan %d: already returned", f.current.ID))
	contains(t, out, "Loan 999: not found")

	db := openDB(t, dbPath)
	var book database.Book
	testutils.MustExec(t, db.First(&book, f.book.ID), "finding book")
	assert.Equal(t, book.CopiesAvailable, 3, "each loan should put back exactly one copy")
}

type removeFixture struct {
	hugo      database.Author
	sand      database.Author
	novels    database.Category
	miserable database.Book
	indiana   database.Book
}

func setupRemove(t *testing.T, dbPath string) removeFixture {
	db := openDB(t, dbPath)

	hugo := testutils.SetupAuthor(t, db, "Victor", "Hugo")
	sand := testutils.SetupAuthor(t, db, "George", "Sand")
	novels := testutils.SetupCategory(t, db, "Novels")
	miserables := testutils.SetupBook(t, db, database.Book{
		Title: "Les Misérables", AuthorID: hugo.ID, CategoryID: &novels.ID, CopiesTotal: 1, CopiesAvailable: 0,
	})
	indiana := testutils.SetupBook(t, db, database.Book{
		Title: "Indiana", AuthorID: hugo.ID, CategoryID: &novels.ID, CopiesTotal: 1, CopiesAvailable: 1,
	})
	testutils.SetupLoan(t, db, database.Loan{BookID: miserables.ID})
	database.Close(db)

	return removeFixture{hugo: hugo, sand: sand, novels: novels, miserable: miserables, indiana: indiana}
}

func countRows(t *testing.T, dbPath string, model interface{}, id uint) int64 {
	db := openDB(t, dbPath)

	var n int64
	testutils.MustExec(t, db.Model(model).Where("id = ?", id).Count(&n), "counting")
	database.Close(db)

	return n
}

func TestAuthorRemove(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		f := setupRemove(t, dbPath)

		out, err := run(t, dbPath, "y\n", "author", "remove", "--id", fmt.Sprint(f.sand.ID))
		if err != nil {
			t.Fatal(errors.Wrap(err, "removing"))
		}

		contains(t, out, "Remove author George Sand (0 book(s))? (y/N)")
		contains(t, out, "Removed author George Sand")
		assert.Equal(t, countRows(t, dbPath, &database.Author{}, f.sand.ID), int64(0), "author should be removed")
	})

	t.Run("declined", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		f := setupRemove(t, dbPath)

		out, err := run(t, dbPath, "n\n", "author", "remove", "--id", fmt.Sprint(f.sand.ID))
		if err != nil {
			t.Fatal(errors.Wrap(err, "removing"))
		}

		contains(t, out, "Aborted by user")
		assert.Equal(t, countRows(t, dbPath, &database.Author{}, f.sand.ID), int64(1), "author should be kept")
	})

	t.Run("yes flag", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		f := setupRemove(t, dbPath)

		out, err := run(t, dbPath, "", "author", "remove", "--id", fmt.Sprint(f.sand.ID), "--yes")
		if err != nil {
			t.Fatal(errors.Wrap(err, "removing"))
		}

		assert.Equal(t, strings.Contains(out, "(y/N)"), false, "should not ask")
		assert.Equal(t, countRows(t, dbPath, &database.Author{}, f.sand.ID), int64(0), "author should be removed")
	})

	t.Run("with books", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		f := setupRemove(t, dbPath)

		_, err := run(t, dbPath, "", "author", "remove", "--id", fmt.Sprint(f.hugo.ID), "-y")
		assert.NotEqual(t, err, nil, "should fail")
		if err != nil {
			contains(t, err.Error(), "still referenced")
		}
		assert.Equal(t, countRows(t, dbPath, &database.Author{}, f.hugo.ID), int64(1), "author should be kept")
	})

	t.Run("not found", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		setupRemove(t, dbPath)

		_, err := run(t, dbPath, "", "author", "remove", "--id", "999", "-y")
		assert.NotEqual(t, err, nil, "should fail")
		if err != nil {
			assert.Equal(t, err.Error(), "author 999 not found", "error mismatch")
		}
	})
}

func TestCategoryRemove(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	f := setupRemove(t, dbPath)

	out, err := run(t, dbPath, "yes\n", "category", "remove", "--id", fmt.Sprint(f.novels.ID))
	if err != nil {
		t.Fatal(errors.Wrap(err, "removing"))
	}
	contains(t, out, "Remove category Novels (2 book(s))?")

	db := openDB(t, dbPath)
	var count int64
	testutils.MustExec(t, db.Model(&database.Category{}).Count(&count), "counting categories")
	assert.Equal(t, count, int64(0), "category should be removed")

	var indiana database.Book
	testutils.MustExec(t, db.First(&indiana, f.indiana.ID), "finding book")
	assert.Equal(t, indiana.CategoryID, (*uint)(nil), "book should be kept without a category")
}

func TestBookRemove(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	f := setupRemove(t, dbPath)

	_, err := run(t, dbPath, "y\n", "book", "remove", "--id", fmt.Sprint(f.miserable.ID))
	assert.NotEqual(t, err, nil, "a book with loans should not be removed")
	assert.Equal(t, countRows(t, dbPath, &database.Book{}, f.miserable.ID), int64(1), "book should be kept")

	out, err := run(t, dbPath, "y\n", "book", "remove", "--id", fmt.Sprint(f.indiana.ID))
	if err != nil {
		t.Fatal(errors.Wrap(err, "removing"))
	}
	contains(t, out, `Removed book "Indiana" (0 open loan(s))`)
	assert.Equal(t, countRows(t, dbPath, &database.Book{}, f.indiana.ID), int64(0), "book should be removed")
}

func TestRemove_noAnswer(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	f := setupRemove(t, dbPath)

	_, err := run(t, dbPath, "", "author", "remove", "--id", fmt.Sprint(f.sand.ID))
	assert.NotEqual(t, err, nil, "closed stdin should fail the confirmation")
	assert.Equal(t, countRows(t, dbPath, &database.Author{}, f.sand.ID), int64(1), "author should be kept")
}
