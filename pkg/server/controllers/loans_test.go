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

package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/libris/libris/pkg/assert"
	"github.com/libris/libris/pkg/server/database"
	"github.com/libris/libris/pkg/server/mailer"
	"github.com/libris/libris/pkg/server/presenters"
	"github.com/libris/libris/pkg/server/testutils"
	"gorm.io/gorm"
)

func loanForm(bookID uint, card string) url.Values {
	return url.Values{
		"book":                 {fmt.Sprintf("%d", bookID)},
		"borrower_name":        {"Cosette Fauchelevent"},
		"borrower_email":       {"cosette@rue-plumet.fr"},
		"borrower_card_number": {card},
		"comments":             {"first visit"},
	}
}

func mustGetBook(t *testing.T, db *gorm.DB, id uint) database.Book {
	t.Helper()

	var book database.Book
	testutils.MustExec(t, db.First(&book, id), "finding book")

	return book
}

func mustGetLoan(t *testing.T, db *gorm.DB, id uint) database.Loan {
	t.Helper()

	var loan database.Loan
	testutils.MustExec(t, db.First(&loan, id), "finding loan")

	return loan
}

// follow requests the redirect target of res with the cookies it set
func follow(t *testing.T, endpoint string, res *http.Response) string {
	t.Helper()

	req := htmlReq(endpoint, "GET", res.Header.Get("Location"))
	for _, c := range res.Cookies() {
		req.AddCookie(c)
	}

	return testutils.ReadBody(t, testutils.HTTPDo(t, req))
}

func TestLoansNew(t *testing.T) {
	env := newTestEnv(t)
	s := setupShelf(t, env.db)

	res := testutils.HTTPDo(t, htmlReq(env.server.URL, "GET", fmt.Sprintf("/loans/new?book=%d", s.monteCristo.ID)))
	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	body := testutils.ReadBody(t, res)
	assert.Equal(t, strings.Contains(body, fmt.Sprintf(`<option value="%d" selected>`, s.monteCristo.ID)), true, "book should be preselected")
	assert.Equal(t, strings.Contains(body, "Les Misérables"), true, "available book should be offered")
	assert.Equal(t, strings.Contains(body, "Notre-Dame de Paris"), false, "unavailable book should not be offered")
}

func TestLoansCreate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)
		s := setupShelf(t, env.db)

		res := testutils.HTTPDo(t, testutils.MakeFormReq(env.server.URL, "POST", "/loans", loanForm(s.miserables.ID, "24601000")))

		assert.StatusCodeEquals(t, res, http.StatusFound, "")
		assert.Equal(t, res.Header.Get("Location"), "/loans", "location mismatch")
		assert.Equal(t, mustGetBook(t, env.db, s.miserables.ID).CopiesAvailable, 1, "copies should be decremented")

		var loan database.Loan
		testutils.MustExec(t, env.db.Where("book_id = ?", s.miserables.ID).First(&loan), "finding loan")
		assert.Equal(t, loan.Status, database.LoanStatusActive, "status mismatch")
		assert.Equal(t, loan.DueAt.Sub(loan.BorrowedAt), database.LoanDuration, "due date mismatch")
		assert.Equal(t, loan.Comments, "first visit", "comments mismatch")

		emails := env.emails.Sent()
		assert.Equal(t, len(emails), 1, "receipt should be sent")
		assert.Equal(t, emails[0].TemplateType, mailer.EmailTypeLoanReceipt, "email type mismatch")

		body := follow(t, env.server.URL, res)
		assert.Equal(t, strings.Contains(body, "Loan created for"), true, "success alert should be shown")
		assert.Equal(t, strings.Contains(body, "Cosette Fauchelevent"), true, "loan should be listed")
	})

	t.Run("invalid card", func(t *testing.T) {
		env := newTestEnv(t)
		s := setupShelf(t, env.db)

		res := testutils.HTTPDo(t, testutils.MakeFormReq(env.server.URL, "POST", "/loans", loanForm(s.miserables.ID, "2460")))

		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "")
		body := testutils.ReadBody(t, res)
		assert.Equal(t, strings.Contains(body, "The card number must contain exactly 8 digits."), true, "field error should be shown")
		assert.Equal(t, strings.Contains(body, `value="Cosette Fauchelevent"`), true, "input should be kept")
		assert.Equal(t, mustGetBook(t, env.db, s.miserables.ID).CopiesAvailable, 2, "copies should not change")
	})

	t.Run("unavailable", func(t *testing.T) {
		env := newTestEnv(t)
		s := setupShelf(t, env.db)

		res := testutils.HTTPDo(t, testutils.MakeFormReq(env.server.URL, "POST", "/loans", loanForm(s.notreDame.ID, "24601000")))

		assert.StatusCodeEquals(t, res, http.StatusConflict, "")
		assert.Equal(t, strings.Contains(testutils.ReadBody(t, res), "is no longer available."), true, "rule error should be shown")
		assert.Equal(t, mustGetBook(t, env.db, s.notreDame.ID).CopiesAvailable, 0, "copies should not change")
	})

	t.Run("limit reached", func(t *testing.T) {
		env := newTestEnv(t)
		s := setupShelf(t, env.db)
		for i := 0; i < database.MaxOpenLoans; i++ {
			testutils.SetupLoan(t, env.db, database.Loan{BookID: s.monteCristo.ID, BorrowerCardNumber: "11112222"})
		}

		res := testutils.HTTPDo(t, testutils.MakeFormReq(env.server.URL, "POST", "/loans", loanForm(s.miserables.ID, "11112222")))

		assert.StatusCodeEquals(t, res, http.StatusConflict, "")
		assert.Equal(t, strings.Contains(testutils.ReadBody(t, res), "The maximum has been reached."), true, "rule error should be shown")
	})
}

func TestLoansIndex(t *testing.T) {
	env := newTestEnv(t)
	s := setupShelf(t, env.db)
	testutils.SetupLoan(t, env.db, database.Loan{BookID: s.miserables.ID, BorrowerName: "Marius Pontmercy"})
	testutils.SetupLoan(t, env.db, database.Loan{BookID: s.monteCristo.ID, BorrowerName: "Edmond Dantes", Status: database.LoanStatusReturned})

	testCases := []struct {
		path     string
		expected string
		missing  string
	}{
		{path: "/loans", expected: "Marius Pontmercy", missing: "Edmond Dantes"},
		{path: "/loans?status=returned", expected: "Edmond Dantes", missing: "Marius Pontmercy"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			res := testutils.HTTPDo(t, htmlReq(env.server.URL, "GET", tc.path))
			assert.StatusCodeEquals(t, res, http.StatusOK, "")

			body := testutils.ReadBody(t, res)
			assert.Equal(t, strings.Contains(body, tc.expected), true, "body should contain "+tc.expected)
			assert.Equal(t, strings.Contains(body, tc.missing), false, "body should not contain "+tc.missing)
		})
	}
}

func TestLoansOverdue(t *testing.T) {
	env := newTestEnv(t)
	s := setupShelf(t, env.db)
	borrowed := env.clock.Now().Add(-20 * 24 * time.Hour)
	testutils.SetupLoan(t, env.db, database.Loan{BookID: s.miserables.ID, BorrowerName: "Javert", BorrowedAt: borrowed})
	testutils.SetupLoan(t, env.db, database.Loan{BookID: s.monteCristo.ID, BorrowerName: "Mercedes", BorrowedAt: env.clock.Now()})

	res := testutils.HTTPDo(t, htmlReq(env.server.URL, "GET", "/loans/overdue"))
	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	body := testutils.ReadBody(t, res)
	assert.Equal(t, strings.Contains(body, "Javert"), true, "overdue loan should be listed")
	assert.Equal(t, strings.Contains(body, "6 day(s)"), true, "delay should be shown")
	assert.Equal(t, strings.Contains(body, "Mercedes"), false, "loan on time should not be listed")
}

func TestLoansReturn(t *testing.T) {
	env := newTestEnv(t)
	s := setupShelf(t, env.db)
	testutils.MustExec(t, env.db.Model(&database.Book{}).Where("id = ?", s.miserables.ID).Update("copies_available", 1), "taking a copy")
	loan := testutils.SetupLoan(t, env.db, database.Loan{BookID: s.miserables.ID, Comments: "good state"})
	path := fmt.Sprintf("/loans/%d/return", loan.ID)

	res := testutils.HTTPDo(t, htmlReq(env.server.URL, "GET", path))
	assert.StatusCodeEquals(t, res, http.StatusOK, "")
	assert.Equal(t, strings.Contains(testutils.ReadBody(t, res), "Les Misérables"), true, "book should be shown")

	res = testutils.HTTPDo(t, testutils.MakeFormReq(env.server.URL, "POST", path, url.Values{"comments": {"coffee stain"}}))
	assert.StatusCodeEquals(t, res, http.StatusFound, "")
	assert.Equal(t, strings.Contains(follow(t, env.server.URL, res), "has been returned."), true, "success alert should be shown")

	got := mustGetLoan(t, env.db, loan.ID)
	assert.Equal(t, got.Status, database.LoanStatusReturned, "status mismatch")
	assert.Equal(t, got.Comments, "good state\ncoffee stain", "comments mismatch")
	assert.Equal(t, mustGetBook(t, env.db, s.miserables.ID).CopiesAvailable, 2, "copy should be back")

	t.Run("returning again", func(t *testing.T) {
		res := testutils.HTTPDo(t, testutils.MakeFormReq(env.server.URL, "POST", path, url.Values{}))
		assert.StatusCodeEquals(t, res, http.StatusFound, "")
		assert.Equal(t, strings.Contains(follow(t, env.server.URL, res), msgAlreadyReturned), true, "warning should be shown")
		assert.Equal(t, mustGetBook(t, env.db, s.miserables.ID).CopiesAvailable, 2, "copies should not change")
	})

	t.Run("form of a returned loan", func(t *testing.T) {
		res := testutils.HTTPDo(t, htmlReq(env.server.URL, "GET", path))
		assert.StatusCodeEquals(t, res, http.StatusFound, "")
		assert.Equal(t, res.Header.Get("Location"), "/loans", "location mismatch")
	})

	t.Run("comments too long", func(t *testing.T) {
		open := testutils.SetupLoan(t, env.db, database.Loan{BookID: s.monteCristo.ID})

		res := testutils.HTTPDo(t, testutils.MakeFormReq(env.server.URL, "POST", fmt.Sprintf("/loans/%d/return", open.ID), url.Values{
			"comments": {strings.Repeat("a", 2001)},
		}))
		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "")
		assert.Equal(t, mustGetLoan(t, env.db, open.ID).Status, database.LoanStatusActive, "loan should stay open")
	})
}

func TestV1Loans(t *testing.T) {
	env := newTestEnv(t)
	s := setupShelf(t, env.db)

	payload := map[string]string{
		"book":                 fmt.Sprintf("%d", s.monteCristo.ID),
		"borrower_name":        "Haydee",
		"borrower_email":       "haydee@monte-cristo.com",
		"borrower_card_number": "18440000",
	}

	res := testutils.HTTPDo(t, testutils.MakeJSONReq(t, env.server.URL, "POST", "/api/v1/loans", payload))
	assert.StatusCodeEquals(t, res, http.StatusCreated, "")

	var created presenters.Loan
	testutils.ReadJSON(t, res, &created)
	assert.Equal(t, created.Status, database.LoanStatusActive, "status mismatch")
	assert.Equal(t, created.Book.Title, "Le Comte de Monte-Cristo", "book mismatch")
	assert.Equal(t, len(created.Reference), 26, "reference mismatch")
	assert.Equal(t, created.DueAt.Equal(env.clock.Now().Add(database.LoanDuration)), true, "due date mismatch")

	res = testutils.HTTPDo(t, testutils.MakeReq(env.server.URL, "GET", "/api/v1/loans", ""))
	assert.StatusCodeEquals(t, res, http.StatusOK, "")
	var list loanListResponse
	testutils.ReadJSON(t, res, &list)
	assert.Equal(t, len(list.Loans), 1, "loans mismatch")
	assert.Equal(t, list.Page.Total, int64(1), "total mismatch")

	returnPath := fmt.Sprintf("/api/v1/loans/%d/return", created.ID)

	res = testutils.HTTPDo(t, testutils.MakeReq(env.server.URL, "POST", returnPath, ""))
	assert.StatusCodeEquals(t, res, http.StatusOK, "")
	var returned presenters.Loan
	testutils.ReadJSON(t, res, &returned)
	assert.Equal(t, returned.Status, database.LoanStatusReturned, "status mismatch")
	assert.NotEqual(t, returned.ReturnedAt, (*time.Time)(nil), "returned at should be set")

	res = testutils.HTTPDo(t, testutils.MakeJSONReq(t, env.server.URL, "POST", returnPath, map[string]string{"comments": "again"}))
	assert.StatusCodeEquals(t, res, http.StatusConflict, "")
	var conflict errorResponse
	testutils.ReadJSON(t, res, &conflict)
	assert.Equal(t, strings.Contains(conflict.Error, "has already been returned"), true, "error mismatch")

	res = testutils.HTTPDo(t, testutils.MakeReq(env.server.URL, "POST", "/api/v1/loans/999/return", ""))
	assert.StatusCodeEquals(t, res, http.StatusNotFound, "")
}

func TestV1CreateLoan_errors(t *testing.T) {
	env := newTestEnv(t)
	s := setupShelf(t, env.db)

	testCases := []struct {
		name     string
		book     uint
		card     string
		expected int
	}{
		{name: "unavailable", book: s.notreDame.ID, card: "24601000", expected: http.StatusConflict},
		{name: "invalid card", book: s.miserables.ID, card: "abc", expected: http.StatusBadRequest},
		{name: "missing book", book: 999, card: "24601000", expected: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := testutils.HTTPDo(t, testutils.MakeJSONReq(t, env.server.URL, "POST", "/api/v1/loans", map[string]string{
				"book":                 fmt.Sprintf("%d", tc.book),
				"borrower_name":        "Gavroche",
				"borrower_email":       "gavroche@paris.fr",
				"borrower_card_number": tc.card,
			}))
			assert.StatusCodeEquals(t, res, tc.expected, "")
		})
	}
}

func TestV1Overdue(t *testing.T) {
	env := newTestEnv(t)
	s := setupShelf(t, env.db)
	testutils.SetupLoan(t, env.db, database.Loan{BookID: s.miserables.ID, BorrowedAt: env.clock.Now().Add(-30 * 24 * time.Hour)})
	testutils.SetupLoan(t, env.db, database.Loan{BookID: s.monteCristo.ID, BorrowedAt: env.clock.Now().Add(-15 * 24 * time.Hour)})
	testutils.SetupLoan(t, env.db, database.Loan{BookID: s.monteCristo.ID, BorrowedAt: env.clock.Now()})

	res := testutils.HTTPDo(t, testutils.MakeReq(env.server.URL, "GET", "/api/v1/loans/overdue", ""))
	assert.StatusCodeEquals(t, res, http.StatusOK, "")

	var payload loanListResponse
	testutils.ReadJSON(t, res, &payload)
	assert.Equal(t, len(payload.Loans), 2, "loans mismatch")
	assert.Equal(t, payload.Loans[0].DaysOverdue, 16, "most overdue should come first")
	assert.Equal(t, payload.Loans[1].DaysOverdue, 1, "days overdue mismatch")
	assert.Equal(t, payload.Page == nil, true, "overdue list is not paginated")
}
