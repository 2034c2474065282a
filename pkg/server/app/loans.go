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

package app

import (
	"context"
	"fmt"

	"github.com/libris/libris/pkg/server/catalog"
	"github.com/libris/libris/pkg/server/database"
	"github.com/libris/libris/pkg/server/forms"
	"github.com/libris/libris/pkg/server/helpers"
	"github.com/libris/libris/pkg/server/log"
	"github.com/libris/libris/pkg/server/search"
	"github.com/pkg/errors"
)

func unavailable(book database.Book) error {
	return &forms.RuleError{
		Rule:    ErrBookUnavailable,
		Message: fmt.Sprintf("The book \"%s\" is no longer available.", book.Title),
	}
}

func alreadyReturned(loan database.Loan) error {
	return &forms.RuleError{
		Rule:    ErrLoanAlreadyReturned,
		Message: fmt.Sprintf("The loan %s has already been returned.", loan.Reference),
	}
}

// CreateLoan validates the input and lends a copy of the book. The loan row and
// the copy decrement are written in one transaction; the decrement only applies
// while a copy is left, so concurrent loans of the last copy cannot both succeed.
// The card's open loans are counted again inside the transaction, so concurrent
// loans on one card cannot go past the limit either.
func (a *App) CreateLoan(ctx context.Context, in forms.LoanInput) (database.Loan, error) {
	p, err := a.Validator.Loan(in)
	if err != nil {
		return database.Loan{}, err
	}

	book, err := a.Store.FindBook(ctx, p.BookID)
	if err != nil {
		if isNotFound(err) {
			errs := forms.NewErrors()
			errs.AddField("book", "Select a valid book.")
			return database.Loan{}, errs
		}

		return database.Loan{}, errors.Wrap(err, "finding the book")
	}

	openLoans, err := a.Store.CountOpenLoansByCard(ctx, p.BorrowerCardNumber)
	if err != nil {
		return database.Loan{}, errors.Wrap(err, "counting open loans")
	}
	if err := forms.CheckLoanEligibility(book, p.BorrowerCardNumber, openLoans); err != nil {
		return database.Loan{}, err
	}

	now := a.Clock.Now().UTC()
	ref, err := helpers.GenLoanReference(now)
	if err != nil {
		return database.Loan{}, errors.Wrap(err, "generating the loan reference")
	}

	loan := database.Loan{
		Reference:          ref,
		BookID:             book.ID,
		BorrowerName:       p.BorrowerName,
		BorrowerEmail:      p.BorrowerEmail,
		BorrowerCardNumber: p.BorrowerCardNumber,
		BorrowedAt:         now,
		DueAt:              now.Add(database.LoanDuration),
		Status:             database.LoanStatusActive,
		Comments:           p.Comments,
	}

	err = a.Store.Transaction(ctx, func(tx catalog.Store) error {
		ok, err := tx.TakeCopy(ctx, book.ID)
		if err != nil {
			return errors.Wrap(err, "taking a copy")
		}
		if !ok {
			return unavailable(book)
		}

		// The count read above may be stale by now. Recount under the write
		// lock taken by the copy decrement.
		open, err := tx.LockOpenLoansByCard(ctx, p.BorrowerCardNumber)
		if err != nil {
			return err
		}
		if err := forms.CheckLoanLimit(p.BorrowerCardNumber, open); err != nil {
			return err
		}

		if err := tx.CreateLoan(ctx, &loan); err != nil {
			return errors.Wrap(err, "inserting the loan")
		}

		// Loans inserted by a transaction that committed while this one
		// waited for the locks are only visible to a new statement.
		open, err = tx.CountOpenLoansByCard(ctx, p.BorrowerCardNumber)
		if err != nil {
			return err
		}
		if err := forms.CheckLoanLimit(p.BorrowerCardNumber, open-1); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return database.Loan{}, err
	}

	book.CopiesAvailable--
	loan.Book = book

	log.WithFields(log.Fields{
		"reference": loan.Reference,
		"book_id":   book.ID,
	}).Info("loan created")

	if err := a.sendLoanReceipt(loan); err != nil {
		log.ErrorWrap(err, "sending loan receipt")
	}

	return loan, nil
}

func appendComments(existing, extra string) string {
	if extra == "" {
		return existing
	}
	if existing == "" {
		return extra
	}

	return existing + "\n" + extra
}

// ReturnLoan closes the loan and puts its copy back on the shelf
func (a *App) ReturnLoan(ctx context.Context, loanID uint, in forms.ReturnInput) (database.Loan, error) {
	p, err := a.Validator.Return(in)
	if err != nil {
		return database.Loan{}, err
	}

	now := a.Clock.Now().UTC()

	var loan database.Loan
	err = a.Store.Transaction(ctx, func(tx catalog.Store) error {
		var err error
		loan, err = tx.FindLoan(ctx, loanID)
		if err != nil {
			return errors.Wrapf(err, "finding loan %d", loanID)
		}
		if loan.Status == database.LoanStatusReturned {
			return alreadyReturned(loan)
		}

		comments := appendComments(loan.Comments, p.Comments)
		ok, err := tx.CloseLoan(ctx, loan.ID, now, comments)
		if err != nil {
			return errors.Wrap(err, "closing the loan")
		}
		if !ok {
			return alreadyReturned(loan)
		}

		ok, err = tx.PutCopyBack(ctx, loan.BookID)
		if err != nil {
			return errors.Wrap(err, "putting the copy back")
		}
		if !ok {
			log.WithFields(log.Fields{
				"loan_id": loan.ID,
				"book_id": loan.BookID,
			}).Warn("all copies already available on return")
		}

		loan.Status = database.LoanStatusReturned
		loan.ReturnedAt = &now
		loan.Comments = comments
		if ok {
			loan.Book.CopiesAvailable++
		}

		return nil
	})
	if err != nil {
		return database.Loan{}, err
	}

	log.WithFields(log.Fields{
		"reference": loan.Reference,
		"book_id":   loan.BookID,
	}).Info("loan returned")

	return loan, nil
}

// BulkReturnResult reports the outcome of a bulk return
type BulkReturnResult struct {
	Returned []database.Loan
	Failed   map[uint]error
}

// BulkReturn returns each of the given loans independently. A failure on one
// loan does not prevent the others from being returned.
func (a *App) BulkReturn(ctx context.Context, ids []uint) BulkReturnResult {
	res := BulkReturnResult{Failed: map[uint]error{}}

	for _, id := range ids {
		loan, err := a.ReturnLoan(ctx, id, forms.ReturnInput{})
		if err != nil {
			res.Failed[id] = err
			continue
		}

		res.Returned = append(res.Returned, loan)
	}

	return res
}

// GetLoan returns the loan with its book
func (a *App) GetLoan(ctx context.Context, id uint) (database.Loan, error) {
	loan, err := a.Store.FindLoan(ctx, id)
	if err != nil {
		return database.Loan{}, errors.Wrapf(err, "finding loan %d", id)
	}

	return loan, nil
}

// ListLoans returns a page of loans with the given status, active by default
func (a *App) ListLoans(ctx context.Context, status, rawPage string) ([]database.Loan, search.Page, error) {
	q := search.LoanListing{Status: status}

	total, err := a.Store.CountLoans(ctx, q)
	if err != nil {
		return nil, search.Page{}, errors.Wrap(err, "counting loans")
	}

	page := search.NewPage(rawPage, search.LoansPerPage, total)
	loans, err := a.Store.ListLoans(ctx, q, page)
	if err != nil {
		return nil, search.Page{}, errors.Wrap(err, "listing loans")
	}

	return loans, page, nil
}

// ListOverdue returns the open loans past their due date, most overdue first
func (a *App) ListOverdue(ctx context.Context) ([]database.Loan, error) {
	loans, err := a.Store.ListLoans(ctx, search.OverdueLoans{Now: a.Clock.Now()}, search.All)
	if err != nil {
		return nil, errors.Wrap(err, "listing overdue loans")
	}

	return loans, nil
}

// MarkLateLoans flags active loans past their due date as late
func (a *App) MarkLateLoans(ctx context.Context) (int64, error) {
	n, err := a.Store.MarkLate(ctx, a.Clock.Now())
	if err != nil {
		return 0, errors.Wrap(err, "marking late loans")
	}

	log.WithFields(log.Fields{
		"count": n,
	}).Info("marked late loans")

	return n, nil
}

// SendOverdueReminders mails every borrower of an overdue loan and returns the
// number of reminders sent. Failed sends are logged and skipped.
func (a *App) SendOverdueReminders(ctx context.Context) (int, error) {
	loans, err := a.ListOverdue(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, loan := range loans {
		if err := a.sendOverdueReminder(loan); err != nil {
			log.WithFields(log.Fields{
				"reference": loan.Reference,
			}).ErrorWrap(err, "sending overdue reminder")
			continue
		}

		sent++
	}

	return sent, nil
}
