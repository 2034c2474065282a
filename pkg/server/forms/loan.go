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

package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/libris/libris/pkg/server/database"
	"github.com/pkg/errors"
)

var (
	// ErrBookUnavailable is a rule violation for a loan of a book with no copy left
	ErrBookUnavailable = errors.New("book unavailable")
	// ErrLoanLimitReached is a rule violation for a card already holding the maximum number of loans
	ErrLoanLimitReached = errors.New("loan limit reached")
)

// LoanInput is the raw input of the loan form
type LoanInput struct {
	Book               string `schema:"book" json:"book" validate:"required,number"`
	BorrowerName       string `schema:"borrower_name" json:"borrower_name" validate:"required,max=200"`
	BorrowerEmail      string `schema:"borrower_email" json:"borrower_email" validate:"required,max=254,email,emailsuffix"`
	BorrowerCardNumber string `schema:"borrower_card_number" json:"borrower_card_number" validate:"required,librarycard"`
	Comments           string `schema:"comments" json:"comments"`
}

// LoanParams is a validated loan input
type LoanParams struct {
	BookID             uint
	BorrowerName       string
	BorrowerEmail      string
	BorrowerCardNumber string
	Comments           string
}

// Loan validates the loan form fields. Whether the loan may be granted is
// decided by CheckLoanEligibility once the book and the card history are known.
func (v *Validator) Loan(in LoanInput) (LoanParams, error) {
	in = LoanInput{
		Book:               strings.TrimSpace(in.Book),
		BorrowerName:       strings.TrimSpace(in.BorrowerName),
		BorrowerEmail:      strings.TrimSpace(in.BorrowerEmail),
		BorrowerCardNumber: strings.TrimSpace(in.BorrowerCardNumber),
		Comments:           strings.TrimSpace(in.Comments),
	}

	errs := v.check(in)

	var bookID uint64
	if errs.Field("book") == nil {
		id, err := strconv.ParseUint(in.Book, 10, 64)
		if err != nil || id == 0 {
			errs.AddField("book", "Select a valid book.")
		}
		bookID = id
	}

	if err := errs.Err(); err != nil {
		return LoanParams{}, err
	}

	return LoanParams{
		BookID:             uint(bookID),
		BorrowerName:       in.BorrowerName,
		BorrowerEmail:      in.BorrowerEmail,
		BorrowerCardNumber: in.BorrowerCardNumber,
		Comments:           in.Comments,
	}, nil
}

// CheckLoanEligibility decides whether a loan of the book may be granted to a
// card that already holds openLoans pending or active loans.
func CheckLoanEligibility(book database.Book, cardNumber string, openLoans int64) error {
	if book.CopiesAvailable <= 0 {
		return &RuleError{
			Rule:    ErrBookUnavailable,
			Message: fmt.Sprintf("The book \"%s\" is no longer available.", book.Title),
		}
	}

	return CheckLoanLimit(cardNumber, openLoans)
}

// CheckLoanLimit fails when a card holding openLoans pending or active loans
// may not borrow another book
func CheckLoanLimit(cardNumber string, openLoans int64) error {
	if openLoans >= database.MaxOpenLoans {
		return &RuleError{
			Rule:    ErrLoanLimitReached,
			Message: fmt.Sprintf("The borrower with card %s already has %d active loans. The maximum has been reached.", cardNumber, database.MaxOpenLoans),
		}
	}

	return nil
}

// ReturnInput is the raw input of the return form
type ReturnInput struct {
	Comments string `schema:"comments" json:"comments" validate:"max=2000"`
}

// Return validates the return form
func (v *Validator) Return(in ReturnInput) (ReturnInput, error) {
	in.Comments = strings.TrimSpace(in.Comments)

	if err := v.check(in).Err(); err != nil {
		return ReturnInput{}, err
	}

	return in, nil
}
