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

package presenters

import (
	"time"

	"github.com/libris/libris/pkg/server/database"
)

// LoanBook is the book summary embedded in a loan
type LoanBook struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Loan is a result of PresentLoan
type Loan struct {
	ID                 uint       `json:"id"`
	Reference          string     `json:"reference"`
	Book               LoanBook   `json:"book"`
	BorrowerName       string     `json:"borrower_name"`
	BorrowerEmail      string     `json:"borrower_email"`
	BorrowerCardNumber string     `json:"borrower_card_number"`
	BorrowedAt         time.Time  `json:"borrowed_at"`
	DueAt              time.Time  `json:"due_at"`
	ReturnedAt         *time.Time `json:"returned_at"`
	Status             string     `json:"status"`
	Overdue            bool       `json:"overdue"`
	DaysOverdue        int        `json:"days_overdue,omitempty"`
	Comments           string     `json:"comments,omitempty"`
}

// PresentLoan presents a loan as seen at the given time
func PresentLoan(l database.Loan, now time.Time) Loan {
	ret := Loan{
		ID:        l.ID,
		Reference: l.Reference,
		Book: LoanBook{
			ID:     l.BookID,
			Title:  l.Book.Title,
			Author: l.Book.Author.FullName(),
		},
		BorrowerName:       l.BorrowerName,
		BorrowerEmail:      l.BorrowerEmail,
		BorrowerCardNumber: l.BorrowerCardNumber,
		BorrowedAt:         FormatTS(l.BorrowedAt),
		DueAt:              FormatTS(l.DueAt),
		Status:             l.Status,
		Overdue:            l.IsOverdue(now),
		DaysOverdue:        l.DaysOverdue(now),
		Comments:           l.Comments,
	}
	if l.ReturnedAt != nil {
		t := FormatTS(*l.ReturnedAt)
		ret.ReturnedAt = &t
	}

	return ret
}

// PresentLoans presents loans
func PresentLoans(loans []database.Loan, now time.Time) []Loan {
	ret := []Loan{}

	for _, l := range loans {
		ret = append(ret, PresentLoan(l, now))
	}

	return ret
}
