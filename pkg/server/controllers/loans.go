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

	"github.com/libris/libris/pkg/server/app"
	"github.com/libris/libris/pkg/server/database"
	"github.com/libris/libris/pkg/server/forms"
	"github.com/libris/libris/pkg/server/presenters"
	"github.com/libris/libris/pkg/server/search"
	"github.com/libris/libris/pkg/server/views"
	"github.com/pkg/errors"
)

const (
	msgAlreadyReturned = "This book has already been returned."
)

// NewLoans creates a new Loans controller.
// It panics if the necessary templates are not parsed.
func NewLoans(a *app.App, viewEngine *views.Engine, pages errorPages) *Loans {
	return &Loans{
		IndexView:   viewEngine.NewView(a, views.Config{Title: "Loans"}, "loans/index"),
		NewView:     viewEngine.NewView(a, views.Config{Title: "New loan", AlertInBody: true}, "loans/new"),
		OverdueView: viewEngine.NewView(a, views.Config{Title: "Overdue loans"}, "loans/overdue"),
		ReturnView:  viewEngine.NewView(a, views.Config{Title: "Return a book", AlertInBody: true}, "loans/return"),
		app:         a,
		errorPages:  pages,
	}
}

// Loans is a loan controller.
type Loans struct {
	IndexView   *views.View
	NewView     *views.View
	OverdueView *views.View
	ReturnView  *views.View

	app *app.App
	errorPages
}

// Index handles GET /loans
func (l *Loans) Index(w http.ResponseWriter, r *http.Request) {
	vd := views.Data{}
	q := r.URL.Query()
	listing := search.LoanListing{Status: q.Get("status")}

	loans, page, err := l.app.ListLoans(r.Context(), listing.Status, q.Get("page"))
	if err != nil {
		l.handleHTMLError(w, r, err, "listing loans", l.IndexView, vd)
		return
	}

	vd.Yield = map[string]interface{}{
		"Loans":    loans,
		"Page":     page,
		"Status":   listing.EffectiveStatus(),
		"Statuses": database.LoanStatuses,
	}
	l.IndexView.Render(w, r, &vd, http.StatusOK)
}

func (l *Loans) renderNew(w http.ResponseWriter, r *http.Request, form *forms.LoanInput, formErr error) {
	vd := views.Data{
		Yield: map[string]interface{}{
			"Form":  form,
			"Books": []database.Book{},
		},
	}

	books, err := l.app.AvailableBooks(r.Context())
	if err != nil {
		l.handleHTMLError(w, r, err, "listing available books", l.NewView, vd)
		return
	}
	vd.Yield["Books"] = books

	if formErr != nil {
		l.handleHTMLError(w, r, formErr, "creating loan", l.NewView, vd)
		return
	}

	l.NewView.Render(w, r, &vd, http.StatusOK)
}

// New handles GET /loans/new. The book query parameter preselects a book.
func (l *Loans) New(w http.ResponseWriter, r *http.Request) {
	form := forms.LoanInput{Book: r.URL.Query().Get("book")}
	l.renderNew(w, r, &form, nil)
}

// Create handles POST /loans
func (l *Loans) Create(w http.ResponseWriter, r *http.Request) {
	var form forms.LoanInput
	if err := parseForm(r, &form); err != nil {
		l.renderNew(w, r, &form, err)
		return
	}

	loan, err := l.app.CreateLoan(r.Context(), form)
	if err != nil {
		l.renderNew(w, r, &form, err)
		return
	}

	views.RedirectAlert(w, r, "/loans", http.StatusFound, views.Alert{
		Level:   views.AlertLvlSuccess,
		Message: fmt.Sprintf("Loan created for \"%s\".", loan.Book.Title),
	})
}

// Overdue handles GET /loans/overdue
func (l *Loans) Overdue(w http.ResponseWriter, r *http.Request) {
	vd := views.Data{}

	loans, err := l.app.ListOverdue(r.Context())
	if err != nil {
		l.handleHTMLError(w, r, err, "listing overdue loans", l.OverdueView, vd)
		return
	}

	vd.Yield = map[string]interface{}{
		"Loans": loans,
	}
	l.OverdueView.Render(w, r, &vd, http.StatusOK)
}

func redirectAlreadyReturned(w http.ResponseWriter, r *http.Request) {
	views.RedirectAlert(w, r, "/loans", http.StatusFound, views.Alert{
		Level:   views.AlertLvlWarning,
		Message: msgAlreadyReturned,
	})
}

// NewReturn handles GET /loans/{id}/return
func (l *Loans) NewReturn(w http.ResponseWriter, r *http.Request) {
	vd := views.Data{}

	id, err := parseID(r)
	if err != nil {
		l.handleHTMLError(w, r, err, "parsing id", l.ReturnView, vd)
		return
	}

	loan, err := l.app.GetLoan(r.Context(), id)
	if err != nil {
		l.handleHTMLError(w, r, err, "getting loan", l.ReturnView, vd)
		return
	}
	if loan.Status == database.LoanStatusReturned {
		redirectAlreadyReturned(w, r)
		return
	}

	vd.Yield = map[string]interface{}{
		"Loan": loan,
		"Form": &forms.ReturnInput{},
	}
	l.ReturnView.Render(w, r, &vd, http.StatusOK)
}

// Return handles POST /loans/{id}/return
func (l *Loans) Return(w http.ResponseWriter, r *http.Request) {
	vd := views.Data{}

	id, err := parseID(r)
	if err != nil {
		l.handleHTMLError(w, r, err, "parsing id", l.ReturnView, vd)
		return
	}

	var form forms.ReturnInput
	if err := parseForm(r, &form); err != nil {
		l.handleHTMLError(w, r, err, "parsing form", l.ReturnView, vd)
		return
	}

	loan, err := l.app.ReturnLoan(r.Context(), id, form)
	if err == nil {
		views.RedirectAlert(w, r, "/loans", http.StatusFound, views.Alert{
			Level:   views.AlertLvlSuccess,
			Message: fmt.Sprintf("\"%s\" has been returned.", loan.Book.Title),
		})
		return
	}
	if errors.Cause(err) == app.ErrLoanAlreadyReturned {
		redirectAlreadyReturned(w, r)
		return
	}

	// The form is shown again with the loan it was about
	current, findErr := l.app.GetLoan(r.Context(), id)
	if findErr != nil {
		l.handleHTMLError(w, r, findErr, "getting loan", l.ReturnView, vd)
		return
	}
	vd.Yield = map[string]interface{}{
		"Loan": current,
		"Form": &form,
	}
	l.handleHTMLError(w, r, err, "returning loan", l.ReturnView, vd)
}

type loanListResponse struct {
	Loans []presenters.Loan `json:"loans"`
	Page  *presenters.Page  `json:"page,omitempty"`
}

// V1Index handles GET /api/v1/loans
func (l *Loans) V1Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	loans, page, err := l.app.ListLoans(r.Context(), q.Get("status"), q.Get("page"))
	if err != nil {
		handleJSONError(w, err, "listing loans")
		return
	}

	p := presenters.PresentPage(page)
	respondJSON(w, http.StatusOK, loanListResponse{
		Loans: presenters.PresentLoans(loans, l.app.Clock.Now()),
		Page:  &p,
	})
}

// V1Overdue handles GET /api/v1/loans/overdue
func (l *Loans) V1Overdue(w http.ResponseWriter, r *http.Request) {
	loans, err := l.app.ListOverdue(r.Context())
	if err != nil {
		handleJSONError(w, err, "listing overdue loans")
		return
	}

	respondJSON(w, http.StatusOK, loanListResponse{
		Loans: presenters.PresentLoans(loans, l.app.Clock.Now()),
	})
}

// V1Create handles POST /api/v1/loans
func (l *Loans) V1Create(w http.ResponseWriter, r *http.Request) {
	var params forms.LoanInput
	if err := parseJSON(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	loan, err := l.app.CreateLoan(r.Context(), params)
	if err != nil {
		handleJSONError(w, err, "creating loan")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentLoan(loan, l.app.Clock.Now()))
}

// V1Return handles POST /api/v1/loans/{id}/return. The body is optional.
func (l *Loans) V1Return(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	var params forms.ReturnInput
	if err := parseJSON(r, &params); err != nil && errors.Cause(err) != errEmptyBody {
		handleJSONError(w, err, "parsing payload")
		return
	}

	loan, err := l.app.ReturnLoan(r.Context(), id, params)
	if err != nil {
		handleJSONError(w, err, "returning loan")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentLoan(loan, l.app.Clock.Now()))
}
