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
	"net/http"
	"strconv"
	"strings"

	"github.com/libris/libris/pkg/server/app"
	"github.com/libris/libris/pkg/server/database"
	"github.com/libris/libris/pkg/server/forms"
	"github.com/libris/libris/pkg/server/presenters"
	"github.com/libris/libris/pkg/server/search"
	"github.com/libris/libris/pkg/server/views"
	"github.com/pkg/errors"
)

// NewBooks creates a new Books controller.
// It panics if the necessary templates are not parsed.
func NewBooks(a *app.App, viewEngine *views.Engine, pages errorPages) *Books {
	return &Books{
		IndexView:  viewEngine.NewView(a, views.Config{Title: "Books"}, "books/index"),
		SearchView: viewEngine.NewView(a, views.Config{Title: "Advanced search", AlertInBody: true}, "books/search"),
		ShowView:   viewEngine.NewView(a, views.Config{}, "books/show"),
		app:        a,
		errorPages: pages,
	}
}

// Books is a book controller.
type Books struct {
	IndexView  *views.View
	SearchView *views.View
	ShowView   *views.View

	app *app.App
	errorPages
}

// bookListing reads the browse filters from the query string. A category
// that is not a valid id is ignored.
func bookListing(r *http.Request) search.BookListing {
	q := r.URL.Query()

	ret := search.BookListing{Text: strings.TrimSpace(q.Get("search"))}
	if id, err := strconv.ParseUint(q.Get("category"), 10, 64); err == nil {
		ret.CategoryID = uint(id)
	}

	return ret
}

// Index handles GET /books
func (b *Books) Index(w http.ResponseWriter, r *http.Request) {
	vd := views.Data{}
	ctx := r.Context()
	listing := bookListing(r)

	books, page, err := b.app.ListBooks(ctx, listing, r.URL.Query().Get("page"))
	if err != nil {
		b.handleHTMLError(w, r, err, "listing books", b.IndexView, vd)
		return
	}
	categories, err := b.app.AllCategories(ctx)
	if err != nil {
		b.handleHTMLError(w, r, err, "listing categories", b.IndexView, vd)
		return
	}

	vd.Yield = map[string]interface{}{
		"Books":      books,
		"Page":       page,
		"Categories": categories,
		"Search":     listing.Text,
		"Category":   listing.CategoryID,
	}
	b.IndexView.Render(w, r, &vd, http.StatusOK)
}

// Search handles GET /books/search
func (b *Books) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var form forms.SearchInput
	vd := views.Data{
		Yield: map[string]interface{}{
			"Form":     &form,
			"Books":    []database.Book{},
			"Page":     search.Page{},
			"Searched": true,
		},
	}

	categories, err := b.app.AllCategories(ctx)
	if err != nil {
		b.handleHTMLError(w, r, err, "listing categories", b.SearchView, vd)
		return
	}
	vd.Yield["Categories"] = categories

	if err := parseQuery(r, &form); err != nil {
		vd.Yield["Searched"] = false
		b.handleHTMLError(w, r, err, "parsing search", b.SearchView, vd)
		return
	}

	_, books, page, err := b.app.SearchBooks(ctx, form)
	if err != nil {
		vd.Yield["Searched"] = false
		b.handleHTMLError(w, r, err, "searching books", b.SearchView, vd)
		return
	}

	vd.Yield["Books"] = books
	vd.Yield["Page"] = page
	b.SearchView.Render(w, r, &vd, http.StatusOK)
}

// Show handles GET /books/{id}
func (b *Books) Show(w http.ResponseWriter, r *http.Request) {
	vd := views.Data{}

	id, err := parseID(r)
	if err != nil {
		b.handleHTMLError(w, r, err, "parsing id", b.ShowView, vd)
		return
	}

	book, loans, err := b.app.BookDetail(r.Context(), id)
	if err != nil {
		b.handleHTMLError(w, r, err, "getting book", b.ShowView, vd)
		return
	}

	vd.Title = book.Title
	vd.Yield = map[string]interface{}{
		"Book":  book,
		"Loans": loans,
	}
	b.ShowView.Render(w, r, &vd, http.StatusOK)
}

type bookListResponse struct {
	Books []presenters.Book `json:"books"`
	Page  presenters.Page   `json:"page"`
}

// V1Index handles GET /api/v1/books
func (b *Books) V1Index(w http.ResponseWriter, r *http.Request) {
	books, page, err := b.app.ListBooks(r.Context(), bookListing(r), r.URL.Query().Get("page"))
	if err != nil {
		handleJSONError(w, err, "listing books")
		return
	}

	respondJSON(w, http.StatusOK, bookListResponse{
		Books: presenters.PresentBooks(books),
		Page:  presenters.PresentPage(page),
	})
}

// V1Search handles GET /api/v1/books/search
func (b *Books) V1Search(w http.ResponseWriter, r *http.Request) {
	var form forms.SearchInput
	if err := parseQuery(r, &form); err != nil {
		handleJSONError(w, err, "parsing search")
		return
	}

	_, books, page, err := b.app.SearchBooks(r.Context(), form)
	if err != nil {
		handleJSONError(w, err, "searching books")
		return
	}

	respondJSON(w, http.StatusOK, bookListResponse{
		Books: presenters.PresentBooks(books),
		Page:  presenters.PresentPage(page),
	})
}

type bookShowResponse struct {
	Book  presenters.Book   `json:"book"`
	Loans []presenters.Loan `json:"loans"`
}

// V1Show handles GET /api/v1/books/{id}
func (b *Books) V1Show(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	book, loans, err := b.app.BookDetail(r.Context(), id)
	if err != nil {
		handleJSONError(w, err, "getting book")
		return
	}

	respondJSON(w, http.StatusOK, bookShowResponse{
		Book:  presenters.PresentBook(book),
		Loans: presenters.PresentLoans(loans, b.app.Clock.Now()),
	})
}

// V1Create handles POST /api/v1/books
func (b *Books) V1Create(w http.ResponseWriter, r *http.Request) {
	var params forms.BookInput
	if err := parseJSON(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	book, err := b.app.CreateBook(r.Context(), params)
	if err != nil {
		handleJSONError(w, err, "creating book")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentBook(book))
}

// V1Delete handles DELETE /api/v1/books/{id}
func (b *Books) V1Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	if err := b.app.DeleteBook(r.Context(), id); err != nil {
		handleJSONError(w, errors.Wrapf(err, "book %d", id), "deleting book")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
