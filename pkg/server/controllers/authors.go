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
	"strings"

	"github.com/libris/libris/pkg/server/app"
	"github.com/libris/libris/pkg/server/forms"
	"github.com/libris/libris/pkg/server/presenters"
	"github.com/libris/libris/pkg/server/views"
	"github.com/pkg/errors"
)

// NewAuthors creates a new Authors controller.
// It panics if the necessary templates are not parsed.
func NewAuthors(a *app.App, viewEngine *views.Engine, pages errorPages) *Authors {
	return &Authors{
		IndexView:  viewEngine.NewView(a, views.Config{Title: "Authors"}, "authors/index"),
		ShowView:   viewEngine.NewView(a, views.Config{}, "authors/show"),
		app:        a,
		errorPages: pages,
	}
}

// Authors is an author controller.
type Authors struct {
	IndexView *views.View
	ShowView  *views.View

	app *app.App
	errorPages
}

// Index handles GET /authors
func (c *Authors) Index(w http.ResponseWriter, r *http.Request) {
	vd := views.Data{}
	q := r.URL.Query()
	text := strings.TrimSpace(q.Get("search"))

	authors, page, err := c.app.ListAuthors(r.Context(), text, q.Get("page"))
	if err != nil {
		c.handleHTMLError(w, r, err, "listing authors", c.IndexView, vd)
		return
	}

	vd.Yield = map[string]interface{}{
		"Authors": authors,
		"Page":    page,
		"Search":  text,
	}
	c.IndexView.Render(w, r, &vd, http.StatusOK)
}

// Show handles GET /authors/{id}
func (c *Authors) Show(w http.ResponseWriter, r *http.Request) {
	vd := views.Data{}

	id, err := parseID(r)
	if err != nil {
		c.handleHTMLError(w, r, err, "parsing id", c.ShowView, vd)
		return
	}

	author, books, err := c.app.AuthorDetail(r.Context(), id)
	if err != nil {
		c.handleHTMLError(w, r, err, "getting author", c.ShowView, vd)
		return
	}

	vd.Title = author.FullName()
	vd.Yield = map[string]interface{}{
		"Author": author,
		"Books":  books,
	}
	c.ShowView.Render(w, r, &vd, http.StatusOK)
}

type authorListResponse struct {
	Authors []presenters.Author `json:"authors"`
	Page    presenters.Page     `json:"page"`
}

// V1Index handles GET /api/v1/authors
func (c *Authors) V1Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	authors, page, err := c.app.ListAuthors(r.Context(), strings.TrimSpace(q.Get("search")), q.Get("page"))
	if err != nil {
		handleJSONError(w, err, "listing authors")
		return
	}

	respondJSON(w, http.StatusOK, authorListResponse{
		Authors: presenters.PresentAuthors(authors),
		Page:    presenters.PresentPage(page),
	})
}

// V1Create handles POST /api/v1/authors
func (c *Authors) V1Create(w http.ResponseWriter, r *http.Request) {
	var params forms.AuthorInput
	if err := parseJSON(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	author, err := c.app.CreateAuthor(r.Context(), params)
	if err != nil {
		handleJSONError(w, err, "creating author")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentAuthor(author))
}

// V1Delete handles DELETE /api/v1/authors/{id}
func (c *Authors) V1Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	if err := c.app.DeleteAuthor(r.Context(), id); err != nil {
		handleJSONError(w, errors.Wrapf(err, "author %d", id), "deleting author")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
