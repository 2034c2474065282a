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

	"github.com/libris/libris/pkg/server/app"
	"github.com/libris/libris/pkg/server/forms"
	"github.com/libris/libris/pkg/server/presenters"
	"github.com/libris/libris/pkg/server/views"
	"github.com/pkg/errors"
)

// NewCategories creates a new Categories controller.
// It panics if the necessary templates are not parsed.
func NewCategories(a *app.App, viewEngine *views.Engine, pages errorPages) *Categories {
	return &Categories{
		ShowView:   viewEngine.NewView(a, views.Config{}, "categories/show"),
		app:        a,
		errorPages: pages,
	}
}

// Categories is a category controller.
type Categories struct {
	ShowView *views.View

	app *app.App
	errorPages
}

// Show handles GET /categories/{id}
func (c *Categories) Show(w http.ResponseWriter, r *http.Request) {
	vd := views.Data{}

	id, err := parseID(r)
	if err != nil {
		c.handleHTMLError(w, r, err, "parsing id", c.ShowView, vd)
		return
	}

	category, books, page, err := c.app.CategoryBooks(r.Context(), id, r.URL.Query().Get("page"))
	if err != nil {
		c.handleHTMLError(w, r, err, "getting category", c.ShowView, vd)
		return
	}

	vd.Title = category.Name
	vd.Yield = map[string]interface{}{
		"Category": category,
		"Books":    books,
		"Page":     page,
	}
	c.ShowView.Render(w, r, &vd, http.StatusOK)
}

type categoryListResponse struct {
	Categories []presenters.Category `json:"categories"`
	Page       presenters.Page       `json:"page"`
}

// V1Index handles GET /api/v1/categories
func (c *Categories) V1Index(w http.ResponseWriter, r *http.Request) {
	categories, page, err := c.app.ListCategories(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		handleJSONError(w, err, "listing categories")
		return
	}

	respondJSON(w, http.StatusOK, categoryListResponse{
		Categories: presenters.PresentCategories(categories),
		Page:       presenters.PresentPage(page),
	})
}

// V1Create handles POST /api/v1/categories
func (c *Categories) V1Create(w http.ResponseWriter, r *http.Request) {
	var params forms.CategoryInput
	if err := parseJSON(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	category, err := c.app.CreateCategory(r.Context(), params)
	if err != nil {
		handleJSONError(w, err, "creating category")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentCategory(category))
}

// V1Delete handles DELETE /api/v1/categories/{id}
func (c *Categories) V1Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleJSONError(w, err, "parsing id")
		return
	}

	if err := c.app.DeleteCategory(r.Context(), id); err != nil {
		handleJSONError(w, errors.Wrapf(err, "category %d", id), "deleting category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
