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
	"github.com/libris/libris/pkg/server/app"
	"github.com/libris/libris/pkg/server/views"
)

// Controllers is a group of controllers
type Controllers struct {
	Books      *Books
	Authors    *Authors
	Categories *Categories
	Loans      *Loans
	Pages      *Pages
	Static     *Static
	Health     *Health
}

// New returns a new group of controllers
func New(app *app.App) *Controllers {
	c := Controllers{}

	viewEngine := views.NewDefaultEngine()

	c.Static = NewStatic(app, viewEngine)
	pages := errorPages{NotFoundView: c.Static.NotFoundView}

	c.Books = NewBooks(app, viewEngine, pages)
	c.Authors = NewAuthors(app, viewEngine, pages)
	c.Categories = NewCategories(app, viewEngine, pages)
	c.Loans = NewLoans(app, viewEngine, pages)
	c.Pages = NewPages(app, viewEngine, pages)
	c.Health = NewHealth(app)

	return &c
}
