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
	"github.com/libris/libris/pkg/server/forms"
	"github.com/libris/libris/pkg/server/views"
)

// NewPages creates a new Pages controller.
// It panics if the necessary templates are not parsed.
func NewPages(a *app.App, viewEngine *views.Engine, pages errorPages) *Pages {
	return &Pages{
		HomeView:    viewEngine.NewView(a, views.Config{}, "home"),
		AboutView:   viewEngine.NewView(a, views.Config{Title: "About"}, "about"),
		ContactView: viewEngine.NewView(a, views.Config{Title: "Contact", AlertInBody: true}, "contact"),
		app:         a,
		errorPages:  pages,
	}
}

// Pages is a controller for the pages outside of the catalog
type Pages struct {
	HomeView    *views.View
	AboutView   *views.View
	ContactView *views.View

	app *app.App
	errorPages
}

// Home handles GET /
func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	vd := views.Data{}

	stats, err := p.app.GetStats(r.Context())
	if err != nil {
		p.handleHTMLError(w, r, err, "getting stats", p.HomeView, vd)
		return
	}

	vd.Yield = map[string]interface{}{
		"Stats": stats,
	}
	p.HomeView.Render(w, r, &vd, http.StatusOK)
}

// NewContact handles GET /contact
func (p *Pages) NewContact(w http.ResponseWriter, r *http.Request) {
	vd := views.Data{
		Yield: map[string]interface{}{
			"Form": &forms.ContactInput{},
		},
	}
	p.ContactView.Render(w, r, &vd, http.StatusOK)
}

// Contact handles POST /contact
func (p *Pages) Contact(w http.ResponseWriter, r *http.Request) {
	var form forms.ContactInput
	vd := views.Data{
		Yield: map[string]interface{}{
			"Form": &form,
		},
	}

	if err := parseForm(r, &form); err != nil {
		p.handleHTMLError(w, r, err, "parsing form", p.ContactView, vd)
		return
	}
	if err := p.app.SendContactMessage(r.Context(), form); err != nil {
		p.handleHTMLError(w, r, err, "sending contact message", p.ContactView, vd)
		return
	}

	views.RedirectAlert(w, r, "/", http.StatusFound, views.Alert{
		Level:   views.AlertLvlSuccess,
		Message: fmt.Sprintf("Thank you %s! Your message has been sent. We will get back to you shortly.", form.Name),
	})
}
