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

// Package views renders the HTML pages
package views

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/libris/libris/pkg/clock"
	"github.com/libris/libris/pkg/server/app"
	"github.com/libris/libris/pkg/server/log"
	"github.com/libris/libris/pkg/server/views/templates"
)

const (
	// TemplateExt is the template extension
	TemplateExt string = ".gohtml"
)

const (
	siteTitle = "Libris"
)

// Config is a view config
type Config struct {
	Title       string
	Layout      string
	HelperFuncs map[string]interface{}
	AlertInBody bool
	Clock       clock.Clock
}

func (c Config) getLayout() string {
	if c.Layout == "" {
		return "base"
	}

	return c.Layout
}

func (c Config) getClock() clock.Clock {
	if c.Clock != nil {
		return c.Clock
	}

	return clock.New()
}

// Engine builds views from a filesystem of templates
type Engine struct {
	filesystem fs.FS
}

// NewEngine returns an engine reading the templates from the given filesystem
func NewEngine(filesystem fs.FS) *Engine {
	return &Engine{filesystem: filesystem}
}

// NewDefaultEngine returns an engine reading the embedded templates
func NewDefaultEngine() *Engine {
	return NewEngine(templates.Files)
}

// NewView parses the layouts, the partials and the named page into a view.
// It panics if the templates cannot be parsed.
func (e *Engine) NewView(a *app.App, c Config, name string) *View {
	if c.Clock == nil && a != nil {
		c.Clock = a.Clock
	}

	funcs := newHelpers(c, a)
	for k, fn := range c.HelperFuncs {
		funcs[k] = fn
	}

	t := template.New(name).Funcs(funcs)
	t = template.Must(t.ParseFS(e.filesystem, "layouts/*"+TemplateExt, "partials/*"+TemplateExt, name+TemplateExt))

	return &View{
		Template:    t,
		Title:       c.Title,
		Layout:      c.getLayout(),
		AlertInBody: c.AlertInBody,
		App:         a,
	}
}

// View holds the information about a view
type View struct {
	Template *template.Template
	Title    string
	Layout   string
	// AlertInBody specifies if alert should be set in the body instead of the header
	AlertInBody bool
	App         *app.App
}

func (v *View) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, nil, http.StatusOK)
}

func (v *View) pageTitle(title string) string {
	if title == "" {
		title = v.Title
	}
	if title == "" {
		return siteTitle
	}

	return fmt.Sprintf("%s | %s", title, siteTitle)
}

// Render is used to render the view with the predefined layout
func (v *View) Render(w http.ResponseWriter, r *http.Request, data *Data, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var vd Data
	if data != nil {
		vd = *data
	}

	if alert := getAlert(r); alert != nil {
		vd.PutAlert(*alert, v.AlertInBody)
		clearAlert(w)
	}

	if vd.Yield == nil {
		vd.Yield = map[string]interface{}{}
	}
	vd.Title = v.pageTitle(vd.Title)
	vd.CurrentPath = r.URL.Path
	vd.Query = r.URL.Query()
	vd.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := v.Template.ExecuteTemplate(&buf, v.Layout, vd); err != nil {
		log.ErrorWrap(err, fmt.Sprintf("executing template for URI '%s'", r.RequestURI))
		w.WriteHeader(http.StatusInternalServerError)
		if v.App != nil {
			w.Write(v.App.HTTP500Page)
		}
		return
	}

	w.WriteHeader(statusCode)
	io.Copy(w, &buf)
}
