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
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/libris/libris/pkg/server/app"
	"github.com/libris/libris/pkg/server/assets"
	"github.com/libris/libris/pkg/server/log"
	mw "github.com/libris/libris/pkg/server/middleware"
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	WebRoutes   []Route
	APIRoutes   []Route
	// CSRFKey enables the CSRF protection of the web routes when set
	CSRFKey []byte
}

// NewWebRoutes returns a new web routes
func NewWebRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"GET", "/", c.Pages.Home, true},
		{"GET", "/about", c.Pages.AboutView.ServeHTTP, true},
		{"GET", "/contact", c.Pages.NewContact, true},
		{"POST", "/contact", c.Pages.Contact, true},

		{"GET", "/books", c.Books.Index, true},
		{"GET", "/books/search", c.Books.Search, true},
		{"GET", "/books/{id:[0-9]+}", c.Books.Show, true},
		{"GET", "/categories/{id:[0-9]+}", c.Categories.Show, true},
		{"GET", "/authors", c.Authors.Index, true},
		{"GET", "/authors/{id:[0-9]+}", c.Authors.Show, true},

		{"GET", "/loans", c.Loans.Index, true},
		{"GET", "/loans/new", c.Loans.New, true},
		{"POST", "/loans", c.Loans.Create, true},
		{"GET", "/loans/overdue", c.Loans.Overdue, true},
		{"GET", "/loans/{id:[0-9]+}/return", c.Loans.NewReturn, true},
		{"POST", "/loans/{id:[0-9]+}/return", c.Loans.Return, true},

		{"GET", "/health", c.Health.Index, false},
	}
}

// NewAPIRoutes returns a new api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"GET", "/v1/books", c.Books.V1Index, true},
		{"GET", "/v1/books/search", c.Books.V1Search, true},
		{"GET", "/v1/books/{id:[0-9]+}", c.Books.V1Show, true},
		{"POST", "/v1/books", c.Books.V1Create, true},
		{"DELETE", "/v1/books/{id:[0-9]+}", c.Books.V1Delete, true},
		{"GET", "/v1/authors", c.Authors.V1Index, true},
		{"POST", "/v1/authors", c.Authors.V1Create, true},
		{"DELETE", "/v1/authors/{id:[0-9]+}", c.Authors.V1Delete, true},
		{"GET", "/v1/categories", c.Categories.V1Index, true},
		{"POST", "/v1/categories", c.Categories.V1Create, true},
		{"DELETE", "/v1/categories/{id:[0-9]+}", c.Categories.V1Delete, true},
		{"GET", "/v1/loans", c.Loans.V1Index, true},
		{"GET", "/v1/loans/overdue", c.Loans.V1Overdue, true},
		{"POST", "/v1/loans", c.Loans.V1Create, true},
		{"POST", "/v1/loans/{id:[0-9]+}/return", c.Loans.V1Return, true},
	}
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// plaintextHTTP tells the CSRF protection that requests arrive over plain
// HTTP so that it skips the referer checks reserved to TLS.
func plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	log.WithFields(log.Fields{
		"path":   r.URL.Path,
		"reason": fmt.Sprint(csrf.FailureReason(r)),
	}).Warn("csrf check failed")

	http.Error(w, "Forbidden - the form has expired, reload the page and try again", http.StatusForbidden)
}

func useCSRF(router *mux.Router, key []byte, baseURL string) {
	secure := !strings.HasPrefix(baseURL, "http://")
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)

	if !secure {
		router.Use(plaintextHTTP)
	}
	router.Use(protect)
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	apiRouter := router.PathPrefix("/api").Subrouter()
	webRouter := router.PathPrefix("/").Subrouter()
	if len(rc.CSRFKey) > 0 {
		useCSRF(webRouter, rc.CSRFKey, app.BaseURL)
	}
	registerRoutes(apiRouter, mw.APIMw, app, rc.APIRoutes)
	registerRoutes(webRouter, mw.WebMw, app, rc.WebRoutes)

	// static
	staticFs, err := assets.GetStaticFS()
	if err != nil {
		return nil, errors.Wrap(err, "getting the filesystem for static files")
	}

	staticHandler := http.StripPrefix("/static/", http.FileServer(http.FS(staticFs)))
	router.PathPrefix("/static/").Handler(staticHandler)

	router.HandleFunc("/robots.txt", rc.Controllers.Static.RobotsTxt)

	// catch-all
	router.PathPrefix("/").HandlerFunc(rc.Controllers.Static.NotFound)

	return mw.Global(router), nil
}
