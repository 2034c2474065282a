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

// Package middleware provides the http middlewares wrapping every route
package middleware

import (
	"net/http"
	"time"

	"github.com/libris/libris/pkg/server/app"
	"github.com/libris/libris/pkg/server/context"
	"github.com/libris/libris/pkg/server/helpers"
	"github.com/libris/libris/pkg/server/log"
)

// RequestIDHeader is the header carrying the id of a request
const RequestIDHeader = "X-Request-ID"

// Middleware wraps a route handler
type Middleware func(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler

func applyLimit(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler {
	if rateLimit && a.AppEnv != "TEST" {
		return defaultLimiter.Limit(h)
	}

	return h
}

// WebMw is the middleware for the HTML routes
func WebMw(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler {
	return applyLimit(h, a, rateLimit)
}

// APIMw is the middleware for the JSON API routes
func APIMw(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler {
	return applyLimit(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		h(w, r)
	}, a, rateLimit)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging logs every request once it is served
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"request_id": context.RequestID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
			"remote":     lookupIP(r),
		}).Info("request")
	})
}

// RequestID tags the request with an id, reusing the one sent by a proxy if
// any, and echoes it in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !helpers.ValidateUUID(id) {
			var err error
			if id, err = helpers.GenUUID(); err != nil {
				log.ErrorWrap(err, "generating request id")
				id = ""
			}
		}

		if id != "" {
			w.Header().Set(RequestIDHeader, id)
			r = r.WithContext(context.WithRequestID(r.Context(), id))
		}

		next.ServeHTTP(w, r)
	})
}

// Global is the middleware applied to every request
func Global(h http.Handler) http.Handler {
	return RequestID(Logging(h))
}
