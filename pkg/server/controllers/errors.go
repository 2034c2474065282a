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
	"encoding/json"
	"net/http"

	"github.com/libris/libris/pkg/server/app"
	"github.com/libris/libris/pkg/server/forms"
	"github.com/libris/libris/pkg/server/log"
	"github.com/libris/libris/pkg/server/views"
	"github.com/pkg/errors"
)

var (
	// errBadPayload is an error for a request body that cannot be decoded
	errBadPayload = errors.New("malformed payload")
	// errEmptyBody is an error for a request without a body
	errEmptyBody = errors.New("empty request body")
)

func getStatusCode(err error) int {
	var errs *forms.Errors
	if errors.As(err, &errs) {
		return http.StatusBadRequest
	}

	switch errors.Cause(err) {
	case errBadPayload, errEmptyBody:
		return http.StatusBadRequest
	case app.ErrNotFound:
		return http.StatusNotFound
	case app.ErrBookUnavailable, app.ErrLoanLimitReached, app.ErrLoanAlreadyReturned:
		return http.StatusConflict
	case app.ErrReferenced, app.ErrDuplicate, app.ErrCheckViolated:
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

func publicMessage(err error, statusCode int) string {
	var errs *forms.Errors
	if errors.As(err, &errs) {
		return "invalid input"
	}

	var ruleErr *forms.RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr.Message
	}

	switch errors.Cause(err) {
	case app.ErrReferenced:
		return "the record is still referenced"
	case app.ErrDuplicate:
		return "the record already exists"
	case app.ErrCheckViolated:
		return "the record conflicts with the current state"
	}

	if statusCode >= 500 {
		return http.StatusText(statusCode)
	}

	return errors.Cause(err).Error()
}

// errorPages renders the failures of the HTML handlers
type errorPages struct {
	NotFoundView *views.View
}

// handleHTMLError logs the error if it is an internal server error and
// renders the view with an alert describing the error. Missing records
// render the not found page instead.
func (p errorPages) handleHTMLError(w http.ResponseWriter, r *http.Request, err error, msg string, v *views.View, d views.Data) {
	statusCode := getStatusCode(err)
	if statusCode >= 500 {
		log.WithFields(log.Fields{
			"path": r.URL.Path,
		}).ErrorWrap(err, msg)
	}

	if statusCode == http.StatusNotFound && p.NotFoundView != nil {
		p.NotFoundView.Render(w, r, nil, http.StatusNotFound)
		return
	}

	d.SetAlert(err, v.AlertInBody)
	v.Render(w, r, &d, statusCode)
}

type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

// handleJSONError logs the error if it is an internal server error and
// responds with a JSON description of the error
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	statusCode := getStatusCode(err)
	if statusCode >= 500 {
		log.ErrorWrap(err, msg)
	}

	resp := errorResponse{Error: publicMessage(err, statusCode)}

	var errs *forms.Errors
	if errors.As(err, &errs) {
		resp.Fields = errs.Fields
		resp.Form = errs.Form
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.ErrorWrap(err, "encoding error response")
	}
}
