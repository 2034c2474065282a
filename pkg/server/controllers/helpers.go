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
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/libris/libris/pkg/server/app"
	"github.com/libris/libris/pkg/server/forms"
	"github.com/libris/libris/pkg/server/log"
	"github.com/pkg/errors"
)

// parseForm decodes the url-encoded body of the request into dst
func parseForm(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(errBadPayload, err.Error())
	}

	return parseValues(r.PostForm, dst)
}

// parseQuery decodes the query string of the request into dst
func parseQuery(r *http.Request, dst interface{}) error {
	return parseValues(r.URL.Query(), dst)
}

func parseValues(values url.Values, dst interface{}) error {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	if err := dec.Decode(dst, values); err != nil {
		return forms.FromDecodeError(err)
	}

	return nil
}

// parseJSON decodes the JSON body of the request into dst
func parseJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errEmptyBody
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}

		return errors.Wrap(errBadPayload, err.Error())
	}

	return nil
}

// respondJSON encodes v as the JSON body of the response
func respondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

// parseID reads the numeric id path variable. Ids that do not fit in a uint
// cannot belong to any record.
func parseID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Wrapf(app.ErrNotFound, "id %q", raw)
	}

	return uint(id), nil
}
