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

package forms

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gorilla/schema"
	"github.com/pkg/errors"
)

// Errors is the outcome of a failed validation. Field errors are keyed by
// input name and form errors concern the input as a whole.
type Errors struct {
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

// NewErrors returns an empty set of errors
func NewErrors() *Errors {
	return &Errors{Fields: map[string][]string{}}
}

// AddField records an error against the named input
func (e *Errors) AddField(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}

	e.Fields[field] = append(e.Fields[field], msg)
}

// AddForm records an error against the whole input
func (e *Errors) AddForm(msg string) {
	e.Form = append(e.Form, msg)
}

// Empty reports whether no error was recorded
func (e *Errors) Empty() bool {
	return e == nil || (len(e.Fields) == 0 && len(e.Form) == 0)
}

// Field returns the errors of the named input
func (e *Errors) Field(name string) []string {
	if e == nil {
		return nil
	}

	return e.Fields[name]
}

// Err returns the errors as an error, or nil if there are none
func (e *Errors) Err() error {
	if e.Empty() {
		return nil
	}

	return e
}

func (e *Errors) Error() string {
	var parts []string
	parts = append(parts, e.Form...)

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], " ")))
	}

	return "invalid input: " + strings.Join(parts, "; ")
}

// FromDecodeError turns a form decoding failure into field errors. Errors
// that are not about a particular field are returned unchanged.
func FromDecodeError(err error) error {
	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return err
	}

	ret := NewErrors()
	for key, e := range multi {
		var conv schema.ConversionError
		if errors.As(e, &conv) {
			ret.AddField(key, "Enter a valid value.")
			continue
		}

		ret.AddForm(e.Error())
	}

	return ret
}

// RuleError is a business rule violation reported against the whole form
type RuleError struct {
	Rule    error
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

// Cause returns the violated rule
func (e *RuleError) Cause() error {
	return e.Rule
}

// Unwrap returns the violated rule
func (e *RuleError) Unwrap() error {
	return e.Rule
}
