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

// Package app implements the loan lifecycle and the catalog administration
// on top of the catalog store.
package app

import (
	"github.com/libris/libris/pkg/clock"
	"github.com/libris/libris/pkg/server/catalog"
	"github.com/libris/libris/pkg/server/database"
	"github.com/libris/libris/pkg/server/forms"
	"github.com/libris/libris/pkg/server/mailer"
	"github.com/pkg/errors"
)

var (
	// ErrEmptyStore is an error for missing catalog store in the app configuration
	ErrEmptyStore = errors.New("No catalog store was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptyValidator is an error for missing validator in the app configuration
	ErrEmptyValidator = errors.New("No validator was provided")
	// ErrEmptyBaseURL is an error for missing BaseURL content in the app configuration
	ErrEmptyBaseURL = errors.New("No BaseURL was provided")
	// ErrEmptyLibraryEmail is an error for missing library address in the app configuration
	ErrEmptyLibraryEmail = errors.New("No LibraryEmail was provided")
	// ErrEmptyEmailBackend is an error for missing EmailBackend content in the app configuration
	ErrEmptyEmailBackend = errors.New("No EmailBackend was provided")
	// ErrEmptyHTTP500Page is an error for missing HTTP 500 page content
	ErrEmptyHTTP500Page = errors.New("No HTTP 500 error page was set")
)

var (
	// ErrNotFound is an error for a record that does not exist
	ErrNotFound = catalog.ErrNotFound
	// ErrBookUnavailable is a rule violation for a loan of a book with no copy left
	ErrBookUnavailable = forms.ErrBookUnavailable
	// ErrLoanLimitReached is a rule violation for a card holding the maximum number of loans
	ErrLoanLimitReached = forms.ErrLoanLimitReached
	// ErrLoanAlreadyReturned is a rule violation for returning a loan twice
	ErrLoanAlreadyReturned = errors.New("loan already returned")
	// ErrReferenced is an error for deleting a record that other records still point to
	ErrReferenced = database.ErrReferenced
	// ErrDuplicate is an error for creating a record that already exists
	ErrDuplicate = database.ErrDuplicate
	// ErrCheckViolated is an error for a write rejected by a table constraint,
	// such as more copies available than owned
	ErrCheckViolated = database.ErrCheckViolated
)

// App is an application context
type App struct {
	Store        catalog.Store
	Clock        clock.Clock
	Validator    *forms.Validator
	EmailBackend mailer.Backend
	HTTP500Page  []byte
	AppEnv       string
	BaseURL      string
	Port         string
	LibraryEmail string
	AssetBaseURL string
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.BaseURL == "" {
		return ErrEmptyBaseURL
	}
	if a.LibraryEmail == "" {
		return ErrEmptyLibraryEmail
	}
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.Validator == nil {
		return ErrEmptyValidator
	}
	if a.EmailBackend == nil {
		return ErrEmptyEmailBackend
	}
	if a.Store == nil {
		return ErrEmptyStore
	}
	if a.HTTP500Page == nil {
		return ErrEmptyHTTP500Page
	}

	return nil
}

func isNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}
