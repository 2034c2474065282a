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

package app

import (
	"github.com/libris/libris/pkg/clock"
	"github.com/libris/libris/pkg/server/assets"
	"github.com/libris/libris/pkg/server/forms"
	"github.com/libris/libris/pkg/server/testutils"
)

// NewTest returns an app for a testing environment. The caller provides the store.
func NewTest() App {
	c := clock.NewMock()

	return App{
		Clock:        c,
		Validator:    forms.New(c),
		EmailBackend: &testutils.MockEmailbackendImplementation{},
		HTTP500Page:  assets.MustGetHTTP500ErrorPage(),
		AppEnv:       "TEST",
		BaseURL:      "http://localhost:3001",
		Port:         "3000",
		LibraryEmail: "contact@libris.org",
		AssetBaseURL: "",
	}
}
