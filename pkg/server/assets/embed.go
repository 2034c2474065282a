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

// Package assets embeds the stylesheet and the static error page served by
// the web app
package assets

import (
	"embed"
	"io/fs"

	"github.com/pkg/errors"
)

const (
	staticRoot  = "static"
	http500File = "500.html"
)

//go:embed static
var staticFiles embed.FS

// GetStaticFS returns the static files rooted at the directory served
// under /static/
func GetStaticFS() (fs.FS, error) {
	sub, err := fs.Sub(staticFiles, staticRoot)
	if err != nil {
		return nil, errors.Wrap(err, "getting sub filesystem")
	}

	return sub, nil
}

// MustGetHTTP500ErrorPage returns the page written when a handler panics or
// fails without a rendered view
func MustGetHTTP500ErrorPage() []byte {
	ret, err := staticFiles.ReadFile(staticRoot + "/" + http500File)
	if err != nil {
		panic(errors.Wrap(err, "reading the HTTP 500 error page"))
	}

	return ret
}
