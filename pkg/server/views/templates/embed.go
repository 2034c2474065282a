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

// Package templates holds the HTML templates of the views
package templates

import "embed"

// Files holds the page templates, the layouts and the partials
//
//go:embed *.gohtml layouts/*.gohtml partials/*.gohtml books/*.gohtml authors/*.gohtml categories/*.gohtml loans/*.gohtml static/*.gohtml
var Files embed.FS
