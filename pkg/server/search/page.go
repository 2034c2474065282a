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

package search

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Page sizes of the listings
const (
	BooksPerPage      = 12
	CategoriesPerPage = 12
	AuthorsPerPage    = 20
	LoansPerPage      = 20
)

// Page is a 1-indexed window over a result set
type Page struct {
	Number int
	Size   int
	Total  int64
	Count  int
}

// All is a page holding the whole result set
var All = Page{Number: 1, Count: 1}

// NewPage resolves the requested page against the result size. Pages that
// cannot be parsed or are below one resolve to the first page, pages past
// the end resolve to the last one. An empty result has a single empty page.
func NewPage(raw string, size int, total int64) Page {
	count := 1
	if size > 0 && total > 0 {
		count = int((total + int64(size) - 1) / int64(size))
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		n = 1
	}
	if n > count {
		n = count
	}

	return Page{Number: n, Size: size, Total: total, Count: count}
}

// Offset returns the number of rows before the page
func (p Page) Offset() int {
	if p.Size <= 0 {
		return 0
	}

	return (p.Number - 1) * p.Size
}

// Scope limits a query to the rows of the page
func (p Page) Scope(db *gorm.DB) *gorm.DB {
	if p.Size <= 0 {
		return db
	}

	return db.Offset(p.Offset()).Limit(p.Size)
}

// HasPrevious reports whether a page comes before this one
func (p Page) HasPrevious() bool {
	return p.Number > 1
}

// HasNext reports whether a page comes after this one
func (p Page) HasNext() bool {
	return p.Number < p.Count
}

// Previous returns the previous page number
func (p Page) Previous() int {
	return p.Number - 1
}

// Next returns the next page number
func (p Page) Next() int {
	return p.Number + 1
}

// StartIndex returns the 1-based position of the first row on the page, or
// zero for an empty result
func (p Page) StartIndex() int64 {
	if p.Total == 0 {
		return 0
	}

	return int64(p.Offset()) + 1
}

// EndIndex returns the 1-based position of the last row on the page
func (p Page) EndIndex() int64 {
	if p.Size <= 0 {
		return p.Total
	}

	end := int64(p.Offset() + p.Size)
	if end > p.Total {
		return p.Total
	}

	return end
}
