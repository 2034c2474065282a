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

// Package presenters shapes stored records into API responses
package presenters

import (
	"time"

	"github.com/libris/libris/pkg/server/search"
)

const dateLayout = "2006-01-02"

// FormatTS rounds up the given timestamp to the microsecond
// so as to make the times in the responses consistent
func FormatTS(ts time.Time) time.Time {
	return ts.UTC().Round(time.Microsecond)
}

// FormatDate renders an optional calendar date as YYYY-MM-DD
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := t.Format(dateLayout)
	return &s
}

// Page is a result of PresentPage
type Page struct {
	Number int   `json:"number"`
	Size   int   `json:"size"`
	Total  int64 `json:"total"`
	Count  int   `json:"count"`
}

// PresentPage presents a page
func PresentPage(p search.Page) Page {
	return Page{
		Number: p.Number,
		Size:   p.Size,
		Total:  p.Total,
		Count:  p.Count,
	}
}
