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
	"strconv"
	"strings"

	"github.com/libris/libris/pkg/server/search"
)

// SearchInput is the raw input of the advanced search form
type SearchInput struct {
	Title         string `schema:"title"`
	Author        string `schema:"author"`
	Category      string `schema:"category" validate:"omitempty,number"`
	ISBN          string `schema:"isbn"`
	AvailableOnly string `schema:"available_only"`
	YearMin       string `schema:"year_min" validate:"omitempty,number"`
	YearMax       string `schema:"year_max" validate:"omitempty,number"`
	Page          string `schema:"page"`
}

// IsEmpty reports whether the form was submitted without any criterion
func (in SearchInput) IsEmpty() bool {
	in.Page = ""
	return in == SearchInput{}
}

// isChecked interprets a checkbox value
func isChecked(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

// parseOptionalInt reads an optional year. A value the validator let through
// but that does not fit an int is reported on the field.
func parseOptionalInt(errs *Errors, field, s string) *int {
	if s == "" || errs.Field(field) != nil {
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		errs.AddField(field, "Enter a whole number.")
		return nil
	}
	return &n
}

// Search validates the advanced search form and returns the criteria it describes
func (v *Validator) Search(in SearchInput) (search.BookCriteria, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Category = strings.TrimSpace(in.Category)
	in.ISBN = NormalizeISBN(in.ISBN)
	in.YearMin = strings.TrimSpace(in.YearMin)
	in.YearMax = strings.TrimSpace(in.YearMax)

	errs := v.check(in)

	crit := search.BookCriteria{
		Title:         in.Title,
		Author:        in.Author,
		ISBN:          in.ISBN,
		AvailableOnly: isChecked(in.AvailableOnly),
		YearMin:       parseOptionalInt(errs, "year_min", in.YearMin),
		YearMax:       parseOptionalInt(errs, "year_max", in.YearMax),
	}
	if in.Category != "" && errs.Field("category") == nil {
		id, err := strconv.ParseUint(in.Category, 10, 64)
		if err != nil {
			errs.AddField("category", "Select a valid category.")
		}
		crit.CategoryID = uint(id)
	}

	if crit.YearMin != nil && crit.YearMax != nil && *crit.YearMin > *crit.YearMax {
		errs.AddForm("The minimum year cannot be greater than the maximum year.")
	}

	if err := errs.Err(); err != nil {
		return search.BookCriteria{}, err
	}

	return crit, nil
}
