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
	"strings"
	"time"
)

// BookInput describes a catalog entry to create
type BookInput struct {
	Title           string `json:"title" validate:"required,max=255"`
	ISBN            string `json:"isbn" validate:"required,isbn13"`
	PublicationYear int    `json:"publication_year" validate:"pubyear"`
	AuthorID        uint   `json:"author_id" validate:"required"`
	CategoryID      *uint  `json:"category_id"`
	CopiesTotal     int    `json:"copies_total" validate:"min=0"`
	CopiesAvailable int    `json:"copies_available" validate:"min=0,ltefield=CopiesTotal"`
	Publisher       string `json:"publisher" validate:"max=200"`
	Language        string `json:"language" validate:"max=50"`
	Pages           int    `json:"pages" validate:"min=0"`
	Description     string `json:"description"`
	CoverImage      string `json:"cover_image" validate:"max=255"`
}

// Book validates a book input and normalizes its ISBN
func (v *Validator) Book(in BookInput) (BookInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.ISBN = NormalizeISBN(in.ISBN)
	in.Publisher = strings.TrimSpace(in.Publisher)
	in.Language = strings.TrimSpace(in.Language)
	in.Description = strings.TrimSpace(in.Description)
	in.CoverImage = strings.TrimSpace(in.CoverImage)
	if in.CategoryID != nil && *in.CategoryID == 0 {
		in.CategoryID = nil
	}

	if err := v.check(in).Err(); err != nil {
		return BookInput{}, err
	}

	return in, nil
}

// AuthorInput describes an author to create
type AuthorInput struct {
	FirstName   string     `json:"first_name" validate:"required,max=100"`
	LastName    string     `json:"last_name" validate:"required,max=100"`
	BirthDate   *time.Time `json:"birth_date"`
	DeathDate   *time.Time `json:"death_date"`
	Nationality string     `json:"nationality" validate:"max=100"`
	Biography   string     `json:"biography"`
	Website     string     `json:"website" validate:"omitempty,url,max=200"`
	Photo       string     `json:"photo" validate:"max=255"`
}

// Author validates an author input
func (v *Validator) Author(in AuthorInput) (AuthorInput, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Nationality = strings.TrimSpace(in.Nationality)
	in.Biography = strings.TrimSpace(in.Biography)
	in.Website = strings.TrimSpace(in.Website)
	in.Photo = strings.TrimSpace(in.Photo)

	errs := v.check(in)
	if in.BirthDate != nil && in.DeathDate != nil && in.DeathDate.Before(*in.BirthDate) {
		errs.AddField("death_date", "The date of death cannot precede the date of birth.")
	}

	if err := errs.Err(); err != nil {
		return AuthorInput{}, err
	}

	return in, nil
}

// CategoryInput describes a category to create
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"max=255"`
}

// Category validates a category input
func (v *Validator) Category(in CategoryInput) (CategoryInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Image = strings.TrimSpace(in.Image)

	if err := v.check(in).Err(); err != nil {
		return CategoryInput{}, err
	}

	return in, nil
}
