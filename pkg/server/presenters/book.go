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

package presenters

import (
	"time"

	"github.com/libris/libris/pkg/server/database"
)

// Author is a result of PresentAuthor
type Author struct {
	ID          uint    `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	FullName    string  `json:"full_name"`
	BirthDate   *string `json:"birth_date"`
	DeathDate   *string `json:"death_date"`
	Nationality string  `json:"nationality,omitempty"`
	Biography   string  `json:"biography,omitempty"`
	Website     string  `json:"website,omitempty"`
	Photo       string  `json:"photo,omitempty"`
}

// PresentAuthor presents an author
func PresentAuthor(a database.Author) Author {
	return Author{
		ID:          a.ID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		FullName:    a.FullName(),
		BirthDate:   FormatDate(a.BirthDate),
		DeathDate:   FormatDate(a.DeathDate),
		Nationality: a.Nationality,
		Biography:   a.Biography,
		Website:     a.Website,
		Photo:       a.Photo,
	}
}

// PresentAuthors presents authors
func PresentAuthors(authors []database.Author) []Author {
	ret := []Author{}

	for _, a := range authors {
		ret = append(ret, PresentAuthor(a))
	}

	return ret
}

// Category is a result of PresentCategory
type Category struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// PresentCategory presents a category
func PresentCategory(c database.Category) Category {
	return Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
	}
}

// PresentCategories presents categories
func PresentCategories(categories []database.Category) []Category {
	ret := []Category{}

	for _, c := range categories {
		ret = append(ret, PresentCategory(c))
	}

	return ret
}

// BookAuthor is the author summary embedded in a book
type BookAuthor struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
}

// Book is a result of PresentBook
type Book struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	ISBN            string     `json:"isbn"`
	PublicationYear int        `json:"publication_year"`
	Author          BookAuthor `json:"author"`
	Category        *Category  `json:"category"`
	CopiesTotal     int        `json:"copies_total"`
	CopiesAvailable int        `json:"copies_available"`
	Available       bool       `json:"available"`
	Publisher       string     `json:"publisher,omitempty"`
	Language        string     `json:"language,omitempty"`
	Pages           int        `json:"pages,omitempty"`
	Description     string     `json:"description,omitempty"`
	CoverImage      string     `json:"cover_image,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// PresentBook presents a book. The author and the category are expected to be loaded.
func PresentBook(book database.Book) Book {
	ret := Book{
		ID:              book.ID,
		Title:           book.Title,
		ISBN:            book.ISBN,
		PublicationYear: book.PublicationYear,
		Author: BookAuthor{
			ID:       book.AuthorID,
			FullName: book.Author.FullName(),
		},
		CopiesTotal:     book.CopiesTotal,
		CopiesAvailable: book.CopiesAvailable,
		Available:       book.IsAvailable(),
		Publisher:       book.Publisher,
		Language:        book.Language,
		Pages:           book.Pages,
		Description:     book.Description,
		CoverImage:      book.CoverImage,
		CreatedAt:       FormatTS(book.CreatedAt),
	}
	if book.Category != nil {
		c := PresentCategory(*book.Category)
		ret.Category = &c
	}

	return ret
}

// PresentBooks presents books
func PresentBooks(books []database.Book) []Book {
	ret := []Book{}

	for _, book := range books {
		p := PresentBook(book)
		ret = append(ret, p)
	}

	return ret
}
