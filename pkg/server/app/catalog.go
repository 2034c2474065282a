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
	"context"

	"github.com/libris/libris/pkg/server/database"
	"github.com/libris/libris/pkg/server/forms"
	"github.com/libris/libris/pkg/server/log"
	"github.com/libris/libris/pkg/server/search"
	"github.com/pkg/errors"
)

// ListBooks returns a page of books matching the query
func (a *App) ListBooks(ctx context.Context, q search.Query, rawPage string) ([]database.Book, search.Page, error) {
	total, err := a.Store.CountBooks(ctx, q)
	if err != nil {
		return nil, search.Page{}, errors.Wrap(err, "counting books")
	}

	page := search.NewPage(rawPage, search.BooksPerPage, total)
	books, err := a.Store.ListBooks(ctx, q, page)
	if err != nil {
		return nil, search.Page{}, errors.Wrap(err, "listing books")
	}

	return books, page, nil
}

// SearchBooks validates the advanced search input and returns the matching
// page of books. An empty search matches every book.
func (a *App) SearchBooks(ctx context.Context, in forms.SearchInput) (search.BookCriteria, []database.Book, search.Page, error) {
	criteria, err := a.Validator.Search(in)
	if err != nil {
		return search.BookCriteria{}, nil, search.Page{}, err
	}
	books, page, err := a.ListBooks(ctx, criteria, in.Page)
	if err != nil {
		return search.BookCriteria{}, nil, search.Page{}, err
	}

	return criteria, books, page, nil
}

// BookDetail returns a book with its loans currently out
func (a *App) BookDetail(ctx context.Context, id uint) (database.Book, []database.Loan, error) {
	book, err := a.Store.FindBook(ctx, id)
	if err != nil {
		return database.Book{}, nil, errors.Wrapf(err, "finding book %d", id)
	}

	loans, err := a.Store.ListLoans(ctx, search.OpenBookLoans{BookID: id}, search.All)
	if err != nil {
		return database.Book{}, nil, errors.Wrap(err, "listing open loans")
	}

	return book, loans, nil
}

// AvailableBooks returns every book with at least one copy on the shelf
func (a *App) AvailableBooks(ctx context.Context) ([]database.Book, error) {
	books, err := a.Store.ListBooks(ctx, search.BookCriteria{AvailableOnly: true}, search.All)
	if err != nil {
		return nil, errors.Wrap(err, "listing available books")
	}

	return books, nil
}

// ListAuthors returns a page of authors matching the text
func (a *App) ListAuthors(ctx context.Context, text, rawPage string) ([]database.Author, search.Page, error) {
	q := search.AuthorListing{Text: text}

	total, err := a.Store.CountAuthors(ctx, q)
	if err != nil {
		return nil, search.Page{}, errors.Wrap(err, "counting authors")
	}

	page := search.NewPage(rawPage, search.AuthorsPerPage, total)
	authors, err := a.Store.ListAuthors(ctx, q, page)
	if err != nil {
		return nil, search.Page{}, errors.Wrap(err, "listing authors")
	}

	return authors, page, nil
}

// AuthorDetail returns an author with all of their books, newest first
func (a *App) AuthorDetail(ctx context.Context, id uint) (database.Author, []database.Book, error) {
	author, err := a.Store.FindAuthor(ctx, id)
	if err != nil {
		return database.Author{}, nil, errors.Wrapf(err, "finding author %d", id)
	}

	books, err := a.Store.ListBooks(ctx, search.BooksByAuthor{AuthorID: id}, search.All)
	if err != nil {
		return database.Author{}, nil, errors.Wrap(err, "listing the author's books")
	}

	return author, books, nil
}

// ListCategories returns a page of categories
func (a *App) ListCategories(ctx context.Context, rawPage string) ([]database.Category, search.Page, error) {
	q := search.CategoryListing{}

	total, err := a.Store.CountCategories(ctx, q)
	if err != nil {
		return nil, search.Page{}, errors.Wrap(err, "counting categories")
	}

	page := search.NewPage(rawPage, search.CategoriesPerPage, total)
	categories, err := a.Store.ListCategories(ctx, q, page)
	if err != nil {
		return nil, search.Page{}, errors.Wrap(err, "listing categories")
	}

	return categories, page, nil
}

// AllCategories returns every category by name
func (a *App) AllCategories(ctx context.Context) ([]database.Category, error) {
	categories, err := a.Store.ListCategories(ctx, search.CategoryListing{}, search.All)
	if err != nil {
		return nil, errors.Wrap(err, "listing categories")
	}

	return categories, nil
}

// CategoryBooks returns a category with a page of its books
func (a *App) CategoryBooks(ctx context.Context, id uint, rawPage string) (database.Category, []database.Book, search.Page, error) {
	category, err := a.Store.FindCategory(ctx, id)
	if err != nil {
		return database.Category{}, nil, search.Page{}, errors.Wrapf(err, "finding category %d", id)
	}

	books, page, err := a.ListBooks(ctx, search.BookListing{CategoryID: id}, rawPage)
	if err != nil {
		return database.Category{}, nil, search.Page{}, err
	}

	return category, books, page, nil
}

// CreateAuthor validates and inserts an author
func (a *App) CreateAuthor(ctx context.Context, in forms.AuthorInput) (database.Author, error) {
	p, err := a.Validator.Author(in)
	if err != nil {
		return database.Author{}, err
	}

	author := database.Author{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		BirthDate:   p.BirthDate,
		DeathDate:   p.DeathDate,
		Nationality: p.Nationality,
		Biography:   p.Biography,
		Website:     p.Website,
		Photo:       p.Photo,
	}
	if err := a.Store.CreateAuthor(ctx, &author); err != nil {
		return database.Author{}, errors.Wrap(err, "inserting the author")
	}

	return author, nil
}

// CreateCategory validates and inserts a category
func (a *App) CreateCategory(ctx context.Context, in forms.CategoryInput) (database.Category, error) {
	p, err := a.Validator.Category(in)
	if err != nil {
		return database.Category{}, err
	}

	category := database.Category{
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
	}
	if err := a.Store.CreateCategory(ctx, &category); err != nil {
		return database.Category{}, errors.Wrap(err, "inserting the category")
	}

	return category, nil
}

// CreateBook validates and inserts a book. The author and the category must exist.
func (a *App) CreateBook(ctx context.Context, in forms.BookInput) (database.Book, error) {
	p, err := a.Validator.Book(in)
	if err != nil {
		return database.Book{}, err
	}

	errs := forms.NewErrors()
	author, err := a.Store.FindAuthor(ctx, p.AuthorID)
	if err != nil {
		if !isNotFound(err) {
			return database.Book{}, errors.Wrap(err, "finding the author")
		}
		errs.AddField("author_id", "Select a valid author.")
	}

	var category *database.Category
	if p.CategoryID != nil {
		c, err := a.Store.FindCategory(ctx, *p.CategoryID)
		if err != nil {
			if !isNotFound(err) {
				return database.Book{}, errors.Wrap(err, "finding the category")
			}
			errs.AddField("category_id", "Select a valid category.")
		}
		category = &c
	}

	if err := errs.Err(); err != nil {
		return database.Book{}, err
	}

	book := bookFromInput(p)
	if err := a.Store.CreateBook(ctx, &book); err != nil {
		return database.Book{}, errors.Wrap(err, "inserting the book")
	}

	book.Author = author
	book.Category = category

	return book, nil
}

func bookFromInput(p forms.BookInput) database.Book {
	return database.Book{
		Title:           p.Title,
		ISBN:            p.ISBN,
		PublicationYear: p.PublicationYear,
		AuthorID:        p.AuthorID,
		CategoryID:      p.CategoryID,
		CopiesTotal:     p.CopiesTotal,
		CopiesAvailable: p.CopiesAvailable,
		Publisher:       p.Publisher,
		Language:        p.Language,
		Pages:           p.Pages,
		Description:     p.Description,
		CoverImage:      p.CoverImage,
	}
}

// DeleteAuthor removes an author. It fails with ErrReferenced while the author has books.
func (a *App) DeleteAuthor(ctx context.Context, id uint) error {
	if err := a.Store.DeleteAuthor(ctx, id); err != nil {
		return err
	}

	log.WithFields(log.Fields{"author_id": id}).Info("author deleted")
	return nil
}

// DeleteCategory removes a category. Its books are kept without a category.
func (a *App) DeleteCategory(ctx context.Context, id uint) error {
	if err := a.Store.DeleteCategory(ctx, id); err != nil {
		return err
	}

	log.WithFields(log.Fields{"category_id": id}).Info("category deleted")
	return nil
}

// DeleteBook removes a book. It fails with ErrReferenced while loans point to it.
func (a *App) DeleteBook(ctx context.Context, id uint) error {
	if err := a.Store.DeleteBook(ctx, id); err != nil {
		return err
	}

	log.WithFields(log.Fields{"book_id": id}).Info("book deleted")
	return nil
}
