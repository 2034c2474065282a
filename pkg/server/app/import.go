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
	"io"
	"strings"
	"time"

	"github.com/libris/libris/pkg/server/catalog"
	"github.com/libris/libris/pkg/server/database"
	"github.com/libris/libris/pkg/server/forms"
	"github.com/libris/libris/pkg/server/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const importDateLayout = "2006-01-02"

// CatalogDocument is the YAML document accepted by ImportCatalog
type CatalogDocument struct {
	Categories []ImportedCategory `yaml:"categories"`
	Authors    []ImportedAuthor   `yaml:"authors"`
	Books      []ImportedBook     `yaml:"books"`
}

// ImportedCategory is a category entry of a catalog document
type ImportedCategory struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

// ImportedAuthor is an author entry of a catalog document. Dates are written as YYYY-MM-DD.
type ImportedAuthor struct {
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	BirthDate   string `yaml:"birth_date"`
	DeathDate   string `yaml:"death_date"`
	Nationality string `yaml:"nationality"`
	Biography   string `yaml:"biography"`
	Website     string `yaml:"website"`
	Photo       string `yaml:"photo"`
}

// AuthorRef names the author of an imported book
type AuthorRef struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
}

// ImportedBook is a book entry of a catalog document. Every copy starts on
// the shelf; Copies defaults to one when omitted.
type ImportedBook struct {
	Title           string    `yaml:"title"`
	ISBN            string    `yaml:"isbn"`
	PublicationYear int       `yaml:"publication_year"`
	Author          AuthorRef `yaml:"author"`
	Category        string    `yaml:"category"`
	Copies          *int      `yaml:"copies"`
	Publisher       string    `yaml:"publisher"`
	Language        string    `yaml:"language"`
	Pages           int       `yaml:"pages"`
	Description     string    `yaml:"description"`
	CoverImage      string    `yaml:"cover_image"`
}

// ImportResult counts what an import wrote
type ImportResult struct {
	CategoriesCreated int
	AuthorsCreated    int
	BooksCreated      int
	BooksSkipped      int
}

// DecodeCatalog parses a catalog document
func DecodeCatalog(r io.Reader) (CatalogDocument, error) {
	var doc CatalogDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return doc, nil
		}
		return CatalogDocument{}, errors.Wrap(err, "decoding the catalog")
	}

	return doc, nil
}

func parseImportDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(importDateLayout, s)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing date %q", s)
	}

	return &t, nil
}

// ImportCatalog writes a catalog document in one transaction. Categories and
// authors that already exist are reused and books whose ISBN is already in
// the catalog are skipped, so importing the same document twice is harmless.
func (a *App) ImportCatalog(ctx context.Context, doc CatalogDocument) (ImportResult, error) {
	var res ImportResult

	err := a.Store.Transaction(ctx, func(tx catalog.Store) error {
		res = ImportResult{}

		for i, item := range doc.Categories {
			created, err := a.importCategory(ctx, tx, item)
			if err != nil {
				return errors.Wrapf(err, "category #%d %q", i+1, item.Name)
			}
			if created {
				res.CategoriesCreated++
			}
		}

		for i, item := range doc.Authors {
			created, err := a.importAuthor(ctx, tx, item)
			if err != nil {
				return errors.Wrapf(err, "author #%d %q", i+1, item.LastName)
			}
			if created {
				res.AuthorsCreated++
			}
		}

		for i, item := range doc.Books {
			created, err := a.importBook(ctx, tx, item)
			if err != nil {
				return errors.Wrapf(err, "book #%d %q", i+1, item.Title)
			}
			if created {
				res.BooksCreated++
			} else {
				res.BooksSkipped++
			}
		}

		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	log.WithFields(log.Fields{
		"categories": res.CategoriesCreated,
		"authors":    res.AuthorsCreated,
		"books":      res.BooksCreated,
		"skipped":    res.BooksSkipped,
	}).Info("catalog imported")

	return res, nil
}

func (a *App) importCategory(ctx context.Context, tx catalog.Store, item ImportedCategory) (bool, error) {
	p, err := a.Validator.Category(forms.CategoryInput{
		Name:        item.Name,
		Description: item.Description,
		Image:       item.Image,
	})
	if err != nil {
		return false, err
	}

	_, err = tx.FindCategoryByName(ctx, p.Name)
	if err == nil {
		return false, nil
	}
	if !isNotFound(err) {
		return false, err
	}

	c := database.Category{Name: p.Name, Description: p.Description, Image: p.Image}
	if err := tx.CreateCategory(ctx, &c); err != nil {
		return false, err
	}

	return true, nil
}

func (a *App) importAuthor(ctx context.Context, tx catalog.Store, item ImportedAuthor) (bool, error) {
	birth, err := parseImportDate(item.BirthDate)
	if err != nil {
		return false, err
	}
	death, err := parseImportDate(item.DeathDate)
	if err != nil {
		return false, err
	}

	p, err := a.Validator.Author(forms.AuthorInput{
		FirstName:   item.FirstName,
		LastName:    item.LastName,
		BirthDate:   birth,
		DeathDate:   death,
		Nationality: item.Nationality,
		Biography:   item.Biography,
		Website:     item.Website,
		Photo:       item.Photo,
	})
	if err != nil {
		return false, err
	}

	_, err = tx.FindAuthorByName(ctx, p.FirstName, p.LastName)
	if err == nil {
		return false, nil
	}
	if !isNotFound(err) {
		return false, err
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
	if err := tx.CreateAuthor(ctx, &author); err != nil {
		return false, err
	}

	return true, nil
}

func (a *App) importBook(ctx context.Context, tx catalog.Store, item ImportedBook) (bool, error) {
	firstName := strings.TrimSpace(item.Author.FirstName)
	lastName := strings.TrimSpace(item.Author.LastName)
	author, err := tx.FindAuthorByName(ctx, firstName, lastName)
	if err != nil {
		return false, errors.Wrapf(err, "author %s %s", firstName, lastName)
	}

	var categoryID *uint
	if name := strings.TrimSpace(item.Category); name != "" {
		c, err := tx.FindCategoryByName(ctx, name)
		if err != nil {
			return false, errors.Wrapf(err, "category %s", name)
		}
		categoryID = &c.ID
	}

	copies := 1
	if item.Copies != nil {
		copies = *item.Copies
	}

	p, err := a.Validator.Book(forms.BookInput{
		Title:           item.Title,
		ISBN:            item.ISBN,
		PublicationYear: item.PublicationYear,
		AuthorID:        author.ID,
		CategoryID:      categoryID,
		CopiesTotal:     copies,
		CopiesAvailable: copies,
		Publisher:       item.Publisher,
		Language:        item.Language,
		Pages:           item.Pages,
		Description:     item.Description,
		CoverImage:      item.CoverImage,
	})
	if err != nil {
		return false, err
	}

	_, err = tx.FindBookByISBN(ctx, p.ISBN)
	if err == nil {
		return false, nil
	}
	if !isNotFound(err) {
		return false, err
	}

	book := bookFromInput(p)
	if err := tx.CreateBook(ctx, &book); err != nil {
		return false, err
	}

	return true, nil
}
