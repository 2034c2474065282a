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

package database

import (
	"strings"
	"time"
)

// Model is the base model definition
type Model struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Author is a model for a book author. The first and last name pair is unique.
type Author struct {
	Model
	FirstName   string `gorm:"size:100;not null;uniqueIndex:idx_authors_full_name"`
	LastName    string `gorm:"size:100;not null;uniqueIndex:idx_authors_full_name;index"`
	BirthDate   *time.Time
	DeathDate   *time.Time
	Nationality string `gorm:"size:100"`
	Biography   string
	Website     string `gorm:"size:200"`
	Photo       string `gorm:"size:255"`
}

// FullName returns the display name of the author
func (a Author) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Category is a model for a book category
type Category struct {
	Model
	Name        string `gorm:"size:100;not null;uniqueIndex"`
	Description string
	Image       string `gorm:"size:255"`
}

// Book is a model for a catalog entry. ISBN is stored as 13 digits.
type Book struct {
	Model
	Title           string    `gorm:"size:255;not null;index"`
	ISBN            string    `gorm:"column:isbn;size:13;not null;uniqueIndex"`
	PublicationYear int       `gorm:"not null"`
	AuthorID        uint      `gorm:"not null;index"`
	Author          Author    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CategoryID      *uint     `gorm:"index"`
	Category        *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	CopiesTotal     int       `gorm:"not null;check:chk_books_copies,copies_available >= 0 AND copies_available <= copies_total"`
	CopiesAvailable int       `gorm:"not null"`
	Publisher       string    `gorm:"size:200"`
	Language        string    `gorm:"size:50"`
	Pages           int
	Description     string
	CoverImage      string `gorm:"size:255"`
}

// IsAvailable reports whether at least one copy can be lent
func (b Book) IsAvailable() bool {
	return b.CopiesAvailable > 0
}

// Loan is a model for a book lent to a borrower
type Loan struct {
	Model
	Reference          string    `gorm:"size:26;not null;uniqueIndex"`
	BookID             uint      `gorm:"not null;index"`
	Book               Book      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	BorrowerName       string    `gorm:"size:200;not null"`
	BorrowerEmail      string    `gorm:"size:254;not null"`
	BorrowerCardNumber string    `gorm:"size:8;not null;index"`
	BorrowedAt         time.Time `gorm:"not null"`
	DueAt              time.Time `gorm:"not null"`
	ReturnedAt         *time.Time
	Status             string `gorm:"size:20;not null;index"`
	Comments           string
}

// IsOpen reports whether the loan still holds a copy of the book
func (l Loan) IsOpen() bool {
	return l.Status == LoanStatusActive || l.Status == LoanStatusLate
}

// IsOverdue reports whether the loan is open and past its due date at the given time
func (l Loan) IsOverdue(now time.Time) bool {
	return l.IsOpen() && l.DueAt.Before(now)
}

// DaysOverdue returns the number of whole days the loan is past due, or zero
func (l Loan) DaysOverdue(now time.Time) int {
	if !l.IsOverdue(now) {
		return 0
	}

	return int(now.Sub(l.DueAt).Hours() / 24)
}
