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

// Package testutils provides utilities used in tests
package testutils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/libris/libris/pkg/server/database"
	"github.com/libris/libris/pkg/server/helpers"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InitMemoryDB creates an in-memory SQLite database with the schema initialized.
// Every call gets its own database and foreign keys are enforced.
func InitMemoryDB(t *testing.T) *gorm.DB {
	uuid := MustUUID(t)
	dsn := database.SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate in-memory database: %v", err)
	}

	t.Cleanup(func() {
		database.Close(db)
	})

	return db
}

// MustUUID generates a UUID and fails the test on error
func MustUUID(t *testing.T) string {
	uuid, err := helpers.GenUUID()
	if err != nil {
		t.Fatal(errors.Wrap(err, "Failed to generate UUID"))
	}
	return uuid
}

// MustExec fails the test if the given database query has error
func MustExec(t *testing.T, db *gorm.DB, message string) {
	t.Helper()

	if err := db.Error; err != nil {
		t.Fatalf("%s: %s", message, err.Error())
	}
}

// SetupAuthor creates and returns an author
func SetupAuthor(t *testing.T, db *gorm.DB, firstName, lastName string) database.Author {
	t.Helper()

	a := database.Author{FirstName: firstName, LastName: lastName}
	MustExec(t, db.Create(&a), "preparing author")

	return a
}

// SetupCategory creates and returns a category
func SetupCategory(t *testing.T, db *gorm.DB, name string) database.Category {
	t.Helper()

	c := database.Category{Name: name}
	MustExec(t, db.Create(&c), "preparing category")

	return c
}

var isbnSeq struct {
	sync.Mutex
	n int
}

// NextISBN returns a distinct well-formed ISBN for each call
func NextISBN() string {
	isbnSeq.Lock()
	defer isbnSeq.Unlock()

	isbnSeq.n++
	return fmt.Sprintf("978%010d", isbnSeq.n)
}

// SetupBook creates the given book. A missing ISBN or publication year is filled in.
func SetupBook(t *testing.T, db *gorm.DB, b database.Book) database.Book {
	t.Helper()

	if b.ISBN == "" {
		b.ISBN = NextISBN()
	}
	if b.PublicationYear == 0 {
		b.PublicationYear = 1990
	}
	MustExec(t, db.Omit(clause.Associations).Create(&b), "preparing book")

	return b
}

// SetupLoan creates the given loan. A missing reference is generated and the
// status defaults to active. Copy counts are left untouched.
func SetupLoan(t *testing.T, db *gorm.DB, l database.Loan) database.Loan {
	t.Helper()

	if l.BorrowedAt.IsZero() {
		l.BorrowedAt = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	}
	if l.DueAt.IsZero() {
		l.DueAt = l.BorrowedAt.Add(database.LoanDuration)
	}
	if l.Reference == "" {
		ref, err := helpers.GenLoanReference(l.BorrowedAt)
		if err != nil {
			t.Fatal(errors.Wrap(err, "generating reference"))
		}
		l.Reference = ref
	}
	if l.Status == "" {
		l.Status = database.LoanStatusActive
	}
	if l.BorrowerName == "" {
		l.BorrowerName = "Jean Valjean"
	}
	if l.BorrowerEmail == "" {
		l.BorrowerEmail = "jean@valjean.fr"
	}
	if l.BorrowerCardNumber == "" {
		l.BorrowerCardNumber = "24601000"
	}
	MustExec(t, db.Omit(clause.Associations).Create(&l), "preparing loan")

	return l
}

// HTTPDo makes an HTTP request and returns a response
func HTTPDo(t *testing.T, req *http.Request) *http.Response {
	hc := http.Client{
		// Do not follow redirects so that tests can assert on them
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	res, err := hc.Do(req)
	if err != nil {
		t.Fatal(errors.Wrap(err, "performing http request"))
	}

	return res
}

// MakeReq makes an HTTP request and returns a response
func MakeReq(endpoint string, method, path, data string) *http.Request {
	u := fmt.Sprintf("%s%s", endpoint, path)

	req, err := http.NewRequest(method, u, strings.NewReader(data))
	if err != nil {
		panic(errors.Wrap(err, "constructing http request"))
	}

	return req
}

// MakeFormReq makes an HTTP request with a url-encoded form body
func MakeFormReq(endpoint, method, path string, data url.Values) *http.Request {
	req := MakeReq(endpoint, method, path, data.Encode())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return req
}

// MakeJSONReq makes an HTTP request with the JSON encoding of v as the body
func MakeJSONReq(t *testing.T, endpoint, method, path string, v interface{}) *http.Request {
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(errors.Wrap(err, "marshalling payload"))
	}

	req := MakeReq(endpoint, method, path, string(b))
	req.Header.Set("Content-Type", "application/json")

	return req
}

// ReadBody reads the response body as a string
func ReadBody(t *testing.T, res *http.Response) string {
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading body"))
	}

	return string(b)
}

// ReadJSON decodes the response body into v
func ReadJSON(t *testing.T, res *http.Response, v interface{}) {
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		t.Fatal(errors.Wrap(err, "decoding payload"))
	}
}

// GetCookieByName returns a cookie with the given name
func GetCookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// MockEmail is a mock email data
type MockEmail struct {
	TemplateType string
	From         string
	To           []string
	Data         interface{}
}

// MockEmailbackendImplementation is an email backend that records the emails
// instead of sending them
type MockEmailbackendImplementation struct {
	mu     sync.RWMutex
	Emails []MockEmail
	// Err is returned from SendEmail when set
	Err error
}

// Clear clears the recorded emails
func (b *MockEmailbackendImplementation) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Emails = []MockEmail{}
}

// Sent returns a copy of the recorded emails
func (b *MockEmailbackendImplementation) Sent() []MockEmail {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return append([]MockEmail(nil), b.Emails...)
}

// SendEmail is an implementation of Backend.SendEmail.
func (b *MockEmailbackendImplementation) SendEmail(templateType, from string, to []string, data interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Err != nil {
		return b.Err
	}

	b.Emails = append(b.Emails, MockEmail{
		TemplateType: templateType,
		From:         from,
		To:           to,
		Data:         data,
	})

	return nil
}
