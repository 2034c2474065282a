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

package mailer

import (
	"strings"
	"testing"
	"time"

	"github.com/libris/libris/pkg/assert"
	"github.com/pkg/errors"
)

func TestAllTemplatesInitialized(t *testing.T) {
	tmpl := NewTemplates()

	for _, emailType := range []string{EmailTypeLoanReceipt, EmailTypeOverdueReminder, EmailTypeContact} {
		t.Run(emailType, func(t *testing.T) {
			if _, err := tmpl.get(emailType, EmailKindText); err != nil {
				t.Errorf("template %s not initialized: %v", emailType, err)
			}
		})
	}
}

func TestLoanReceiptEmail(t *testing.T) {
	tmpl := NewTemplates()

	dat := LoanReceiptTmplData{
		BorrowerName: "Jean Valjean",
		BookTitle:    "Notre-Dame de Paris",
		AuthorName:   "Victor Hugo",
		Reference:    "01HZY8J6W4XK9T3B7Q2M5N1R0C",
		BorrowedAt:   time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
		DueAt:        time.Date(2025, time.March, 24, 9, 0, 0, 0, time.UTC),
		BaseURL:      "http://localhost:3001",
	}
	subject, body, err := tmpl.Execute(EmailTypeLoanReceipt, EmailKindText, dat)
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}

	assert.Equal(t, subject, "Your loan of Notre-Dame de Paris", "subject mismatch")
	for _, want := range []string{"Jean Valjean", "by Victor Hugo", "24 March 2025", dat.Reference, "http://localhost:3001/books"} {
		assert.Equal(t, strings.Contains(body, want), true, "body should contain "+want)
	}
}

func TestOverdueReminderEmail(t *testing.T) {
	tmpl := NewTemplates()

	dat := OverdueReminderTmplData{
		BorrowerName: "Marius",
		BookTitle:    "Les Contemplations",
		Reference:    "01HZY8J6W4XK9T3B7Q2M5N1R0D",
		DueAt:        time.Date(2025, time.February, 1, 9, 0, 0, 0, time.UTC),
		DaysOverdue:  37,
	}
	subject, body, err := tmpl.Execute(EmailTypeOverdueReminder, EmailKindText, dat)
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}

	assert.Equal(t, subject, "Les Contemplations is overdue", "subject mismatch")
	assert.Equal(t, strings.Contains(body, "37 day(s) late"), true, "body should mention the delay")
	assert.Equal(t, strings.Contains(body, "1 February 2025"), true, "body should mention the due date")
}

func TestContactEmail(t *testing.T) {
	tmpl := NewTemplates()

	dat := ContactTmplData{
		Name:    "Fantine",
		Email:   "fantine@example.fr",
		Subject: "Lost card",
		Message: "I lost my library card, how can I get a new one?",
	}
	subject, body, err := tmpl.Execute(EmailTypeContact, EmailKindText, dat)
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}

	assert.Equal(t, subject, "[Contact] Lost card", "subject mismatch")
	assert.Equal(t, strings.Contains(body, "Fantine <fantine@example.fr>"), true, "body should contain the sender")
	assert.Equal(t, strings.Contains(body, dat.Message), true, "body should contain the message")
}
