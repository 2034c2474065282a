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
	"gopkg.in/gomail.v2"
)

type mockDialer struct {
	sentMessages []*gomail.Message
	err          error
}

func (m *mockDialer) DialAndSend(msgs ...*gomail.Message) error {
	m.sentMessages = append(m.sentMessages, msgs...)
	return m.err
}

func TestDefaultBackendSendEmail(t *testing.T) {
	t.Run("sends one message", func(t *testing.T) {
		mock := &mockDialer{}
		backend := &DefaultBackend{Dialer: mock, Templates: NewTemplates()}

		data := LoanReceiptTmplData{
			BorrowerName: "Jean Valjean",
			BookTitle:    "Les Misérables",
			Reference:    "01HZY8J6W4XK9T3B7Q2M5N1R0C",
			BorrowedAt:   time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC),
			DueAt:        time.Date(2025, time.March, 24, 9, 0, 0, 0, time.UTC),
		}
		if err := backend.SendEmail(EmailTypeLoanReceipt, "noreply@libris.org", []string{"jean@valjean.fr"}, data); err != nil {
			t.Fatal(errors.Wrap(err, "sending"))
		}

		assert.Equal(t, len(mock.sentMessages), 1, "sent count mismatch")
		msg := mock.sentMessages[0]
		assert.DeepEqual(t, msg.GetHeader("To"), []string{"jean@valjean.fr"}, "recipient mismatch")
		assert.DeepEqual(t, msg.GetHeader("Subject"), []string{"Your loan of Les Misérables"}, "subject mismatch")
	})

	t.Run("contact message replies to the sender", func(t *testing.T) {
		mock := &mockDialer{}
		backend := &DefaultBackend{Dialer: mock, Templates: NewTemplates()}

		data := ContactTmplData{Name: "Cosette", Email: "cosette@example.org", Subject: "Hours", Message: "When do you open on Sunday?"}
		if err := backend.SendEmail(EmailTypeContact, "noreply@libris.org", []string{"desk@libris.org"}, data); err != nil {
			t.Fatal(errors.Wrap(err, "sending"))
		}

		replyTo := mock.sentMessages[0].GetHeader("Reply-To")
		assert.Equal(t, len(replyTo), 1, "reply-to count mismatch")
		assert.Equal(t, strings.Contains(replyTo[0], "cosette@example.org"), true, "reply-to mismatch")
	})

	t.Run("dialer failure", func(t *testing.T) {
		mock := &mockDialer{err: errors.New("connection refused")}
		backend := &DefaultBackend{Dialer: mock, Templates: NewTemplates()}

		err := backend.SendEmail(EmailTypeContact, "noreply@libris.org", []string{"desk@libris.org"}, ContactTmplData{})
		assert.NotEqual(t, err, nil, "expected an error")
	})

	t.Run("unknown template", func(t *testing.T) {
		mock := &mockDialer{}
		backend := &DefaultBackend{Dialer: mock, Templates: NewTemplates()}

		err := backend.SendEmail("newsletter", "noreply@libris.org", []string{"desk@libris.org"}, nil)
		assert.NotEqual(t, err, nil, "expected an error")
		assert.Equal(t, len(mock.sentMessages), 0, "nothing should be sent")
	})
}

func TestNewBackend(t *testing.T) {
	t.Run("smtp configured", func(t *testing.T) {
		t.Setenv("SmtpHost", "smtp.example.com")
		t.Setenv("SmtpPort", "587")
		t.Setenv("SmtpUsername", "user@example.com")
		t.Setenv("SmtpPassword", "secret")

		b, err := NewBackend()
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating backend"))
		}

		_, ok := b.(*DefaultBackend)
		assert.Equal(t, ok, true, "expected the SMTP backend")
	})

	t.Run("smtp not configured", func(t *testing.T) {
		t.Setenv("SmtpHost", "")
		t.Setenv("SmtpPort", "")

		b, err := NewBackend()
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating backend"))
		}

		_, ok := b.(*StdoutBackend)
		assert.Equal(t, ok, true, "expected the stdout backend")
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Setenv("SmtpHost", "smtp.example.com")
		t.Setenv("SmtpPort", "smtp")

		_, err := NewBackend()
		assert.NotEqual(t, err, nil, "expected an error")
	})
}
