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
	"fmt"
	"net/url"
	"strings"

	"github.com/libris/libris/pkg/server/database"
	"github.com/libris/libris/pkg/server/mailer"
	"github.com/pkg/errors"
)

func getDomainFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing url")
	}

	host := u.Hostname()
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host, nil
	}
	domain := parts[len(parts)-2] + "." + parts[len(parts)-1]

	return domain, nil
}

// GetSenderEmail returns the noreply address of the domain the app is served on
func GetSenderEmail(baseURL string) (string, error) {
	domain, err := getDomainFromURL(baseURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing base url")
	}

	return fmt.Sprintf("noreply@%s", domain), nil
}

func (a *App) sendLoanReceipt(loan database.Loan) error {
	from, err := GetSenderEmail(a.BaseURL)
	if err != nil {
		return errors.Wrap(err, "getting the sender email")
	}

	data := mailer.LoanReceiptTmplData{
		BorrowerName: loan.BorrowerName,
		BookTitle:    loan.Book.Title,
		AuthorName:   loan.Book.Author.FullName(),
		Reference:    loan.Reference,
		BorrowedAt:   loan.BorrowedAt,
		DueAt:        loan.DueAt,
		BaseURL:      a.BaseURL,
	}

	if err := a.EmailBackend.SendEmail(mailer.EmailTypeLoanReceipt, from, []string{loan.BorrowerEmail}, data); err != nil {
		return errors.Wrapf(err, "sending loan receipt for %s", loan.Reference)
	}

	return nil
}

func (a *App) sendOverdueReminder(loan database.Loan) error {
	from, err := GetSenderEmail(a.BaseURL)
	if err != nil {
		return errors.Wrap(err, "getting the sender email")
	}

	data := mailer.OverdueReminderTmplData{
		BorrowerName: loan.BorrowerName,
		BookTitle:    loan.Book.Title,
		Reference:    loan.Reference,
		DueAt:        loan.DueAt,
		DaysOverdue:  loan.DaysOverdue(a.Clock.Now()),
		BaseURL:      a.BaseURL,
	}

	if err := a.EmailBackend.SendEmail(mailer.EmailTypeOverdueReminder, from, []string{loan.BorrowerEmail}, data); err != nil {
		return errors.Wrapf(err, "sending overdue reminder for %s", loan.Reference)
	}

	return nil
}
