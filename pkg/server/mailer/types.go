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

import "time"

// LoanReceiptTmplData is a template data for loan receipt emails
type LoanReceiptTmplData struct {
	BorrowerName string
	BookTitle    string
	AuthorName   string
	Reference    string
	BorrowedAt   time.Time
	DueAt        time.Time
	BaseURL      string
}

// OverdueReminderTmplData is a template data for overdue reminder emails
type OverdueReminderTmplData struct {
	BorrowerName string
	BookTitle    string
	Reference    string
	DueAt        time.Time
	DaysOverdue  int
	BaseURL      string
}

// ContactTmplData is a template data for contact form messages
type ContactTmplData struct {
	Name    string
	Email   string
	Subject string
	Message string
}
