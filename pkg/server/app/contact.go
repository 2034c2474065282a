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

	"github.com/libris/libris/pkg/server/forms"
	"github.com/libris/libris/pkg/server/log"
	"github.com/libris/libris/pkg/server/mailer"
	"github.com/pkg/errors"
)

// SendContactMessage validates a contact message and mails it to the library
func (a *App) SendContactMessage(ctx context.Context, in forms.ContactInput) error {
	p, err := a.Validator.Contact(in)
	if err != nil {
		return err
	}

	from, err := GetSenderEmail(a.BaseURL)
	if err != nil {
		return errors.Wrap(err, "getting the sender email")
	}

	data := mailer.ContactTmplData{
		Name:    p.Name,
		Email:   p.Email,
		Subject: p.Subject,
		Message: p.Message,
	}
	if err := a.EmailBackend.SendEmail(mailer.EmailTypeContact, from, []string{a.LibraryEmail}, data); err != nil {
		return errors.Wrap(err, "sending the contact message")
	}

	log.WithFields(log.Fields{
		"subject": p.Subject,
	}).Info("contact message sent")

	return nil
}
