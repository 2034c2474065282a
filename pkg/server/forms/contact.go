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

package forms

import "strings"

// ContactInput is the raw input of the contact form
type ContactInput struct {
	Name    string `schema:"name" json:"name" validate:"required,max=100"`
	Email   string `schema:"email" json:"email" validate:"required,max=254,email"`
	Subject string `schema:"subject" json:"subject" validate:"required,max=200"`
	Message string `schema:"message" json:"message" validate:"required,min=10"`
}

// Contact validates the contact form
func (v *Validator) Contact(in ContactInput) (ContactInput, error) {
	in = ContactInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}

	if err := v.check(in).Err(); err != nil {
		return ContactInput{}, err
	}

	return in, nil
}
