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

// Package mailer provides a functionality to send emails
package mailer

import (
	"bytes"
	"fmt"
	"io"
	ttemplate "text/template"
	"time"

	"github.com/libris/libris/pkg/server/mailer/templates"
	"github.com/pkg/errors"
)

var (
	// EmailTypeLoanReceipt represents the receipt sent to a borrower when a loan is created
	EmailTypeLoanReceipt = "loan_receipt"
	// EmailTypeOverdueReminder represents a reminder sent to a borrower whose loan is overdue
	EmailTypeOverdueReminder = "overdue_reminder"
	// EmailTypeContact represents a message from the contact form forwarded to the library
	EmailTypeContact = "contact"
)

var (
	// EmailKindText is the type of text email
	EmailKindText = "text/plain"
)

// tmpl is the common interface shared between Template from
// html/template and text/template
type tmpl interface {
	Execute(wr io.Writer, data interface{}) error
}

// template wraps a template with its subject line. The subject is itself a
// template so that it can mention the book or the sender.
type template struct {
	body    tmpl
	subject tmpl
}

// Templates holds the parsed email templates with their subjects
type Templates map[string]template

func getTemplateKey(name, kind string) string {
	return fmt.Sprintf("%s.%s", name, kind)
}

func (t Templates) get(name, kind string) (template, error) {
	ret, ok := t[getTemplateKey(name, kind)]
	if !ok {
		return template{}, errors.Errorf("unsupported template '%s' with type '%s'", name, kind)
	}

	return ret, nil
}

var subjects = map[string]string{
	EmailTypeLoanReceipt:     "Your loan of {{ .BookTitle }}",
	EmailTypeOverdueReminder: "{{ .BookTitle }} is overdue",
	EmailTypeContact:         "[Contact] {{ .Subject }}",
}

// NewTemplates initializes templates
func NewTemplates() Templates {
	T := Templates{}

	for name, subject := range subjects {
		body, err := initTextTmpl(name)
		if err != nil {
			panic(errors.Wrapf(err, "initializing %s template", name))
		}

		s, err := ttemplate.New(name + "_subject").Parse(subject)
		if err != nil {
			panic(errors.Wrapf(err, "parsing %s subject", name))
		}

		T[getTemplateKey(name, EmailKindText)] = template{body: body, subject: s}
	}

	return T
}

// initTextTmpl returns a template instance by parsing the template with the given name
func initTextTmpl(templateName string) (tmpl, error) {
	filename := fmt.Sprintf("%s.txt", templateName)

	content, err := templates.Files.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading template")
	}

	t := ttemplate.New(templateName).Funcs(ttemplate.FuncMap{
		"date": func(t time.Time) string {
			return t.Format("2 January 2006")
		},
	})
	if _, err = t.Parse(string(content)); err != nil {
		return nil, errors.Wrap(err, "parsing template")
	}

	return t, nil
}

// Execute executes the template and returns the subject, body, and any error
func (t Templates) Execute(name, kind string, data any) (subject, body string, err error) {
	tpl, err := t.get(name, kind)
	if err != nil {
		return "", "", errors.Wrap(err, "getting template")
	}

	subjectBuf := new(bytes.Buffer)
	if err := tpl.subject.Execute(subjectBuf, data); err != nil {
		return "", "", errors.Wrap(err, "executing the subject")
	}

	bodyBuf := new(bytes.Buffer)
	if err := tpl.body.Execute(bodyBuf, data); err != nil {
		return "", "", errors.Wrap(err, "executing the template")
	}

	return subjectBuf.String(), bodyBuf.String(), nil
}
