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

package views

import (
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/libris/libris/pkg/server/forms"
	"github.com/pkg/errors"
)

const (
	// AlertLvlError is an alert level for error
	AlertLvlError = "danger"
	// AlertLvlWarning is an alert level for warning
	AlertLvlWarning = "warning"
	// AlertLvlInfo is an alert level for info
	AlertLvlInfo = "info"
	// AlertLvlSuccess is an alert level for success
	AlertLvlSuccess = "success"

	// AlertMsgGeneric is a generic message for a server error
	AlertMsgGeneric = "Something went wrong. Please try again."

	alertLevelCookie   = "alert_level"
	alertMessageCookie = "alert_message"
	alertCookieTTL     = 5 * time.Minute
)

// Alert is used to render Bootstrap Alert messages in templates
type Alert struct {
	Level   string
	Message string
}

// Data is the top level structure that views expect for data
type Data struct {
	Alert       *Alert
	BodyAlert   *Alert
	Errors      *forms.Errors
	Title       string
	CurrentPath string
	Query       url.Values
	CSRFField   template.HTML
	Yield       map[string]interface{}
}

// FieldErrors returns the validation messages of a form field
func (d Data) FieldErrors(name string) []string {
	return d.Errors.Field(name)
}

// FormErrors returns the validation messages of the whole form
func (d Data) FormErrors() []string {
	if d.Errors == nil {
		return nil
	}

	return d.Errors.Form
}

// PutAlert puts an alert in the data
func (d *Data) PutAlert(alert Alert, alertInBody bool) {
	if alertInBody {
		d.BodyAlert = &alert
	} else {
		d.Alert = &alert
	}
}

// SetAlert sets an alert describing the given error. Validation errors are
// kept for rendering next to the fields; business rule violations are shown
// with their message; anything else gets a generic message.
func (d *Data) SetAlert(err error, alertInBody bool) {
	var errs *forms.Errors
	if errors.As(err, &errs) {
		d.Errors = errs
		d.PutAlert(Alert{Level: AlertLvlError, Message: "Please correct the errors below."}, alertInBody)
		return
	}

	var ruleErr *forms.RuleError
	if errors.As(err, &ruleErr) {
		d.PutAlert(Alert{Level: AlertLvlError, Message: ruleErr.Message}, alertInBody)
		return
	}

	d.PutAlert(Alert{Level: AlertLvlError, Message: AlertMsgGeneric}, alertInBody)
}

// AlertError renders an error alert with the given message
func (d *Data) AlertError(msg string, alertInBody bool) {
	d.PutAlert(Alert{Level: AlertLvlError, Message: msg}, alertInBody)
}

func persistAlert(w http.ResponseWriter, alert Alert) {
	expiresAt := time.Now().Add(alertCookieTTL)

	http.SetCookie(w, &http.Cookie{
		Name:     alertLevelCookie,
		Value:    alert.Level,
		Expires:  expiresAt,
		Path:     "/",
		HttpOnly: true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     alertMessageCookie,
		Value:    url.QueryEscape(alert.Message),
		Expires:  expiresAt,
		Path:     "/",
		HttpOnly: true,
	})
}

func clearAlert(w http.ResponseWriter) {
	for _, name := range []string{alertLevelCookie, alertMessageCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			Path:     "/",
			HttpOnly: true,
		})
	}
}

func getAlert(r *http.Request) *Alert {
	lvl, err := r.Cookie(alertLevelCookie)
	if err != nil {
		return nil
	}
	msg, err := r.Cookie(alertMessageCookie)
	if err != nil {
		return nil
	}

	message, err := url.QueryUnescape(msg.Value)
	if err != nil {
		return nil
	}

	return &Alert{
		Level:   lvl.Value,
		Message: message,
	}
}

// RedirectAlert redirects to the given url and shows the alert on the next page
func RedirectAlert(w http.ResponseWriter, r *http.Request, urlStr string, code int, alert Alert) {
	persistAlert(w, alert)
	http.Redirect(w, r, urlStr, code)
}
