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

// Package forms validates and normalizes user input. Validation is pure:
// it reads nothing but its arguments and the clock.
package forms

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/libris/libris/pkg/clock"
	"github.com/pkg/errors"
)

// MinPublicationYear is the earliest accepted publication year
const MinPublicationYear = 1450

// borrowerEmailSuffixes are the accepted endings of a borrower email. The
// check is case-sensitive.
var borrowerEmailSuffixes = []string{".fr", ".com", ".org"}

var (
	isbnRe        = regexp.MustCompile(`^\d{13}$`)
	libraryCardRe = regexp.MustCompile(`^\d{8}$`)
	isbnStripper  = strings.NewReplacer("-", "", " ", "")
)

// NormalizeISBN removes the hyphens and spaces of an ISBN
func NormalizeISBN(s string) string {
	return isbnStripper.Replace(strings.TrimSpace(s))
}

// Validator checks inputs against their declared rules
type Validator struct {
	validate *validator.Validate
	clock    clock.Clock
}

// New returns a validator reading the current year from the given clock
func New(c clock.Clock) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(fieldName)

	ret := &Validator{validate: v, clock: c}
	mustRegister(v, "isbn13", func(fl validator.FieldLevel) bool {
		return isbnRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "librarycard", func(fl validator.FieldLevel) bool {
		return libraryCardRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "emailsuffix", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, suffix := range borrowerEmailSuffixes {
			if strings.HasSuffix(s, suffix) {
				return true
			}
		}
		return false
	})
	mustRegister(v, "pubyear", func(fl validator.FieldLevel) bool {
		y := fl.Field().Int()
		return y >= MinPublicationYear && y <= int64(ret.currentYear())
	})

	return ret
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(errors.Wrapf(err, "registering %s", tag))
	}
}

// fieldName names a struct field after its form, JSON or YAML key
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"schema", "json", "yaml"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}

	return f.Name
}

func (v *Validator) currentYear() int {
	return v.clock.Now().Year()
}

// check validates the struct and returns the field errors it found
func (v *Validator) check(s interface{}) *Errors {
	ret := NewErrors()

	err := v.validate.Struct(s)
	if err == nil {
		return ret
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		ret.AddForm(err.Error())
		return ret
	}

	for _, fe := range fieldErrs {
		ret.AddField(fe.Field(), v.message(fe))
	}

	return ret
}

func (v *Validator) message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "emailsuffix":
		return "The email must end with .fr, .com or .org."
	case "isbn13":
		return "The ISBN must contain exactly 13 digits."
	case "librarycard":
		return "The card number must contain exactly 8 digits."
	case "pubyear":
		return fmt.Sprintf("The publication year must be between %d and %d.", MinPublicationYear, v.currentYear())
	case "number", "numeric":
		return "Enter a whole number."
	case "url":
		return "Enter a valid URL."
	case "min":
		if isString {
			return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "ltefield":
		return "Ensure this value does not exceed the total number of copies."
	default:
		return "Enter a valid value."
	}
}
