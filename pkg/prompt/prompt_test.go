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

package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/libris/libris/pkg/assert"
)

func TestFormatQuestion(t *testing.T) {
	testCases := []struct {
		question   string
		optimistic bool
		expected   string
	}{
		{
			question:   "Remove author 3?",
			optimistic: false,
			expected:   "Remove author 3? (y/N)",
		},
		{
			question:   "Continue?",
			optimistic: true,
			expected:   "Continue? (Y/n)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.question, func(t *testing.T) {
			result := FormatQuestion(tc.question, tc.optimistic)
			assert.Equal(t, result, tc.expected, "formatted question mismatch")
		})
	}
}

func TestReadYesNo(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		optimistic bool
		expected   bool
	}{
		{"pessimistic with y", "y\n", false, true},
		{"pessimistic with YES", "YES\n", false, true},
		{"pessimistic with n", "n\n", false, false},
		{"pessimistic with empty", "\n", false, false},
		{"optimistic with n", "n\n", true, false},
		{"optimistic with empty", "\n", true, true},
		{"optimistic with whitespace", "  \n", true, true},
		{"invalid input defaults to no", "maybe\n", false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ReadYesNo(strings.NewReader(tc.input), tc.optimistic)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			assert.Equal(t, result, tc.expected, "ReadYesNo result mismatch")
		})
	}
}

func TestReadYesNo_Error(t *testing.T) {
	_, err := ReadYesNo(strings.NewReader(""), false)
	if err == nil {
		t.Fatal("expected error when reading from empty reader")
	}
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer

	ok, err := Confirm(strings.NewReader("y\n"), &out, "Remove book 7?", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, ok, true, "confirmation mismatch")
	assert.Equal(t, out.String(), "Remove book 7? (y/N) ", "prompt output mismatch")
}
