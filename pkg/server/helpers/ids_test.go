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

package helpers

import (
	"testing"
	"time"

	"github.com/libris/libris/pkg/assert"
)

func TestGenUUID(t *testing.T) {
	id, err := GenUUID()
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, ValidateUUID(id), true, "generated uuid should be valid")
	assert.Equal(t, ValidateUUID("not-a-uuid"), false, "garbage should be invalid")
}

func TestGenLoanReference(t *testing.T) {
	at := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	first, err := GenLoanReference(at)
	if err != nil {
		t.Fatal(err)
	}
	second, err := GenLoanReference(at)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, len(first), 26, "reference length mismatch")
	assert.Equal(t, ValidateLoanReference(first), true, "reference should be valid")
	assert.NotEqual(t, first, second, "references should be unique")
	assert.Equal(t, first < second, true, "references in the same millisecond should sort in creation order")
	assert.Equal(t, ValidateLoanReference("01HZY8J6W4"), false, "short reference should be invalid")
}
