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

package database

import "time"

const (
	// LoanStatusPending is a loan that has been requested but not handed out
	LoanStatusPending = "pending"
	// LoanStatusActive is a loan in progress
	LoanStatusActive = "active"
	// LoanStatusReturned is a loan whose book has been brought back
	LoanStatusReturned = "returned"
	// LoanStatusLate is an active loan that an operator marked as late
	LoanStatusLate = "late"
)

// LoanStatuses lists every loan status in display order
var LoanStatuses = []string{
	LoanStatusPending,
	LoanStatusActive,
	LoanStatusReturned,
	LoanStatusLate,
}

// LoanStatusLabels maps a loan status to its human readable label
var LoanStatusLabels = map[string]string{
	LoanStatusPending:  "Pending",
	LoanStatusActive:   "Active",
	LoanStatusReturned: "Returned",
	LoanStatusLate:     "Late",
}

// IsLoanStatus reports whether s is a known loan status
func IsLoanStatus(s string) bool {
	_, ok := LoanStatusLabels[s]
	return ok
}

const (
	// LoanDuration is how long a borrower may keep a book
	LoanDuration = 14 * 24 * time.Hour
	// MaxOpenLoans is the number of pending or active loans a card may hold
	MaxOpenLoans = 5
)
