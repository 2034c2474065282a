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

	"github.com/libris/libris/pkg/server/database"
	"github.com/libris/libris/pkg/server/search"
	"github.com/pkg/errors"
)

// RecentBooksCount is the number of books shown as recently added
const RecentBooksCount = 6

// Stats is a summary of the catalog and the loans
type Stats struct {
	TotalBooks   int64
	TotalAuthors int64
	ActiveLoans  int64
	OverdueLoans int64
	RecentBooks  []database.Book
}

// GetStats computes the summary shown on the home page
func (a *App) GetStats(ctx context.Context) (Stats, error) {
	var ret Stats
	var err error

	if ret.TotalBooks, err = a.Store.CountBooks(ctx, search.BookListing{}); err != nil {
		return Stats{}, errors.Wrap(err, "counting books")
	}
	if ret.TotalAuthors, err = a.Store.CountAuthors(ctx, search.AuthorListing{}); err != nil {
		return Stats{}, errors.Wrap(err, "counting authors")
	}
	if ret.ActiveLoans, err = a.Store.CountLoans(ctx, search.LoanListing{Status: database.LoanStatusActive}); err != nil {
		return Stats{}, errors.Wrap(err, "counting active loans")
	}
	if ret.OverdueLoans, err = a.Store.CountLoans(ctx, search.OverdueLoans{Now: a.Clock.Now()}); err != nil {
		return Stats{}, errors.Wrap(err, "counting overdue loans")
	}

	page := search.Page{Number: 1, Size: RecentBooksCount, Count: 1}
	if ret.RecentBooks, err = a.Store.ListBooks(ctx, search.RecentBooks{}, page); err != nil {
		return Stats{}, errors.Wrap(err, "listing recent books")
	}

	return ret, nil
}
