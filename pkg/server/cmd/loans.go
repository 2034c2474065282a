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

package cmd

import (
	"sort"

	"github.com/libris/libris/pkg/server/app"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const dueDateLayout = "2006-01-02"

func newLoansCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Manage loans",
	}

	cmd.AddCommand(
		newLoansOverdueCmd(o),
		newLoansMarkLateCmd(o),
		newLoansReturnCmd(o),
	)

	return cmd
}

func newLoansOverdueCmd(o *options) *cobra.Command {
	var notify bool

	cmd := &cobra.Command{
		Use:     "overdue",
		Short:   "List the loans past their due date",
		Example: "  libris-server loans overdue --notify",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoansOverdue(cmd, o, notify)
		},
	}

	cmd.Flags().BoolVar(&notify, "notify", false, "email a reminder to every late borrower")

	return cmd
}

func runLoansOverdue(cmd *cobra.Command, o *options, notify bool) error {
	a, _, cleanup, err := setupApp(o.params)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	out := newConsole(cmd)

	loans, err := a.ListOverdue(ctx)
	if err != nil {
		return err
	}
	if len(loans) == 0 {
		out.Successf("No overdue loans")
		return nil
	}

	now := a.Clock.Now()
	out.Warnf("%d overdue loan(s)", len(loans))
	for _, l := range loans {
		out.Plainf("(%d) %s - %s <%s>, due %s, %d day(s) late",
			l.ID, l.Book.Title, l.BorrowerName, l.BorrowerEmail, l.DueAt.Format(dueDateLayout), l.DaysOverdue(now))
	}

	if !notify {
		return nil
	}

	sent, err := a.SendOverdueReminders(ctx)
	if err != nil {
		return err
	}
	out.Successf("Sent %d reminder(s)", sent)
	if sent < len(loans) {
		out.Warnf("%d reminder(s) could not be sent, see the log", len(loans)-sent)
	}

	return nil
}

func newLoansMarkLateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mark-late",
		Short: "Flag the active loans past their due date as late",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, cleanup, err := setupApp(o.params)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := a.MarkLateLoans(cmd.Context())
			if err != nil {
				return err
			}

			newConsole(cmd).Successf("Marked %d loan(s) as late", n)
			return nil
		},
	}
}

func newLoansReturnCmd(o *options) *cobra.Command {
	var ids []uint

	cmd := &cobra.Command{
		Use:   "return",
		Short: "Return one or more loans",
		Example: `  libris-server loans return --id 4
  libris-server loans return --id 4,7,9`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoansReturn(cmd, o, ids)
		},
	}

	cmd.Flags().UintSliceVar(&ids, "id", nil, "id of a loan to return, repeatable (required)")
	cmd.MarkFlagRequired("id")

	return cmd
}

func runLoansReturn(cmd *cobra.Command, o *options, ids []uint) error {
	a, _, cleanup, err := setupApp(o.params)
	if err != nil {
		return err
	}
	defer cleanup()

	res := a.BulkReturn(cmd.Context(), ids)

	out := newConsole(cmd)
	for _, l := range res.Returned {
		out.Successf("Returned loan %d (%s)", l.ID, l.Book.Title)
	}

	failed := make([]uint, 0, len(res.Failed))
	for id := range res.Failed {
		failed = append(failed, id)
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })

	for _, id := range failed {
		out.Errorf("Loan %d: %s", id, describeReturnError(res.Failed[id]))
	}

	if len(failed) > 0 {
		return errors.Errorf("%d of %d loan(s) could not be returned", len(failed), len(ids))
	}

	return nil
}

func describeReturnError(err error) string {
	switch errors.Cause(err) {
	case app.ErrNotFound:
		return "not found"
	case app.ErrLoanAlreadyReturned:
		return "already returned"
	default:
		return err.Error()
	}
}
