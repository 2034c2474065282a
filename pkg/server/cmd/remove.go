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
	"context"
	"fmt"

	"github.com/libris/libris/pkg/server/app"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// record is a kind of catalog record that can be removed from the command line
type record struct {
	name   string
	plural string
	// describe returns a short label of the record shown in the confirmation
	describe func(ctx context.Context, a *app.App, id uint) (string, error)
	remove   func(ctx context.Context, a *app.App, id uint) error
}

var authorRecord = record{
	name:   "author",
	plural: "authors",
	describe: func(ctx context.Context, a *app.App, id uint) (string, error) {
		author, books, err := a.AuthorDetail(ctx, id)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%s (%d book(s))", author.FullName(), len(books)), nil
	},
	remove: func(ctx context.Context, a *app.App, id uint) error {
		return a.DeleteAuthor(ctx, id)
	},
}

var categoryRecord = record{
	name:   "category",
	plural: "categories",
	describe: func(ctx context.Context, a *app.App, id uint) (string, error) {
		category, _, page, err := a.CategoryBooks(ctx, id, "")
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%s (%d book(s))", category.Name, page.Total), nil
	},
	remove: func(ctx context.Context, a *app.App, id uint) error {
		return a.DeleteCategory(ctx, id)
	},
}

var bookRecord = record{
	name:   "book",
	plural: "books",
	describe: func(ctx context.Context, a *app.App, id uint) (string, error) {
		book, loans, err := a.BookDetail(ctx, id)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%q (%d open loan(s))", book.Title, len(loans)), nil
	},
	remove: func(ctx context.Context, a *app.App, id uint) error {
		return a.DeleteBook(ctx, id)
	},
}

func newRemoveGroupCmd(o *options, r record) *cobra.Command {
	cmd := &cobra.Command{
		Use:   r.name,
		Short: fmt.Sprintf("Manage %s", r.plural),
	}

	cmd.AddCommand(newRemoveCmd(o, r))

	return cmd
}

func newRemoveCmd(o *options, r record) *cobra.Command {
	var id uint
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove",
		Short:   fmt.Sprintf("Remove a %s", r.name),
		Example: fmt.Sprintf("  libris-server %s remove --id 12", r.name),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, o, r, id, yes)
		},
	}

	f := cmd.Flags()
	f.UintVar(&id, "id", 0, fmt.Sprintf("id of the %s (required)", r.name))
	f.BoolVarP(&yes, "yes", "y", false, "remove without asking for confirmation")
	cmd.MarkFlagRequired("id")

	return cmd
}

func runRemove(cmd *cobra.Command, o *options, r record, id uint, yes bool) error {
	a, _, cleanup, err := setupApp(o.params)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	out := newConsole(cmd)

	label, err := r.describe(ctx, a, id)
	if err != nil {
		if errors.Cause(err) == app.ErrNotFound {
			return errors.Errorf("%s %d not found", r.name, id)
		}
		return errors.Wrapf(err, "finding %s %d", r.name, id)
	}

	ok, err := confirm(cmd, fmt.Sprintf("Remove %s %s?", r.name, label), yes)
	if err != nil {
		return err
	}
	if !ok {
		out.Warnf("Aborted by user")
		return nil
	}

	if err := r.remove(ctx, a, id); err != nil {
		if errors.Cause(err) == app.ErrReferenced {
			return errors.Errorf("%s %d is still referenced by other records", r.name, id)
		}
		return errors.Wrapf(err, "removing %s %d", r.name, id)
	}

	out.Successf("Removed %s %s", r.name, label)
	return nil
}
