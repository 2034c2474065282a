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
	"os"

	"github.com/libris/libris/pkg/server/app"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var importExample = `
  # import a YAML catalog
  libris-server import --file catalog.yml

  # into a PostgreSQL database
  libris-server import --file catalog.yml --dbDriver postgres --databaseUrl postgres://localhost/libris`

func newImportCmd(o *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "import",
		Short:   "Import categories, authors and books from a YAML catalog",
		Example: importExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, o, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the catalog file (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runImport(cmd *cobra.Command, o *options, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening the catalog file")
	}
	defer f.Close()

	doc, err := app.DecodeCatalog(f)
	if err != nil {
		return err
	}

	a, _, cleanup, err := setupApp(o.params)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := a.ImportCatalog(cmd.Context(), doc)
	if err != nil {
		return errors.Wrap(err, "importing the catalog")
	}

	out := newConsole(cmd)
	out.Successf("Imported %s", path)
	out.Plainf("categories created: %d", res.CategoriesCreated)
	out.Plainf("authors created: %d", res.AuthorsCreated)
	out.Plainf("books created: %d", res.BooksCreated)
	if res.BooksSkipped > 0 {
		out.Warnf("%d book(s) already in the catalog were skipped", res.BooksSkipped)
	}

	return nil
}
