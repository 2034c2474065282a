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

// Package cmd implements the libris-server command line
package cmd

import (
	"github.com/libris/libris/pkg/server/config"
	"github.com/spf13/cobra"
)

// options hold the flag values shared by the commands
type options struct {
	params config.Params
}

// NewRootCmd returns the root command with every subcommand registered
func NewRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:           "libris-server",
		Short:         "Libris - library catalog and loan management",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&o.params.EnvFile, "envFile", "", "env file loaded before reading the configuration (default: .env)")
	f.StringVar(&o.params.DBDriver, "dbDriver", "", "database driver, sqlite or postgres (env: DBDriver, default: sqlite)")
	f.StringVar(&o.params.DBPath, "dbPath", "", "path to the SQLite database file (env: DBPath, default: $XDG_DATA_HOME/libris/server.db)")
	f.StringVar(&o.params.DatabaseURL, "databaseUrl", "", "PostgreSQL connection URL (env: DatabaseURL)")
	f.StringVar(&o.params.LogLevel, "logLevel", "", "log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")

	root.AddCommand(
		newStartCmd(o),
		newVersionCmd(),
		newImportCmd(o),
		newLoansCmd(o),
		newRemoveGroupCmd(o, authorRecord),
		newRemoveGroupCmd(o, categoryRecord),
		newRemoveGroupCmd(o, bookRecord),
	)

	return root
}

// Execute runs the command line
func Execute() error {
	return NewRootCmd().Execute()
}
