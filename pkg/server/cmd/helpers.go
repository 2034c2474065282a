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
	"github.com/libris/libris/pkg/clock"
	"github.com/libris/libris/pkg/prompt"
	"github.com/libris/libris/pkg/server/app"
	"github.com/libris/libris/pkg/server/catalog"
	"github.com/libris/libris/pkg/server/config"
	"github.com/libris/libris/pkg/server/database"
	"github.com/libris/libris/pkg/server/forms"
	"github.com/libris/libris/pkg/server/log"
	"github.com/libris/libris/pkg/server/mailer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func initDB(cfg config.Config) (*gorm.DB, error) {
	db := database.Open(cfg.DBDriver, cfg.DSN())
	database.InitSchema(db)

	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, errors.Wrap(err, "running migrations")
	}

	return db, nil
}

func initApp(cfg config.Config, db *gorm.DB) (app.App, error) {
	emailBackend, err := mailer.NewBackend()
	if err != nil {
		return app.App{}, errors.Wrap(err, "initializing email backend")
	}

	c := clock.New()

	return app.App{
		Store:        catalog.New(db),
		Clock:        c,
		Validator:    forms.New(c),
		EmailBackend: emailBackend,
		HTTP500Page:  cfg.HTTP500Page,
		AppEnv:       cfg.AppEnv,
		BaseURL:      cfg.BaseURL,
		Port:         cfg.Port,
		LibraryEmail: cfg.LibraryEmail,
		AssetBaseURL: cfg.AssetBaseURL,
	}, nil
}

// setupApp reads the configuration, opens the database and returns the app
// with a cleanup function that closes the database
func setupApp(p config.Params) (*app.App, config.Config, func(), error) {
	cfg, err := config.New(p)
	if err != nil {
		return nil, config.Config{}, nil, errors.Wrap(err, "reading configuration")
	}

	log.SetLevel(cfg.LogLevel)

	db, err := initDB(cfg)
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	a, err := initApp(cfg, db)
	if err != nil {
		database.Close(db)
		return nil, config.Config{}, nil, err
	}

	cleanup := func() {
		if err := database.Close(db); err != nil {
			log.ErrorWrap(err, "closing database")
		}
	}

	return &a, cfg, cleanup, nil
}

// confirm asks a yes/no question on the command's streams. It is skipped
// when assumeYes is set.
func confirm(cmd *cobra.Command, question string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}

	ok, err := prompt.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question, false)
	if err != nil {
		return false, errors.Wrap(err, "getting confirmation")
	}

	return ok, nil
}
