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
	"fmt"
	"net/http"
	"time"

	"github.com/libris/libris/pkg/server/buildinfo"
	"github.com/libris/libris/pkg/server/controllers"
	"github.com/libris/libris/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newStartCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the server",
		Example: "  libris-server start --port 8080 --baseUrl https://books.example.org",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.params.Port, "port", "", "server port (env: PORT, default: 3001)")
	f.StringVar(&o.params.BaseURL, "baseUrl", "", "full URL to the server without a trailing slash (env: BaseURL, default: http://localhost:3001)")
	f.StringVar(&o.params.LibraryEmail, "libraryEmail", "", "library address for contact messages and loan emails (env: LibraryEmail)")
	f.StringVar(&o.params.AppEnv, "appEnv", "", "application environment (env: APP_ENV, default: PRODUCTION)")

	return cmd
}

func runStart(o *options) error {
	a, cfg, cleanup, err := setupApp(o.params)
	if err != nil {
		return err
	}
	defer cleanup()

	ctl := controllers.New(a)
	rc := controllers.RouteConfig{
		WebRoutes:   controllers.NewWebRoutes(a, ctl),
		APIRoutes:   controllers.NewAPIRoutes(a, ctl),
		Controllers: ctl,
		CSRFKey:     cfg.CSRFKey,
	}

	r, err := controllers.NewRouter(a, rc)
	if err != nil {
		return errors.Wrap(err, "initializing router")
	}

	if cfg.CSRFKey == nil {
		log.Warn("CSRFKey is not set. Forms are served without CSRF protection.")
	}

	log.WithFields(log.Fields{
		"version":  buildinfo.Version,
		"port":     cfg.Port,
		"driver":   cfg.DBDriver,
		"base_url": cfg.BaseURL,
	}).Info("Libris server starting")

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		return errors.Wrap(err, "serving")
	}

	return nil
}
