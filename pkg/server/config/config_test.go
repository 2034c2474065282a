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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/libris/libris/pkg/assert"
	"github.com/pkg/errors"
)

func TestValidate(t *testing.T) {
	base := Config{
		DBDriver:     DBDriverSQLite,
		DBPath:       "test.db",
		BaseURL:      "http://mock.url",
		Port:         "3000",
		LibraryEmail: "desk@library.org",
	}

	testCases := []struct {
		mutate      func(c *Config)
		expectedErr error
	}{
		{
			mutate:      func(c *Config) {},
			expectedErr: nil,
		},
		{
			mutate:      func(c *Config) { c.DBPath = "" },
			expectedErr: ErrDBMissingPath,
		},
		{
			mutate:      func(c *Config) { c.BaseURL = "" },
			expectedErr: ErrBaseURLInvalid,
		},
		{
			mutate:      func(c *Config) { c.Port = "" },
			expectedErr: ErrPortInvalid,
		},
		{
			mutate:      func(c *Config) { c.DBDriver = "mysql" },
			expectedErr: ErrDBDriverInvalid,
		},
		{
			mutate:      func(c *Config) { c.DBDriver = DBDriverPostgres },
			expectedErr: ErrDBMissingURL,
		},
		{
			mutate: func(c *Config) {
				c.DBDriver = DBDriverPostgres
				c.DatabaseURL = "postgres://libris@localhost/libris"
			},
			expectedErr: nil,
		},
		{
			mutate:      func(c *Config) { c.LibraryEmail = "not an address" },
			expectedErr: ErrLibraryEmailInvalid,
		},
		{
			mutate:      func(c *Config) { c.CSRFKey = []byte("short") },
			expectedErr: ErrCSRFKeyInvalid,
		},
		{
			mutate:      func(c *Config) { c.CSRFKey = []byte("0123456789abcdef0123456789abcdef") },
			expectedErr: nil,
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			c := base
			tc.mutate(&c)

			err := validate(c)

			assert.Equal(t, errors.Cause(err), tc.expectedErr, "error mismatch")
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("params take precedence over env", func(t *testing.T) {
		t.Setenv("PORT", "4000")
		t.Setenv("DBPath", "/tmp/from-env.db")

		c, err := New(Params{Port: "5000", EnvFile: "does-not-exist.env"})
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating config"))
		}

		assert.Equal(t, c.Port, "5000", "port mismatch")
		assert.Equal(t, c.DBPath, "/tmp/from-env.db", "db path mismatch")
		assert.Equal(t, c.DSN(), "/tmp/from-env.db", "dsn mismatch")
		assert.Equal(t, c.IsProd(), true, "default env should be production")
	})

	t.Run("env file", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), "libris.env")
		content := "LibraryEmail=frontdesk@library.fr\nDBDriver=postgres\nDatabaseURL=postgres://localhost/libris\n"
		if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
			t.Fatal(errors.Wrap(err, "writing env file"))
		}
		for _, k := range []string{"LibraryEmail", "DBDriver", "DatabaseURL"} {
			// register cleanup for variables godotenv is about to set
			t.Setenv(k, "")
			os.Unsetenv(k)
		}

		c, err := New(Params{EnvFile: envFile})
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating config"))
		}

		assert.Equal(t, c.LibraryEmail, "frontdesk@library.fr", "library email mismatch")
		assert.Equal(t, c.DBDriver, DBDriverPostgres, "driver mismatch")
		assert.Equal(t, c.DSN(), "postgres://localhost/libris", "dsn mismatch")
	})
}
