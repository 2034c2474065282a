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
	"net/mail"
	"net/url"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/libris/libris/pkg/dirs"
	"github.com/libris/libris/pkg/server/assets"
	"github.com/pkg/errors"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// DefaultDBDir is the default directory name for Libris data
	DefaultDBDir = "libris"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
	// DefaultEnvFilename is the name of the optional environment file
	DefaultEnvFilename = ".env"

	// DBDriverSQLite selects the embedded SQLite store
	DBDriverSQLite = "sqlite"
	// DBDriverPostgres selects a PostgreSQL server
	DBDriverPostgres = "postgres"

	csrfKeyLength = 32
)

var (
	// DefaultDBPath is the default path to the database file
	DefaultDBPath = filepath.Join(dirs.DataHome, DefaultDBDir, DefaultDBFilename)
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrDBMissingURL is an error for a postgres configuration without a connection URL
	ErrDBMissingURL = errors.New("DatabaseURL is empty")
	// ErrDBDriverInvalid is an error for an unsupported database driver
	ErrDBDriverInvalid = errors.New("Invalid DBDriver")
	// ErrBaseURLInvalid is an error for an incomplete configuration with invalid base url
	ErrBaseURLInvalid = errors.New("Invalid BaseURL")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrLibraryEmailInvalid is an error for a malformed library contact address
	ErrLibraryEmailInvalid = errors.New("Invalid LibraryEmail")
	// ErrCSRFKeyInvalid is an error for a CSRF key of the wrong length
	ErrCSRFKeyInvalid = errors.New("CSRFKey must be exactly 32 bytes")
)

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

// Config is an application configuration
type Config struct {
	AppEnv       string
	BaseURL      string
	Port         string
	DBDriver     string
	DBPath       string
	DatabaseURL  string
	LibraryEmail string
	CSRFKey      []byte
	AssetBaseURL string
	HTTP500Page  []byte
	LogLevel     string
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv       string
	Port         string
	BaseURL      string
	DBDriver     string
	DBPath       string
	DatabaseURL  string
	LibraryEmail string
	LogLevel     string
	// EnvFile is loaded into the environment before anything else is read.
	// Variables already present in the environment win.
	EnvFile string
}

// LoadEnvFile loads environment variables from the given file. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFilename
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading env file %s", path)
	}

	return nil
}

// New constructs and returns a new validated config.
// Empty string params will fall back to environment variables and defaults.
func New(p Params) (Config, error) {
	if err := LoadEnvFile(p.EnvFile); err != nil {
		return Config{}, err
	}

	c := Config{
		AppEnv:       getOrEnv(p.AppEnv, "APP_ENV", AppEnvProduction),
		Port:         getOrEnv(p.Port, "PORT", "3001"),
		BaseURL:      getOrEnv(p.BaseURL, "BaseURL", "http://localhost:3001"),
		DBDriver:     getOrEnv(p.DBDriver, "DBDriver", DBDriverSQLite),
		DBPath:       getOrEnv(p.DBPath, "DBPath", DefaultDBPath),
		DatabaseURL:  getOrEnv(p.DatabaseURL, "DatabaseURL", ""),
		LibraryEmail: getOrEnv(p.LibraryEmail, "LibraryEmail", "contact@libris.org"),
		LogLevel:     getOrEnv(p.LogLevel, "LOG_LEVEL", "info"),
		AssetBaseURL: "/static",
		HTTP500Page:  assets.MustGetHTTP500ErrorPage(),
	}
	if key := os.Getenv("CSRFKey"); key != "" {
		c.CSRFKey = []byte(key)
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

// DSN returns the data source name for the configured driver
func (c Config) DSN() string {
	if c.DBDriver == DBDriverPostgres {
		return c.DatabaseURL
	}

	return c.DBPath
}

func validate(c Config) error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return errors.Wrapf(ErrBaseURLInvalid, "'%s'", c.BaseURL)
	}
	if c.Port == "" {
		return ErrPortInvalid
	}

	switch c.DBDriver {
	case DBDriverSQLite:
		if c.DBPath == "" {
			return ErrDBMissingPath
		}
	case DBDriverPostgres:
		if c.DatabaseURL == "" {
			return ErrDBMissingURL
		}
	default:
		return errors.Wrapf(ErrDBDriverInvalid, "'%s'", c.DBDriver)
	}

	if _, err := mail.ParseAddress(c.LibraryEmail); err != nil {
		return errors.Wrapf(ErrLibraryEmailInvalid, "'%s'", c.LibraryEmail)
	}
	if c.CSRFKey != nil && len(c.CSRFKey) != csrfKeyLength {
		return ErrCSRFKeyInvalid
	}

	return nil
}
