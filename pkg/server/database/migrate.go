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

import (
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/libris/libris/pkg/server/database/migrations"
	"github.com/libris/libris/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// migrationsTable records the versions that have been applied
const migrationsTable = "schema_migrations"

type migration struct {
	filename string
	version  int
}

// parseMigrationFilename returns the version of a migration named NNN-description.sql
func parseMigrationFilename(name string) (int, error) {
	base, ok := strings.CutSuffix(name, ".sql")
	if !ok {
		return 0, errors.Errorf("invalid migration filename %s: must end with .sql", name)
	}

	version, description, ok := strings.Cut(base, "-")
	if !ok {
		return 0, errors.Errorf("invalid migration filename %s: must be NNN-description.sql", name)
	}
	if len(version) != 3 || strings.Trim(version, "0123456789") != "" {
		return 0, errors.Errorf("invalid migration filename %s: version must be 3 digits", name)
	}
	if description == "" {
		return 0, errors.Errorf("invalid migration filename %s: description is required", name)
	}

	v, err := strconv.Atoi(version)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing version of %s", name)
	}

	return v, nil
}

// readMigrations lists the migrations in fsys ordered by version
func readMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "reading migration directory")
	}

	var ret []migration
	seen := map[int]string{}
	for _, e := range entries {
		v, err := parseMigrationFilename(e.Name())
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[v]; ok {
			return nil, errors.Errorf("duplicate migration version %d: %s and %s", v, prev, e.Name())
		}
		seen[v] = e.Name()

		ret = append(ret, migration{filename: e.Name(), version: v})
	}

	sort.Slice(ret, func(i, j int) bool {
		return ret[i].version < ret[j].version
	})

	return ret, nil
}

// SchemaVersion returns the latest applied migration version
func SchemaVersion(db *gorm.DB) (int, error) {
	var version int
	if err := db.Raw("SELECT COALESCE(MAX(version), 0) FROM " + migrationsTable).Scan(&version).Error; err != nil {
		return 0, errors.Wrap(err, "reading current version")
	}

	return version, nil
}

// Migrate runs the embedded migrations that have not been applied yet
func Migrate(db *gorm.DB) error {
	return migrate(db, migrations.Files)
}

func migrate(db *gorm.DB, fsys fs.FS) error {
	if err := db.Exec("CREATE TABLE IF NOT EXISTS " + migrationsTable + " (version INTEGER PRIMARY KEY, applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)").Error; err != nil {
		return errors.Wrap(err, "initializing migration table")
	}

	version, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	pending, err := readMigrations(fsys)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"version": version,
		"files":   len(pending),
	}).Debug("Database schema version.")

	for _, m := range pending {
		if m.version <= version {
			continue
		}

		sql, err := fs.ReadFile(fsys, m.filename)
		if err != nil {
			return errors.Wrapf(err, "reading migration file %s", m.filename)
		}
		if strings.TrimSpace(string(sql)) == "" {
			return errors.Errorf("migration file %s is empty", m.filename)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(sql)).Error; err != nil {
				return errors.Wrapf(err, "applying migration %s", m.filename)
			}
			if err := tx.Exec("INSERT INTO "+migrationsTable+" (version) VALUES (?)", m.version).Error; err != nil {
				return errors.Wrapf(err, "recording migration %s", m.filename)
			}

			return nil
		})
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"file": m.filename,
		}).Info("Applied migration.")
	}

	return nil
}
