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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var (
	// ErrReferenced is an error for a write rejected because other records depend on the row
	ErrReferenced = errors.New("record is referenced by other records")
	// ErrDuplicate is an error for a write that would violate a uniqueness constraint
	ErrDuplicate = errors.New("record already exists")
	// ErrCheckViolated is an error for a write that would break a check constraint
	ErrCheckViolated = errors.New("check constraint violated")
)

// SQLSTATE codes from the integrity constraint violation class
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// ClassifyError translates driver constraint errors into the package sentinel
// errors. Other errors are returned as they are.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var sentinel error

	var sqliteErr sqlite3.Error
	var pgErr *pgconn.PgError

	switch {
	case errors.As(err, &sqliteErr):
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			sentinel = ErrReferenced
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			sentinel = ErrDuplicate
		case sqlite3.ErrConstraintCheck:
			sentinel = ErrCheckViolated
		}
	case errors.As(err, &pgErr):
		switch pgErr.Code {
		case pgForeignKeyViolation:
			sentinel = ErrReferenced
		case pgUniqueViolation:
			sentinel = ErrDuplicate
		case pgCheckViolation:
			sentinel = ErrCheckViolated
		}
	}

	if sentinel == nil {
		return err
	}

	return errors.WithMessage(sentinel, err.Error())
}
