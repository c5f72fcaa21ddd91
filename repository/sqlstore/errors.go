package sqlstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"agora/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classify turns store constraint violations into domain errors so racing
// writers see the same outcome as a sequential duplicate.
func classify(err error, entity string) error {
	if err == nil {
		return nil
	}
	if field, ok := uniqueViolation(err); ok {
		return &domain.AlreadyExistsError{Entity: entity, Field: field}
	}
	if foreignKeyViolation(err) {
		return fmt.Errorf("%s references a missing record: %w", entity, domain.ErrNotFound)
	}
	return err
}

func uniqueViolation(err error) (string, bool) {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		const marker = "UNIQUE constraint failed: "
		msg := se.Error()
		if i := strings.Index(msg, marker); i >= 0 {
			return sqliteColumn(msg[i+len(marker):]), true
		}
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) && pe.Code == pgUniqueViolation {
		return constraintColumn(pe.TableName, pe.ConstraintName), true
	}
	return "", false
}

func foreignKeyViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return strings.Contains(se.Error(), "FOREIGN KEY constraint failed")
	}
	var pe *pgconn.PgError
	return errors.As(err, &pe) && pe.Code == pgForeignKeyViolation
}

// sqliteColumn extracts "username" from "users.username (2067)".
func sqliteColumn(s string) string {
	if i := strings.IndexAny(s, " ,)"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// constraintColumn extracts "email" from the "users_email_key" constraint.
func constraintColumn(table, constraint string) string {
	name := strings.TrimSuffix(constraint, "_key")
	if table != "" {
		return strings.TrimPrefix(name, table+"_")
	}
	if _, after, ok := strings.Cut(name, "_"); ok {
		return after
	}
	return name
}
