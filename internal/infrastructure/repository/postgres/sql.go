package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const (
	pgForeignKeyViolation = "23503"
	pgInvalidTextRep      = "22P02"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func pgErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == pgForeignKeyViolation
}

// isInvalidUUID reports a malformed uuid literal, which callers treat as not found.
func isInvalidUUID(err error) bool {
	return pgErrorCode(err) == pgInvalidTextRep
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
