package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get equipe: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("pq: relation bd_equipes does not exist")) {
		t.Fatalf("expected unrelated error to be ignored")
	}
}

func TestPgErrorClassification(t *testing.T) {
	t.Run("foreign key violation", func(t *testing.T) {
		err := fmt.Errorf("insert: %w", &pq.Error{Code: "23503"})
		if !isForeignKeyViolation(err) {
			t.Fatalf("expected foreign key violation")
		}
	})

	t.Run("invalid uuid", func(t *testing.T) {
		err := &pq.Error{Code: "22P02"}
		if !isInvalidUUID(err) {
			t.Fatalf("expected invalid uuid")
		}
	})

	t.Run("plain error", func(t *testing.T) {
		if isForeignKeyViolation(fakeErr("boom")) || isInvalidUUID(fakeErr("boom")) {
			t.Fatalf("expected plain error not classified")
		}
	})
}

func TestNullString(t *testing.T) {
	if nullString("").Valid {
		t.Fatalf("expected empty string to be null")
	}
	if got := nullString("x"); !got.Valid || got.String != "x" {
		t.Fatalf("unexpected null string: %+v", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
