package querybuilder

import (
	"testing"
	"time"
)

func TestSelect_TeamListWithJoinsAndFilters(t *testing.T) {
	query, args, err := Select("e.id", "enc.nome_completo").
		From("bd_equipes e").
		LeftJoin("bd_funcionarios enc", "enc.id = e.encarregado_id").
		Where(Eq("e.apontador_id", "a1"), Expr("e.id = ANY(?)", []string{"e1", "e2"})).
		OrderBy("e.nome_equipe").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT e.id, enc.nome_completo FROM bd_equipes e LEFT JOIN bd_funcionarios enc ON enc.id = e.encarregado_id WHERE e.apontador_id = $1 AND e.id = ANY($2) ORDER BY e.nome_equipe"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "a1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelect_RequiresColumnsAndTable(t *testing.T) {
	if _, _, err := Select().From("bd_equipes").ToSQL(); err == nil {
		t.Fatalf("expected error without columns")
	}
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatalf("expected error without table")
	}
}

func TestExpr_PlaceholderCountMismatch(t *testing.T) {
	_, _, err := Select("id").From("bd_funcionarios").Where(Expr("id = ? OR id = ?", "f1")).ToSQL()
	if err == nil {
		t.Fatalf("expected error for missing expression value")
	}
}

func TestILikeContainsEscapesWildcards(t *testing.T) {
	query, args, err := Select("id").
		From("bd_equipes").
		Where(ILikeContains("nome_equipe", `50%_a\b`)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := `SELECT id FROM bd_equipes WHERE nome_equipe ILIKE $1 ESCAPE '\'`
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != `%50\%\_a\\b%` {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID        string    `db:"id"`
		Nome      string    `db:"nome_equipe"`
		CreatedAt time.Time `db:"created_at"`
		skipped   string
		Ignored   string `db:"-"`
	}

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := InsertModel("bd_equipes", &row{ID: "e1", Nome: "Alfa", CreatedAt: now, skipped: "x"}, "RETURNING id")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}

	wantQuery := "INSERT INTO bd_equipes (id, nome_equipe, created_at) VALUES ($1, $2, $3) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[1] != "Alfa" || args[2] != now {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel_RejectsNonStruct(t *testing.T) {
	if _, _, err := InsertModel("bd_equipes", "nope", ""); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
	var missing *struct{ ID string }
	if _, _, err := InsertModel("bd_equipes", missing, ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
}

func TestUpdate_SetAndExpression(t *testing.T) {
	query, args, err := Update("bd_equipes").
		Set("nome_equipe", "Beta").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "e1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE bd_equipes SET nome_equipe = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Beta" || args[1] != "e1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDelete(t *testing.T) {
	query, args, err := DeleteFrom("bd_equipes").Where(Eq("id", "e1")).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM bd_equipes WHERE id = $1" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 || args[0] != "e1" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("bd_equipes").ToSQL(); err == nil {
		t.Fatalf("expected error for delete without where")
	}
}
