package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/equipe-service/internal/domain/funcionario"
	qb "github.com/riskibarqy/equipe-service/internal/platform/querybuilder"
)

var funcionarioSelectColumns = []string{"id", "nome_completo", "equipe_id", "funcao"}

type FuncionarioRepository struct {
	db *sqlx.DB
}

func NewFuncionarioRepository(db *sqlx.DB) *FuncionarioRepository {
	return &FuncionarioRepository{db: db}
}

func (r *FuncionarioRepository) ListByRole(ctx context.Context, role string) ([]funcionario.Funcionario, error) {
	query, args, err := qb.Select(funcionarioSelectColumns...).
		From(funcionariosTable).
		Where(qb.Eq("funcao", role)).
		OrderBy("nome_completo").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list funcionarios by role query: %w", err)
	}

	return r.list(ctx, "list funcionarios by role", query, args)
}

func (r *FuncionarioRepository) ListAll(ctx context.Context) ([]funcionario.Funcionario, error) {
	query, args, err := qb.Select(funcionarioSelectColumns...).
		From(funcionariosTable).
		OrderBy("nome_completo").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list funcionarios query: %w", err)
	}

	return r.list(ctx, "list funcionarios", query, args)
}

func (r *FuncionarioRepository) ListByIDs(ctx context.Context, ids []string) ([]funcionario.Ref, error) {
	if len(ids) == 0 {
		return []funcionario.Ref{}, nil
	}

	query, args, err := qb.Select("id", "nome_completo").
		From(funcionariosTable).
		Where(qb.Expr("id = ANY(?)", pq.StringArray(ids))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list funcionarios by ids query: %w", err)
	}

	var rows []funcionarioTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list funcionarios by ids: %w", err)
	}

	out := make([]funcionario.Ref, 0, len(rows))
	for _, row := range rows {
		out = append(out, funcionario.Ref{ID: row.ID, NomeCompleto: row.NomeCompleto})
	}
	return out, nil
}

func (r *FuncionarioRepository) list(ctx context.Context, op, query string, args []any) ([]funcionario.Funcionario, error) {
	var rows []funcionarioTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]funcionario.Funcionario, 0, len(rows))
	for _, row := range rows {
		out = append(out, funcionarioFromRow(row))
	}
	return out, nil
}
