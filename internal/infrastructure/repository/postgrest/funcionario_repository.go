package postgrest

import (
	"context"
	"fmt"

	"github.com/riskibarqy/equipe-service/internal/domain/funcionario"
	"github.com/valyala/fasthttp"
)

type FuncionarioRepository struct {
	client *Client
}

func NewFuncionarioRepository(client *Client) *FuncionarioRepository {
	return &FuncionarioRepository{client: client}
}

func (r *FuncionarioRepository) ListByRole(ctx context.Context, role string) ([]funcionario.Funcionario, error) {
	q := NewQuery().Select(funcionarioSelect).Eq("funcao", role).Order("nome_completo.asc")
	out, err := r.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list funcionarios by role: %w", err)
	}
	return out, nil
}

func (r *FuncionarioRepository) ListAll(ctx context.Context) ([]funcionario.Funcionario, error) {
	q := NewQuery().Select(funcionarioSelect).Order("nome_completo.asc")
	out, err := r.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list funcionarios: %w", err)
	}
	return out, nil
}

func (r *FuncionarioRepository) ListByIDs(ctx context.Context, ids []string) ([]funcionario.Ref, error) {
	if len(ids) == 0 {
		return []funcionario.Ref{}, nil
	}

	var rows []refRow
	err := r.client.do(ctx, request{
		method: fasthttp.MethodGet,
		table:  funcionariosTable,
		query:  NewQuery().Select(memberSelect).In("id", ids),
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("list funcionarios by ids: %w", err)
	}
	if err := validateRows(r.client, rows); err != nil {
		return nil, fmt.Errorf("list funcionarios by ids: %w", err)
	}

	out := make([]funcionario.Ref, 0, len(rows))
	for _, row := range rows {
		out = append(out, funcionario.Ref{ID: row.ID, NomeCompleto: row.NomeCompleto})
	}
	return out, nil
}

func (r *FuncionarioRepository) list(ctx context.Context, q *Query) ([]funcionario.Funcionario, error) {
	var rows []funcionarioRow
	if err := r.client.do(ctx, request{method: fasthttp.MethodGet, table: funcionariosTable, query: q}, &rows); err != nil {
		return nil, err
	}
	if err := validateRows(r.client, rows); err != nil {
		return nil, err
	}

	out := make([]funcionario.Funcionario, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
