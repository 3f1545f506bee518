package usecase

import (
	"context"

	"github.com/riskibarqy/equipe-service/internal/domain/equipe"
	"github.com/riskibarqy/equipe-service/internal/domain/funcionario"
	"github.com/riskibarqy/equipe-service/internal/platform/cache"
	"github.com/sourcegraph/conc"
)

type QueryResult[T any] struct {
	Data  T
	State cache.QueryState
}

// Overview bundles everything a team management screen needs. Each part
// carries its own state; one failing query leaves the others intact.
type Overview struct {
	Equipes      QueryResult[[]equipe.Equipe]
	Encarregados QueryResult[[]funcionario.Funcionario]
	Apontadores  QueryResult[[]funcionario.Funcionario]
	Funcionarios QueryResult[[]funcionario.Funcionario]
}

func (o Overview) IsLoading() bool {
	return o.Equipes.State.IsLoading() ||
		o.Encarregados.State.IsLoading() ||
		o.Apontadores.State.IsLoading() ||
		o.Funcionarios.State.IsLoading()
}

// Err returns the first query error, if any.
func (o Overview) Err() error {
	for _, state := range []cache.QueryState{o.Equipes.State, o.Encarregados.State, o.Apontadores.State, o.Funcionarios.State} {
		if state.Err != nil {
			return state.Err
		}
	}
	return nil
}

func (s *EquipeQueries) Overview(ctx context.Context, filter equipe.Filter) Overview {
	ctx, span := startUsecaseSpan(ctx, "usecase.EquipeQueries.Overview")
	defer span.End()

	filter = filter.Normalize()
	var out Overview
	var wg conc.WaitGroup

	wg.Go(func() {
		items, err := s.ListEquipes(ctx, filter)
		out.Equipes = QueryResult[[]equipe.Equipe]{Data: items, State: withErr(s.EquipesState(filter), err)}
	})
	wg.Go(func() {
		items, err := s.ListEncarregados(ctx)
		out.Encarregados = QueryResult[[]funcionario.Funcionario]{Data: items, State: withErr(s.FuncionariosByRoleState(funcionario.RoleEncarregado), err)}
	})
	wg.Go(func() {
		items, err := s.ListApontadores(ctx)
		out.Apontadores = QueryResult[[]funcionario.Funcionario]{Data: items, State: withErr(s.FuncionariosByRoleState(funcionario.RoleApontador), err)}
	})
	wg.Go(func() {
		items, err := s.ListAllFuncionarios(ctx)
		out.Funcionarios = QueryResult[[]funcionario.Funcionario]{Data: items, State: withErr(s.AllFuncionariosState(), err)}
	})
	wg.Wait()

	return out
}

// withErr keeps the caller-facing error on the state even when the cache
// entry has since been dropped by an invalidation.
func withErr(state cache.QueryState, err error) cache.QueryState {
	if err != nil {
		state.Status = cache.StatusError
		state.Err = err
	}
	return state
}
