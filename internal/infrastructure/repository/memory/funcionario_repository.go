package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/equipe-service/internal/domain/funcionario"
)

type FuncionarioRepository struct {
	db *Database
}

func NewFuncionarioRepository(db *Database) *FuncionarioRepository {
	return &FuncionarioRepository{db: db}
}

func (r *FuncionarioRepository) ListByRole(_ context.Context, role string) ([]funcionario.Funcionario, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]funcionario.Funcionario, 0)
	for _, item := range r.db.funcionarios {
		if item.Funcao == role {
			out = append(out, item)
		}
	}
	sortByName(out)

	return out, nil
}

func (r *FuncionarioRepository) ListAll(_ context.Context) ([]funcionario.Funcionario, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]funcionario.Funcionario, 0, len(r.db.funcionarios))
	out = append(out, r.db.funcionarios...)
	sortByName(out)

	return out, nil
}

// ListByIDs returns the employees found, in storage order. Unknown ids are skipped.
func (r *FuncionarioRepository) ListByIDs(_ context.Context, ids []string) ([]funcionario.Ref, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	out := make([]funcionario.Ref, 0, len(ids))
	for _, item := range r.db.funcionarios {
		if _, ok := wanted[item.ID]; ok {
			out = append(out, item.Ref())
		}
	}

	return out, nil
}

func sortByName(items []funcionario.Funcionario) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].NomeCompleto < items[j].NomeCompleto
	})
}
