package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/equipe-service/internal/domain/equipe"
)

type EquipeRepository struct {
	db *Database
}

func NewEquipeRepository(db *Database) *EquipeRepository {
	return &EquipeRepository{db: db}
}

func (r *EquipeRepository) List(_ context.Context, filter equipe.Filter) ([]equipe.Equipe, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]equipe.Equipe, 0, len(r.db.equipes))
	for _, item := range r.db.equipes {
		if !filter.Matches(item) {
			continue
		}
		out = append(out, r.db.joinedLocked(item))
	}

	return out, nil
}

func (r *EquipeRepository) GetByID(_ context.Context, id string) (equipe.Equipe, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	idx := r.db.equipeIndexLocked(id)
	if idx < 0 {
		return equipe.Equipe{}, false, nil
	}

	return r.db.joinedLocked(r.db.equipes[idx]), true, nil
}

func (r *EquipeRepository) Create(_ context.Context, item equipe.Equipe) (equipe.Equipe, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if item.ID == "" {
		return equipe.Equipe{}, fmt.Errorf("create equipe: id is required")
	}
	if r.db.equipeIndexLocked(item.ID) >= 0 {
		return equipe.Equipe{}, fmt.Errorf("create equipe: id=%s already exists", item.ID)
	}
	if err := r.db.checkReferencesLocked(item); err != nil {
		return equipe.Equipe{}, fmt.Errorf("create equipe: %w", err)
	}

	now := r.db.now()
	stored := item.Clone()
	stored.Encarregado, stored.Apontador, stored.Membros = nil, nil, nil
	stored.MembrosStatus = equipe.MembersPending
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.db.equipes = append(r.db.equipes, stored)
	r.db.assignMembersLocked(stored.ID, stored.MemberIDs)

	return r.db.joinedLocked(stored), nil
}

func (r *EquipeRepository) Update(_ context.Context, item equipe.Equipe) (equipe.Equipe, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	idx := r.db.equipeIndexLocked(item.ID)
	if idx < 0 {
		return equipe.Equipe{}, fmt.Errorf("update equipe id=%s: %w", item.ID, equipe.ErrNotFound)
	}
	if err := r.db.checkReferencesLocked(item); err != nil {
		return equipe.Equipe{}, fmt.Errorf("update equipe: %w", err)
	}

	stored := item.Clone()
	stored.Encarregado, stored.Apontador, stored.Membros = nil, nil, nil
	stored.MembrosStatus = equipe.MembersPending
	stored.CreatedAt = r.db.equipes[idx].CreatedAt
	stored.UpdatedAt = r.db.now()
	r.db.equipes[idx] = stored
	r.db.releaseMembersLocked(stored.ID)
	r.db.assignMembersLocked(stored.ID, stored.MemberIDs)

	return r.db.joinedLocked(stored), nil
}

func (r *EquipeRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	idx := r.db.equipeIndexLocked(id)
	if idx < 0 {
		return fmt.Errorf("delete equipe id=%s: %w", id, equipe.ErrNotFound)
	}

	r.db.equipes = append(r.db.equipes[:idx], r.db.equipes[idx+1:]...)
	r.db.releaseMembersLocked(id)

	return nil
}
