package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/equipe-service/internal/domain/equipe"
	"github.com/riskibarqy/equipe-service/internal/domain/funcionario"
)

// enrich resolves member names for every team, one lookup per team on a
// bounded worker pool. A failed lookup leaves that team with no members and
// never fails the batch.
func (s *EquipeQueries) enrich(ctx context.Context, items []equipe.Equipe) []equipe.Equipe {
	out := equipe.CloneAll(items)
	if len(out) == 0 {
		return out
	}

	pool, err := ants.NewPool(min(s.cfg.EnrichWorkers, len(out)))
	if err != nil {
		s.logger.WarnContext(ctx, "create enrichment pool failed, enriching inline", "error", err)
		for i := range out {
			s.enrichOne(ctx, &out[i])
		}
		return out
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i := range out {
		item := &out[i]
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			s.enrichOne(ctx, item)
		}); err != nil {
			workers.Done()
			s.enrichOne(ctx, item)
		}
	}
	workers.Wait()

	return out
}

func (s *EquipeQueries) enrichOne(ctx context.Context, item *equipe.Equipe) {
	defer func() {
		if r := recover(); r != nil {
			s.markMembersFailed(ctx, item, fmt.Errorf("panic: %v", r))
		}
	}()

	if len(item.MemberIDs) == 0 {
		item.Membros = []funcionario.Ref{}
		item.MembrosStatus = equipe.MembersEmpty
		return
	}

	refs, err := s.funcionarioRepo.ListByIDs(ctx, item.MemberIDs)
	if err != nil {
		s.markMembersFailed(ctx, item, err)
		return
	}

	item.Membros = orderMembers(item.MemberIDs, refs)
	item.MembrosStatus = equipe.MembersLoaded
}

func (s *EquipeQueries) markMembersFailed(ctx context.Context, item *equipe.Equipe, err error) {
	s.logger.WarnContext(ctx, "fetch equipe members failed", "equipe_id", item.ID, "error", err)
	item.Membros = []funcionario.Ref{}
	item.MembrosStatus = equipe.MembersFailed
}

// orderMembers follows the order of ids and drops ids with no match.
func orderMembers(ids []string, refs []funcionario.Ref) []funcionario.Ref {
	byID := make(map[string]funcionario.Ref, len(refs))
	for _, ref := range refs {
		byID[ref.ID] = ref
	}

	out := make([]funcionario.Ref, 0, len(ids))
	for _, id := range ids {
		if ref, ok := byID[id]; ok {
			out = append(out, ref)
		}
	}
	return out
}
