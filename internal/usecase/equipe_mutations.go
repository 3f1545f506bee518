package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/equipe-service/internal/domain/equipe"
)

type MutationStatus string

const (
	MutationIdle    MutationStatus = "idle"
	MutationPending MutationStatus = "pending"
	MutationSuccess MutationStatus = "success"
	MutationError   MutationStatus = "error"
)

const (
	MutationCreateEquipe = "create_equipe"
	MutationUpdateEquipe = "update_equipe"
	MutationDeleteEquipe = "delete_equipe"
)

type MutationState struct {
	Status    MutationStatus
	Err       error
	UpdatedAt time.Time
}

type mutationTracker struct {
	mu     sync.Mutex
	states map[string]MutationState
}

func newMutationTracker() *mutationTracker {
	return &mutationTracker{states: make(map[string]MutationState)}
}

func (t *mutationTracker) set(name string, status MutationStatus, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[name] = MutationState{Status: status, Err: err, UpdatedAt: time.Now()}
}

func (t *mutationTracker) get(name string) MutationState {
	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.states[name]
	if !ok {
		return MutationState{Status: MutationIdle}
	}
	return state
}

// MutationState reports the last outcome of a named write.
func (s *EquipeQueries) MutationState(name string) MutationState {
	return s.mutations.get(name)
}

func (s *EquipeQueries) CreateEquipe(ctx context.Context, form equipe.FormData) (equipe.Equipe, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EquipeQueries.CreateEquipe")
	defer span.End()

	form, err := s.validateForm(form)
	if err != nil {
		s.mutations.set(MutationCreateEquipe, MutationError, err)
		return equipe.Equipe{}, err
	}

	s.mutations.set(MutationCreateEquipe, MutationPending, nil)
	id, err := s.idGen.NewID()
	if err != nil {
		err = fmt.Errorf("generate equipe id: %w", err)
		s.mutations.set(MutationCreateEquipe, MutationError, err)
		return equipe.Equipe{}, err
	}

	created, err := s.equipeRepo.Create(ctx, form.Apply(id))
	if err != nil {
		err = mapWriteError("create equipe", err)
		s.logger.ErrorContext(ctx, "create equipe failed", "error", err)
		span.RecordError(err)
		s.mutations.set(MutationCreateEquipe, MutationError, err)
		return equipe.Equipe{}, err
	}

	s.invalidate(ctx)
	s.mutations.set(MutationCreateEquipe, MutationSuccess, nil)
	s.logger.InfoContext(ctx, "equipe created", "equipe_id", created.ID)
	return created, nil
}

func (s *EquipeQueries) UpdateEquipe(ctx context.Context, id string, form equipe.FormData) (equipe.Equipe, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EquipeQueries.UpdateEquipe")
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		err := fmt.Errorf("%w: equipe id is required", ErrInvalidInput)
		s.mutations.set(MutationUpdateEquipe, MutationError, err)
		return equipe.Equipe{}, err
	}
	form, err := s.validateForm(form)
	if err != nil {
		s.mutations.set(MutationUpdateEquipe, MutationError, err)
		return equipe.Equipe{}, err
	}

	s.mutations.set(MutationUpdateEquipe, MutationPending, nil)
	updated, err := s.equipeRepo.Update(ctx, form.Apply(id))
	if err != nil {
		err = mapWriteError("update equipe", err)
		s.logger.ErrorContext(ctx, "update equipe failed", "equipe_id", id, "error", err)
		span.RecordError(err)
		s.mutations.set(MutationUpdateEquipe, MutationError, err)
		return equipe.Equipe{}, err
	}

	s.invalidate(ctx)
	s.mutations.set(MutationUpdateEquipe, MutationSuccess, nil)
	s.logger.InfoContext(ctx, "equipe updated", "equipe_id", id)
	return updated, nil
}

func (s *EquipeQueries) DeleteEquipe(ctx context.Context, id string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EquipeQueries.DeleteEquipe")
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		err := fmt.Errorf("%w: equipe id is required", ErrInvalidInput)
		s.mutations.set(MutationDeleteEquipe, MutationError, err)
		return err
	}

	s.mutations.set(MutationDeleteEquipe, MutationPending, nil)
	if err := s.equipeRepo.Delete(ctx, id); err != nil {
		err = mapWriteError("delete equipe", err)
		s.logger.ErrorContext(ctx, "delete equipe failed", "equipe_id", id, "error", err)
		span.RecordError(err)
		s.mutations.set(MutationDeleteEquipe, MutationError, err)
		return err
	}

	s.invalidate(ctx)
	s.mutations.set(MutationDeleteEquipe, MutationSuccess, nil)
	s.logger.InfoContext(ctx, "equipe deleted", "equipe_id", id)
	return nil
}

// invalidate drops both namespaces: team writes also move employee back-references.
func (s *EquipeQueries) invalidate(ctx context.Context) {
	s.cache.InvalidateNamespace(ctx, NamespaceEquipes, NamespaceFuncionarios)
}

func (s *EquipeQueries) validateForm(form equipe.FormData) (equipe.FormData, error) {
	form = form.Normalize()
	if err := s.validate.Struct(form); err != nil {
		return form, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return form, nil
}

func mapWriteError(op string, err error) error {
	switch {
	case errors.Is(err, equipe.ErrNotFound):
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	case errors.Is(err, equipe.ErrUnknownFuncionario):
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	default:
		return fmt.Errorf("%s: %w", op, dependencyError(err))
	}
}
