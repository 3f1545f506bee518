package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/equipe-service/internal/domain/equipe"
	"github.com/riskibarqy/equipe-service/internal/domain/funcionario"
	"github.com/riskibarqy/equipe-service/internal/platform/cache"
	idgen "github.com/riskibarqy/equipe-service/internal/platform/id"
	"github.com/riskibarqy/equipe-service/internal/platform/logging"
	"github.com/riskibarqy/equipe-service/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

const (
	NamespaceEquipes      = "equipes"
	NamespaceFuncionarios = "funcionarios"

	defaultEquipeStaleTime      = 2 * time.Minute
	defaultFuncionarioStaleTime = 5 * time.Minute
	defaultEnrichWorkers        = 8
)

type QueryConfig struct {
	EquipeStaleTime      time.Duration
	FuncionarioStaleTime time.Duration
	EnrichWorkers        int
}

func (c QueryConfig) normalize() QueryConfig {
	if c.EquipeStaleTime <= 0 {
		c.EquipeStaleTime = defaultEquipeStaleTime
	}
	if c.FuncionarioStaleTime <= 0 {
		c.FuncionarioStaleTime = defaultFuncionarioStaleTime
	}
	if c.EnrichWorkers < 1 {
		c.EnrichWorkers = defaultEnrichWorkers
	}
	return c
}

// EquipeQueries serves team and employee reads through the query cache and
// runs team writes that invalidate it.
type EquipeQueries struct {
	equipeRepo      equipe.Repository
	funcionarioRepo funcionario.Repository
	cache           *cache.QueryCache
	idGen           idgen.Generator
	validate        *validator.Validate
	logger          *logging.Logger
	cfg             QueryConfig
	mutations       *mutationTracker
}

func NewEquipeQueries(
	equipeRepo equipe.Repository,
	funcionarioRepo funcionario.Repository,
	queryCache *cache.QueryCache,
	idGen idgen.Generator,
	logger *logging.Logger,
	cfg QueryConfig,
) *EquipeQueries {
	if logger == nil {
		logger = logging.Default()
	}
	if queryCache == nil {
		queryCache = cache.NewQueryCache(cache.Options{Logger: logger})
	}
	if idGen == nil {
		idGen = idgen.NewUUIDGenerator()
	}

	return &EquipeQueries{
		equipeRepo:      equipeRepo,
		funcionarioRepo: funcionarioRepo,
		cache:           queryCache,
		idGen:           idGen,
		validate:        validator.New(),
		logger:          logger,
		cfg:             cfg.normalize(),
		mutations:       newMutationTracker(),
	}
}

func equipesListKey(filter equipe.Filter) cache.Key {
	return cache.NewKey(NamespaceEquipes, "list", filter.CacheKey())
}

func equipeDetailKey(id string) cache.Key {
	return cache.NewKey(NamespaceEquipes, "detail", id)
}

func funcionariosRoleKey(role string) cache.Key {
	return cache.NewKey(NamespaceFuncionarios, "role", role)
}

func funcionariosAllKey() cache.Key {
	return cache.NewKey(NamespaceFuncionarios, "all")
}

// ListEquipes returns the filtered teams with members resolved.
func (s *EquipeQueries) ListEquipes(ctx context.Context, filter equipe.Filter) ([]equipe.Equipe, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EquipeQueries.ListEquipes")
	defer span.End()

	filter = filter.Normalize()
	value, err := s.cache.Fetch(ctx, equipesListKey(filter), s.cfg.EquipeStaleTime, func(ctx context.Context) (any, error) {
		items, err := s.equipeRepo.List(ctx, filter)
		if err != nil {
			s.logger.ErrorContext(ctx, "fetch equipes failed", "filter", filter.CacheKey(), "error", err)
			return nil, dependencyError(err)
		}
		return s.enrich(ctx, items), nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list equipes: %w", err)
	}

	items, ok := value.([]equipe.Equipe)
	if !ok {
		return nil, fmt.Errorf("list equipes: unexpected cached type %T", value)
	}
	span.SetAttributes(attribute.Int("equipes.count", len(items)))

	return equipe.CloneAll(items), nil
}

// GetEquipe prefers an enriched copy already held by any cached team list and
// otherwise fetches the team by id and resolves its members.
func (s *EquipeQueries) GetEquipe(ctx context.Context, id string) (equipe.Equipe, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EquipeQueries.GetEquipe")
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		return equipe.Equipe{}, fmt.Errorf("%w: equipe id is required", ErrInvalidInput)
	}

	if item, ok := s.findCachedEquipe(id); ok {
		span.SetAttributes(attribute.Bool("equipe.cache_hit", true))
		return item, nil
	}

	value, err := s.cache.Fetch(ctx, equipeDetailKey(id), s.cfg.EquipeStaleTime, func(ctx context.Context) (any, error) {
		item, found, err := s.equipeRepo.GetByID(ctx, id)
		if err != nil {
			s.logger.ErrorContext(ctx, "fetch equipe failed", "equipe_id", id, "error", err)
			return nil, dependencyError(err)
		}
		if !found {
			return nil, cache.Permanent(equipe.ErrNotFound)
		}
		return s.enrich(ctx, []equipe.Equipe{item})[0], nil
	})
	if err != nil {
		if errors.Is(err, equipe.ErrNotFound) {
			return equipe.Equipe{}, fmt.Errorf("%w: %w id=%s", ErrNotFound, equipe.ErrNotFound, id)
		}
		span.RecordError(err)
		return equipe.Equipe{}, fmt.Errorf("get equipe: %w", err)
	}

	item, ok := value.(equipe.Equipe)
	if !ok {
		return equipe.Equipe{}, fmt.Errorf("get equipe: unexpected cached type %T", value)
	}
	return item.Clone(), nil
}

func (s *EquipeQueries) findCachedEquipe(id string) (equipe.Equipe, bool) {
	for _, value := range s.cache.Values(NamespaceEquipes) {
		switch v := value.(type) {
		case []equipe.Equipe:
			for _, item := range v {
				if item.ID == id && item.Enriched() {
					return item.Clone(), true
				}
			}
		case equipe.Equipe:
			if v.ID == id && v.Enriched() {
				return v.Clone(), true
			}
		}
	}
	return equipe.Equipe{}, false
}

func (s *EquipeQueries) ListFuncionariosByRole(ctx context.Context, role string) ([]funcionario.Funcionario, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EquipeQueries.ListFuncionariosByRole")
	defer span.End()

	role = strings.TrimSpace(role)
	if role == "" {
		return nil, fmt.Errorf("%w: funcao is required", ErrInvalidInput)
	}

	value, err := s.cache.Fetch(ctx, funcionariosRoleKey(role), s.cfg.FuncionarioStaleTime, func(ctx context.Context) (any, error) {
		items, err := s.funcionarioRepo.ListByRole(ctx, role)
		if err != nil {
			s.logger.ErrorContext(ctx, "fetch funcionarios by role failed", "funcao", role, "error", err)
			return nil, dependencyError(err)
		}
		return items, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list funcionarios by role: %w", err)
	}

	return copyFuncionarios(value)
}

func (s *EquipeQueries) ListEncarregados(ctx context.Context) ([]funcionario.Funcionario, error) {
	return s.ListFuncionariosByRole(ctx, funcionario.RoleEncarregado)
}

func (s *EquipeQueries) ListApontadores(ctx context.Context) ([]funcionario.Funcionario, error) {
	return s.ListFuncionariosByRole(ctx, funcionario.RoleApontador)
}

func (s *EquipeQueries) ListAllFuncionarios(ctx context.Context) ([]funcionario.Funcionario, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EquipeQueries.ListAllFuncionarios")
	defer span.End()

	value, err := s.cache.Fetch(ctx, funcionariosAllKey(), s.cfg.FuncionarioStaleTime, func(ctx context.Context) (any, error) {
		items, err := s.funcionarioRepo.ListAll(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "fetch all funcionarios failed", "error", err)
			return nil, dependencyError(err)
		}
		s.logger.InfoContext(ctx, "funcionarios loaded", "count", len(items))
		return items, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list funcionarios: %w", err)
	}

	return copyFuncionarios(value)
}

func (s *EquipeQueries) EquipesState(filter equipe.Filter) cache.QueryState {
	return s.cache.State(equipesListKey(filter.Normalize()))
}

func (s *EquipeQueries) FuncionariosByRoleState(role string) cache.QueryState {
	return s.cache.State(funcionariosRoleKey(strings.TrimSpace(role)))
}

func (s *EquipeQueries) AllFuncionariosState() cache.QueryState {
	return s.cache.State(funcionariosAllKey())
}

func copyFuncionarios(value any) ([]funcionario.Funcionario, error) {
	items, ok := value.([]funcionario.Funcionario)
	if !ok {
		return nil, fmt.Errorf("unexpected cached type %T", value)
	}
	return append(make([]funcionario.Funcionario, 0, len(items)), items...), nil
}

// dependencyError marks failures where the backend refused to be called.
func dependencyError(err error) error {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}
	return err
}
