package app

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/equipe-service/internal/config"
	"github.com/riskibarqy/equipe-service/internal/domain/equipe"
	"github.com/riskibarqy/equipe-service/internal/domain/funcionario"
	"github.com/riskibarqy/equipe-service/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/equipe-service/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/equipe-service/internal/infrastructure/repository/postgrest"
	"github.com/riskibarqy/equipe-service/internal/interfaces/httpapi"
	"github.com/riskibarqy/equipe-service/internal/platform/cache"
	idgen "github.com/riskibarqy/equipe-service/internal/platform/id"
	"github.com/riskibarqy/equipe-service/internal/platform/logging"
	"github.com/riskibarqy/equipe-service/internal/platform/resilience"
	"github.com/riskibarqy/equipe-service/internal/usecase"
)

type repositories struct {
	equipes      equipe.Repository
	funcionarios funcionario.Repository
	close        func() error
}

// NewHTTPServer wires the configured data backend into the query layer and
// the HTTP router. The returned cleanup releases backend resources.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, err := newRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	queryCache := cache.NewQueryCache(cache.Options{
		GCTime:     cfg.CacheGCTime,
		Retries:    cfg.CacheQueryRetries,
		RetryDelay: cfg.CacheQueryRetryDelay,
		Logger:     logger.Named("cache"),
	})
	queries := usecase.NewEquipeQueries(
		repos.equipes,
		repos.funcionarios,
		queryCache,
		idgen.NewUUIDGenerator(),
		logger,
		usecase.QueryConfig{
			EquipeStaleTime:      cfg.CacheEquipeStaleTime,
			FuncionarioStaleTime: cfg.CacheFuncionarioStaleTime,
			EnrichWorkers:        cfg.EnrichWorkers,
		},
	)

	handler := httpapi.NewHandler(queries, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, repos.close, nil
}

func newRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	switch cfg.DataBackend {
	case config.BackendMemory:
		logger.Warn("using in-memory data backend", "data_backend", cfg.DataBackend)
		db := memory.NewSeededDatabase()
		return repositories{
			equipes:      memory.NewEquipeRepository(db),
			funcionarios: memory.NewFuncionarioRepository(db),
			close:        func() error { return nil },
		}, nil
	case config.BackendPostgREST:
		client, err := postgrest.NewClient(postgrest.ClientConfig{
			BaseURL:    cfg.PostgRESTURL,
			APIKey:     cfg.PostgRESTAPIKey,
			Timeout:    cfg.PostgRESTTimeout,
			MaxRetries: cfg.PostgRESTMaxRetries,
			RetryDelay: cfg.PostgRESTRetryDelay,
			Logger:     logger.Named("postgrest"),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.PostgRESTCircuitEnabled,
				FailureThreshold: cfg.PostgRESTCircuitFailures,
				OpenTimeout:      cfg.PostgRESTCircuitOpenTime,
				HalfOpenMaxReq:   cfg.PostgRESTCircuitHalfOpen,
			},
		})
		if err != nil {
			return repositories{}, fmt.Errorf("build postgrest client: %w", err)
		}
		return repositories{
			equipes:      postgrest.NewEquipeRepository(client),
			funcionarios: postgrest.NewFuncionarioRepository(client),
			close:        func() error { return nil },
		}, nil
	case config.BackendPostgres:
		db, err := postgres.Open(postgres.Options{
			URL:                         cfg.DBURL,
			DisablePreparedBinaryResult: cfg.DBDisablePreparedBinary,
			ServiceName:                 cfg.ServiceName,
		})
		if err != nil {
			return repositories{}, err
		}
		return repositories{
			equipes:      postgres.NewEquipeRepository(db),
			funcionarios: postgres.NewFuncionarioRepository(db),
			close:        db.Close,
		}, nil
	default:
		return repositories{}, fmt.Errorf("unsupported data backend %q", cfg.DataBackend)
	}
}
