package postgrest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/equipe-service/internal/domain/equipe"
	"github.com/riskibarqy/equipe-service/internal/platform/logging"
	"github.com/riskibarqy/equipe-service/internal/platform/resilience"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*ClientConfig)) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := ClientConfig{
		BaseURL:    srv.URL + "/rest/v1",
		APIKey:     "anon-key",
		Timeout:    2 * time.Second,
		RetryDelay: time.Millisecond,
		Logger:     logging.NewNop(),
	}
	for _, fn := range mutate {
		fn(&cfg)
	}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestEquipeRepository_ListSendsFiltersAndDecodesJoins(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/bd_equipes" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("unexpected apikey header: %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer anon-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		q := r.URL.Query()
		if q.Get("select") != equipeSelect {
			t.Errorf("unexpected select: %q", q.Get("select"))
		}
		if q.Get("nome_equipe") != "ilike.*Alfa*" {
			t.Errorf("unexpected nome filter: %q", q.Get("nome_equipe"))
		}
		if q.Get("encarregado_id") != "eq.enc-1" {
			t.Errorf("unexpected encarregado filter: %q", q.Get("encarregado_id"))
		}
		if q.Has("apontador_id") {
			t.Errorf("apontador filter should be omitted")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{
			"id":"e1","nome_equipe":"Alfa","encarregado_id":"enc-1","apontador_id":null,
			"equipe":["m2","m1"],"created_at":"2025-03-03T07:00:00+00:00","updated_at":"2025-03-03T07:00:00+00:00",
			"encarregado":{"id":"enc-1","nome_completo":"Carlos Souza"},"apontador":null
		}]`)
	})

	repo := NewEquipeRepository(client)
	items, err := repo.List(context.Background(), equipe.Filter{Nome: " Alfa ", EncarregadoID: "enc-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	got := items[0]
	if got.Encarregado == nil || got.Encarregado.NomeCompleto != "Carlos Souza" {
		t.Fatalf("unexpected encarregado: %+v", got.Encarregado)
	}
	if got.Apontador != nil || got.ApontadorID != "" {
		t.Fatalf("expected no apontador, got %+v", got.Apontador)
	}
	if len(got.MemberIDs) != 2 || got.MemberIDs[0] != "m2" {
		t.Fatalf("unexpected member ids: %+v", got.MemberIDs)
	}
}

func TestEquipeRepository_ListReturnsBackendMessage(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"column bd_equipes.nome does not exist","code":"42703","details":null,"hint":"Perhaps you meant nome_equipe"}`)
	}, func(cfg *ClientConfig) { cfg.MaxRetries = 3 })

	_, err := NewEquipeRepository(client).List(context.Background(), equipe.Filter{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "column bd_equipes.nome does not exist") {
		t.Fatalf("expected backend message in error, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "42703" || apiErr.Hint == "" {
		t.Fatalf("expected APIError with code and hint, got %#v", apiErr)
	}
	if calls.Load() != 1 {
		t.Fatalf("client errors must not be retried, got %d calls", calls.Load())
	}
}

func TestClient_RetriesTransientGet(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"message":"upstream unavailable"}`)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	}, func(cfg *ClientConfig) { cfg.MaxRetries = 2 })

	items, err := NewEquipeRepository(client).List(context.Background(), equipe.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 || calls.Load() != 3 {
		t.Fatalf("unexpected items=%d calls=%d", len(items), calls.Load())
	}
}

func TestClient_CircuitOpensOnTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute, HalfOpenMaxReq: 1}
	})

	repo := NewFuncionarioRepository(client)
	for i := 0; i < 2; i++ {
		if _, err := repo.ListAll(context.Background()); err == nil {
			t.Fatalf("expected failure")
		}
	}

	_, err := repo.ListAll(context.Background())
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected open circuit to skip the request, got %d calls", calls.Load())
	}
}

func TestEquipeRepository_RejectsInvalidRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"nome_equipe":"sem id"}]`)
	})

	if _, err := NewEquipeRepository(client).List(context.Background(), equipe.Filter{}); err == nil {
		t.Fatalf("expected validation error for row without id")
	}
}

func TestEquipeRepository_CreateWritesTeamThenBackReferences(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path+" "+r.URL.Query().Get("id"))
		mu.Unlock()

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/bd_equipes":
			if r.Header.Get("Prefer") != preferReturnRepresentation {
				t.Errorf("unexpected prefer header: %q", r.Header.Get("Prefer"))
			}
			if !strings.Contains(string(body), `"id":"e1"`) || !strings.Contains(string(body), `"encarregado_id":null`) {
				t.Errorf("unexpected create body: %s", body)
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `[{"id":"e1","nome_equipe":"Alfa","equipe":["m1","m2"]}]`)
		case r.Method == http.MethodPatch && r.URL.Path == "/rest/v1/bd_funcionarios":
			if !strings.Contains(string(body), `"equipe_id":"e1"`) {
				t.Errorf("unexpected back-reference body: %s", body)
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	created, err := NewEquipeRepository(client).Create(context.Background(), equipe.Equipe{
		ID:        "e1",
		Nome:      "Alfa",
		MemberIDs: []string{"m1", "m2"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "e1" || len(created.MemberIDs) != 2 {
		t.Fatalf("unexpected created record: %+v", created)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[1] != "PATCH /rest/v1/bd_funcionarios in.(m1,m2)" {
		t.Fatalf("unexpected request sequence: %+v", seen)
	}
}

func TestEquipeRepository_CreateMapsForeignKeyViolation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"message":"insert or update on table \"bd_equipes\" violates foreign key constraint","code":"23503"}`)
	})

	_, err := NewEquipeRepository(client).Create(context.Background(), equipe.Equipe{ID: "e1", Nome: "Alfa", EncarregadoID: "missing"})
	if !errors.Is(err, equipe.ErrUnknownFuncionario) {
		t.Fatalf("expected ErrUnknownFuncionario, got %v", err)
	}
}

func TestEquipeRepository_DeleteMissingIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			_, _ = io.WriteString(w, `[]`)
		}
	})

	err := NewEquipeRepository(client).Delete(context.Background(), "e404")
	if !errors.Is(err, equipe.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFuncionarioRepository_ListByRole(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("funcao"); got != "eq.Encarregado" {
			t.Errorf("unexpected funcao filter: %q", got)
		}
		_, _ = io.WriteString(w, `[{"id":"f1","nome_completo":"Carlos","equipe_id":null,"funcao":"Encarregado"}]`)
	})

	items, err := NewFuncionarioRepository(client).ListByRole(context.Background(), "Encarregado")
	if err != nil {
		t.Fatalf("list by role: %v", err)
	}
	if len(items) != 1 || items[0].Funcao != "Encarregado" || items[0].EquipeID != "" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestNewClientValidatesConfig(t *testing.T) {
	if _, err := NewClient(ClientConfig{BaseURL: "ftp://x", APIKey: "k"}); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
	if _, err := NewClient(ClientConfig{BaseURL: "https://x.supabase.co/rest/v1"}); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}
