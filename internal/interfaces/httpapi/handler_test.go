package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/equipe-service/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/equipe-service/internal/platform/cache"
	idgen "github.com/riskibarqy/equipe-service/internal/platform/id"
	"github.com/riskibarqy/equipe-service/internal/platform/logging"
	"github.com/riskibarqy/equipe-service/internal/usecase"
)

const newEquipeID = "c0ffee00-0000-4000-8000-000000000001"

type envelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db := memory.NewSeededDatabase()
	logger := logging.NewNop()
	queries := usecase.NewEquipeQueries(
		memory.NewEquipeRepository(db),
		memory.NewFuncionarioRepository(db),
		cache.NewQueryCache(cache.Options{Logger: logger}),
		idgen.NewStaticGenerator(newEquipeID),
		logger,
		usecase.QueryConfig{},
	)
	return NewRouter(NewHandler(queries, logger), logger, false, nil)
}

func serve(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response body: %v body=%s", err, rec.Body.String())
	}
	return out
}

func TestHandler_Healthz(t *testing.T) {
	rec := serve(t, newTestRouter(t), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_ListEquipes_ResolvesMembers(t *testing.T) {
	rec := serve(t, newTestRouter(t), http.MethodGet, "/v1/equipes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeBody[[]equipeDTO](t, rec)
	if len(body.Data) != len(memory.SeedEquipes()) {
		t.Fatalf("expected %d equipes, got %d", len(memory.SeedEquipes()), len(body.Data))
	}
	for _, item := range body.Data {
		if item.Encarregado == nil || item.Encarregado.NomeCompleto == "" {
			t.Fatalf("expected encarregado joined for %s", item.ID)
		}
		if len(item.Membros) != len(item.Equipe) {
			t.Fatalf("expected %d membros for %s, got %d", len(item.Equipe), item.ID, len(item.Membros))
		}
		if item.MembrosStatus != "loaded" {
			t.Fatalf("expected loaded membros status, got %q", item.MembrosStatus)
		}
	}
}

func TestHandler_ListEquipes_FiltersByEncarregado(t *testing.T) {
	rec := serve(t, newTestRouter(t), http.MethodGet, "/v1/equipes?encarregado_id="+memory.FuncionarioIDMarta, "")
	body := decodeBody[[]equipeDTO](t, rec)
	if len(body.Data) != 1 || body.Data[0].ID != memory.EquipeIDEletrica {
		t.Fatalf("unexpected filtered result: %+v", body.Data)
	}
}

func TestHandler_GetEquipe_NotFound(t *testing.T) {
	rec := serve(t, newTestRouter(t), http.MethodGet, "/v1/equipes/"+newEquipeID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody[any](t, rec)
	if body.Error == nil || body.Error.Status != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND error body, got %+v", body.Error)
	}
}

func TestHandler_CreateEquipe_ThenListIncludesIt(t *testing.T) {
	router := newTestRouter(t)

	// prime the list cache so the write has something to invalidate
	_ = serve(t, router, http.MethodGet, "/v1/equipes", "")

	payload := `{"nome_equipe":"Pintura","encarregado_id":"` + memory.FuncionarioIDCarlos + `","equipe":["` + memory.FuncionarioIDPedro + `"]}`
	rec := serve(t, router, http.MethodPost, "/v1/equipes", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	created := decodeBody[equipeDTO](t, rec)
	if created.Data.ID != newEquipeID || created.Data.NomeEquipe != "Pintura" {
		t.Fatalf("unexpected created equipe: %+v", created.Data)
	}

	rec = serve(t, router, http.MethodGet, "/v1/equipes?nome_equipe=pint", "")
	list := decodeBody[[]equipeDTO](t, rec)
	if len(list.Data) != 1 || list.Data[0].ID != newEquipeID {
		t.Fatalf("expected new equipe in list after write, got %+v", list.Data)
	}
	if len(list.Data[0].Membros) != 1 || list.Data[0].Membros[0].ID != memory.FuncionarioIDPedro {
		t.Fatalf("expected member resolved, got %+v", list.Data[0].Membros)
	}
}

func TestHandler_CreateEquipe_RejectsInvalidPayload(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"nome_equipe":`},
		{name: "unknown field", body: `{"nome_equipe":"X","foo":1}`},
		{name: "missing name", body: `{"encarregado_id":"` + memory.FuncionarioIDCarlos + `"}`},
		{name: "bad uuid", body: `{"nome_equipe":"X","apontador_id":"nope"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, router, http.MethodPost, "/v1/equipes", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandler_UpdateAndDeleteEquipe(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(t, router, http.MethodPut, "/v1/equipes/"+memory.EquipeIDAlvenaria, `{"nome_equipe":"Alvenaria Bloco B","equipe":[]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = serve(t, router, http.MethodGet, "/v1/equipes/"+memory.EquipeIDAlvenaria, "")
	got := decodeBody[equipeDTO](t, rec)
	if got.Data.NomeEquipe != "Alvenaria Bloco B" {
		t.Fatalf("expected renamed equipe, got %q", got.Data.NomeEquipe)
	}
	if got.Data.MembrosStatus != "empty" || got.Data.Membros == nil || len(got.Data.Membros) != 0 {
		t.Fatalf("expected empty membros, got status=%q membros=%v", got.Data.MembrosStatus, got.Data.Membros)
	}

	rec = serve(t, router, http.MethodDelete, "/v1/equipes/"+memory.EquipeIDAlvenaria, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d body=%s", rec.Code, rec.Body.String())
	}
	rec = serve(t, router, http.MethodGet, "/v1/equipes/"+memory.EquipeIDAlvenaria, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestHandler_ListFuncionarios(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(t, router, http.MethodGet, "/v1/funcionarios", "")
	all := decodeBody[[]funcionarioDTO](t, rec)
	if len(all.Data) != len(memory.SeedFuncionarios()) {
		t.Fatalf("expected all funcionarios, got %d", len(all.Data))
	}

	rec = serve(t, router, http.MethodGet, "/v1/funcionarios?funcao=Encarregado", "")
	encarregados := decodeBody[[]funcionarioDTO](t, rec)
	if len(encarregados.Data) != 2 {
		t.Fatalf("expected 2 encarregados, got %d", len(encarregados.Data))
	}
	for _, f := range encarregados.Data {
		if f.Funcao != "Encarregado" {
			t.Fatalf("unexpected funcao %q", f.Funcao)
		}
	}
}

func TestHandler_Overview(t *testing.T) {
	rec := serve(t, newTestRouter(t), http.MethodGet, "/v1/equipes/overview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeBody[overviewDTO](t, rec)
	if body.Data.IsLoading {
		t.Fatalf("expected settled overview")
	}
	if len(body.Data.Equipes.Data) != len(memory.SeedEquipes()) {
		t.Fatalf("unexpected equipes count %d", len(body.Data.Equipes.Data))
	}
	if len(body.Data.Apontadores.Data) != 2 || len(body.Data.Encarregados.Data) != 2 {
		t.Fatalf("unexpected role lists: %+v", body.Data)
	}
	if body.Data.Funcionarios.State.Status != "success" {
		t.Fatalf("expected success state, got %q", body.Data.Funcionarios.State.Status)
	}
}

func TestRecoverPanic_WritesInternalError(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	rec := httptest.NewRecorder()
	recoverPanic(logging.NewNop(), panicky).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/equipes", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHandler_DocsRoutesOnlyWhenEnabled(t *testing.T) {
	logger := logging.NewNop()
	handler := NewHandler(nil, logger)

	disabled := NewRouter(handler, logger, false, nil)
	if rec := serve(t, disabled, http.MethodGet, "/openapi.yaml", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with docs disabled, got %d", rec.Code)
	}

	enabled := NewRouter(handler, logger, true, nil)
	rec := serve(t, enabled, http.MethodGet, "/openapi.yaml", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/v1/equipes") {
		t.Fatalf("expected openapi document, got %d", rec.Code)
	}
	if rec := serve(t, enabled, http.MethodGet, "/docs", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected docs page, got %d", rec.Code)
	}
}
