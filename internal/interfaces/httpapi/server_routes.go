package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.Docs)
	mux.HandleFunc("GET /docs/", handler.Docs)
}

func registerEquipeRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/equipes", handler.ListEquipes)
	mux.HandleFunc("GET /v1/equipes/overview", handler.GetEquipesOverview)
	mux.HandleFunc("GET /v1/equipes/{equipeID}", handler.GetEquipe)
	mux.HandleFunc("POST /v1/equipes", handler.CreateEquipe)
	mux.HandleFunc("PUT /v1/equipes/{equipeID}", handler.UpdateEquipe)
	mux.HandleFunc("DELETE /v1/equipes/{equipeID}", handler.DeleteEquipe)
}

func registerFuncionarioRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/funcionarios", handler.ListFuncionarios)
}
