package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/equipe-service/internal/domain/equipe"
)

func filterFromRequest(r *http.Request) equipe.Filter {
	query := r.URL.Query()
	return equipe.Filter{
		Nome:          query.Get("nome_equipe"),
		EncarregadoID: query.Get("encarregado_id"),
		ApontadorID:   query.Get("apontador_id"),
	}.Normalize()
}

func (h *Handler) ListEquipes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEquipes")
	defer span.End()

	filter := filterFromRequest(r)
	items, err := h.equipeQueries.ListEquipes(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list equipes failed", "filter", filter.CacheKey(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, equipesToDTO(items))
}

func (h *Handler) GetEquipesOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEquipesOverview")
	defer span.End()

	overview := h.equipeQueries.Overview(ctx, filterFromRequest(r))
	if err := overview.Err(); err != nil {
		// partial results are still served; the failing part carries its state
		h.logger.WarnContext(ctx, "equipes overview partially failed", "error", err)
	}

	writeSuccess(ctx, w, http.StatusOK, overviewToDTO(overview))
}

func (h *Handler) GetEquipe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEquipe")
	defer span.End()

	equipeID := strings.TrimSpace(r.PathValue("equipeID"))
	item, err := h.equipeQueries.GetEquipe(ctx, equipeID)
	if err != nil {
		h.logger.WarnContext(ctx, "get equipe failed", "equipe_id", equipeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, equipeToDTO(item))
}

func (h *Handler) CreateEquipe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateEquipe")
	defer span.End()

	var req upsertEquipeRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.equipeQueries.CreateEquipe(ctx, req.toFormData())
	if err != nil {
		h.logger.WarnContext(ctx, "create equipe failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, equipeToDTO(created))
}

func (h *Handler) UpdateEquipe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateEquipe")
	defer span.End()

	equipeID := strings.TrimSpace(r.PathValue("equipeID"))

	var req upsertEquipeRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.equipeQueries.UpdateEquipe(ctx, equipeID, req.toFormData())
	if err != nil {
		h.logger.WarnContext(ctx, "update equipe failed", "equipe_id", equipeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, equipeToDTO(updated))
}

func (h *Handler) DeleteEquipe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteEquipe")
	defer span.End()

	equipeID := strings.TrimSpace(r.PathValue("equipeID"))
	if err := h.equipeQueries.DeleteEquipe(ctx, equipeID); err != nil {
		h.logger.WarnContext(ctx, "delete equipe failed", "equipe_id", equipeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": equipeID})
}
