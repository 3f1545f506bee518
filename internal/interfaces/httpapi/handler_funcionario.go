package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/equipe-service/internal/domain/funcionario"
)

// ListFuncionarios lists every employee, or only those of one role when
// the funcao query parameter is set.
func (h *Handler) ListFuncionarios(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFuncionarios")
	defer span.End()

	role := strings.TrimSpace(r.URL.Query().Get("funcao"))

	var (
		items []funcionario.Funcionario
		err   error
	)
	if role == "" {
		items, err = h.equipeQueries.ListAllFuncionarios(ctx)
	} else {
		items, err = h.equipeQueries.ListFuncionariosByRole(ctx, role)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "list funcionarios failed", "funcao", role, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, funcionariosToDTO(items))
}
