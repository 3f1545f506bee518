package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/equipe-service/internal/platform/logging"
	"github.com/riskibarqy/equipe-service/internal/usecase"
)

type Handler struct {
	equipeQueries *usecase.EquipeQueries
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(equipeQueries *usecase.EquipeQueries, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		equipeQueries: equipeQueries,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeAndValidate reads a JSON body into dst, rejecting unknown fields,
// then runs the validate tags of dst.
func (h *Handler) decodeAndValidate(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.StructCtx(r.Context(), dst); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
