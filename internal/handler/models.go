package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/modelgate/modelgate/internal/model"
	"github.com/modelgate/modelgate/internal/service"
)

// ModelsHandler serves the read-only model/provider/pricing catalog.
type ModelsHandler struct {
	logger  *slog.Logger
	service *service.CatalogService
}

// NewModelsHandler creates a new ModelsHandler.
func NewModelsHandler(logger *slog.Logger, svc *service.CatalogService) *ModelsHandler {
	return &ModelsHandler{
		logger:  logger,
		service: svc,
	}
}

// Models handles GET /api/v1/models
func (h *ModelsHandler) Models(w http.ResponseWriter, r *http.Request) {
	models, err := h.service.Models(r.Context())
	if err != nil {
		h.logger.Error("model listing failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if models == nil {
		models = []*model.Model{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"models":  models,
	})
}

// Providers handles GET /api/v1/models/providers
func (h *ModelsHandler) Providers(w http.ResponseWriter, r *http.Request) {
	providers, err := h.service.Providers(r.Context())
	if err != nil {
		h.logger.Error("provider listing failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if providers == nil {
		providers = []*model.Provider{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"providers": providers,
	})
}

// Mappings handles GET /api/v1/models/mappings?modelId=
func (h *ModelsHandler) Mappings(w http.ResponseWriter, r *http.Request) {
	var modelID int64
	if raw := r.URL.Query().Get("modelId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "modelId must be a positive integer")
			return
		}
		modelID = parsed
	}

	mappings, err := h.service.Mappings(r.Context(), modelID)
	if err != nil {
		h.logger.Error("mapping listing failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if mappings == nil {
		mappings = []*model.Mapping{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"mappings": mappings,
	})
}
