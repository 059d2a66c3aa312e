package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/modelgate/modelgate/internal/auth"
	"github.com/modelgate/modelgate/internal/model"
	"github.com/modelgate/modelgate/internal/service"
)

// APIKeyHandler handles API key management endpoints.
type APIKeyHandler struct {
	logger  *slog.Logger
	service *service.APIKeyService
}

// NewAPIKeyHandler creates a new APIKeyHandler.
func NewAPIKeyHandler(logger *slog.Logger, svc *service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{
		logger:  logger,
		service: svc,
	}
}

// Create handles POST /api/v1/api-keys
//
// The response carries the plaintext secret; this is the only time the
// caller can capture it at creation.
func (h *APIKeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req model.APIKeyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	key, err := h.service.Create(r.Context(), userID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrKeyNameRequired):
			writeValidationError(w, []FieldError{{Field: "name", Message: "Name is required"}})
		case errors.Is(err, service.ErrKeyNameTooLong):
			writeValidationError(w, []FieldError{{Field: "name", Message: "Name must be at most 100 characters"}})
		default:
			h.logger.Error("failed to create API key", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.logger.Info("API key created",
		slog.String("key_id", key.ID),
		slog.String("user_id", userID),
	)

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "API key created successfully",
		"apiKey":  key,
	})
}

// List handles GET /api/v1/api-keys
func (h *APIKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	keys, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list API keys", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if keys == nil {
		keys = []*model.APIKey{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"apiKeys": keys,
	})
}

// Update handles PUT /api/v1/api-keys
func (h *APIKeyHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req model.APIKeyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []FieldError
	if req.ID == "" {
		errs = append(errs, FieldError{Field: "id", Message: "ID is required"})
	}
	if req.Disabled == nil {
		errs = append(errs, FieldError{Field: "disabled", Message: "Disabled flag is required"})
	}
	if len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	key, err := h.service.SetDisabled(r.Context(), userID, req.ID, *req.Disabled)
	if err != nil {
		if errors.Is(err, service.ErrKeyNotFound) {
			writeError(w, http.StatusNotFound, "API key not found")
			return
		}
		h.logger.Error("failed to update API key", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Info("API key updated",
		slog.String("key_id", key.ID),
		slog.String("user_id", userID),
		slog.Bool("disabled", key.Disabled),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "API key updated successfully",
		"apiKey":  key,
	})
}

// Delete handles DELETE /api/v1/api-keys/{id}
func (h *APIKeyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	keyID := chi.URLParam(r, "id")
	if keyID == "" {
		writeError(w, http.StatusBadRequest, "Key ID is required")
		return
	}

	if err := h.service.SoftDelete(r.Context(), userID, keyID); err != nil {
		if errors.Is(err, service.ErrKeyNotFound) {
			writeError(w, http.StatusNotFound, "API key not found")
			return
		}
		h.logger.Error("failed to delete API key", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Info("API key deleted",
		slog.String("key_id", keyID),
		slog.String("user_id", userID),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "API key deleted successfully",
	})
}
