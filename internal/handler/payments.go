package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelgate/modelgate/internal/auth"
	"github.com/modelgate/modelgate/internal/model"
	"github.com/modelgate/modelgate/internal/service"
)

// PaymentsHandler handles balance and onramp endpoints.
type PaymentsHandler struct {
	logger  *slog.Logger
	service *service.LedgerService
}

// NewPaymentsHandler creates a new PaymentsHandler.
func NewPaymentsHandler(logger *slog.Logger, svc *service.LedgerService) *PaymentsHandler {
	return &PaymentsHandler{
		logger:  logger,
		service: svc,
	}
}

// Onramp handles POST /api/v1/payments/onramp
func (h *PaymentsHandler) Onramp(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	txn, credits, err := h.service.Onramp(r.Context(), userID)
	if err != nil {
		h.logger.Error("onramp failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Info("onramp applied",
		slog.String("user_id", userID),
		slog.String("transaction_id", txn.ID),
		slog.Int64("credits", credits),
	)

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"message":     fmt.Sprintf("%d credits added successfully", txn.Amount),
		"credits":     credits,
		"transaction": txn,
	})
}

// Balance handles GET /api/v1/payments/balance
func (h *PaymentsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	credits, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		h.logger.Error("balance lookup failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"credits": credits,
	})
}

// Transactions handles GET /api/v1/payments/transactions
func (h *PaymentsHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	txns, err := h.service.ListTransactions(r.Context(), userID)
	if err != nil {
		h.logger.Error("transaction listing failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if txns == nil {
		txns = []*model.Transaction{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"transactions": txns,
	})
}
