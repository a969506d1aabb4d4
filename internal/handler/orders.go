package handler

import (
	"net/http"

	"mystore-be/internal/logger"

	"go.uber.org/zap"
)

// ListOrders returns the identity's ledger entries, most recent first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	records, err := h.Ledger.ListFor(r.Context(), identity)
	if err != nil {
		logger.FromCtx(r.Context()).Error("Failed listing orders", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orders":  records,
	})
}
