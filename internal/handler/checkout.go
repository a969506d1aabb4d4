package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mystore-be/internal/checkout"
	"mystore-be/internal/payment"
)

// BeginCheckout snapshots the identity's cart and opens a gateway order
// for the snapshot total. The response hands the client everything the
// gateway's collection widget needs.
func (h *Handler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	attempt, err := h.Orchestrator.Begin(r.Context(), identity)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeGatewayError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   attempt.Order(),
		"key_id":  h.Gateway.KeyID(),
	})
}

// CompleteCheckout consumes the gateway's completion assertion: verify,
// append to the ledger, clear the cart. Every failure leaves the cart
// intact and reports through the uniform envelope.
func (h *Handler) CompleteCheckout(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var assertion checkout.PaymentAssertion
	if err := json.NewDecoder(r.Body).Decode(&assertion); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if assertion.OrderID == "" || assertion.PaymentID == "" || assertion.Signature == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	rec, err := h.Orchestrator.Complete(r.Context(), identity, assertion)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrVerificationFailed):
			writeError(w, http.StatusBadRequest, "Payment verification failed")
		case errors.Is(err, payment.ErrSecretNotConfigured):
			writeError(w, http.StatusInternalServerError, err.Error())
		case errors.Is(err, checkout.ErrNoActiveCheckout),
			errors.Is(err, checkout.ErrAssertionConsumed):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to record order")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Payment verified successfully",
		"payment_id": rec.PaymentID,
		"order_id":   rec.GatewayOrderID,
		"order":      rec,
	})
}
