package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mystore-be/internal/gateway"
	"mystore-be/internal/logger"
	"mystore-be/internal/payment"

	"go.uber.org/zap"
)

type createOrderRequest struct {
	Amount *json.Number `json:"amount"`
}

// CreateOrder opens a gateway transaction for the requested amount.
// Stateless: the amount comes from the request, conversion to minor
// units and credential checks happen in the gateway client.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount == nil {
		writeError(w, http.StatusBadRequest, "missing or invalid amount")
		return
	}

	// Fractional amounts are rejected outright, never rounded.
	amount, err := req.Amount.Int64()
	if err != nil || amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be a positive integer")
		return
	}

	gwOrder, err := h.Gateway.CreateOrder(r.Context(), amount)
	if err != nil {
		h.writeGatewayError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   gwOrder,
		"key_id":  h.Gateway.KeyID(),
	})
}

func (h *Handler) writeGatewayError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromCtx(r.Context())

	var rejected *gateway.RejectedError
	switch {
	case errors.Is(err, gateway.ErrMissingCredentials):
		writeError(w, http.StatusInternalServerError,
			"Razorpay credentials not configured. Please add RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET to environment variables.")
	case errors.Is(err, gateway.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &rejected):
		// Surface the gateway's own status and reason verbatim.
		writeError(w, rejected.Status, rejected.Reason)
	default:
		log.Error("Order creation failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to reach payment gateway")
	}
}

type verifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// VerifyPayment checks a completion assertion's signature. Stateless
// counterpart of the orchestrator's completion step; a configuration
// failure is reported as such, never as a failed payment.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	result, err := h.Verifier.Verify(req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result != payment.Accepted {
		writeError(w, http.StatusBadRequest, "Payment verification failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Payment verified successfully",
		"payment_id": req.PaymentID,
		"order_id":   req.OrderID,
	})
}
