package handler

import (
	"encoding/json"
	"net/http"

	"mystore-be/internal/cart"
	"mystore-be/internal/checkout"
	"mystore-be/internal/gateway"
	"mystore-be/internal/order"
	"mystore-be/internal/payment"
)

// Handler wires the checkout core to its JSON endpoints. Every failure is
// converted to the uniform {success:false, error} envelope here; nothing
// escapes as an unhandled fault.
type Handler struct {
	Carts        *cart.Store
	Gateway      gateway.Gateway
	Verifier     payment.Verifier
	Orchestrator *checkout.Orchestrator
	Ledger       order.Repository
}

func New(carts *cart.Store, gw gateway.Gateway, v payment.Verifier, orch *checkout.Orchestrator, ledger order.Repository) *Handler {
	return &Handler{
		Carts:        carts,
		Gateway:      gw,
		Verifier:     v,
		Orchestrator: orch,
		Ledger:       ledger,
	}
}

// Register mounts all routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/create-order", h.CreateOrder)
	mux.HandleFunc("POST /api/verify-payment", h.VerifyPayment)

	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("POST /api/cart/items", h.AddCartItem)
	mux.HandleFunc("PATCH /api/cart/items/{id}", h.ChangeCartQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.RemoveCartItem)

	mux.HandleFunc("POST /api/checkout", h.BeginCheckout)
	mux.HandleFunc("POST /api/checkout/complete", h.CompleteCheckout)

	mux.HandleFunc("GET /api/orders", h.ListOrders)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}
