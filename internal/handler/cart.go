package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"mystore-be/internal/cart"
	"mystore-be/internal/utils"
)

func (h *Handler) requireIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	key, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "user not authenticated")
		return "", false
	}
	return key, true
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	c := h.Carts.Get(identity)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"items":   c.Snapshot(),
		"total":   c.Total(),
		"count":   c.Count(),
	})
}

type addCartItemRequest struct {
	cart.Product
	Quantity int `json:"quantity"`
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == 0 {
		writeError(w, http.StatusBadRequest, "invalid cart item")
		return
	}
	if req.Price < 0 {
		writeError(w, http.StatusBadRequest, "invalid product price")
		return
	}

	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	c := h.Carts.Get(identity)
	c.AddItemQty(req.Product, qty)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"items":   c.Snapshot(),
		"total":   c.Total(),
		"count":   c.Count(),
	})
}

type changeQuantityRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) ChangeCartQuantity(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req changeQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Delta == 0 {
		writeError(w, http.StatusBadRequest, "delta must be a non-zero integer")
		return
	}

	c := h.Carts.Get(identity)
	c.ChangeQuantity(uint(productID), req.Delta)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"items":   c.Snapshot(),
		"total":   c.Total(),
		"count":   c.Count(),
	})
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	c := h.Carts.Get(identity)
	c.RemoveItem(uint(productID))

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"items":   c.Snapshot(),
		"total":   c.Total(),
		"count":   c.Count(),
	})
}
