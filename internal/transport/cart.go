package transport

import (
	"net/http"

	"freemarket-be/internal/cart"
	"freemarket-be/internal/utils"
)

type addCartItemRequest struct {
	ItemID   int64  `json:"item_id"`
	Quantity *int64 `json:"quantity"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	c, err := h.CartSvc.GetCart(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if c == nil {
		// No cart yet reads as an empty one.
		c = &cart.Cart{UserID: userID, Items: []*cart.CartItem{}}
	}

	utils.WriteJSON(w, c, http.StatusOK)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Quantity is optional and defaults to a single unit.
	quantity := int64(1)
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	line, err := h.CartSvc.AddItem(r.Context(), cart.AddItemParams{
		UserID:   userID,
		ItemID:   req.ItemID,
		Quantity: quantity,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, line, http.StatusCreated)
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}

	var req struct {
		Quantity *int64 `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// An absent quantity means one unit, never an implicit removal.
	quantity := int64(1)
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	err := h.CartSvc.UpdateQuantity(r.Context(), cart.UpdateQuantityParams{
		UserID:   userID,
		ItemID:   itemID,
		Quantity: quantity,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}

	if err := h.CartSvc.RemoveItem(r.Context(), userID, itemID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.CartSvc.ClearCart(r.Context(), userID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CartActivity returns the append-only activity trail for the caller's cart.
func (h *Handler) CartActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	c, err := h.CartSvc.GetCart(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if c == nil {
		utils.WriteJSON(w, []struct{}{}, http.StatusOK)
		return
	}

	limit := int32(50)
	if l, _ := paginationParams(r.URL.Query().Get("limit"), ""); l != nil {
		limit = *l
	}

	records, err := h.AuditRepo.ListByCart(r.Context(), c.ID, limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, records, http.StatusOK)
}
