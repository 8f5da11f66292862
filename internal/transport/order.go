package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"freemarket-be/internal/order"
	"freemarket-be/internal/user"
	"freemarket-be/internal/utils"
)

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	o, err := h.OrderSvc.Checkout(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, o, http.StatusCreated)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()

	var filter *order.ListFilter
	if q.Get("status") != "" || q.Get("date_from") != "" || q.Get("date_to") != "" {
		filter = &order.ListFilter{}
		if s := q.Get("status"); s != "" {
			st := order.Status(s)
			filter.Status = &st
		}
		if s := q.Get("date_from"); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				utils.WriteJSONError(w, "invalid date_from", http.StatusBadRequest)
				return
			}
			filter.DateFrom = &t
		}
		if s := q.Get("date_to"); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				utils.WriteJSONError(w, "invalid date_to", http.StatusBadRequest)
				return
			}
			filter.DateTo = &t
		}
	}

	limit, page := paginationParams(q.Get("limit"), q.Get("page"))

	orders, err := h.OrderSvc.GetOrders(r.Context(), userID, isAdmin(r), filter, limit, page)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, orders, http.StatusOK)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	o, err := h.OrderSvc.GetOrderDetail(r.Context(), userID, orderID, isAdmin(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, o, http.StatusOK)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.OrderSvc.Cancel(r.Context(), userID, orderID, isAdmin(r)); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if !requireRole(w, r, user.RoleAdmin) {
		return
	}
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.OrderSvc.UpdateOrderStatus(r.Context(), orderID, order.Status(req.Status)); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateOrderMetadata(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Metadata json.RawMessage `json:"metadata"`
	}
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.OrderSvc.UpdateMetadata(r.Context(), userID, orderID, req.Metadata, isAdmin(r)); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateOrderItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	orderItemID, ok := pathID(w, r, "orderItemID")
	if !ok {
		return
	}

	var req struct {
		Quantity int64 `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.OrderSvc.UpdateOrderItemQuantity(r.Context(), userID, orderID, orderItemID, req.Quantity, isAdmin(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteOrderItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	orderItemID, ok := pathID(w, r, "orderItemID")
	if !ok {
		return
	}

	if err := h.OrderSvc.DeleteOrderItem(r.Context(), userID, orderID, orderItemID, isAdmin(r)); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
