package transport

import (
	"net/http"

	"freemarket-be/internal/payment"
	"freemarket-be/internal/utils"
)

type recordPaymentRequest struct {
	OrderID       int64  `json:"order_id"`
	AmountCents   int64  `json:"amount_cents"`
	PaymentMethod string `json:"payment_method"`
	TransactionID string `json:"transaction_id"`
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req recordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Owner-or-admin check rides on the order lookup.
	if _, err := h.OrderSvc.GetOrderDetail(r.Context(), userID, req.OrderID, isAdmin(r)); err != nil {
		writeDomainError(w, r, err)
		return
	}

	p, err := h.PaymentSvc.RecordPayment(r.Context(), payment.RecordParams{
		OrderID:       req.OrderID,
		AmountCents:   req.AmountCents,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, p, http.StatusCreated)
}

func (h *Handler) ListOrderPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.OrderSvc.GetOrderDetail(r.Context(), userID, orderID, isAdmin(r)); err != nil {
		writeDomainError(w, r, err)
		return
	}

	payments, err := h.PaymentSvc.GetPaymentsByOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, payments, http.StatusOK)
}
