package transport

import (
	"encoding/json"
	"net/http"

	"freemarket-be/internal/user"
	"freemarket-be/internal/utils"
)

func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Data json.RawMessage `json:"data"`
	}
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	app, err := h.SellerSvc.Submit(r.Context(), userID, req.Data)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, app, http.StatusCreated)
}

func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if !requireRole(w, r, user.RoleAdmin) {
		return
	}

	q := r.URL.Query()
	limit, page := paginationParams(q.Get("limit"), q.Get("page"))

	apps, err := h.SellerSvc.ListPending(r.Context(), limit, page)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, apps, http.StatusOK)
}

func (h *Handler) ApproveApplication(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if !requireRole(w, r, user.RoleAdmin) {
		return
	}
	applicationID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.SellerSvc.Approve(r.Context(), applicationID, reviewerID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RejectApplication(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if !requireRole(w, r, user.RoleAdmin) {
		return
	}
	applicationID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.SellerSvc.Reject(r.Context(), applicationID, reviewerID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
