package transport

import (
	"net/http"

	"freemarket-be/internal/user"
	"freemarket-be/internal/utils"
)

type createCategoryRequest struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if !requireRole(w, r, user.RoleAdmin) {
		return
	}

	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cat, err := h.CategorySvc.AddCategory(r.Context(), req.Name, req.ParentID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, cat, http.StatusCreated)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter *string
	if s := q.Get("search"); s != "" {
		filter = &s
	}
	limit, page := paginationParams(q.Get("limit"), q.Get("page"))

	cats, err := h.CategorySvc.GetCategories(r.Context(), filter, limit, page)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, cats, http.StatusOK)
}

func (h *Handler) ReparentCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if !requireRole(w, r, user.RoleAdmin) {
		return
	}
	categoryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		ParentID *int64 `json:"parent_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.CategorySvc.Reparent(r.Context(), categoryID, req.ParentID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if !requireRole(w, r, user.RoleAdmin) {
		return
	}
	categoryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.CategorySvc.SoftDeleteCategory(r.Context(), categoryID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RestoreCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if !requireRole(w, r, user.RoleAdmin) {
		return
	}
	categoryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.CategorySvc.RestoreCategory(r.Context(), categoryID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
