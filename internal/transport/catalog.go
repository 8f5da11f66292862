package transport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"freemarket-be/internal/catalog"
	"freemarket-be/internal/user"
	"freemarket-be/internal/utils"
)

type createItemRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	PriceCents  int64           `json:"price_cents"`
	Currency    string          `json:"currency"`
	Kind        string          `json:"kind"`
	Quantity    *int64          `json:"quantity"`
	Duration    *int64          `json:"service_duration"`
	ServiceType *string         `json:"service_type"`
	Metadata    json.RawMessage `json:"metadata"`
}

type updateItemRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	PriceCents  *int64          `json:"price_cents"`
	Currency    *string         `json:"currency"`
	Quantity    *int64          `json:"quantity"`
	Duration    *int64          `json:"service_duration"`
	ServiceType *string         `json:"service_type"`
	Metadata    json.RawMessage `json:"metadata"`
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if !requireRole(w, r, user.RoleSeller) {
		return
	}

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.CatalogSvc.CreateItem(r.Context(), catalog.CreateItemParams{
		Name:            req.Name,
		Description:     req.Description,
		PriceCents:      req.PriceCents,
		Currency:        catalog.Currency(req.Currency),
		SellerID:        sellerID,
		Kind:            catalog.Kind(req.Kind),
		Quantity:        req.Quantity,
		ServiceDuration: req.Duration,
		ServiceType:     req.ServiceType,
		Metadata:        req.Metadata,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, item, http.StatusCreated)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var (
		item *catalog.Item
		err  error
	)
	// Admins may inspect soft-deleted entries.
	if isAdmin(r) && r.URL.Query().Get("include_deleted") == "true" {
		item, err = h.CatalogSvc.GetItemAny(r.Context(), itemID)
	} else {
		item, err = h.CatalogSvc.GetItem(r.Context(), itemID)
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, item, http.StatusOK)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	existing, err := h.CatalogSvc.GetItem(r.Context(), itemID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if existing.SellerID != userID && !isAdmin(r) {
		utils.WriteJSONError(w, "insufficient permissions", http.StatusForbidden)
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	params := catalog.UpdateItemParams{
		ItemID:          itemID,
		Name:            req.Name,
		Description:     req.Description,
		PriceCents:      req.PriceCents,
		Quantity:        req.Quantity,
		ServiceDuration: req.Duration,
		ServiceType:     req.ServiceType,
		Metadata:        req.Metadata,
	}
	if req.Currency != nil {
		c := catalog.Currency(*req.Currency)
		params.Currency = &c
	}

	item, err := h.CatalogSvc.UpdateItem(r.Context(), params)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, item, http.StatusOK)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	existing, err := h.CatalogSvc.GetItem(r.Context(), itemID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if existing.SellerID != userID && !isAdmin(r) {
		utils.WriteJSONError(w, "insufficient permissions", http.StatusForbidden)
		return
	}

	if err := h.CatalogSvc.SoftDeleteItem(r.Context(), itemID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RestoreItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if !requireRole(w, r, user.RoleAdmin) {
		return
	}
	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.CatalogSvc.RestoreItem(r.Context(), itemID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PurgeItem permanently removes an item. Admin-only reset path.
func (h *Handler) PurgeItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if !requireRole(w, r, user.RoleAdmin) {
		return
	}
	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.CatalogSvc.HardDeleteItem(r.Context(), itemID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter catalog.ListFilter
	if s := q.Get("seller_id"); s != "" {
		id, err := utils.ToInt64(s)
		if err != nil {
			utils.WriteJSONError(w, "invalid seller_id", http.StatusBadRequest)
			return
		}
		filter.SellerID = &id
	}
	if k := q.Get("kind"); k != "" {
		kind := catalog.Kind(k)
		filter.Kind = &kind
	}
	if s := q.Get("search"); s != "" {
		filter.Search = &s
	}

	var categoryID *int64
	if c := q.Get("category_id"); c != "" {
		id, err := utils.ToInt64(c)
		if err != nil {
			utils.WriteJSONError(w, "invalid category_id", http.StatusBadRequest)
			return
		}
		categoryID = &id
	}

	limit, page := paginationParams(q.Get("limit"), q.Get("page"))

	items, err := h.CatalogSvc.ListItems(r.Context(), filter, categoryID, limit, page)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, items, http.StatusOK)
}

func (h *Handler) AddItemCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		CategoryID int64 `json:"category_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.CatalogSvc.AddItemCategory(r.Context(), itemID, req.CategoryID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveItemCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	categoryID, ok := pathID(w, r, "categoryID")
	if !ok {
		return
	}

	if err := h.CatalogSvc.RemoveItemCategory(r.Context(), itemID, categoryID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// paginationParams parses limit/page query values, ignoring junk input.
func paginationParams(limitStr, pageStr string) (*int32, *int32) {
	var limit, page *int32
	if limitStr != "" {
		if v, err := strconv.ParseInt(limitStr, 10, 32); err == nil {
			l := int32(v)
			limit = &l
		}
	}
	if pageStr != "" {
		if v, err := strconv.ParseInt(pageStr, 10, 32); err == nil {
			p := int32(v)
			page = &p
		}
	}
	return limit, page
}
