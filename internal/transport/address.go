package transport

import (
	"net/http"

	"github.com/google/uuid"

	"freemarket-be/internal/address"
	"freemarket-be/internal/utils"
)

type addressRequest struct {
	Line1        string  `json:"address_line_1"`
	Line2        *string `json:"address_line_2"`
	City         string  `json:"city"`
	Province     string  `json:"state_province"`
	PostalCode   string  `json:"postal_code"`
	Country      string  `json:"country"`
	SetAsDefault bool    `json:"set_as_default"`
}

// pathAddressID parses the uuid path segment, writing a 400 on failure.
func pathAddressID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid address id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	addrs, err := h.AddressSvc.List(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if addrs == nil {
		addrs = []*address.Address{}
	}

	utils.WriteJSON(w, addrs, http.StatusOK)
}

func (h *Handler) GetAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	addressID, ok := pathAddressID(w, r)
	if !ok {
		return
	}

	addr, err := h.AddressSvc.Get(r.Context(), userID, addressID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, addr, http.StatusOK)
}

func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req addressRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	addr, err := h.AddressSvc.Create(r.Context(), address.CreateParams{
		UserID:       userID,
		Line1:        req.Line1,
		Line2:        req.Line2,
		City:         req.City,
		Province:     req.Province,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		SetAsDefault: req.SetAsDefault,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, addr, http.StatusCreated)
}

func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	addressID, ok := pathAddressID(w, r)
	if !ok {
		return
	}

	var req addressRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	addr, err := h.AddressSvc.Update(r.Context(), address.UpdateParams{
		UserID:       userID,
		AddressID:    addressID,
		Line1:        req.Line1,
		Line2:        req.Line2,
		City:         req.City,
		Province:     req.Province,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		SetAsDefault: req.SetAsDefault,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, addr, http.StatusOK)
}

func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	addressID, ok := pathAddressID(w, r)
	if !ok {
		return
	}

	if err := h.AddressSvc.Delete(r.Context(), userID, addressID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	addressID, ok := pathAddressID(w, r)
	if !ok {
		return
	}

	if err := h.AddressSvc.SetDefault(r.Context(), userID, addressID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
