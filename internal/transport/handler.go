package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"freemarket-be/internal/address"
	"freemarket-be/internal/audit"
	"freemarket-be/internal/cart"
	"freemarket-be/internal/catalog"
	"freemarket-be/internal/category"
	"freemarket-be/internal/logger"
	"freemarket-be/internal/order"
	"freemarket-be/internal/payment"
	"freemarket-be/internal/seller"
	"freemarket-be/internal/user"
	"freemarket-be/internal/utils"
)

// Handler wires the HTTP surface to the domain services.
type Handler struct {
	UserSvc     user.Service
	CatalogSvc  catalog.Service
	CategorySvc category.Service
	CartSvc     cart.Service
	OrderSvc    order.Service
	PaymentSvc  payment.Service
	SellerSvc   seller.Service
	AddressSvc  address.Service
	AuditRepo   audit.Repository
}

// Routes registers every endpoint on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("POST /auth/login", h.Login)

	mux.HandleFunc("POST /items", h.CreateItem)
	mux.HandleFunc("GET /items", h.ListItems)
	mux.HandleFunc("GET /items/{id}", h.GetItem)
	mux.HandleFunc("PATCH /items/{id}", h.UpdateItem)
	mux.HandleFunc("DELETE /items/{id}", h.DeleteItem)
	mux.HandleFunc("POST /items/{id}/restore", h.RestoreItem)
	mux.HandleFunc("DELETE /items/{id}/purge", h.PurgeItem)
	mux.HandleFunc("POST /items/{id}/categories", h.AddItemCategory)
	mux.HandleFunc("DELETE /items/{id}/categories/{categoryID}", h.RemoveItemCategory)

	mux.HandleFunc("POST /categories", h.CreateCategory)
	mux.HandleFunc("GET /categories", h.ListCategories)
	mux.HandleFunc("PATCH /categories/{id}/parent", h.ReparentCategory)
	mux.HandleFunc("DELETE /categories/{id}", h.DeleteCategory)
	mux.HandleFunc("POST /categories/{id}/restore", h.RestoreCategory)

	mux.HandleFunc("GET /cart", h.GetCart)
	mux.HandleFunc("POST /cart/items", h.AddCartItem)
	mux.HandleFunc("PATCH /cart/items/{itemID}", h.UpdateCartItem)
	mux.HandleFunc("DELETE /cart/items/{itemID}", h.RemoveCartItem)
	mux.HandleFunc("DELETE /cart", h.ClearCart)
	mux.HandleFunc("GET /cart/activity", h.CartActivity)

	mux.HandleFunc("POST /checkout", h.Checkout)
	mux.HandleFunc("GET /orders", h.ListOrders)
	mux.HandleFunc("GET /orders/{id}", h.GetOrder)
	mux.HandleFunc("POST /orders/{id}/cancel", h.CancelOrder)
	mux.HandleFunc("PATCH /orders/{id}/status", h.UpdateOrderStatus)
	mux.HandleFunc("PATCH /orders/{id}/metadata", h.UpdateOrderMetadata)
	mux.HandleFunc("PATCH /orders/{id}/items/{orderItemID}", h.UpdateOrderItem)
	mux.HandleFunc("DELETE /orders/{id}/items/{orderItemID}", h.DeleteOrderItem)
	mux.HandleFunc("GET /orders/{id}/payments", h.ListOrderPayments)

	mux.HandleFunc("POST /payments", h.RecordPayment)

	mux.HandleFunc("GET /addresses", h.ListAddresses)
	mux.HandleFunc("POST /addresses", h.CreateAddress)
	mux.HandleFunc("GET /addresses/{id}", h.GetAddress)
	mux.HandleFunc("PUT /addresses/{id}", h.UpdateAddress)
	mux.HandleFunc("DELETE /addresses/{id}", h.DeleteAddress)
	mux.HandleFunc("POST /addresses/{id}/default", h.SetDefaultAddress)

	mux.HandleFunc("POST /seller/applications", h.SubmitApplication)
	mux.HandleFunc("GET /seller/applications", h.ListApplications)
	mux.HandleFunc("POST /seller/applications/{id}/approve", h.ApproveApplication)
	mux.HandleFunc("POST /seller/applications/{id}/reject", h.RejectApplication)

	return mux
}

// decodeJSON reads the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// requireUser extracts the authenticated user ID or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok || userID == 0 {
		utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

// requireRole checks the caller carries the role, writing a 403 otherwise.
func requireRole(w http.ResponseWriter, r *http.Request, role user.Role) bool {
	if !utils.HasRole(r.Context(), string(role)) {
		utils.WriteJSONError(w, "insufficient permissions", http.StatusForbidden)
		return false
	}
	return true
}

func isAdmin(r *http.Request) bool {
	return utils.HasRole(r.Context(), string(user.RoleAdmin))
}

// pathID parses a numeric path segment, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := utils.ToInt64(r.PathValue(name))
	if err != nil {
		utils.WriteJSONError(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// writeDomainError maps sentinel errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var code int
	switch {
	case errors.Is(err, address.ErrMissingFields),
		errors.Is(err, catalog.ErrEmptyName),
		errors.Is(err, catalog.ErrNegativePrice),
		errors.Is(err, catalog.ErrInvalidCurrency),
		errors.Is(err, catalog.ErrInvalidKind),
		errors.Is(err, catalog.ErrKindPayload),
		errors.Is(err, catalog.ErrNegativeQuantity),
		errors.Is(err, catalog.ErrNegativeDuration),
		errors.Is(err, category.ErrEmptyName),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrCartEmpty),
		errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, payment.ErrMissingMethod):
		code = http.StatusBadRequest

	case errors.Is(err, cart.ErrUserNotAuthenticated),
		errors.Is(err, user.ErrInvalidLogin):
		code = http.StatusUnauthorized

	case errors.Is(err, order.ErrUnauthorized):
		code = http.StatusForbidden

	case errors.Is(err, address.ErrAddressNotFound),
		errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, cart.ErrNoCart),
		errors.Is(err, cart.ErrCartItemNotFound),
		errors.Is(err, category.ErrCategoryNotFound),
		errors.Is(err, category.ErrParentNotFound),
		errors.Is(err, order.ErrNoCart),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrOrderItemNotFound),
		errors.Is(err, payment.ErrOrderNotFound),
		errors.Is(err, seller.ErrApplicationNotFound):
		code = http.StatusNotFound

	case errors.Is(err, catalog.ErrDuplicateItemCategory),
		errors.Is(err, cart.ErrDuplicateCartLine),
		errors.Is(err, category.ErrCycle),
		errors.Is(err, order.ErrOrderLocked),
		errors.Is(err, order.ErrCannotCancel),
		errors.Is(err, payment.ErrDuplicateTransactionID),
		errors.Is(err, user.ErrEmailExists),
		errors.Is(err, seller.ErrAlreadyPending),
		errors.Is(err, seller.ErrAlreadyReviewed):
		code = http.StatusConflict

	default:
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		utils.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSONError(w, err.Error(), code)
}
