package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"freemarket-be/internal/address"
	"freemarket-be/internal/cart"
	"freemarket-be/internal/catalog"
	"freemarket-be/internal/order"
	"freemarket-be/internal/user"
	"freemarket-be/internal/utils"
)

// --- Service mocks ---

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, username, email, password string) (string, user.User, error) {
	args := m.Called(ctx, username, email, password)
	return args.String(0), args.Get(1).(user.User), args.Error(2)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, user.User, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(user.User), args.Error(2)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID int64) (user.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserService) PromoteToSeller(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, userID int64) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, params cart.AddItemParams) (*cart.CartItem, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, params cart.UpdateQuantityParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockCartService) ClearCart(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, userID int64) (*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ConvertCartToOrder(ctx context.Context, orderID, cartID int64) error {
	args := m.Called(ctx, orderID, cartID)
	return args.Error(0)
}

func (m *MockOrderService) GetOrders(ctx context.Context, userID int64, isAdmin bool, filter *order.ListFilter, limit, page *int32) ([]*order.Order, error) {
	args := m.Called(ctx, userID, isAdmin, filter, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrderDetail(ctx context.Context, userID, orderID int64, isAdmin bool) (*order.Order, error) {
	args := m.Called(ctx, userID, orderID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, orderID int64, status order.Status) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockOrderService) Cancel(ctx context.Context, userID, orderID int64, isAdmin bool) error {
	args := m.Called(ctx, userID, orderID, isAdmin)
	return args.Error(0)
}

func (m *MockOrderService) UpdateMetadata(ctx context.Context, userID, orderID int64, metadata json.RawMessage, isAdmin bool) error {
	args := m.Called(ctx, userID, orderID, metadata, isAdmin)
	return args.Error(0)
}

func (m *MockOrderService) UpdateOrderItemQuantity(ctx context.Context, userID, orderID, orderItemID, quantity int64, isAdmin bool) error {
	args := m.Called(ctx, userID, orderID, orderItemID, quantity, isAdmin)
	return args.Error(0)
}

func (m *MockOrderService) DeleteOrderItem(ctx context.Context, userID, orderID, orderItemID int64, isAdmin bool) error {
	args := m.Called(ctx, userID, orderID, orderItemID, isAdmin)
	return args.Error(0)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateItem(ctx context.Context, params catalog.CreateItemParams) (*catalog.Item, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockCatalogService) GetItem(ctx context.Context, itemID int64) (*catalog.Item, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockCatalogService) GetItemAny(ctx context.Context, itemID int64) (*catalog.Item, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockCatalogService) UpdateItem(ctx context.Context, params catalog.UpdateItemParams) (*catalog.Item, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockCatalogService) SoftDeleteItem(ctx context.Context, itemID int64) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockCatalogService) RestoreItem(ctx context.Context, itemID int64) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockCatalogService) HardDeleteItem(ctx context.Context, itemID int64) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockCatalogService) ListItems(ctx context.Context, filter catalog.ListFilter, categoryID *int64, limit, page *int32) ([]*catalog.Item, error) {
	args := m.Called(ctx, filter, categoryID, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Item), args.Error(1)
}

func (m *MockCatalogService) AddItemCategory(ctx context.Context, itemID, categoryID int64) error {
	args := m.Called(ctx, itemID, categoryID)
	return args.Error(0)
}

func (m *MockCatalogService) RemoveItemCategory(ctx context.Context, itemID, categoryID int64) error {
	args := m.Called(ctx, itemID, categoryID)
	return args.Error(0)
}

// --- Helpers ---

func authedRequest(method, target string, body string, userID int64, roles ...string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := utils.SetUserContext(req.Context(), userID, "user@example.com", roles)
	return req.WithContext(ctx)
}

// --- Tests ---

func TestRegisterHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockUsers := new(MockUserService)
		h := &Handler{UserSvc: mockUsers}
		mux := h.Routes()

		mockUsers.On("Register", mock.Anything, "alice", "alice@example.com", "secret123").
			Return("a.jwt.token", user.User{ID: 1, Username: "alice", Email: "alice@example.com", Password: "hashed", Roles: []string{"BUYER"}}, nil)

		body := `{"username": "alice", "email": "alice@example.com", "password": "secret123"}`
		req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "a.jwt.token")
		assert.NotContains(t, w.Body.String(), "hashed")
	})

	t.Run("Error_MissingFields", func(t *testing.T) {
		h := &Handler{UserSvc: new(MockUserService)}
		mux := h.Routes()

		req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(`{"email": "a@b.com"}`))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_EmailTaken", func(t *testing.T) {
		mockUsers := new(MockUserService)
		h := &Handler{UserSvc: mockUsers}
		mux := h.Routes()

		mockUsers.On("Register", mock.Anything, "alice", "alice@example.com", "secret123").
			Return("", user.User{}, user.ErrEmailExists)

		body := `{"username": "alice", "email": "alice@example.com", "password": "secret123"}`
		req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("Error_InvalidCredentials", func(t *testing.T) {
		mockUsers := new(MockUserService)
		h := &Handler{UserSvc: mockUsers}
		mux := h.Routes()

		mockUsers.On("Login", mock.Anything, "alice@example.com", "wrong").
			Return("", user.User{}, user.ErrInvalidLogin)

		body := `{"email": "alice@example.com", "password": "wrong"}`
		req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetCartHandler(t *testing.T) {
	t.Run("Error_Unauthenticated", func(t *testing.T) {
		h := &Handler{CartSvc: new(MockCartService)}
		mux := h.Routes()

		req := httptest.NewRequest("GET", "/cart", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Success_NoCartReadsEmpty", func(t *testing.T) {
		mockCart := new(MockCartService)
		h := &Handler{CartSvc: mockCart}
		mux := h.Routes()

		mockCart.On("GetCart", mock.Anything, int64(7)).Return(nil, nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("GET", "/cart", "", 7, "BUYER"))

		assert.Equal(t, http.StatusOK, w.Code)

		var body cart.Cart
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, int64(7), body.UserID)
		assert.Empty(t, body.Items)
	})
}

func TestAddCartItemHandler(t *testing.T) {
	t.Run("Success_QuantityDefaultsToOne", func(t *testing.T) {
		mockCart := new(MockCartService)
		h := &Handler{CartSvc: mockCart}
		mux := h.Routes()

		mockCart.On("AddItem", mock.Anything, cart.AddItemParams{UserID: 7, ItemID: 9, Quantity: 1}).
			Return(&cart.CartItem{ID: 1, ItemID: 9, Quantity: 1}, nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/cart/items", `{"item_id": 9}`, 7, "BUYER"))

		assert.Equal(t, http.StatusCreated, w.Code)
		mockCart.AssertExpectations(t)
	})

	t.Run("Success_ExplicitQuantity", func(t *testing.T) {
		mockCart := new(MockCartService)
		h := &Handler{CartSvc: mockCart}
		mux := h.Routes()

		mockCart.On("AddItem", mock.Anything, cart.AddItemParams{UserID: 7, ItemID: 9, Quantity: 3}).
			Return(&cart.CartItem{ID: 1, ItemID: 9, Quantity: 3}, nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/cart/items", `{"item_id": 9, "quantity": 3}`, 7, "BUYER"))

		assert.Equal(t, http.StatusCreated, w.Code)
		mockCart.AssertExpectations(t)
	})
}

func TestUpdateCartItemHandler(t *testing.T) {
	t.Run("Success_MissingQuantityMeansOneUnit", func(t *testing.T) {
		mockCart := new(MockCartService)
		h := &Handler{CartSvc: mockCart}
		mux := h.Routes()

		mockCart.On("UpdateQuantity", mock.Anything, cart.UpdateQuantityParams{UserID: 7, ItemID: 9, Quantity: 1}).
			Return(nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("PATCH", "/cart/items/9", `{}`, 7, "BUYER"))

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockCart.AssertExpectations(t)
	})

	t.Run("Success_ZeroQuantityRemoves", func(t *testing.T) {
		mockCart := new(MockCartService)
		h := &Handler{CartSvc: mockCart}
		mux := h.Routes()

		mockCart.On("UpdateQuantity", mock.Anything, cart.UpdateQuantityParams{UserID: 7, ItemID: 9, Quantity: 0}).
			Return(nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("PATCH", "/cart/items/9", `{"quantity": 0}`, 7, "BUYER"))

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockCart.AssertExpectations(t)
	})
}

func TestCheckoutHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockOrders := new(MockOrderService)
		h := &Handler{OrderSvc: mockOrders}
		mux := h.Routes()

		mockOrders.On("Checkout", mock.Anything, int64(7)).
			Return(&order.Order{ID: 3, UserID: 7, Status: order.StatusPaid, TotalPriceCents: 1700}, nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/checkout", "", 7, "BUYER"))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"PAID"`)
	})

	t.Run("Error_EmptyCart", func(t *testing.T) {
		mockOrders := new(MockOrderService)
		h := &Handler{OrderSvc: mockOrders}
		mux := h.Routes()

		mockOrders.On("Checkout", mock.Anything, int64(7)).Return(nil, order.ErrCartEmpty)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/checkout", "", 7, "BUYER"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCancelOrderHandler(t *testing.T) {
	t.Run("Error_Shipped", func(t *testing.T) {
		mockOrders := new(MockOrderService)
		h := &Handler{OrderSvc: mockOrders}
		mux := h.Routes()

		mockOrders.On("Cancel", mock.Anything, int64(7), int64(3), false).Return(order.ErrCannotCancel)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/orders/3/cancel", "", 7, "BUYER"))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Error_BadID", func(t *testing.T) {
		h := &Handler{OrderSvc: new(MockOrderService)}
		mux := h.Routes()

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/orders/abc/cancel", "", 7, "BUYER"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetItemHandler(t *testing.T) {
	t.Run("Error_NotFound", func(t *testing.T) {
		mockCatalog := new(MockCatalogService)
		h := &Handler{CatalogSvc: mockCatalog}
		mux := h.Routes()

		mockCatalog.On("GetItem", mock.Anything, int64(99)).Return(nil, catalog.ErrItemNotFound)

		req := httptest.NewRequest("GET", "/items/99", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreateItemHandler(t *testing.T) {
	body := `{"name": "Widget", "price_cents": 1000, "currency": "USD", "kind": "PRODUCT", "quantity": 5}`

	t.Run("Error_Unauthenticated", func(t *testing.T) {
		h := &Handler{CatalogSvc: new(MockCatalogService)}
		mux := h.Routes()

		req := httptest.NewRequest("POST", "/items", strings.NewReader(body))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_NotASeller", func(t *testing.T) {
		h := &Handler{CatalogSvc: new(MockCatalogService)}
		mux := h.Routes()

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/items", body, 7, "BUYER"))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Success", func(t *testing.T) {
		mockCatalog := new(MockCatalogService)
		h := &Handler{CatalogSvc: mockCatalog}
		mux := h.Routes()

		mockCatalog.On("CreateItem", mock.Anything, mock.MatchedBy(func(p catalog.CreateItemParams) bool {
			return p.SellerID == 7 && p.Name == "Widget" && p.Kind == catalog.KindProduct
		})).Return(&catalog.Item{ID: 1, Name: "Widget", SellerID: 7, Kind: catalog.KindProduct}, nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/items", body, 7, "BUYER", "SELLER"))

		assert.Equal(t, http.StatusCreated, w.Code)
		mockCatalog.AssertExpectations(t)
	})
}

type MockAddressService struct {
	mock.Mock
}

func (m *MockAddressService) List(ctx context.Context, userID int64) ([]*address.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*address.Address), args.Error(1)
}

func (m *MockAddressService) Get(ctx context.Context, userID int64, addressID uuid.UUID) (*address.Address, error) {
	args := m.Called(ctx, userID, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*address.Address), args.Error(1)
}

func (m *MockAddressService) Create(ctx context.Context, params address.CreateParams) (*address.Address, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*address.Address), args.Error(1)
}

func (m *MockAddressService) Update(ctx context.Context, params address.UpdateParams) (*address.Address, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*address.Address), args.Error(1)
}

func (m *MockAddressService) Delete(ctx context.Context, userID int64, addressID uuid.UUID) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

func (m *MockAddressService) SetDefault(ctx context.Context, userID int64, addressID uuid.UUID) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

func TestAddressHandlers(t *testing.T) {
	t.Run("List_EmptyBookReturnsEmptyArray", func(t *testing.T) {
		mockAddr := new(MockAddressService)
		h := &Handler{AddressSvc: mockAddr}
		mux := h.Routes()

		mockAddr.On("List", mock.Anything, int64(7)).Return(nil, nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("GET", "/addresses", "", 7))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]\n", w.Body.String())
	})

	t.Run("Create_Success", func(t *testing.T) {
		mockAddr := new(MockAddressService)
		h := &Handler{AddressSvc: mockAddr}
		mux := h.Routes()

		mockAddr.On("Create", mock.Anything, mock.MatchedBy(func(p address.CreateParams) bool {
			return p.UserID == 7 && p.Line1 == "1 Main St" && p.SetAsDefault
		})).Return(&address.Address{ID: uuid.New(), UserID: 7, Line1: "1 Main St", IsDefault: true}, nil)

		body := `{"address_line_1": "1 Main St", "city": "Springfield", "state_province": "IL",
			"postal_code": "62701", "country": "USA", "set_as_default": true}`
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/addresses", body, 7))

		assert.Equal(t, http.StatusCreated, w.Code)
		mockAddr.AssertExpectations(t)
	})

	t.Run("Create_Error_MissingFields", func(t *testing.T) {
		mockAddr := new(MockAddressService)
		h := &Handler{AddressSvc: mockAddr}
		mux := h.Routes()

		mockAddr.On("Create", mock.Anything, mock.Anything).Return(nil, address.ErrMissingFields)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/addresses", `{"address_line_1": "1 Main St"}`, 7))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Get_Error_InvalidID", func(t *testing.T) {
		h := &Handler{AddressSvc: new(MockAddressService)}
		mux := h.Routes()

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("GET", "/addresses/not-a-uuid", "", 7))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Get_Error_NotFound", func(t *testing.T) {
		mockAddr := new(MockAddressService)
		h := &Handler{AddressSvc: mockAddr}
		mux := h.Routes()

		id := uuid.New()
		mockAddr.On("Get", mock.Anything, int64(7), id).Return(nil, address.ErrAddressNotFound)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("GET", "/addresses/"+id.String(), "", 7))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("SetDefault_Success", func(t *testing.T) {
		mockAddr := new(MockAddressService)
		h := &Handler{AddressSvc: mockAddr}
		mux := h.Routes()

		id := uuid.New()
		mockAddr.On("SetDefault", mock.Anything, int64(7), id).Return(nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("POST", "/addresses/"+id.String()+"/default", "", 7))

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockAddr.AssertExpectations(t)
	})

	t.Run("Delete_Success", func(t *testing.T) {
		mockAddr := new(MockAddressService)
		h := &Handler{AddressSvc: mockAddr}
		mux := h.Routes()

		id := uuid.New()
		mockAddr.On("Delete", mock.Anything, int64(7), id).Return(nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, authedRequest("DELETE", "/addresses/"+id.String(), "", 7))

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockAddr.AssertExpectations(t)
	})
}
