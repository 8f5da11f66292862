package order

import (
	"context"
	"encoding/json"

	"freemarket-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Checkout(ctx context.Context, userID int64) (*Order, error)
	ConvertCartToOrder(ctx context.Context, orderID, cartID int64) error
	GetOrders(ctx context.Context, userID int64, isAdmin bool, filter *ListFilter, limit, page *int32) ([]*Order, error)
	GetOrderDetail(ctx context.Context, userID, orderID int64, isAdmin bool) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status Status) error
	Cancel(ctx context.Context, userID, orderID int64, isAdmin bool) error
	UpdateMetadata(ctx context.Context, userID, orderID int64, metadata json.RawMessage, isAdmin bool) error
	UpdateOrderItemQuantity(ctx context.Context, userID, orderID, orderItemID, quantity int64, isAdmin bool) error
	DeleteOrderItem(ctx context.Context, userID, orderID, orderItemID int64, isAdmin bool) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Checkout converts the caller's cart into a PAID order. The two
// preconditions fail with distinct reasons so a client can tell "no cart"
// from "empty cart".
func (s *service) Checkout(ctx context.Context, userID int64) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.Int64("user_id", userID),
	)

	if userID == 0 {
		return nil, ErrUnauthorized
	}

	o, err := s.repo.Checkout(ctx, userID)
	if err != nil {
		log.Warn("checkout failed", zap.Error(err))
		return nil, err
	}

	log.Info("checkout completed",
		zap.Int64("order_id", o.ID),
		zap.Int64("total_price_cents", o.TotalPriceCents),
	)

	return o, nil
}

func (s *service) ConvertCartToOrder(ctx context.Context, orderID, cartID int64) error {
	return s.repo.ConvertCartToOrder(ctx, orderID, cartID)
}

func (s *service) GetOrders(ctx context.Context, userID int64, isAdmin bool, filter *ListFilter, limit, page *int32) ([]*Order, error) {
	return s.repo.GetOrders(ctx, userID, isAdmin, filter, limit, page)
}

// GetOrderDetail returns the order only to its owner or an admin.
func (s *service) GetOrderDetail(ctx context.Context, userID, orderID int64, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if !isAdmin && o.UserID != userID {
		return nil, ErrUnauthorized
	}
	return o, nil
}

// UpdateOrderStatus moves a PENDING order along the state machine. The only
// reachable targets are PAID and CANCELLED; locked orders are refused.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID int64, status Status) error {
	switch status {
	case StatusPaid, StatusCancelled:
	default:
		return ErrInvalidStatus
	}

	return s.repo.UpdateStatus(ctx, orderID, status)
}

func (s *service) Cancel(ctx context.Context, userID, orderID int64, isAdmin bool) error {
	if _, err := s.GetOrderDetail(ctx, userID, orderID, isAdmin); err != nil {
		return err
	}
	return s.repo.Cancel(ctx, orderID)
}

func (s *service) UpdateMetadata(ctx context.Context, userID, orderID int64, metadata json.RawMessage, isAdmin bool) error {
	if _, err := s.GetOrderDetail(ctx, userID, orderID, isAdmin); err != nil {
		return err
	}
	return s.repo.UpdateMetadata(ctx, orderID, metadata)
}

func (s *service) UpdateOrderItemQuantity(ctx context.Context, userID, orderID, orderItemID, quantity int64, isAdmin bool) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if _, err := s.GetOrderDetail(ctx, userID, orderID, isAdmin); err != nil {
		return err
	}
	return s.repo.UpdateOrderItemQuantity(ctx, orderID, orderItemID, quantity)
}

func (s *service) DeleteOrderItem(ctx context.Context, userID, orderID, orderItemID int64, isAdmin bool) error {
	if _, err := s.GetOrderDetail(ctx, userID, orderID, isAdmin); err != nil {
		return err
	}
	return s.repo.DeleteOrderItem(ctx, orderID, orderItemID)
}
