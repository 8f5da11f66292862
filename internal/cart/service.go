package cart

import (
	"context"

	"freemarket-be/internal/logger"

	"go.uber.org/zap"
)

// Service defines the business logic for carts.
type Service interface {
	GetCart(ctx context.Context, userID int64) (*Cart, error)
	AddItem(ctx context.Context, params AddItemParams) (*CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID int64) error
	UpdateQuantity(ctx context.Context, params UpdateQuantityParams) error
	ClearCart(ctx context.Context, userID int64) error
}

// service implements the Service interface
type service struct {
	repo Repository
}

// NewService creates a new cart service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetCart(ctx context.Context, userID int64) (*Cart, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	return s.repo.GetCart(ctx, userID)
}

func (s *service) AddItem(ctx context.Context, params AddItemParams) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.Int64("user_id", params.UserID),
		zap.Int64("item_id", params.ItemID),
		zap.Int64("quantity", params.Quantity),
	)

	if params.UserID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if params.Quantity <= 0 {
		log.Warn("invalid quantity")
		return nil, ErrInvalidQuantity
	}

	line, err := s.repo.AddItem(ctx, params)
	if err != nil {
		log.Error("failed to add item to cart", zap.Error(err))
		return nil, err
	}

	return line, nil
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID int64) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}
	return s.repo.RemoveItem(ctx, userID, itemID)
}

// UpdateQuantity sets the active line's quantity directly. A quantity below
// one behaves as removal.
func (s *service) UpdateQuantity(ctx context.Context, params UpdateQuantityParams) error {
	if params.UserID == 0 {
		return ErrUserNotAuthenticated
	}

	if params.Quantity < 1 {
		return s.repo.RemoveItem(ctx, params.UserID, params.ItemID)
	}

	return s.repo.UpdateQuantity(ctx, params)
}

func (s *service) ClearCart(ctx context.Context, userID int64) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}
	return s.repo.ClearCart(ctx, userID)
}
