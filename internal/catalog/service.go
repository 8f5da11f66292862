package catalog

import (
	"context"

	"freemarket-be/internal/category"
	"freemarket-be/internal/logger"

	"go.uber.org/zap"
)

// Service defines the business logic for catalog items.
type Service interface {
	CreateItem(ctx context.Context, params CreateItemParams) (*Item, error)
	GetItem(ctx context.Context, itemID int64) (*Item, error)
	GetItemAny(ctx context.Context, itemID int64) (*Item, error)
	UpdateItem(ctx context.Context, params UpdateItemParams) (*Item, error)
	SoftDeleteItem(ctx context.Context, itemID int64) error
	RestoreItem(ctx context.Context, itemID int64) error
	HardDeleteItem(ctx context.Context, itemID int64) error
	ListItems(ctx context.Context, filter ListFilter, categoryID *int64, limit, page *int32) ([]*Item, error)
	AddItemCategory(ctx context.Context, itemID, categoryID int64) error
	RemoveItemCategory(ctx context.Context, itemID, categoryID int64) error
}

type service struct {
	repo         Repository
	categoryRepo category.Repository
}

func NewService(repo Repository, categoryRepo category.Repository) Service {
	return &service{repo: repo, categoryRepo: categoryRepo}
}

func validCurrency(c Currency) bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP:
		return true
	}
	return false
}

// validateVariant checks the kind discriminator and that exactly one payload
// is populated for it.
func validateVariant(kind Kind, quantity, duration *int64, serviceType *string) error {
	switch kind {
	case KindProduct:
		if quantity == nil || duration != nil || serviceType != nil {
			return ErrKindPayload
		}
		if *quantity < 0 {
			return ErrNegativeQuantity
		}
	case KindService:
		if duration == nil || serviceType == nil || quantity != nil {
			return ErrKindPayload
		}
		if *duration < 0 {
			return ErrNegativeDuration
		}
	default:
		return ErrInvalidKind
	}
	return nil
}

func (s *service) CreateItem(ctx context.Context, params CreateItemParams) (*Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateItem"),
		zap.Int64("seller_id", params.SellerID),
	)

	if params.Name == "" {
		return nil, ErrEmptyName
	}
	if params.PriceCents < 0 {
		return nil, ErrNegativePrice
	}
	if !validCurrency(params.Currency) {
		return nil, ErrInvalidCurrency
	}
	if err := validateVariant(params.Kind, params.Quantity, params.ServiceDuration, params.ServiceType); err != nil {
		log.Warn("item variant validation failed", zap.Error(err))
		return nil, err
	}

	item, err := s.repo.CreateItem(ctx, params)
	if err != nil {
		log.Error("failed to create item", zap.Error(err))
		return nil, err
	}

	log.Info("item created", zap.Int64("item_id", item.ID))
	return item, nil
}

func (s *service) GetItem(ctx context.Context, itemID int64) (*Item, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// GetItemAny serves the administrative path that may see soft-deleted rows.
func (s *service) GetItemAny(ctx context.Context, itemID int64) (*Item, error) {
	item, err := s.repo.GetItemAny(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, params UpdateItemParams) (*Item, error) {
	if params.PriceCents != nil && *params.PriceCents < 0 {
		return nil, ErrNegativePrice
	}
	if params.Currency != nil && !validCurrency(*params.Currency) {
		return nil, ErrInvalidCurrency
	}
	if params.Quantity != nil && *params.Quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	if params.ServiceDuration != nil && *params.ServiceDuration < 0 {
		return nil, ErrNegativeDuration
	}

	// The variant is fixed at creation: reject payload fields that belong to
	// the other kind.
	existing, err := s.repo.GetItem(ctx, params.ItemID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrItemNotFound
	}
	switch existing.Kind {
	case KindProduct:
		if params.ServiceDuration != nil || params.ServiceType != nil {
			return nil, ErrKindPayload
		}
	case KindService:
		if params.Quantity != nil {
			return nil, ErrKindPayload
		}
	}

	return s.repo.UpdateItem(ctx, params)
}

func (s *service) SoftDeleteItem(ctx context.Context, itemID int64) error {
	return s.repo.SoftDeleteItem(ctx, itemID)
}

func (s *service) RestoreItem(ctx context.Context, itemID int64) error {
	return s.repo.RestoreItem(ctx, itemID)
}

func (s *service) HardDeleteItem(ctx context.Context, itemID int64) error {
	return s.repo.HardDeleteItem(ctx, itemID)
}

// ListItems expands a category scope to the category's whole descendant set,
// so a search scoped to X also matches items tagged with subcategories of X.
func (s *service) ListItems(
	ctx context.Context,
	filter ListFilter,
	categoryID *int64,
	limit, page *int32,
) ([]*Item, error) {

	if categoryID != nil {
		ids, err := s.categoryRepo.DescendantIDs(ctx, *categoryID)
		if err != nil {
			return nil, err
		}
		filter.CategoryIDs = ids
	}

	return s.repo.ListItems(ctx, filter, limit, page)
}

func (s *service) AddItemCategory(ctx context.Context, itemID, categoryID int64) error {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	return s.repo.AddItemCategory(ctx, itemID, categoryID)
}

func (s *service) RemoveItemCategory(ctx context.Context, itemID, categoryID int64) error {
	return s.repo.RemoveItemCategory(ctx, itemID, categoryID)
}
