package category

import (
	"context"

	"freemarket-be/internal/logger"

	"go.uber.org/zap"
)

// Service defines the business logic for the category tree.
type Service interface {
	AddCategory(ctx context.Context, name string, parentID *int64) (*Category, error)
	GetCategories(ctx context.Context, filter *string, limit, page *int32) ([]*Category, error)
	Reparent(ctx context.Context, categoryID int64, parentID *int64) error
	DescendantIDs(ctx context.Context, categoryID int64) ([]int64, error)
	SoftDeleteCategory(ctx context.Context, categoryID int64) error
	RestoreCategory(ctx context.Context, categoryID int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) AddCategory(ctx context.Context, name string, parentID *int64) (*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddCategory"),
		zap.String("name", name),
	)

	if name == "" {
		return nil, ErrEmptyName
	}

	if parentID != nil {
		parent, err := s.repo.GetCategory(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrParentNotFound
		}
	}

	category, err := s.repo.AddCategory(ctx, name, parentID)
	if err != nil {
		log.Error("failed to add category", zap.Error(err))
		return nil, err
	}

	log.Info("AddCategory success", zap.Int64("category_id", category.ID))
	return category, nil
}

func (s *service) GetCategories(ctx context.Context, filter *string, limit, page *int32) ([]*Category, error) {
	return s.repo.GetCategories(ctx, filter, limit, page)
}

// Reparent moves a category under a new parent. The parent chain must stay
// acyclic: the new parent may not be the node itself or any of its
// descendants.
func (s *service) Reparent(ctx context.Context, categoryID int64, parentID *int64) error {
	if parentID != nil {
		if *parentID == categoryID {
			return ErrCycle
		}

		parent, err := s.repo.GetCategory(ctx, *parentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return ErrParentNotFound
		}

		descendants, err := s.repo.DescendantIDs(ctx, categoryID)
		if err != nil {
			return err
		}
		for _, id := range descendants {
			if id == *parentID {
				return ErrCycle
			}
		}
	}

	return s.repo.SetParent(ctx, categoryID, parentID)
}

func (s *service) DescendantIDs(ctx context.Context, categoryID int64) ([]int64, error) {
	ids, err := s.repo.DescendantIDs(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrCategoryNotFound
	}
	return ids, nil
}

func (s *service) SoftDeleteCategory(ctx context.Context, categoryID int64) error {
	return s.repo.SoftDeleteCategory(ctx, categoryID)
}

func (s *service) RestoreCategory(ctx context.Context, categoryID int64) error {
	return s.repo.RestoreCategory(ctx, categoryID)
}
