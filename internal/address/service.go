package address

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"freemarket-be/internal/logger"
	"freemarket-be/internal/utils"
)

// Service defines the business logic for the address book.
type Service interface {
	List(ctx context.Context, userID int64) ([]*Address, error)
	Get(ctx context.Context, userID int64, addressID uuid.UUID) (*Address, error)
	Create(ctx context.Context, params CreateParams) (*Address, error)
	Update(ctx context.Context, params UpdateParams) (*Address, error)
	Delete(ctx context.Context, userID int64, addressID uuid.UUID) error
	SetDefault(ctx context.Context, userID int64, addressID uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateFields(line1, city, province, postal, country string) error {
	for _, f := range []string{line1, city, province, postal, country} {
		if strings.TrimSpace(f) == "" {
			return ErrMissingFields
		}
	}
	return nil
}

// normalizeLine2 folds a blank second line into NULL.
func normalizeLine2(line2 *string) *string {
	if strings.TrimSpace(utils.PtrString(line2)) == "" {
		return nil
	}
	return line2
}

func (s *service) List(ctx context.Context, userID int64) ([]*Address, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID int64, addressID uuid.UUID) (*Address, error) {
	addr, err := s.repo.GetByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	// Another user's address reads as absent, not forbidden.
	if addr == nil || addr.UserID != userID {
		return nil, ErrAddressNotFound
	}
	return addr, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*Address, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
		zap.Int64("user_id", params.UserID),
	)

	if err := validateFields(params.Line1, params.City, params.Province, params.PostalCode, params.Country); err != nil {
		return nil, err
	}

	if params.SetAsDefault {
		if err := s.repo.ClearDefault(ctx, params.UserID); err != nil {
			log.Error("failed to clear default address", zap.Error(err))
			return nil, err
		}
	}

	addr, err := s.repo.Create(ctx, &Address{
		ID:         uuid.New(),
		UserID:     params.UserID,
		Line1:      params.Line1,
		Line2:      normalizeLine2(params.Line2),
		City:       params.City,
		Province:   params.Province,
		PostalCode: params.PostalCode,
		Country:    params.Country,
		IsDefault:  params.SetAsDefault,
	})
	if err != nil {
		log.Error("failed to create address", zap.Error(err))
		return nil, err
	}

	log.Info("address created", zap.String("address_id", addr.ID.String()))
	return addr, nil
}

// Update never mutates the stored row: the old address is deactivated and a
// replacement inserted, so past orders keep the address they shipped to.
func (s *service) Update(ctx context.Context, params UpdateParams) (*Address, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Update"),
		zap.Int64("user_id", params.UserID),
		zap.String("address_id", params.AddressID.String()),
	)

	if err := validateFields(params.Line1, params.City, params.Province, params.PostalCode, params.Country); err != nil {
		return nil, err
	}

	old, err := s.repo.GetByID(ctx, params.AddressID)
	if err != nil {
		return nil, err
	}
	if old == nil || old.UserID != params.UserID {
		return nil, ErrAddressNotFound
	}

	if err := s.repo.Deactivate(ctx, params.AddressID); err != nil {
		log.Error("failed to deactivate old address", zap.Error(err))
		return nil, err
	}

	// A replaced default stays the default unless the caller says otherwise.
	makeDefault := params.SetAsDefault || old.IsDefault
	if params.SetAsDefault {
		if err := s.repo.ClearDefault(ctx, params.UserID); err != nil {
			return nil, err
		}
	}

	addr, err := s.repo.Create(ctx, &Address{
		ID:         uuid.New(),
		UserID:     params.UserID,
		Line1:      params.Line1,
		Line2:      normalizeLine2(params.Line2),
		City:       params.City,
		Province:   params.Province,
		PostalCode: params.PostalCode,
		Country:    params.Country,
		IsDefault:  makeDefault,
	})
	if err != nil {
		log.Error("failed to insert replacement address", zap.Error(err))
		return nil, err
	}

	log.Info("address replaced", zap.String("new_address_id", addr.ID.String()))
	return addr, nil
}

func (s *service) Delete(ctx context.Context, userID int64, addressID uuid.UUID) error {
	addr, err := s.repo.GetByID(ctx, addressID)
	if err != nil {
		return err
	}
	if addr == nil || addr.UserID != userID {
		return ErrAddressNotFound
	}
	return s.repo.Deactivate(ctx, addressID)
}

func (s *service) SetDefault(ctx context.Context, userID int64, addressID uuid.UUID) error {
	if err := s.repo.ClearDefault(ctx, userID); err != nil {
		return err
	}
	return s.repo.SetDefault(ctx, userID, addressID)
}
