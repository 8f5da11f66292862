package seller

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"freemarket-be/internal/logger"
	"freemarket-be/internal/user"
)

type Service interface {
	Submit(ctx context.Context, userID int64, data json.RawMessage) (*Application, error)
	GetApplication(ctx context.Context, applicationID int64) (*Application, error)
	ListPending(ctx context.Context, limit, page *int32) ([]*Application, error)
	Approve(ctx context.Context, applicationID, reviewerID int64) error
	Reject(ctx context.Context, applicationID, reviewerID int64) error
}

type service struct {
	repo     Repository
	userRepo user.Repository
}

func NewService(repo Repository, userRepo user.Repository) Service {
	return &service{repo: repo, userRepo: userRepo}
}

func (s *service) Submit(ctx context.Context, userID int64, data json.RawMessage) (*Application, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Submit"),
		zap.Int64("userID", userID),
	)

	pending, err := s.repo.HasPending(ctx, userID)
	if err != nil {
		log.Error("failed to check pending application", zap.Error(err))
		return nil, err
	}
	if pending {
		return nil, ErrAlreadyPending
	}

	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}

	app, err := s.repo.CreateApplication(ctx, userID, data)
	if err != nil {
		log.Error("failed to create application", zap.Error(err))
		return nil, err
	}

	log.Info("seller application submitted", zap.Int64("applicationID", app.ID))
	return app, nil
}

func (s *service) GetApplication(ctx context.Context, applicationID int64) (*Application, error) {
	app, err := s.repo.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrApplicationNotFound
	}
	return app, nil
}

func (s *service) ListPending(ctx context.Context, limit, page *int32) ([]*Application, error) {
	return s.repo.ListByStatus(ctx, StatusPending, limit, page)
}

func (s *service) Approve(ctx context.Context, applicationID, reviewerID int64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Approve"),
		zap.Int64("applicationID", applicationID),
	)

	app, err := s.GetApplication(ctx, applicationID)
	if err != nil {
		return err
	}

	if err := s.repo.Review(ctx, applicationID, reviewerID, StatusApproved); err != nil {
		return err
	}

	if err := s.userRepo.GrantRole(ctx, app.UserID, user.RoleSeller); err != nil {
		log.Error("failed to grant seller role", zap.Error(err))
		return err
	}

	log.Info("seller application approved", zap.Int64("userID", app.UserID))
	return nil
}

func (s *service) Reject(ctx context.Context, applicationID, reviewerID int64) error {
	if _, err := s.GetApplication(ctx, applicationID); err != nil {
		return err
	}
	return s.repo.Review(ctx, applicationID, reviewerID, StatusRejected)
}
