package user

import (
	"context"
	"strings"

	"freemarket-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, username, email, password string) (string, User, error)
	Login(ctx context.Context, email, password string) (string, User, error)
	GetUserByID(ctx context.Context, userID int64) (User, error)
	PromoteToSeller(ctx context.Context, userID int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, username, email, password string) (string, User, error) {
	log := logger.FromCtx(ctx)

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", User{}, err
	}

	u, err := s.repo.Create(ctx, username, email, hashed)
	if err != nil {
		log.Error("failed to create user", zap.String("email", email), zap.Error(err))
		if strings.Contains(err.Error(), "users_email_key") {
			return "", User{}, ErrEmailExists
		}
		return "", User{}, err
	}

	token, err := GenerateJWT(u.ID, email, u.Roles)
	if err != nil {
		log.Error("failed to generate jwt", zap.Int64("user_id", u.ID), zap.Error(err))
		return "", User{}, err
	}

	log.Info("register service completed",
		zap.Int64("user_id", u.ID),
		zap.String("email", email),
	)

	return token, u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", User{}, ErrInvalidLogin
	}

	if !CheckPasswordHash(password, u.Password) {
		return "", User{}, ErrInvalidLogin
	}

	token, err := GenerateJWT(u.ID, email, u.Roles)
	return token, u, err
}

func (s *service) GetUserByID(ctx context.Context, userID int64) (User, error) {
	return s.repo.FindByID(ctx, userID)
}

// PromoteToSeller keeps the BUYER role and adds SELLER.
func (s *service) PromoteToSeller(ctx context.Context, userID int64) error {
	return s.repo.GrantRole(ctx, userID, RoleSeller)
}
