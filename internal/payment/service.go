package payment

import (
	"context"

	"freemarket-be/internal/logger"
	"freemarket-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	RecordPayment(ctx context.Context, params RecordParams) (*Payment, error)
	GetPaymentsByOrder(ctx context.Context, orderID int64) ([]*Payment, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// RecordPayment appends a payment row against an order. It deliberately does
// not touch order status: checkout performs payment capture itself, and this
// record is bookkeeping after the fact.
func (s *service) RecordPayment(ctx context.Context, params RecordParams) (*Payment, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RecordPayment"),
		zap.Int64("order_id", params.OrderID),
	)

	if params.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if params.PaymentMethod == "" {
		return nil, ErrMissingMethod
	}

	exists, err := s.repo.OrderExists(ctx, params.OrderID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOrderNotFound
	}

	if params.TransactionID == "" {
		params.TransactionID = utils.GenerateTransactionID()
	}

	p, err := s.repo.SavePayment(ctx, params)
	if err != nil {
		log.Error("failed to record payment", zap.Error(err))
		return nil, err
	}

	log.Info("payment recorded",
		zap.Int64("payment_id", p.ID),
		zap.String("transaction_id", p.TransactionID),
	)

	return p, nil
}

func (s *service) GetPaymentsByOrder(ctx context.Context, orderID int64) ([]*Payment, error) {
	return s.repo.GetPaymentsByOrder(ctx, orderID)
}
