package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"marketplace-api/internal/dto"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"
)

type PaymentService interface {
	Create(ctx context.Context, userID string, input dto.PaymentTypeInput) (*model.PaymentType, error)
	ListForUser(ctx context.Context, userID string) ([]*model.PaymentType, error)
	Delete(ctx context.Context, userID string, paymentTypeID uint) error
}

type paymentServiceImpl struct {
	db          *gorm.DB
	paymentRepo repository.PaymentTypeRepository
}

func NewPaymentService(db *gorm.DB, paymentRepo repository.PaymentTypeRepository) PaymentService {
	return &paymentServiceImpl{
		db:          db,
		paymentRepo: paymentRepo,
	}
}

func (s *paymentServiceImpl) Create(ctx context.Context, userID string, input dto.PaymentTypeInput) (*model.PaymentType, error) {
	if input.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if input.AccountNumber == "" {
		return nil, fmt.Errorf("%w: account number is required", ErrValidation)
	}
	if input.ExpirationDate.Before(time.Now()) {
		return nil, fmt.Errorf("%w: the expiration date cannot be before today", ErrValidation)
	}

	paymentType := &model.PaymentType{
		UserID:         userID,
		Description:    input.Description,
		AccountNumber:  input.AccountNumber,
		ExpirationDate: input.ExpirationDate,
	}
	if err := s.paymentRepo.Create(ctx, paymentType); err != nil {
		return nil, err
	}

	return paymentType, nil
}

func (s *paymentServiceImpl) ListForUser(ctx context.Context, userID string) ([]*model.PaymentType, error) {
	return s.paymentRepo.ListByUser(ctx, userID)
}

// Delete refuses while completed orders still reference the payment type.
func (s *paymentServiceImpl) Delete(ctx context.Context, userID string, paymentTypeID uint) error {
	paymentType, err := s.paymentRepo.FindByID(ctx, paymentTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: payment type %d", ErrNotFound, paymentTypeID)
		}
		return err
	}
	if paymentType.UserID != userID {
		return fmt.Errorf("%w: payment type %d", ErrNotFound, paymentTypeID)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, terr := s.paymentRepo.CountOrders(ctx, tx, paymentTypeID)
		if terr != nil {
			return terr
		}
		if count > 0 {
			return fmt.Errorf("%w: payment type %d is referenced by %d orders", ErrIntegrity, paymentTypeID, count)
		}
		return s.paymentRepo.Delete(ctx, tx, paymentTypeID)
	})
}
