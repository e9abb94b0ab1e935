package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"marketplace-api/internal/dto"
	"marketplace-api/internal/repository"
)

type ProfileService interface {
	Get(ctx context.Context, userID string) (*dto.ProfileView, error)
}

type profileServiceImpl struct {
	userRepo    repository.UserRepository
	paymentRepo repository.PaymentTypeRepository
}

func NewProfileService(
	userRepo repository.UserRepository,
	paymentRepo repository.PaymentTypeRepository,
) ProfileService {
	return &profileServiceImpl{
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
	}
}

func (s *profileServiceImpl) Get(ctx context.Context, userID string) (*dto.ProfileView, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, err
	}

	paymentTypes, err := s.paymentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	options := make([]dto.PaymentOption, len(paymentTypes))
	for i, pt := range paymentTypes {
		options[i] = dto.PaymentOption{ID: pt.ID, Description: pt.Description}
	}

	return &dto.ProfileView{
		UserID:        user.ID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		StreetAddress: user.StreetAddress,
		Email:         user.Email,
		PaymentTypes:  options,
	}, nil
}
