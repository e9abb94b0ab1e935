package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"
)

type EngagementService interface {
	Rate(ctx context.Context, userID string, productID uint, score int) error
	Like(ctx context.Context, userID string, productID uint, liked bool) error
}

type engagementServiceImpl struct {
	productRepo    repository.ProductRepository
	engagementRepo repository.EngagementRepository
}

func NewEngagementService(
	productRepo repository.ProductRepository,
	engagementRepo repository.EngagementRepository,
) EngagementService {
	return &engagementServiceImpl{
		productRepo:    productRepo,
		engagementRepo: engagementRepo,
	}
}

func (s *engagementServiceImpl) Rate(ctx context.Context, userID string, productID uint, score int) error {
	if score < 1 || score > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if err := s.ensureProduct(ctx, productID); err != nil {
		return err
	}

	return s.engagementRepo.UpsertRating(ctx, &model.ProductRating{
		ProductID: productID,
		UserID:    userID,
		Score:     score,
	})
}

func (s *engagementServiceImpl) Like(ctx context.Context, userID string, productID uint, liked bool) error {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return err
	}

	return s.engagementRepo.UpsertLike(ctx, &model.ProductLike{
		ProductID: productID,
		UserID:    userID,
		Liked:     liked,
	})
}

func (s *engagementServiceImpl) ensureProduct(ctx context.Context, productID uint) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return err
	}
	return nil
}
