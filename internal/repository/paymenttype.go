package repository

import (
	"context"

	"gorm.io/gorm"

	"marketplace-api/internal/model"
)

type PaymentTypeRepository interface {
	Create(ctx context.Context, paymentType *model.PaymentType) error
	FindByID(ctx context.Context, paymentTypeID uint) (*model.PaymentType, error)
	ListByUser(ctx context.Context, userID string) ([]*model.PaymentType, error)
	CountOrders(ctx context.Context, tx *gorm.DB, paymentTypeID uint) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, paymentTypeID uint) error
}

type paymentTypeRepoImpl struct {
	db *gorm.DB
}

func NewPaymentTypeRepository(db *gorm.DB) PaymentTypeRepository {
	return &paymentTypeRepoImpl{
		db: db,
	}
}

func (r *paymentTypeRepoImpl) Create(ctx context.Context, paymentType *model.PaymentType) error {
	return r.db.WithContext(ctx).Create(paymentType).Error
}

func (r *paymentTypeRepoImpl) FindByID(ctx context.Context, paymentTypeID uint) (*model.PaymentType, error) {
	var paymentType model.PaymentType
	err := r.db.WithContext(ctx).
		Where("id = ?", paymentTypeID).
		First(&paymentType).Error

	if err != nil {
		return nil, err
	}

	return &paymentType, nil
}

func (r *paymentTypeRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.PaymentType, error) {
	var paymentTypes []*model.PaymentType
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&paymentTypes).Error

	if err != nil {
		return nil, err
	}

	return paymentTypes, nil
}

func (r *paymentTypeRepoImpl) CountOrders(ctx context.Context, tx *gorm.DB, paymentTypeID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&model.Order{}).
		Where("payment_type_id = ?", paymentTypeID).
		Count(&count).Error

	return count, err
}

func (r *paymentTypeRepoImpl) Delete(ctx context.Context, tx *gorm.DB, paymentTypeID uint) error {
	return tx.WithContext(ctx).Delete(&model.PaymentType{}, paymentTypeID).Error
}
