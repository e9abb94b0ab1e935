package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"marketplace-api/internal/model"
)

// LineItemCount is the grouped form of the join rows: one entry per distinct
// product in an order, Units being the number of rows.
type LineItemCount struct {
	ProductID uint
	Units     int
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID uint) (*model.Order, error)
	FindOpenByUser(ctx context.Context, userID string) (*model.Order, error)
	AddLineItem(ctx context.Context, orderID uint, productID uint) error
	DeleteLineItems(ctx context.Context, orderID uint, productID uint) (int64, error)
	LineItemCounts(ctx context.Context, orderID uint) ([]LineItemCount, error)
	// CompleteGuarded finalizes the order only when the stored version still
	// matches: sets the completion timestamp and payment reference and clears
	// the open marker so the user can open a fresh cart.
	CompleteGuarded(ctx context.Context, tx *gorm.DB, orderID uint, version int, paymentTypeID uint, completedAt time.Time) (int64, error)
	CompletedByUser(ctx context.Context, userID string) ([]*model.Order, error)
	CountLineItemsByOrder(ctx context.Context, tx *gorm.DB, orderID uint) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, orderID uint) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindOpenByUser(ctx context.Context, userID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date_completed IS NULL", userID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) AddLineItem(ctx context.Context, orderID uint, productID uint) error {
	return r.db.WithContext(ctx).Create(&model.OrderLineItem{
		OrderID:   orderID,
		ProductID: productID,
	}).Error
}

// DeleteLineItems removes every row for the product, not one unit.
func (r *orderRepoImpl) DeleteLineItems(ctx context.Context, orderID uint, productID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Delete(&model.OrderLineItem{})

	return result.RowsAffected, result.Error
}

func (r *orderRepoImpl) LineItemCounts(ctx context.Context, orderID uint) ([]LineItemCount, error) {
	var counts []LineItemCount
	err := r.db.WithContext(ctx).Model(&model.OrderLineItem{}).
		Select("product_id, COUNT(*) AS units").
		Where("order_id = ?", orderID).
		Group("product_id").
		Order("product_id ASC").
		Scan(&counts).Error

	if err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *orderRepoImpl) CompleteGuarded(ctx context.Context, tx *gorm.DB, orderID uint, version int, paymentTypeID uint, completedAt time.Time) (int64, error) {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND version = ? AND date_completed IS NULL", orderID, version).
		Updates(map[string]interface{}{
			"date_completed":  completedAt,
			"payment_type_id": paymentTypeID,
			"open_user_id":    nil,
			"version":         version + 1,
		})

	return result.RowsAffected, result.Error
}

func (r *orderRepoImpl) CompletedByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date_completed IS NOT NULL", userID).
		Order("date_completed DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) CountLineItemsByOrder(ctx context.Context, tx *gorm.DB, orderID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&model.OrderLineItem{}).
		Where("order_id = ?", orderID).
		Count(&count).Error

	return count, err
}

func (r *orderRepoImpl) Delete(ctx context.Context, tx *gorm.DB, orderID uint) error {
	return tx.WithContext(ctx).Delete(&model.Order{}, orderID).Error
}
