package repository

import (
	"context"

	"gorm.io/gorm"

	"marketplace-api/internal/model"
)

const listingLimit = 20

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, productID uint) (*model.Product, error)
	FindMany(ctx context.Context, productIDs []uint) ([]*model.Product, error)
	List(ctx context.Context, search string) ([]*model.Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*model.Product, error)
	// UpdateGuarded applies the listing fields only when the stored version
	// still matches; the returned count is 0 on a lost race or a missing row.
	UpdateGuarded(ctx context.Context, product *model.Product) (int64, error)
	// DecrementStock subtracts units only when the version matches and enough
	// stock remains, so a quantity can never go negative.
	DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, version int, units int) (int64, error)
	CountLineItems(ctx context.Context, tx *gorm.DB, productID uint) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, productID uint) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("User").
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, productIDs []uint) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) List(ctx context.Context, search string) ([]*model.Product, error) {
	var products []*model.Product

	query := r.db.WithContext(ctx).
		Preload("Category").
		Preload("User").
		Order("created_at DESC")

	if search != "" {
		query = query.Where("title LIKE ? OR city LIKE ?", "%"+search+"%", "%"+search+"%")
	} else {
		query = query.Limit(listingLimit)
	}

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) ListBySeller(ctx context.Context, sellerID string) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ?", sellerID).
		Order("created_at DESC").
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) UpdateGuarded(ctx context.Context, product *model.Product) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Updates(map[string]interface{}{
			"title":       product.Title,
			"description": product.Description,
			"price":       product.Price,
			"quantity":    product.Quantity,
			"city":        product.City,
			"image_path":  product.ImagePath,
			"category_id": product.CategoryID,
			"version":     product.Version + 1,
		})

	return result.RowsAffected, result.Error
}

func (r *productRepoImpl) DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, version int, units int) (int64, error) {
	result := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND version = ? AND quantity >= ?", productID, version, units).
		Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity - ?", units),
			"version":  version + 1,
		})

	return result.RowsAffected, result.Error
}

func (r *productRepoImpl) CountLineItems(ctx context.Context, tx *gorm.DB, productID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&model.OrderLineItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error

	return count, err
}

func (r *productRepoImpl) Delete(ctx context.Context, tx *gorm.DB, productID uint) error {
	return tx.WithContext(ctx).Delete(&model.Product{}, productID).Error
}
