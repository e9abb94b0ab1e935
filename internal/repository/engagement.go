package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace-api/internal/model"
)

type EngagementRepository interface {
	UpsertRating(ctx context.Context, rating *model.ProductRating) error
	UpsertLike(ctx context.Context, like *model.ProductLike) error
	AverageRating(ctx context.Context, productID uint) (float64, error)
	LikeCount(ctx context.Context, productID uint) (int64, error)
}

type engagementRepoImpl struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepoImpl{
		db: db,
	}
}

// One rating per (product, user): a second submission overwrites the score.
func (r *engagementRepoImpl) UpsertRating(ctx context.Context, rating *model.ProductRating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score": rating.Score,
		}),
	}).Create(rating).Error
}

func (r *engagementRepoImpl) UpsertLike(ctx context.Context, like *model.ProductLike) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"liked": like.Liked,
		}),
	}).Create(like).Error
}

func (r *engagementRepoImpl) AverageRating(ctx context.Context, productID uint) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Model(&model.ProductRating{}).
		Select("AVG(score)").
		Where("product_id = ?", productID).
		Scan(&avg).Error

	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}

	return *avg, nil
}

func (r *engagementRepoImpl) LikeCount(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductLike{}).
		Where("product_id = ? AND liked = ?", productID, true).
		Count(&count).Error

	return count, err
}
