package repository

import (
	"context"

	"gorm.io/gorm"

	"marketplace-api/internal/dto"
	"marketplace-api/internal/model"
)

type sellerUnitsRow struct {
	ProductID uint
	Units     int64
}

type sellerRatingRow struct {
	ProductID uint
	AvgScore  float64
}

type sellerLikeRow struct {
	ProductID uint
	Likes     int64
}

type ReportRepository interface {
	// AbandonedCategories ranks the top 5 categories by how many distinct
	// products currently sit in somebody's open order.
	AbandonedCategories(ctx context.Context) ([]dto.AbandonedCategoryRow, error)
	// MultipleOpenOrders lists users holding two or more open orders. The
	// unique open-order marker keeps this empty in practice; the query exists
	// to surface legacy or manually patched rows.
	MultipleOpenOrders(ctx context.Context) ([]dto.MultipleOpenOrdersRow, error)
	UnitsSoldBySeller(ctx context.Context, sellerID string) (map[uint]int64, error)
	AverageRatingsBySeller(ctx context.Context, sellerID string) (map[uint]float64, error)
	LikesBySeller(ctx context.Context, sellerID string) (map[uint]int64, error)
	LineItemCountsByOrders(ctx context.Context, orderIDs []uint) (map[uint][]LineItemCount, error)
}

type reportRepoImpl struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepoImpl{
		db: db,
	}
}

func (r *reportRepoImpl) AbandonedCategories(ctx context.Context) ([]dto.AbandonedCategoryRow, error) {
	var rows []dto.AbandonedCategoryRow
	err := r.db.WithContext(ctx).Model(&model.OrderLineItem{}).
		Select("categories.label AS label, COUNT(DISTINCT products.id) AS product_count").
		Joins("JOIN orders ON orders.id = order_line_items.order_id AND orders.date_completed IS NULL").
		Joins("JOIN products ON products.id = order_line_items.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Group("categories.id, categories.label").
		Order("product_count DESC").
		Limit(5).
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *reportRepoImpl) MultipleOpenOrders(ctx context.Context) ([]dto.MultipleOpenOrdersRow, error) {
	var rows []dto.MultipleOpenOrdersRow
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("user_id, COUNT(*) AS open_orders").
		Where("date_completed IS NULL").
		Group("user_id").
		Having("COUNT(*) >= ?", 2).
		Order("open_orders DESC").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *reportRepoImpl) UnitsSoldBySeller(ctx context.Context, sellerID string) (map[uint]int64, error) {
	var rows []sellerUnitsRow
	err := r.db.WithContext(ctx).Model(&model.OrderLineItem{}).
		Select("order_line_items.product_id AS product_id, COUNT(*) AS units").
		Joins("JOIN orders ON orders.id = order_line_items.order_id").
		Joins("JOIN products ON products.id = order_line_items.product_id").
		Where("orders.date_completed IS NOT NULL").
		Where("products.user_id = ?", sellerID).
		Group("order_line_items.product_id").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	units := make(map[uint]int64, len(rows))
	for _, row := range rows {
		units[row.ProductID] = row.Units
	}

	return units, nil
}

func (r *reportRepoImpl) AverageRatingsBySeller(ctx context.Context, sellerID string) (map[uint]float64, error) {
	var rows []sellerRatingRow
	err := r.db.WithContext(ctx).Model(&model.ProductRating{}).
		Select("product_ratings.product_id AS product_id, AVG(product_ratings.score) AS avg_score").
		Joins("JOIN products ON products.id = product_ratings.product_id").
		Where("products.user_id = ?", sellerID).
		Group("product_ratings.product_id").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	ratings := make(map[uint]float64, len(rows))
	for _, row := range rows {
		ratings[row.ProductID] = row.AvgScore
	}

	return ratings, nil
}

func (r *reportRepoImpl) LikesBySeller(ctx context.Context, sellerID string) (map[uint]int64, error) {
	var rows []sellerLikeRow
	err := r.db.WithContext(ctx).Model(&model.ProductLike{}).
		Select("product_likes.product_id AS product_id, COUNT(*) AS likes").
		Joins("JOIN products ON products.id = product_likes.product_id").
		Where("products.user_id = ?", sellerID).
		Where("product_likes.liked = ?", true).
		Group("product_likes.product_id").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	likes := make(map[uint]int64, len(rows))
	for _, row := range rows {
		likes[row.ProductID] = row.Likes
	}

	return likes, nil
}

func (r *reportRepoImpl) LineItemCountsByOrders(ctx context.Context, orderIDs []uint) (map[uint][]LineItemCount, error) {
	if len(orderIDs) == 0 {
		return map[uint][]LineItemCount{}, nil
	}

	var rows []struct {
		OrderID   uint
		ProductID uint
		Units     int
	}
	err := r.db.WithContext(ctx).Model(&model.OrderLineItem{}).
		Select("order_id, product_id, COUNT(*) AS units").
		Where("order_id IN ?", orderIDs).
		Group("order_id, product_id").
		Order("order_id ASC, product_id ASC").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	grouped := make(map[uint][]LineItemCount)
	for _, row := range rows {
		grouped[row.OrderID] = append(grouped[row.OrderID], LineItemCount{
			ProductID: row.ProductID,
			Units:     row.Units,
		})
	}

	return grouped, nil
}
