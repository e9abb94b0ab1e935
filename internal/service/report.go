package service

import (
	"context"

	"github.com/shopspring/decimal"

	"marketplace-api/internal/dto"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"
)

type ReportService interface {
	AbandonedProducts(ctx context.Context) ([]dto.AbandonedCategoryRow, error)
	MultipleOpenOrders(ctx context.Context) ([]dto.MultipleOpenOrdersRow, error)
	OrderHistory(ctx context.Context, userID string) ([]dto.OrderHistoryEntry, error)
	SellerProductStatus(ctx context.Context, sellerID string) ([]dto.SellerProductStatusRow, error)
}

type reportServiceImpl struct {
	reportRepo  repository.ReportRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewReportService(
	reportRepo repository.ReportRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) ReportService {
	return &reportServiceImpl{
		reportRepo:  reportRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

func (s *reportServiceImpl) AbandonedProducts(ctx context.Context) ([]dto.AbandonedCategoryRow, error) {
	return s.reportRepo.AbandonedCategories(ctx)
}

func (s *reportServiceImpl) MultipleOpenOrders(ctx context.Context) ([]dto.MultipleOpenOrdersRow, error) {
	return s.reportRepo.MultipleOpenOrders(ctx)
}

// OrderHistory prices line items at query time, matching the cart view.
func (s *reportServiceImpl) OrderHistory(ctx context.Context, userID string) ([]dto.OrderHistoryEntry, error) {
	orders, err := s.orderRepo.CompletedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	orderIDs := make([]uint, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID
	}

	countsByOrder, err := s.reportRepo.LineItemCountsByOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	productIDSet := make(map[uint]struct{})
	for _, counts := range countsByOrder {
		for _, c := range counts {
			productIDSet[c.ProductID] = struct{}{}
		}
	}
	productIDs := make([]uint, 0, len(productIDSet))
	for id := range productIDSet {
		productIDs = append(productIDs, id)
	}

	byID := make(map[uint]*model.Product, len(productIDs))
	if len(productIDs) > 0 {
		products, perr := s.productRepo.FindMany(ctx, productIDs)
		if perr != nil {
			return nil, perr
		}
		for _, p := range products {
			byID[p.ID] = p
		}
	}

	entries := make([]dto.OrderHistoryEntry, 0, len(orders))
	for _, order := range orders {
		entry := dto.OrderHistoryEntry{
			OrderID: order.ID,
			Total:   decimal.Zero,
		}
		if order.DateCompleted != nil {
			entry.DateCompleted = *order.DateCompleted
		}
		if order.PaymentTypeID != nil {
			entry.PaymentTypeID = *order.PaymentTypeID
		}

		for _, c := range countsByOrder[order.ID] {
			product, ok := byID[c.ProductID]
			if !ok {
				continue
			}
			subtotal := product.Price.Mul(decimal.NewFromInt(int64(c.Units)))
			entry.Lines = append(entry.Lines, dto.CartLine{
				ProductID: product.ID,
				Title:     product.Title,
				UnitPrice: product.Price,
				Units:     c.Units,
				Subtotal:  subtotal,
			})
			entry.Total = entry.Total.Add(subtotal)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *reportServiceImpl) SellerProductStatus(ctx context.Context, sellerID string) ([]dto.SellerProductStatusRow, error) {
	products, err := s.productRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	unitsSold, err := s.reportRepo.UnitsSoldBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.reportRepo.AverageRatingsBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	likes, err := s.reportRepo.LikesBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.SellerProductStatusRow, len(products))
	for i, p := range products {
		rows[i] = dto.SellerProductStatusRow{
			ProductID:     p.ID,
			Title:         p.Title,
			NumberSold:    unitsSold[p.ID],
			AverageRating: ratings[p.ID],
			Likes:         likes[p.ID],
		}
	}

	return rows, nil
}
