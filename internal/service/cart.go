package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"marketplace-api/internal/dto"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"
)

type CartService interface {
	// OpenOrder returns the user's open order, creating one when none exists.
	// The unique open-order marker in the store guarantees two concurrent
	// callers converge on a single order.
	OpenOrder(ctx context.Context, userID string) (*model.Order, error)
	AddItem(ctx context.Context, userID string, productID uint) (*model.Order, error)
	RemoveItems(ctx context.Context, userID string, productID uint) error
	ViewCart(ctx context.Context, userID string) (*dto.CartView, error)
	DeleteOrder(ctx context.Context, userID string, orderID uint) error
}

type cartServiceImpl struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	paymentRepo repository.PaymentTypeRepository
}

func NewCartService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	paymentRepo repository.PaymentTypeRepository,
) CartService {
	return &cartServiceImpl{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		paymentRepo: paymentRepo,
	}
}

func (s *cartServiceImpl) OpenOrder(ctx context.Context, userID string) (*model.Order, error) {
	order, err := s.orderRepo.FindOpenByUser(ctx, userID)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	marker := userID
	order = &model.Order{
		UserID:     userID,
		OpenUserID: &marker,
	}
	if createErr := s.orderRepo.Create(ctx, order); createErr != nil {
		// Lost the insert race: the unique index rejected the duplicate, so
		// the winner's order must exist now.
		if existing, findErr := s.orderRepo.FindOpenByUser(ctx, userID); findErr == nil {
			return existing, nil
		}
		return nil, createErr
	}

	return order, nil
}

// AddItem appends one join row. Stock is deliberately not checked here; the
// checkout is the only place quantities are validated.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, productID uint) (*model.Order, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}

	order, err := s.OpenOrder(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.AddLineItem(ctx, order.ID, productID); err != nil {
		return nil, err
	}

	return order, nil
}

// RemoveItems clears every unit of the product from the cart, not just one.
func (s *cartServiceImpl) RemoveItems(ctx context.Context, userID string, productID uint) error {
	order, err := s.orderRepo.FindOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: no open order", ErrNotFound)
		}
		return err
	}

	_, err = s.orderRepo.DeleteLineItems(ctx, order.ID, productID)
	return err
}

func (s *cartServiceImpl) ViewCart(ctx context.Context, userID string) (*dto.CartView, error) {
	order, err := s.OpenOrder(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, total, err := buildLines(ctx, s.orderRepo, s.productRepo, order.ID)
	if err != nil {
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

	return &dto.CartView{
		OrderID:      order.ID,
		Lines:        lines,
		Total:        total,
		PaymentTypes: options,
	}, nil
}

// DeleteOrder discards an order that no line items reference anymore; the
// guard keeps checkout history from being orphaned.
func (s *cartServiceImpl) DeleteOrder(ctx context.Context, userID string, orderID uint) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return err
	}
	if order.UserID != userID {
		return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, terr := s.orderRepo.CountLineItemsByOrder(ctx, tx, orderID)
		if terr != nil {
			return terr
		}
		if count > 0 {
			return fmt.Errorf("%w: order %d still has %d line items", ErrIntegrity, orderID, count)
		}
		return s.orderRepo.Delete(ctx, tx, orderID)
	})
}

// buildLines turns the join rows of an order into grouped line items priced at
// the products' current price. A price change while the item sat in the cart
// changes the displayed and charged amount.
func buildLines(ctx context.Context, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, orderID uint) ([]dto.CartLine, decimal.Decimal, error) {
	counts, err := orderRepo.LineItemCounts(ctx, orderID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	lines := make([]dto.CartLine, 0, len(counts))
	total := decimal.Zero
	if len(counts) == 0 {
		return lines, total, nil
	}

	productIDs := make([]uint, len(counts))
	for i, c := range counts {
		productIDs[i] = c.ProductID
	}

	products, err := productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, decimal.Zero, err
	}
	byID := make(map[uint]*model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, c := range counts {
		product, ok := byID[c.ProductID]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("%w: product %d", ErrNotFound, c.ProductID)
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(c.Units)))
		lines = append(lines, dto.CartLine{
			ProductID: product.ID,
			Title:     product.Title,
			UnitPrice: product.Price,
			Units:     c.Units,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}

	return lines, total, nil
}
