package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"marketplace-api/internal/dto"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"
)

type CheckoutService interface {
	// Complete finalizes the order against the chosen payment type and
	// decrements stock for every product in the cart, all in one transaction.
	// On any failure nothing is applied and the order stays open.
	Complete(ctx context.Context, userID string, orderID uint, paymentTypeID uint) (*dto.CheckoutResult, error)
}

type checkoutServiceImpl struct {
	db          *gorm.DB
	logger      *slog.Logger
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	paymentRepo repository.PaymentTypeRepository
}

func NewCheckoutService(
	db *gorm.DB,
	logger *slog.Logger,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	paymentRepo repository.PaymentTypeRepository,
) CheckoutService {
	return &checkoutServiceImpl{
		db:          db,
		logger:      logger,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		paymentRepo: paymentRepo,
	}
}

func (s *checkoutServiceImpl) Complete(ctx context.Context, userID string, orderID uint, paymentTypeID uint) (*dto.CheckoutResult, error) {
	if paymentTypeID == 0 {
		return nil, fmt.Errorf("%w: a payment type must be selected", ErrValidation)
	}

	paymentType, err := s.paymentRepo.FindByID(ctx, paymentTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment type %d", ErrNotFound, paymentTypeID)
		}
		return nil, err
	}
	if paymentType.UserID != userID {
		return nil, fmt.Errorf("%w: payment type does not belong to the buyer", ErrValidation)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if order.DateCompleted != nil {
		return nil, fmt.Errorf("%w: order %d is already completed", ErrConflict, orderID)
	}

	counts, err := s.orderRepo.LineItemCounts(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Snapshot the products up front; the versions read here are what the
	// guarded writes below compare against. Prices are the current ones, not
	// whatever they were when the items went into the cart.
	total := decimal.Zero
	products := make([]*model.Product, len(counts))
	for i, c := range counts {
		product, perr := s.productRepo.FindByID(ctx, c.ProductID)
		if perr != nil {
			if errors.Is(perr, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: product %d", ErrNotFound, c.ProductID)
			}
			return nil, perr
		}
		products[i] = product
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(c.Units))))
	}

	completedAt := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, terr := s.orderRepo.CompleteGuarded(ctx, tx, order.ID, order.Version, paymentTypeID, completedAt)
		if terr != nil {
			return terr
		}
		if affected == 0 {
			return s.classifyOrderFailure(ctx, tx, order.ID)
		}

		for i, c := range counts {
			product := products[i]
			affected, terr = s.productRepo.DecrementStock(ctx, tx, product.ID, product.Version, c.Units)
			if terr != nil {
				return terr
			}
			if affected == 0 {
				return s.classifyStockFailure(ctx, tx, product, c.Units)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			s.logger.Warn("checkout conflict, order returned to open",
				"order_id", orderID, "user_id", userID)
		}
		return nil, err
	}

	return &dto.CheckoutResult{
		OrderID:       order.ID,
		PaymentTypeID: paymentTypeID,
		DateCompleted: completedAt,
		Total:         total,
	}, nil
}

// classifyOrderFailure names why the guarded order update touched nothing. The
// surrounding transaction rolls back either way, so the order is observably
// still open afterwards.
func (s *checkoutServiceImpl) classifyOrderFailure(ctx context.Context, tx *gorm.DB, orderID uint) error {
	var fresh model.Order
	err := tx.WithContext(ctx).Where("id = ?", orderID).First(&fresh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if err != nil {
		return err
	}

	return fmt.Errorf("%w: order %d was modified concurrently", ErrConflict, orderID)
}

func (s *checkoutServiceImpl) classifyStockFailure(ctx context.Context, tx *gorm.DB, product *model.Product, units int) error {
	var fresh model.Product
	err := tx.WithContext(ctx).Where("id = ?", product.ID).First(&fresh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: product %d", ErrNotFound, product.ID)
	}
	if err != nil {
		return err
	}

	if fresh.Version == product.Version && fresh.Quantity < units {
		return fmt.Errorf("%w: insufficient stock for %q (%d available, %d in cart)",
			ErrValidation, product.Title, fresh.Quantity, units)
	}

	return fmt.Errorf("%w: product %d was modified concurrently", ErrConflict, product.ID)
}
