package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"marketplace-api/internal/dto"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"
	"marketplace-api/internal/storage"
)

const (
	maxTitleLen       = 55
	maxDescriptionLen = 255
)

var maxPrice = decimal.NewFromInt(10000)

type CatalogService interface {
	List(ctx context.Context, search string) ([]dto.ProductView, error)
	Get(ctx context.Context, productID uint) (*dto.ProductView, error)
	Create(ctx context.Context, userID string, input dto.ProductInput, image io.Reader, imageName string) (*model.Product, error)
	Update(ctx context.Context, userID string, productID uint, input dto.ProductInput) error
	Delete(ctx context.Context, userID string, productID uint) error
	Categories(ctx context.Context) ([]dto.CategoryView, error)
}

type catalogServiceImpl struct {
	db             *gorm.DB
	productRepo    repository.ProductRepository
	categoryRepo   repository.CategoryRepository
	engagementRepo repository.EngagementRepository
	fileStore      storage.FileStore
}

func NewCatalogService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	engagementRepo repository.EngagementRepository,
	fileStore storage.FileStore,
) CatalogService {
	return &catalogServiceImpl{
		db:             db,
		productRepo:    productRepo,
		categoryRepo:   categoryRepo,
		engagementRepo: engagementRepo,
		fileStore:      fileStore,
	}
}

func (s *catalogServiceImpl) List(ctx context.Context, search string) ([]dto.ProductView, error) {
	products, err := s.productRepo.List(ctx, search)
	if err != nil {
		return nil, err
	}

	views := make([]dto.ProductView, len(products))
	for i, p := range products {
		views[i] = productView(p, 0, 0)
	}

	return views, nil
}

func (s *catalogServiceImpl) Get(ctx context.Context, productID uint) (*dto.ProductView, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}

	likes, err := s.engagementRepo.LikeCount(ctx, productID)
	if err != nil {
		return nil, err
	}
	avgRating, err := s.engagementRepo.AverageRating(ctx, productID)
	if err != nil {
		return nil, err
	}

	view := productView(product, likes, avgRating)
	return &view, nil
}

func (s *catalogServiceImpl) Create(ctx context.Context, userID string, input dto.ProductInput, image io.Reader, imageName string) (*model.Product, error) {
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	imagePath := ""
	if image != nil {
		path, err := s.fileStore.Save(image, imageName)
		if err != nil {
			return nil, err
		}
		imagePath = path
	}

	product := &model.Product{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		City:        input.City,
		ImagePath:   imagePath,
		CategoryID:  input.CategoryID,
		UserID:      userID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *catalogServiceImpl) Update(ctx context.Context, userID string, productID uint, input dto.ProductInput) error {
	if err := s.validateInput(ctx, input); err != nil {
		return err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return err
	}
	if product.UserID != userID {
		return fmt.Errorf("%w: only the seller can modify a listing", ErrValidation)
	}

	product.Title = input.Title
	product.Description = input.Description
	product.Price = input.Price
	product.Quantity = input.Quantity
	product.City = input.City
	product.CategoryID = input.CategoryID

	affected, err := s.productRepo.UpdateGuarded(ctx, product)
	if err != nil {
		return err
	}
	if affected == 0 {
		// Re-read to tell a vanished row from a lost race.
		if _, ferr := s.productRepo.FindByID(ctx, productID); errors.Is(ferr, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return fmt.Errorf("%w: product %d was modified concurrently", ErrConflict, productID)
	}

	return nil
}

// Delete refuses while any order still references the product, completed
// orders included; purchase history is never orphaned.
func (s *catalogServiceImpl) Delete(ctx context.Context, userID string, productID uint) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return err
	}
	if product.UserID != userID {
		return fmt.Errorf("%w: only the seller can delete a listing", ErrValidation)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, terr := s.productRepo.CountLineItems(ctx, tx, productID)
		if terr != nil {
			return terr
		}
		if count > 0 {
			return fmt.Errorf("%w: product %d is referenced by %d order line items", ErrIntegrity, productID, count)
		}
		return s.productRepo.Delete(ctx, tx, productID)
	})
}

func (s *catalogServiceImpl) Categories(ctx context.Context) ([]dto.CategoryView, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]dto.CategoryView, len(categories))
	for i, c := range categories {
		views[i] = dto.CategoryView{ID: c.ID, Label: c.Label}
	}

	return views, nil
}

func (s *catalogServiceImpl) validateInput(ctx context.Context, input dto.ProductInput) error {
	switch {
	case input.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case len(input.Title) > maxTitleLen:
		return fmt.Errorf("%w: title must be at most %d characters", ErrValidation, maxTitleLen)
	case input.Description == "":
		return fmt.Errorf("%w: description is required", ErrValidation)
	case len(input.Description) > maxDescriptionLen:
		return fmt.Errorf("%w: description must be at most %d characters", ErrValidation, maxDescriptionLen)
	case input.Price.IsNegative():
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	case input.Price.GreaterThan(maxPrice):
		return fmt.Errorf("%w: price cannot exceed %s", ErrValidation, maxPrice)
	case input.Quantity < 0:
		return fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %d", ErrNotFound, input.CategoryID)
		}
		return err
	}

	return nil
}

func productView(p *model.Product, likes int64, avgRating float64) dto.ProductView {
	sellerName := p.User.FirstName
	if p.User.LastName != "" {
		sellerName += " " + p.User.LastName
	}

	return dto.ProductView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		City:        p.City,
		ImagePath:   p.ImagePath,
		Category:    p.Category.Label,
		SellerID:    p.UserID,
		SellerName:  sellerName,
		Likes:       likes,
		AvgRating:   avgRating,
		CreatedAt:   p.CreatedAt,
	}
}
