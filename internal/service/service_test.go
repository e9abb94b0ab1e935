package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"marketplace-api/internal/client"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"
	"marketplace-api/internal/storage"
)

var testDBSeq atomic.Int64

// fixture wires the full service stack over an in-memory sqlite DB; the core
// invariants live in the store, so the tests run against the real repositories.
type fixture struct {
	db *gorm.DB

	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository

	cart       CartService
	checkout   CheckoutService
	catalog    CatalogService
	payment    PaymentService
	engagement EngagementService
	report     ReportService
	profile    ProfileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, client.Migrate(db))

	fileStore, err := storage.NewLocalFileStore(t.TempDir())
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	paymentRepo := repository.NewPaymentTypeRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	reportRepo := repository.NewReportRepository(db)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cart:        NewCartService(db, orderRepo, productRepo, paymentRepo),
		checkout:    NewCheckoutService(db, logger, orderRepo, productRepo, paymentRepo),
		catalog:     NewCatalogService(db, productRepo, categoryRepo, engagementRepo, fileStore),
		payment:     NewPaymentService(db, paymentRepo),
		engagement:  NewEngagementService(productRepo, engagementRepo),
		report:      NewReportService(reportRepo, orderRepo, productRepo),
		profile:     NewProfileService(userRepo, paymentRepo),
	}
}

func (f *fixture) seedUser(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.db.Create(&model.User{ID: id, FirstName: id, Email: id + "@example.com"}).Error)
}

func (f *fixture) seedCategory(t *testing.T, id uint, label string) {
	t.Helper()
	require.NoError(t, f.db.Create(&model.Category{ID: id, Label: label}).Error)
}

func (f *fixture) seedProduct(t *testing.T, sellerID, title, price string, quantity int, categoryID uint) *model.Product {
	t.Helper()

	product := &model.Product{
		Title:       title,
		Description: "test listing",
		Price:       decimal.RequireFromString(price),
		Quantity:    quantity,
		UserID:      sellerID,
		CategoryID:  categoryID,
	}
	require.NoError(t, f.db.Create(product).Error)
	return product
}

func (f *fixture) seedPaymentType(t *testing.T, userID, description string) *model.PaymentType {
	t.Helper()

	paymentType := &model.PaymentType{
		UserID:         userID,
		Description:    description,
		AccountNumber:  "***1212",
		ExpirationDate: time.Now().AddDate(2, 0, 0),
	}
	require.NoError(t, f.db.Create(paymentType).Error)
	return paymentType
}

func (f *fixture) addUnits(t *testing.T, userID string, productID uint, units int) *model.Order {
	t.Helper()

	var order *model.Order
	for i := 0; i < units; i++ {
		var err error
		order, err = f.cart.AddItem(context.Background(), userID, productID)
		require.NoError(t, err)
	}
	return order
}
