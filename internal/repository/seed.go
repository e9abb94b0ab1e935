package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace-api/internal/model"
)

// Seed loads development fixtures. Inserts are conflict-tolerant so repeated
// startups leave the data unchanged.
func Seed(db *gorm.DB) error {
	users := []model.User{
		{ID: "user-admina", FirstName: "Admina", LastName: "Straytor", StreetAddress: "123 Infinity Way", Email: "admin@admin.com"},
		{ID: "user-brian", FirstName: "Brian", LastName: "Neal", StreetAddress: "1412 Phillips Street", Email: "brianbneal@example.com"},
		{ID: "user-connor", FirstName: "Connor", LastName: "Bailey", StreetAddress: "1619 Marshall Hollow", Email: "bailey.connor@example.com"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&users).Error; err != nil {
		return err
	}

	categories := []model.Category{
		{ID: 1, Label: "Sporting Goods"},
		{ID: 2, Label: "Appliances"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&categories).Error; err != nil {
		return err
	}

	products := []model.Product{
		{ID: 1, Title: "Kite", Description: "It flies high", Price: decimal.NewFromFloat(2.99), Quantity: 100, UserID: "user-admina", CategoryID: 1},
		{ID: 2, Title: "Wheelbarrow", Description: "It rolls fast", Price: decimal.NewFromFloat(29.99), Quantity: 5, UserID: "user-admina", CategoryID: 2},
		{ID: 3, Title: "T-Shirt Cannon", Description: "Shoots t-shirts up to 600 meters at max pressure", Price: decimal.NewFromFloat(99.99), Quantity: 8, UserID: "user-connor", CategoryID: 1},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error; err != nil {
		return err
	}

	paymentTypes := []model.PaymentType{
		{ID: 1, UserID: "user-admina", Description: "American Express", AccountNumber: "***1212", ExpirationDate: time.Now().AddDate(3, 0, 0)},
		{ID: 2, UserID: "user-brian", Description: "Big Bucks Card", AccountNumber: "***1112", ExpirationDate: time.Now().AddDate(2, 0, 0)},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&paymentTypes).Error
}
