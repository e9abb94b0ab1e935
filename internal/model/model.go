package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User mirrors the identity provider's view of an account. Rows are created by
// the seed or on first sight of a new subject; this service never authenticates.
type User struct {
	ID            string `gorm:"primaryKey;size:64;not null"`
	FirstName     string `gorm:"size:64"`
	LastName      string `gorm:"size:64"`
	StreetAddress string `gorm:"size:255"`
	Email         string `gorm:"size:255;uniqueIndex"`
	CreatedAt     time.Time
}

type Category struct {
	ID    uint   `gorm:"primaryKey"`
	Label string `gorm:"size:55;uniqueIndex;not null"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Title       string          `gorm:"size:55;not null"`
	Description string          `gorm:"size:255;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null"`
	UserID      string          `gorm:"size:64;index;not null"` // seller
	User        User
	City        string `gorm:"size:64"`
	ImagePath   string `gorm:"size:255"`
	CategoryID  uint   `gorm:"index;not null"`
	Category    Category
	Version     int `gorm:"not null;default:1"`
	CreatedAt   time.Time
}

type PaymentType struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         string `gorm:"size:64;index;not null"`
	Description    string `gorm:"size:55;not null"`
	AccountNumber  string `gorm:"size:25;not null"` // masked account label, never charged
	ExpirationDate time.Time
	CreatedAt      time.Time
}

// Order is the shopping cart while DateCompleted is null and a purchase record
// afterwards. OpenUserID duplicates UserID for the open phase only and is
// cleared at completion; the unique index on it is what makes a second open
// order for the same user impossible, regardless of interleaving.
type Order struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        string `gorm:"size:64;index;not null"`
	User          User
	PaymentTypeID *uint
	PaymentType   *PaymentType
	DateCompleted *time.Time
	OpenUserID    *string `gorm:"size:64;uniqueIndex"`
	Version       int     `gorm:"not null;default:1"`
	CreatedAt     time.Time
}

// OrderLineItem carries no quantity column: adding the same product twice
// writes two rows, and the unit count for a product is the row count.
type OrderLineItem struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	CreatedAt time.Time
}

type ProductRating struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"uniqueIndex:idx_rating_product_user;not null"`
	UserID    string `gorm:"size:64;uniqueIndex:idx_rating_product_user;not null"`
	Score     int    `gorm:"not null"` // 1..5
}

type ProductLike struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"uniqueIndex:idx_like_product_user;not null"`
	UserID    string `gorm:"size:64;uniqueIndex:idx_like_product_user;not null"`
	Liked     bool   `gorm:"not null"`
}
