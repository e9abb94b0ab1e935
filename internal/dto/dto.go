package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---- requests ----

type AddCartItemRequest struct {
	ProductID uint `json:"product_id"`
}

type CompleteOrderRequest struct {
	OrderID       uint `json:"order_id"`
	PaymentTypeID uint `json:"payment_type_id"`
}

type ProductInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	City        string          `json:"city"`
	CategoryID  uint            `json:"category_id"`
}

type PaymentTypeInput struct {
	Description    string    `json:"description"`
	AccountNumber  string    `json:"account_number"`
	ExpirationDate time.Time `json:"expiration_date"`
}

type RatingInput struct {
	Score int `json:"score"`
}

type LikeInput struct {
	Liked bool `json:"liked"`
}

// ---- views ----

// CartLine groups the join rows for one product: Units is the row count and
// Subtotal is Units times the product's current price.
type CartLine struct {
	ProductID uint            `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Units     int             `json:"units"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type PaymentOption struct {
	ID          uint   `json:"id"`
	Description string `json:"description"`
}

type CartView struct {
	OrderID      uint            `json:"order_id"`
	Lines        []CartLine      `json:"lines"`
	Total        decimal.Decimal `json:"total"`
	PaymentTypes []PaymentOption `json:"payment_types"`
}

type CheckoutResult struct {
	OrderID       uint            `json:"order_id"`
	PaymentTypeID uint            `json:"payment_type_id"`
	DateCompleted time.Time       `json:"date_completed"`
	Total         decimal.Decimal `json:"total"`
}

type ProductView struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	City        string          `json:"city,omitempty"`
	ImagePath   string          `json:"image_path,omitempty"`
	Category    string          `json:"category"`
	SellerID    string          `json:"seller_id"`
	SellerName  string          `json:"seller_name"`
	Likes       int64           `json:"likes"`
	AvgRating   float64         `json:"avg_rating"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CategoryView struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

type OrderHistoryEntry struct {
	OrderID       uint            `json:"order_id"`
	DateCompleted time.Time       `json:"date_completed"`
	PaymentTypeID uint            `json:"payment_type_id"`
	Lines         []CartLine      `json:"lines"`
	Total         decimal.Decimal `json:"total"`
}

type ProfileView struct {
	UserID        string          `json:"user_id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	StreetAddress string          `json:"street_address"`
	Email         string          `json:"email"`
	PaymentTypes  []PaymentOption `json:"payment_types"`
}

// ---- reports ----

type AbandonedCategoryRow struct {
	Label        string `json:"label"`
	ProductCount int64  `json:"product_count"`
}

type MultipleOpenOrdersRow struct {
	UserID     string `json:"user_id"`
	OpenOrders int64  `json:"open_orders"`
}

type SellerProductStatusRow struct {
	ProductID     uint    `json:"product_id"`
	Title         string  `json:"title"`
	NumberSold    int64   `json:"number_sold"`
	AverageRating float64 `json:"average_rating"`
	Likes         int64   `json:"likes"`
}
