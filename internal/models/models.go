package models

import (
	"database/sql"
	"time"
)

type Product struct {
	ProductID   int    `json:"product_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	// CurrentPrice is filled by catalog queries; invalid when the product
	// has no open price_history row.
	CurrentPrice sql.NullFloat64 `json:"current_price"`
}

type PriceHistory struct {
	PriceID   int          `json:"price_id"`
	ProductID int          `json:"product_id"`
	Price     float64      `json:"price"`
	StartDate time.Time    `json:"start_date"`
	EndDate   sql.NullTime `json:"end_date"` // NULL marks the current price
}

type Customer struct {
	CustomerID int    `json:"customer_id"`
	FirstName  string `json:"fname"`
	LastName   string `json:"sname"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

type UserCredentials struct {
	CustomerID int    `json:"customer_id"`
	Password   string `json:"-"` // stored as plain text, compared by equality
}

// CartItem is one cart row joined with product title and current price, used
// both for the cart page and as the checkout snapshot.
type CartItem struct {
	CustomerID int             `json:"customer_id"`
	ProductID  int             `json:"product_id"`
	Title      string          `json:"title"`
	Price      sql.NullFloat64 `json:"price"` // invalid when the product has no current price
}

type Order struct {
	OrderID    int       `json:"order_id"`
	CustomerID int       `json:"customer_id"`
	OrderDate  time.Time `json:"order_date"`
	TotalPrice float64   `json:"total_price"`
}

type OrderLine struct {
	OrderID   int             `json:"order_id"`
	ProductID int             `json:"product_id"`
	Title     string          `json:"title"`      // joined product title, for display
	UnitPrice sql.NullFloat64 `json:"unit_price"` // snapshot at checkout; NULL if unpriced then
}
