package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the authoritative catalog record used to price orders.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Price          decimal.Decimal `json:"price"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	IsAvailable    bool            `json:"isAvailable"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
