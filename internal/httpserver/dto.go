package httpserver

import (
	"time"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

type productResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Price          string `json:"price"`
	DeliveryCharge string `json:"deliveryCharge"`
	IsAvailable    bool   `json:"isAvailable"`
	ImageURL       string `json:"imageUrl,omitempty"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price.StringFixed(2),
		DeliveryCharge: p.DeliveryCharge.StringFixed(2),
		IsAvailable:    p.IsAvailable,
		ImageURL:       p.ImageURL,
	}
}

type createOrderRequest struct {
	Email         string          `json:"email"`
	FullName      string          `json:"fullName"`
	Address       domain.Address  `json:"address"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryTotal decimal.Decimal `json:"deliveryTotal"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	Items         []lineRequest   `json:"items"`
}

type lineRequest struct {
	ProductID      string          `json:"productId"`
	ProductName    string          `json:"productName"`
	ProductPrice   decimal.Decimal `json:"productPrice"`
	Quantity       int             `json:"quantity"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
}

func (r createOrderRequest) lines() []domain.LineRequest {
	out := make([]domain.LineRequest, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, domain.LineRequest{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			Quantity:       it.Quantity,
			ProductPrice:   it.ProductPrice,
			DeliveryCharge: it.DeliveryCharge,
		})
	}
	return out
}

type orderResponse struct {
	ID            string         `json:"id"`
	UserID        *string        `json:"userId"`
	Email         string         `json:"email"`
	FullName      string         `json:"fullName"`
	Address       domain.Address `json:"address"`
	Subtotal      string         `json:"subtotal"`
	DeliveryTotal string         `json:"deliveryTotal"`
	Total         string         `json:"total"`
	Status        string         `json:"status"`
	PaymentMethod string         `json:"paymentMethod"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	Items         []itemResponse `json:"items,omitempty"`
}

type itemResponse struct {
	ID             string  `json:"id"`
	OrderID        string  `json:"orderId"`
	ProductID      *string `json:"productId"`
	ProductName    string  `json:"productName"`
	ProductPrice   string  `json:"productPrice"`
	Quantity       int     `json:"quantity"`
	DeliveryCharge string  `json:"deliveryCharge"`
}

func toOrderResponse(o domain.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Email:         o.Email,
		FullName:      o.FullName,
		Address:       o.Address,
		Subtotal:      o.Subtotal.StringFixed(2),
		DeliveryTotal: o.DeliveryTotal.StringFixed(2),
		Total:         o.Total.StringFixed(2),
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if len(o.Items) > 0 {
		resp.Items = toItemResponses(o.Items)
	}
	return resp
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

func toItemResponses(items []domain.OrderItem) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, itemResponse{
			ID:             it.ID,
			OrderID:        it.OrderID,
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			ProductPrice:   it.ProductPrice.StringFixed(2),
			Quantity:       it.Quantity,
			DeliveryCharge: it.DeliveryCharge.StringFixed(2),
		})
	}
	return out
}

type createPaymentRequest struct {
	OrderID         string                 `json:"orderId"`
	PaymentMethod   string                 `json:"paymentMethod"`
	PaymentID       string                 `json:"paymentId"`
	Amount          decimal.Decimal        `json:"amount"`
	Status          string                 `json:"status"`
	ProviderDetails map[string]interface{} `json:"providerDetails"`
}

type statusRequest struct {
	Status          string                 `json:"status"`
	ProviderDetails map[string]interface{} `json:"providerDetails"`
}

type paymentResponse struct {
	ID              string                 `json:"id"`
	OrderID         string                 `json:"orderId"`
	PaymentMethod   string                 `json:"paymentMethod"`
	PaymentID       string                 `json:"paymentId"`
	Status          string                 `json:"status"`
	Amount          string                 `json:"amount"`
	Currency        string                 `json:"currency"`
	ProviderDetails map[string]interface{} `json:"providerDetails,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

func toPaymentResponse(p domain.Payment) paymentResponse {
	return paymentResponse{
		ID:              p.ID,
		OrderID:         p.OrderID,
		PaymentMethod:   string(p.PaymentMethod),
		PaymentID:       p.PaymentID,
		Status:          string(p.Status),
		Amount:          p.Amount.StringFixed(2),
		Currency:        p.Currency,
		ProviderDetails: p.ProviderDetails,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type listResponse[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Count: len(items), Results: items}
}
