package models

import (
	"time"

	"github.com/google/uuid"
)

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductReference is a denormalized snapshot of the product a cart line
// points at, so the cart can render without refetching the catalog.
type ProductReference struct {
	Title    string `json:"title"`
	Handle   string `json:"handle"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type CartLineItem struct {
	VariantID string `json:"variantId"`
	// LineID is the remote cart line identifier; empty until the remote
	// cart has confirmed the line.
	LineID          string           `json:"lineId,omitempty"`
	Product         ProductReference `json:"product"`
	SelectedOptions []SelectedOption `json:"selectedOptions,omitempty"`
	Quantity        int              `json:"quantity"`
	Price           Money            `json:"price"`
}

type Cart struct {
	ID           uuid.UUID      `json:"id"`
	Items        []CartLineItem `json:"items"`
	RemoteCartID string         `json:"remoteCartId,omitempty"`
	CheckoutURL  string         `json:"checkoutUrl,omitempty"`
	IsLoading    bool           `json:"isLoading"`
	IsSyncing    bool           `json:"isSyncing"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

type AddItemRequest struct {
	VariantID       string           `json:"variantId" validate:"required"`
	Quantity        int              `json:"quantity"  validate:"required,min=1"`
	Price           Money            `json:"price"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
	Product         ProductReference `json:"product"`
}

type UpdateQuantityRequest struct {
	VariantID string `json:"variantId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"min=0"`
}
