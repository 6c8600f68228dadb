// Package mocks provides hand-rolled testify mocks for the service layer,
// used by the handler tests.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/nfluential/storefront-api/internal/models"
	"github.com/stretchr/testify/mock"
)

type CartService struct {
	mock.Mock
}

func (m *CartService) CreateCart(ctx context.Context) (*models.Cart, string, error) {
	args := m.Called(ctx)

	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.String(1), args.Error(2)
	}

	return nil, args.String(1), args.Error(2)
}

func (m *CartService) GetCart(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, id)

	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CartService) AddItem(ctx context.Context, id uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {
	args := m.Called(ctx, id, req)

	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CartService) UpdateQuantity(ctx context.Context, id uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error) {
	args := m.Called(ctx, id, req)

	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CartService) RemoveItem(ctx context.Context, id uuid.UUID, variantID string) (*models.Cart, error) {
	args := m.Called(ctx, id, variantID)

	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CartService) SyncCart(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, id)

	if cart, ok := args.Get(0).(*models.Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CartService) CheckoutURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)

	return args.String(0), args.Error(1)
}
