package shopify

import (
	"context"

	"github.com/nfluential/storefront-api/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) CartCreate(ctx context.Context, lines []CartLineInput) (*Cart, error) {
	args := m.Called(ctx, lines)

	if cart, ok := args.Get(0).(*Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockClient) CartLinesAdd(ctx context.Context, cartID string, lines []CartLineInput) (*Cart, error) {
	args := m.Called(ctx, cartID, lines)

	if cart, ok := args.Get(0).(*Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockClient) CartLinesUpdate(ctx context.Context, cartID string, lines []CartLineUpdateInput) (*Cart, error) {
	args := m.Called(ctx, cartID, lines)

	if cart, ok := args.Get(0).(*Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockClient) CartLinesRemove(ctx context.Context, cartID string, lineIDs []string) (*Cart, error) {
	args := m.Called(ctx, cartID, lineIDs)

	if cart, ok := args.Get(0).(*Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockClient) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	args := m.Called(ctx, cartID)

	if cart, ok := args.Get(0).(*Cart); ok {
		return cart, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockClient) ListProducts(ctx context.Context, first int) ([]models.Product, error) {
	args := m.Called(ctx, first)

	if products, ok := args.Get(0).([]models.Product); ok {
		return products, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockClient) ListCollectionProducts(ctx context.Context, handle string, first int) ([]models.Product, error) {
	args := m.Called(ctx, handle, first)

	if products, ok := args.Get(0).([]models.Product); ok {
		return products, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockClient) GetProductByHandle(ctx context.Context, handle string) (*models.Product, error) {
	args := m.Called(ctx, handle)

	if product, ok := args.Get(0).(*models.Product); ok {
		return product, args.Error(1)
	}

	return nil, args.Error(1)
}
