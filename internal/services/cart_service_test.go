package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nfluential/storefront-api/internal/cache"
	appErrors "github.com/nfluential/storefront-api/internal/errors"
	"github.com/nfluential/storefront-api/internal/models"
	service "github.com/nfluential/storefront-api/internal/services"
	"github.com/nfluential/storefront-api/pkg/shopify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCartServiceTest() (*shopify.MockClient, *cache.MockCache, *service.CartService) {
	mockClient := shopify.NewMockClient()
	mockCache := cache.NewMockCache()
	cartService := service.NewCartService(mockClient, mockCache, []byte("test-signing-key"), time.Hour)

	return mockClient, mockCache, cartService
}

func TestCartServiceCreateCart(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Empty Cart And Valid Token", func(t *testing.T) {
		// Arrange
		_, mockCache, cartService := setupCartServiceTest()
		mockCache.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.Anything, time.Hour).Return(nil).Once()

		// Act
		cart, token, err := cartService.CreateCart(ctx)

		// Assert
		require.NoError(t, err)
		assert.NotNil(t, cart)
		assert.Empty(t, cart.Items)
		assert.NotEqual(t, uuid.Nil, cart.ID)
		assert.NotEmpty(t, token)

		claims, err := cartService.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, cart.ID, claims.CartID)
		mockCache.AssertExpectations(t)
	})

	t.Run("Success - Cache Failure Does Not Fail Creation", func(t *testing.T) {
		// Arrange
		_, mockCache, cartService := setupCartServiceTest()
		mockCache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(assert.AnError).Once()

		// Act
		cart, token, err := cartService.CreateCart(ctx)

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, cart)
		assert.NotEmpty(t, token)
	})
}

func TestCartServiceAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Mutates The Live Store", func(t *testing.T) {
		// Arrange
		mockClient, mockCache, cartService := setupCartServiceTest()
		mockCache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mockClient.On("CartCreate", mock.Anything, mock.Anything).
			Return(&shopify.Cart{ID: "remote-1", CheckoutURL: "https://checkout.example/remote-1", Lines: []shopify.CartLine{
				{ID: "line-1", VariantID: "variant-1", Quantity: 2},
			}}, nil).Once()

		created, _, err := cartService.CreateCart(ctx)
		require.NoError(t, err)

		// Act
		cart, err := cartService.AddItem(ctx, created.ID, &models.AddItemRequest{VariantID: "variant-1", Quantity: 2})

		// Assert
		require.NoError(t, err)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, "remote-1", cart.RemoteCartID)
		mockClient.AssertExpectations(t)
	})

	t.Run("Failure - Unknown Cart", func(t *testing.T) {
		// Arrange
		_, mockCache, cartService := setupCartServiceTest()
		mockCache.On("Get", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
			Return(false, nil).Once()

		// Act
		cart, err := cartService.AddItem(ctx, uuid.New(), &models.AddItemRequest{VariantID: "variant-1", Quantity: 1})

		// Assert
		assert.Nil(t, cart)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestCartServiceRehydration(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Unknown In Memory, Found In Cache", func(t *testing.T) {
		// Arrange
		_, mockCache, cartService := setupCartServiceTest()
		id := uuid.New()
		persisted := &models.Cart{
			ID:           id,
			RemoteCartID: "remote-1",
			CheckoutURL:  "https://checkout.example/remote-1",
			Items: []models.CartLineItem{
				{VariantID: "variant-1", LineID: "line-1", Quantity: 3},
			},
		}
		payload, err := json.Marshal(persisted)
		require.NoError(t, err)

		mockCache.On("Get", mock.Anything, cache.Key(cache.CartKeyPrefix, id.String()), mock.Anything).
			Return(json.RawMessage(payload), nil).Once()

		// Act
		url, err := cartService.CheckoutURL(ctx, id)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.example/remote-1", url)
		mockCache.AssertExpectations(t)
	})
}

func TestParseToken(t *testing.T) {
	t.Run("Failure - Token Signed With Another Key", func(t *testing.T) {
		// Arrange
		_, mockCache, cartService := setupCartServiceTest()
		mockCache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		otherService := service.NewCartService(shopify.NewMockClient(), cache.NewMockCache(), []byte("another-key"), time.Hour)

		_, token, err := cartService.CreateCart(context.Background())
		require.NoError(t, err)

		// Act
		claims, err := otherService.ParseToken(token)

		// Assert
		assert.Nil(t, claims)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUnauthorized, appErr.Code)
	})

	t.Run("Failure - Malformed Token", func(t *testing.T) {
		// Arrange
		_, _, cartService := setupCartServiceTest()

		// Act
		claims, err := cartService.ParseToken("not-a-token")

		// Assert
		assert.Nil(t, claims)
		assert.Error(t, err)
	})
}
