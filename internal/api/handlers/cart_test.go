package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/nfluential/storefront-api/internal/api/handlers"
	appErrors "github.com/nfluential/storefront-api/internal/errors"
	"github.com/nfluential/storefront-api/internal/models"
	"github.com/nfluential/storefront-api/internal/services/mocks"
	"github.com/nfluential/storefront-api/internal/testutils"
	"github.com/nfluential/storefront-api/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCartTest() (*mocks.CartService, *handlers.CartHandler) {
	mockCartService := new(mocks.CartService)
	cartHandler := handlers.NewCartHandler(mockCartService)

	return mockCartService, cartHandler
}

func sampleCart(id uuid.UUID) *models.Cart {
	return &models.Cart{
		ID:           id,
		RemoteCartID: "remote-1",
		CheckoutURL:  "https://checkout.example/remote-1",
		Items: []models.CartLineItem{
			{VariantID: "variant-1", LineID: "line-1", Quantity: 2},
		},
	}
}

func decodeAPIResponse(t *testing.T, recorder *httptest.ResponseRecorder) *response.APIResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))

	return &resp
}

func TestCreateCart(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		cartID := uuid.New()
		mockCartService.On("CreateCart", mock.Anything).Return(sampleCart(cartID), "signed-token", nil).Once()

		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/carts", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.CreateCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)
		resp := decodeAPIResponse(t, recorder)
		assert.True(t, resp.Success)

		payload, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "signed-token", payload["token"])
		assert.NotNil(t, payload["cart"])
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Service Error", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		mockCartService.On("CreateCart", mock.Anything).
			Return(nil, "", appErrors.InternalError("Failed to issue cart token")).Once()

		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/carts", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.CreateCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		resp := decodeAPIResponse(t, recorder)
		assert.False(t, resp.Success)
	})
}

func TestGetCartHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		cartID := uuid.New()
		mockCartService.On("GetCart", mock.Anything, cartID).Return(sampleCart(cartID), nil).Once()

		req := testutils.CreateTestRequestWithContext("GET", "/api/v1/carts", nil, cartID, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.GetCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		resp := decodeAPIResponse(t, recorder)
		assert.True(t, resp.Success)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - No Claims In Context", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/carts", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.GetCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockCartService.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Unknown Cart", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		cartID := uuid.New()
		mockCartService.On("GetCart", mock.Anything, cartID).
			Return(nil, appErrors.NotFoundError("Cart not found")).Once()

		req := testutils.CreateTestRequestWithContext("GET", "/api/v1/carts", nil, cartID, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.GetCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestAddItemHandler(t *testing.T) {
	addBody := func(t *testing.T) []byte {
		t.Helper()

		payload, err := json.Marshal(models.AddItemRequest{
			VariantID: "variant-1",
			Quantity:  2,
			Product:   models.ProductReference{Title: "Tee", Handle: "tee"},
			Price:     models.Money{Amount: "25.00", CurrencyCode: "USD"},
		})
		require.NoError(t, err)

		return payload
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		cartID := uuid.New()
		mockCartService.On("AddItem", mock.Anything, cartID, mock.AnythingOfType("*models.AddItemRequest")).
			Return(sampleCart(cartID), nil).Once()

		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/carts/items", bytes.NewReader(addBody(t)), cartID, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Missing Variant ID", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		cartID := uuid.New()
		body, err := json.Marshal(map[string]any{"quantity": 2})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/carts/items", bytes.NewReader(body), cartID, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockCartService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Zero Quantity", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		cartID := uuid.New()
		body, err := json.Marshal(map[string]any{"variantId": "variant-1", "quantity": 0})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/carts/items", bytes.NewReader(body), cartID, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockCartService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateQuantityHandler(t *testing.T) {
	t.Run("Success - Zero Quantity Is A Valid Update", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		cartID := uuid.New()
		mockCartService.On("UpdateQuantity", mock.Anything, cartID, mock.AnythingOfType("*models.UpdateQuantityRequest")).
			Return(sampleCart(cartID), nil).Once()

		body, err := json.Marshal(map[string]any{"variantId": "variant-1", "quantity": 0})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithContext("PUT", "/api/v1/carts/items", bytes.NewReader(body), cartID, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.UpdateQuantity()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Negative Quantity Fails Validation", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		cartID := uuid.New()
		body, err := json.Marshal(map[string]any{"variantId": "variant-1", "quantity": -2})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithContext("PUT", "/api/v1/carts/items", bytes.NewReader(body), cartID, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.UpdateQuantity()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockCartService.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRemoveItemHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		cartID := uuid.New()
		mockCartService.On("RemoveItem", mock.Anything, cartID, "variant-1").
			Return(sampleCart(cartID), nil).Once()

		req := testutils.CreateTestRequestWithContext("DELETE", "/api/v1/carts/items/variant-1", nil, cartID,
			map[string]string{"variantId": "variant-1"})
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.RemoveItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Missing Variant ID", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		cartID := uuid.New()
		req := testutils.CreateTestRequestWithContext("DELETE", "/api/v1/carts/items/", nil, cartID, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.RemoveItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockCartService.AssertNotCalled(t, "RemoveItem", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSyncCartHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		cartID := uuid.New()
		mockCartService.On("SyncCart", mock.Anything, cartID).Return(sampleCart(cartID), nil).Once()

		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/carts/sync", nil, cartID, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.SyncCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})
}

func TestCheckoutURLHandler(t *testing.T) {
	t.Run("Success - URL Available", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		cartID := uuid.New()
		mockCartService.On("CheckoutURL", mock.Anything, cartID).
			Return("https://checkout.example/remote-1", nil).Once()

		req := testutils.CreateTestRequestWithContext("GET", "/api/v1/carts/checkout-url", nil, cartID, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.CheckoutURL()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		resp := decodeAPIResponse(t, recorder)
		payload, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "https://checkout.example/remote-1", payload["checkoutUrl"])
	})

	t.Run("Success - No Remote Cart Yields Null", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		cartID := uuid.New()
		mockCartService.On("CheckoutURL", mock.Anything, cartID).Return("", nil).Once()

		req := testutils.CreateTestRequestWithContext("GET", "/api/v1/carts/checkout-url", nil, cartID, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.CheckoutURL()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		resp := decodeAPIResponse(t, recorder)
		payload, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Nil(t, payload["checkoutUrl"])
	})
}
