package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nfluential/storefront-api/internal/api/middleware"
	appErrors "github.com/nfluential/storefront-api/internal/errors"
	"github.com/nfluential/storefront-api/internal/models"
	"github.com/nfluential/storefront-api/internal/utils"
	"github.com/nfluential/storefront-api/internal/utils/response"
)

type CartService interface {
	CreateCart(ctx context.Context) (*models.Cart, string, error)
	GetCart(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, id uuid.UUID, req *models.AddItemRequest) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, id uuid.UUID, variantID string) (*models.Cart, error)
	SyncCart(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	CheckoutURL(ctx context.Context, id uuid.UUID) (string, error)
}

type CartHandler struct {
	cartService CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
	}
}

type createCartResponse struct {
	Cart  *models.Cart `json:"cart"`
	Token string       `json:"token"`
}

func (h *CartHandler) CreateCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		cart, token, err := h.cartService.CreateCart(r.Context())

		if err != nil {
			logger.Error("Error during cart creation", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Cart created", slog.String("cartId", cart.ID.String()))
		response.Success(w, http.StatusCreated, createCartResponse{Cart: cart, Token: token})

	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.CartClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Cart token is required"))
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), claims.CartID)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.CartClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Cart token is required"))
			return
		}

		var req models.AddItemRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), claims.CartID, &req)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.CartClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Cart token is required"))
			return
		}

		var req models.UpdateQuantityRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), claims.CartID, &req)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.CartClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Cart token is required"))
			return
		}

		variantID := r.PathValue("variantId")

		if variantID == "" {
			response.Error(w, appErrors.BadRequestError("Variant ID is required"))
			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), claims.CartID, variantID)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) SyncCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.CartClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Cart token is required"))
			return
		}

		cart, err := h.cartService.SyncCart(r.Context(), claims.CartID)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)

	}
}

func (h *CartHandler) CheckoutURL() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.CartClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Cart token is required"))
			return
		}

		checkoutURL, err := h.cartService.CheckoutURL(r.Context(), claims.CartID)

		if err != nil {
			response.Error(w, err)
			return
		}

		// null means "checkout unavailable": no remote cart exists yet.
		var payload struct {
			CheckoutURL *string `json:"checkoutUrl"`
		}

		if checkoutURL != "" {
			payload.CheckoutURL = &checkoutURL
		}

		response.Success(w, http.StatusOK, payload)

	}
}
