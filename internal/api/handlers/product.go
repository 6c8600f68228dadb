package handlers

import (
	"net/http"
	"strconv"

	appErrors "github.com/nfluential/storefront-api/internal/errors"
	service "github.com/nfluential/storefront-api/internal/services"
	"github.com/nfluential/storefront-api/internal/utils/response"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		first := service.DefaultProductPageSize

		if raw := r.URL.Query().Get("first"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				response.Error(w, appErrors.BadRequestError("first must be a positive integer"))
				return
			}

			first = parsed
		}

		collectionHandle := r.URL.Query().Get("collection")

		products, err := h.productService.ListProducts(r.Context(), first, collectionHandle)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)

	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		handle := r.PathValue("handle")

		if handle == "" {
			response.Error(w, appErrors.BadRequestError("Product handle is required"))
			return
		}

		product, err := h.productService.GetProduct(r.Context(), handle)

		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)

	}
}
