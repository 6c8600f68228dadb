package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nfluential/storefront-api/internal/cache"
	"github.com/nfluential/storefront-api/internal/errors"
	"github.com/nfluential/storefront-api/internal/models"
	"github.com/nfluential/storefront-api/pkg/shopify"
)

const (
	DefaultProductPageSize = 10
	MaxProductPageSize     = 50
)

// ProductService reads the catalog from the commerce backend. Stateless
// per call; results are cached briefly to keep page loads off the API.
type ProductService struct {
	client shopify.Client
	cache  cache.Cache
	ttl    time.Duration
}

func NewProductService(client shopify.Client, cacheStore cache.Cache, ttl time.Duration) *ProductService {
	return &ProductService{
		client: client,
		cache:  cacheStore,
		ttl:    ttl,
	}
}

// ListProducts returns up to first products, scoped to a collection when a
// handle is given.
func (s *ProductService) ListProducts(ctx context.Context, first int, collectionHandle string) ([]models.Product, error) {

	if first <= 0 {
		first = DefaultProductPageSize
	}

	if first > MaxProductPageSize {
		first = MaxProductPageSize
	}

	cacheKey := cache.Key(cache.ProductListPrefix, fmt.Sprintf("%d", first))
	if collectionHandle != "" {
		cacheKey = cache.Key(cache.CollectionKeyPrefix, fmt.Sprintf("%s:%d", collectionHandle, first))
	}

	var cached []models.Product
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return cached, nil
	} else if err != nil {
		slog.Warn("product cache lookup failed", slog.String("error", err.Error()))
	}

	var (
		products []models.Product
		err      error
	)

	if collectionHandle != "" {
		products, err = s.client.ListCollectionProducts(ctx, collectionHandle, first)
	} else {
		products, err = s.client.ListProducts(ctx, first)
	}

	if err != nil {
		return nil, errors.ThirdPartyError("Failed to fetch products").WithError(err)
	}

	if err := s.cache.Set(ctx, cacheKey, products, s.ttl); err != nil {
		slog.Warn("failed to cache product listing", slog.String("error", err.Error()))
	}

	return products, nil
}

// GetProduct fetches a single product by its handle.
func (s *ProductService) GetProduct(ctx context.Context, handle string) (*models.Product, error) {

	cacheKey := cache.Key(cache.ProductKeyPrefix, handle)

	var cached models.Product
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	} else if err != nil {
		slog.Warn("product cache lookup failed", slog.String("error", err.Error()))
	}

	product, err := s.client.GetProductByHandle(ctx, handle)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if err := s.cache.Set(ctx, cacheKey, product, s.ttl); err != nil {
		slog.Warn("failed to cache product", slog.String("error", err.Error()))
	}

	return product, nil
}
