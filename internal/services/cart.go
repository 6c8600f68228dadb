package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nfluential/storefront-api/internal/cache"
	"github.com/nfluential/storefront-api/internal/cart"
	"github.com/nfluential/storefront-api/internal/errors"
	"github.com/nfluential/storefront-api/internal/models"
	"github.com/nfluential/storefront-api/pkg/shopify"
)

const cartTokenLifetime = 30 * 24 * time.Hour

// CartService owns every live cart store. Stores are created on demand,
// kept in memory, and snapshotted to the cache after each mutation so a
// cart survives a process restart.
type CartService struct {
	client shopify.Client
	cache  cache.Cache
	jwtKey []byte
	ttl    time.Duration

	mu     sync.Mutex
	stores map[uuid.UUID]*cart.Store
}

func NewCartService(client shopify.Client, cacheStore cache.Cache, jwtKey []byte, ttl time.Duration) *CartService {
	return &CartService{
		client: client,
		cache:  cacheStore,
		jwtKey: jwtKey,
		ttl:    ttl,
		stores: make(map[uuid.UUID]*cart.Store),
	}
}

// CreateCart initializes an empty cart and issues the signed token that is
// the caller's only handle on it.
func (s *CartService) CreateCart(ctx context.Context) (*models.Cart, string, error) {

	id := uuid.New()
	store := cart.NewStore(id, s.client)

	s.mu.Lock()
	s.stores[id] = store
	s.mu.Unlock()

	token, err := s.issueToken(id)
	if err != nil {
		return nil, "", errors.InternalError("Failed to issue cart token").WithError(err)
	}

	snapshot := store.Snapshot()
	s.persist(ctx, snapshot)

	return snapshot, token, nil
}

// GetCart returns the cart after syncing it with the remote snapshot, the
// same refresh the storefront performs on drawer-open.
func (s *CartService) GetCart(ctx context.Context, id uuid.UUID) (*models.Cart, error) {

	store, err := s.storeFor(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := store.Sync(ctx)
	s.persist(ctx, snapshot)

	return snapshot, nil
}

func (s *CartService) AddItem(ctx context.Context, id uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {

	store, err := s.storeFor(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := store.AddItem(ctx, req)
	s.persist(ctx, snapshot)

	return snapshot, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, id uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error) {

	store, err := s.storeFor(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := store.UpdateQuantity(ctx, req.VariantID, req.Quantity)
	s.persist(ctx, snapshot)

	return snapshot, nil
}

func (s *CartService) RemoveItem(ctx context.Context, id uuid.UUID, variantID string) (*models.Cart, error) {

	store, err := s.storeFor(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := store.RemoveItem(ctx, variantID)
	s.persist(ctx, snapshot)

	return snapshot, nil
}

func (s *CartService) SyncCart(ctx context.Context, id uuid.UUID) (*models.Cart, error) {

	store, err := s.storeFor(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := store.Sync(ctx)
	s.persist(ctx, snapshot)

	return snapshot, nil
}

// CheckoutURL returns the last-known checkout URL; empty means checkout is
// unavailable because no remote cart exists yet.
func (s *CartService) CheckoutURL(ctx context.Context, id uuid.UUID) (string, error) {

	store, err := s.storeFor(ctx, id)
	if err != nil {
		return "", err
	}

	return store.CheckoutURL(), nil
}

// ParseToken validates a cart session token and returns its claims.
func (s *CartService) ParseToken(tokenString string) (*models.CartClaims, error) {

	claims := &models.CartClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.BadRequestError("unexpected signing method")
		}

		return s.jwtKey, nil
	})

	if err != nil || !token.Valid {
		return nil, errors.UnauthorizedError("Invalid or expired cart token").WithError(err)
	}

	return claims, nil
}

func (s *CartService) issueToken(id uuid.UUID) (string, error) {

	claims := &models.CartClaims{
		CartID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cartTokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.jwtKey)
}

// storeFor resolves the live store for a cart, rehydrating it from the
// persisted snapshot when the process has not seen the cart yet.
func (s *CartService) storeFor(ctx context.Context, id uuid.UUID) (*cart.Store, error) {

	s.mu.Lock()
	store, ok := s.stores[id]
	s.mu.Unlock()

	if ok {
		return store, nil
	}

	var snapshot models.Cart

	found, err := s.cache.Get(ctx, cache.Key(cache.CartKeyPrefix, id.String()), &snapshot)
	if err != nil {
		slog.Warn("cart snapshot lookup failed",
			slog.String("cartId", id.String()),
			slog.String("error", err.Error()))
	}

	if !found {
		return nil, errors.NotFoundError("Cart not found")
	}

	store = cart.Restore(&snapshot, s.client)

	s.mu.Lock()
	// Another request may have rehydrated concurrently; keep the first.
	if existing, ok := s.stores[id]; ok {
		store = existing
	} else {
		s.stores[id] = store
	}
	s.mu.Unlock()

	return store, nil
}

// persist snapshots the cart to the cache. Best effort: the in-memory
// store stays authoritative when the cache is unavailable.
func (s *CartService) persist(ctx context.Context, snapshot *models.Cart) {

	err := s.cache.Set(ctx, cache.Key(cache.CartKeyPrefix, snapshot.ID.String()), snapshot, s.ttl)
	if err != nil {
		slog.Warn("failed to persist cart snapshot",
			slog.String("cartId", snapshot.ID.String()),
			slog.String("error", err.Error()))
	}
}
