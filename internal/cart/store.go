// Package cart holds the shopper's in-progress order and mediates between
// the HTTP layer and the remote commerce cart. Local state is mutated
// synchronously and is always at least as fresh as the last caller action;
// remote confirmation may lag, and a failed remote call never rolls back
// or corrupts local state.
package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfluential/storefront-api/internal/models"
	"github.com/nfluential/storefront-api/pkg/shopify"
)

type Store struct {
	mu     sync.Mutex
	client shopify.Client

	id           uuid.UUID
	items        []models.CartLineItem
	remoteCartID string
	checkoutURL  string
	loading      bool
	syncing      bool
	updatedAt    time.Time
}

func NewStore(id uuid.UUID, client shopify.Client) *Store {
	return &Store{
		id:        id,
		client:    client,
		updatedAt: time.Now(),
	}
}

// Restore rebuilds a store from a persisted snapshot. Transient flags are
// not part of a snapshot and start cleared.
func Restore(snapshot *models.Cart, client shopify.Client) *Store {
	s := &Store{
		id:           snapshot.ID,
		client:       client,
		remoteCartID: snapshot.RemoteCartID,
		checkoutURL:  snapshot.CheckoutURL,
		updatedAt:    snapshot.UpdatedAt,
	}

	s.items = append(s.items, snapshot.Items...)

	return s
}

func (s *Store) ID() uuid.UUID {
	return s.id
}

// AddItem merges by variant: an already-present variant has its quantity
// incremented, anything else is appended. The remote upsert happens after
// the local mutation; on remote failure the optimistic state is kept and
// the next sync is expected to repair the divergence.
func (s *Store) AddItem(ctx context.Context, req *models.AddItemRequest) *models.Cart {

	s.mu.Lock()

	merged := false

	for i := range s.items {
		if s.items[i].VariantID == req.VariantID {
			s.items[i].Quantity += req.Quantity
			merged = true

			break
		}
	}

	if !merged {
		s.items = append(s.items, models.CartLineItem{
			VariantID:       req.VariantID,
			Product:         req.Product,
			SelectedOptions: req.SelectedOptions,
			Quantity:        req.Quantity,
			Price:           req.Price,
		})
	}

	s.updatedAt = time.Now()
	s.loading = true
	s.mu.Unlock()

	s.pushAdd(ctx, req.VariantID, req.Quantity)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	return s.snapshotLocked()
}

// UpdateQuantity sets the line's quantity to an absolute value. A quantity
// of zero or less removes the line. An unknown variant is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, variantID string, quantity int) *models.Cart {

	if quantity <= 0 {
		return s.RemoveItem(ctx, variantID)
	}

	s.mu.Lock()

	lineID := ""
	found := false

	for i := range s.items {
		if s.items[i].VariantID == variantID {
			s.items[i].Quantity = quantity
			lineID = s.items[i].LineID
			found = true

			break
		}
	}

	if !found {
		defer s.mu.Unlock()

		return s.snapshotLocked()
	}

	s.updatedAt = time.Now()
	s.loading = true
	s.mu.Unlock()

	s.pushUpdate(ctx, lineID, quantity)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	return s.snapshotLocked()
}

// RemoveItem deletes the line if present; no-op otherwise.
func (s *Store) RemoveItem(ctx context.Context, variantID string) *models.Cart {

	s.mu.Lock()

	lineID := ""
	found := false

	for i := range s.items {
		if s.items[i].VariantID == variantID {
			lineID = s.items[i].LineID
			s.items = append(s.items[:i], s.items[i+1:]...)
			found = true

			break
		}
	}

	if !found {
		defer s.mu.Unlock()

		return s.snapshotLocked()
	}

	s.updatedAt = time.Now()
	s.loading = true
	s.mu.Unlock()

	s.pushRemove(ctx, lineID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	return s.snapshotLocked()
}

// Sync fetches the remote snapshot and reconciles local items with it. At
// most one sync is in flight; a call arriving while one is pending is
// coalesced and returns the current local state immediately.
func (s *Store) Sync(ctx context.Context) *models.Cart {

	s.mu.Lock()

	if s.syncing || s.remoteCartID == "" {
		defer s.mu.Unlock()

		return s.snapshotLocked()
	}

	s.syncing = true
	remoteCartID := s.remoteCartID
	s.mu.Unlock()

	remote, err := s.client.GetCart(ctx, remoteCartID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncing = false

	if err != nil {
		slog.Warn("cart sync failed, keeping local state",
			slog.String("cartId", s.id.String()),
			slog.String("error", err.Error()))

		return s.snapshotLocked()
	}

	s.reconcileLocked(remote)

	return s.snapshotLocked()
}

// CheckoutURL returns the last-known checkout URL, empty until a remote
// cart exists.
func (s *Store) CheckoutURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.checkoutURL
}

func (s *Store) Snapshot() *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() *models.Cart {

	snapshot := &models.Cart{
		ID:           s.id,
		Items:        make([]models.CartLineItem, len(s.items)),
		RemoteCartID: s.remoteCartID,
		CheckoutURL:  s.checkoutURL,
		IsLoading:    s.loading,
		IsSyncing:    s.syncing,
		UpdatedAt:    s.updatedAt,
	}

	copy(snapshot.Items, s.items)

	return snapshot
}

// reconcileLocked applies a remote snapshot: remote is authoritative for
// prices, quantities and line membership, local insertion order is kept
// for variants both sides know about, remote-only lines are appended in
// remote order.
func (s *Store) reconcileLocked(remote *shopify.Cart) {

	s.remoteCartID = remote.ID
	s.checkoutURL = remote.CheckoutURL

	byVariant := make(map[string]shopify.CartLine, len(remote.Lines))
	for _, line := range remote.Lines {
		byVariant[line.VariantID] = line
	}

	next := make([]models.CartLineItem, 0, len(remote.Lines))

	for _, item := range s.items {
		if line, ok := byVariant[item.VariantID]; ok {
			next = append(next, lineItemFromRemote(line))
			delete(byVariant, item.VariantID)
		}
	}

	for _, line := range remote.Lines {
		if _, ok := byVariant[line.VariantID]; ok {
			next = append(next, lineItemFromRemote(line))
			delete(byVariant, line.VariantID)
		}
	}

	s.items = next
	s.updatedAt = time.Now()
}

func lineItemFromRemote(line shopify.CartLine) models.CartLineItem {
	return models.CartLineItem{
		VariantID: line.VariantID,
		LineID:    line.ID,
		Product: models.ProductReference{
			Title:    line.ProductTitle,
			Handle:   line.ProductHandle,
			ImageURL: line.ImageURL,
		},
		SelectedOptions: line.SelectedOptions,
		Quantity:        line.Quantity,
		Price:           line.Price,
	}
}

// pushAdd upserts the added quantity remotely, creating the remote cart
// lazily on the first mutation.
func (s *Store) pushAdd(ctx context.Context, variantID string, quantity int) {

	s.mu.Lock()
	remoteCartID := s.remoteCartID
	s.mu.Unlock()

	if remoteCartID == "" {
		s.createRemote(ctx)

		return
	}

	remote, err := s.client.CartLinesAdd(ctx, remoteCartID, []shopify.CartLineInput{
		{MerchandiseID: variantID, Quantity: quantity},
	})
	if err != nil {
		s.logRemoteFailure("cartLinesAdd", err)

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcileLocked(remote)
}

func (s *Store) pushUpdate(ctx context.Context, lineID string, quantity int) {

	s.mu.Lock()
	remoteCartID := s.remoteCartID
	s.mu.Unlock()

	if remoteCartID == "" {
		s.createRemote(ctx)

		return
	}

	if lineID == "" {
		// The remote never confirmed this line; the next sync reconciles.
		slog.Debug("no remote line for variant, deferring update to next sync",
			slog.String("cartId", s.id.String()))

		return
	}

	remote, err := s.client.CartLinesUpdate(ctx, remoteCartID, []shopify.CartLineUpdateInput{
		{ID: lineID, Quantity: quantity},
	})
	if err != nil {
		s.logRemoteFailure("cartLinesUpdate", err)

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcileLocked(remote)
}

func (s *Store) pushRemove(ctx context.Context, lineID string) {

	s.mu.Lock()
	remoteCartID := s.remoteCartID
	s.mu.Unlock()

	if remoteCartID == "" || lineID == "" {
		return
	}

	remote, err := s.client.CartLinesRemove(ctx, remoteCartID, []string{lineID})
	if err != nil {
		s.logRemoteFailure("cartLinesRemove", err)

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcileLocked(remote)
}

// createRemote pushes the full local line set as a new remote cart.
func (s *Store) createRemote(ctx context.Context) {

	s.mu.Lock()

	lines := make([]shopify.CartLineInput, 0, len(s.items))
	for _, item := range s.items {
		lines = append(lines, shopify.CartLineInput{
			MerchandiseID: item.VariantID,
			Quantity:      item.Quantity,
		})
	}

	s.mu.Unlock()

	if len(lines) == 0 {
		return
	}

	remote, err := s.client.CartCreate(ctx, lines)
	if err != nil {
		s.logRemoteFailure("cartCreate", err)

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcileLocked(remote)
}

func (s *Store) logRemoteFailure(operation string, err error) {
	slog.Warn("remote cart call failed, keeping optimistic local state",
		slog.String("cartId", s.id.String()),
		slog.String("operation", operation),
		slog.String("error", err.Error()))
}
