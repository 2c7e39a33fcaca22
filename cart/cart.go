// Package cart implements the shopping cart store. All mutations are
// synchronous and write-through: the full cart is persisted under the cart
// storage key before an operation returns.
package cart

import (
	"log/slog"
	"sync"

	"github.com/utafrali/storefront/catalog"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/storage"
)

// Line is a product reference plus quantity, the unit of the cart.
// Product ids are unique within a cart: the same id never appears twice.
type Line struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Image      string `json:"image,omitempty"`
	Quantity   int    `json:"quantity"`
}

// Store owns the in-memory cart.
type Store struct {
	mu      sync.RWMutex
	adapter storage.Adapter
	logger  *slog.Logger
	items   []Line
}

// NewStore creates a cart store and eagerly loads the persisted cart.
// A missing cart key yields an empty cart.
func NewStore(adapter storage.Adapter, logger *slog.Logger) (*Store, error) {
	items, err := storage.ReadJSON(adapter, storage.KeyCart, []Line{})
	if err != nil {
		return nil, apperrors.Wrap(err, "load cart")
	}
	return &Store{
		adapter: adapter,
		logger:  logger,
		items:   items,
	}, nil
}

// Lines returns a snapshot of the current cart.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Line, len(s.items))
	copy(out, s.items)
	return out
}

// TotalCents returns the total price of all lines.
func (s *Store) TotalCents() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, line := range s.items {
		total += line.PriceCents * int64(line.Quantity)
	}
	return total
}

// ItemCount returns the total quantity across all lines.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int
	for _, line := range s.items {
		count += line.Quantity
	}
	return count
}

// AddItem adds one unit of the given product. An existing line for the
// product id is incremented; otherwise a new line with quantity 1 is appended.
func (s *Store) AddItem(p catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Line, len(s.items))
	copy(next, s.items)

	found := false
	for i := range next {
		if next[i].ProductID == p.ID {
			next[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		next = append(next, Line{
			ProductID:  p.ID,
			Name:       p.Name,
			PriceCents: p.PriceCents,
			Image:      p.Image,
			Quantity:   1,
		})
	}
	s.items = next

	if err := s.persistLocked(); err != nil {
		return err
	}

	s.logger.Info("item added to cart", slog.String("product_id", p.ID))
	return nil
}

// RemoveItem deletes the line for the given product id.
// Removing an absent id is a no-op. This is the only operation that deletes
// a line; setting quantity to zero does not.
func (s *Store) RemoveItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Line, 0, len(s.items))
	for _, line := range s.items {
		if line.ProductID != id {
			next = append(next, line)
		}
	}
	removed := len(next) < len(s.items)
	s.items = next

	if err := s.persistLocked(); err != nil {
		return err
	}

	if removed {
		s.logger.Info("item removed from cart", slog.String("product_id", id))
	}
	return nil
}

// SetQuantity sets the line's quantity verbatim, including zero: the line is
// retained with quantity 0 rather than removed. An absent id is a no-op.
func (s *Store) SetQuantity(id string, quantity int) error {
	if quantity < 0 {
		return apperrors.InvalidInput("quantity must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Line, len(s.items))
	copy(next, s.items)

	found := false
	for i := range next {
		if next[i].ProductID == id {
			next[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	s.items = next

	return s.persistLocked()
}

// Clear empties the cart and removes the persisted cart key entirely,
// as opposed to persisting an empty collection.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []Line{}
	if err := s.adapter.Remove(storage.KeyCart); err != nil {
		return err
	}

	s.logger.Info("cart cleared")
	return nil
}

// Reload re-reads the cart from storage, discarding unpersisted in-memory
// state. Used to reconcile independent mounts of the cart view.
func (s *Store) Reload() error {
	items, err := storage.ReadJSON(s.adapter, storage.KeyCart, []Line{})
	if err != nil {
		return apperrors.Wrap(err, "reload cart")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	return nil
}

func (s *Store) persistLocked() error {
	return storage.WriteJSON(s.adapter, storage.KeyCart, s.items)
}
