// Package userdata persists per-user order history and preferences under
// their own storage keys.
package userdata

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/storefront/cart"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/storage"
)

// Buyer holds the buyer details captured when the order was placed.
type Buyer struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
}

// Order is a completed purchase record.
type Order struct {
	ID         string      `json:"id"`
	Buyer      Buyer       `json:"buyer"`
	Items      []cart.Line `json:"items"`
	TotalCents int64       `json:"total_cents"`
	PlacedAt   time.Time   `json:"placed_at"`
}

// Orders is an append-only store of order records.
type Orders struct {
	mu      sync.RWMutex
	adapter storage.Adapter
	logger  *slog.Logger
	orders  []Order
}

// NewOrders creates an order store and eagerly loads persisted orders.
func NewOrders(adapter storage.Adapter, logger *slog.Logger) (*Orders, error) {
	orders, err := storage.ReadJSON(adapter, storage.KeyUserOrders, []Order{})
	if err != nil {
		return nil, apperrors.Wrap(err, "load orders")
	}
	return &Orders{adapter: adapter, logger: logger, orders: orders}, nil
}

// Append records an order and persists the full history.
func (s *Orders) Append(order Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Order, len(s.orders), len(s.orders)+1)
	copy(next, s.orders)
	s.orders = append(next, order)

	if err := storage.WriteJSON(s.adapter, storage.KeyUserOrders, s.orders); err != nil {
		return err
	}

	s.logger.Info("order recorded",
		slog.String("order_id", order.ID),
		slog.Int64("total_cents", order.TotalCents),
	)
	return nil
}

// All returns a snapshot of the order history.
func (s *Orders) All() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Preferences is a store of opaque, string-keyed preference values.
type Preferences struct {
	mu      sync.RWMutex
	adapter storage.Adapter
	values  map[string]json.RawMessage
}

// NewPreferences creates a preference store and eagerly loads persisted values.
func NewPreferences(adapter storage.Adapter) (*Preferences, error) {
	values, err := storage.ReadJSON(adapter, storage.KeyUserPreferences, map[string]json.RawMessage{})
	if err != nil {
		return nil, apperrors.Wrap(err, "load preferences")
	}
	return &Preferences{adapter: adapter, values: values}, nil
}

// Set stores a preference value and persists the full preference object.
func (s *Preferences) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.Persistence("encode", storage.KeyUserPreferences, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]json.RawMessage, len(s.values)+1)
	for k, v := range s.values {
		next[k] = v
	}
	next[key] = data
	s.values = next

	return storage.WriteJSON(s.adapter, storage.KeyUserPreferences, s.values)
}

// Get decodes the preference stored under key into dst.
// Returns false when the key is absent.
func (s *Preferences) Get(key string, dst any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, apperrors.Persistence("decode", storage.KeyUserPreferences, err)
	}
	return true, nil
}

// All returns a snapshot of the raw preference values.
func (s *Preferences) All() map[string]json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]json.RawMessage, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
