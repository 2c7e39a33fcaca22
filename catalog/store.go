package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/async"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/slug"
	"github.com/utafrali/storefront/pkg/validator"
	"github.com/utafrali/storefront/storage"
)

// Status is the lifecycle state of the catalog-wide fetch, read by
// collaborators to drive loading and error UI.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Store owns the authoritative in-memory product collection. Every mutation
// writes the whole catalog to the products storage key, trading write
// amplification for a single source of truth at catalog scale.
type Store struct {
	mu      sync.RWMutex
	adapter storage.Adapter
	logger  *slog.Logger
	delay   async.Delay

	items    []Product
	status   Status
	fetchErr error
}

// NewStore creates a catalog store and eagerly loads the persisted catalog.
// A missing products key yields an empty catalog.
func NewStore(adapter storage.Adapter, logger *slog.Logger, delay async.Delay) (*Store, error) {
	items, err := storage.ReadJSON(adapter, storage.KeyProducts, []Product{})
	if err != nil {
		return nil, apperrors.Wrap(err, "load catalog")
	}
	return &Store{
		adapter: adapter,
		logger:  logger,
		delay:   delay,
		items:   items,
		status:  StatusIdle,
	}, nil
}

// Products returns a snapshot of the current catalog.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the product with the given id.
func (s *Store) Get(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.items {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Status returns the state of the catalog-wide fetch.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the error recorded by the most recent failed fetch, if any.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchErr
}

// FetchAll reloads the catalog from storage through an async envelope.
// Overlapping fetches each settle independently; every completion
// unconditionally overwrites the catalog and the fetch status, so the last
// operation to settle wins regardless of issue order.
func (s *Store) FetchAll(ctx context.Context) *async.Operation[[]Product] {
	s.mu.Lock()
	s.status = StatusPending
	s.fetchErr = nil
	s.mu.Unlock()

	op := async.Start(s.delay, func() ([]Product, error) {
		items, err := storage.ReadJSON(s.adapter, storage.KeyProducts, []Product{})
		if err != nil {
			return nil, apperrors.FetchFailed(err)
		}
		return items, nil
	})

	op.OnSettled(func(items []Product, err error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.status = StatusFailed
			s.fetchErr = err
			logger.WithContext(ctx, s.logger).ErrorContext(ctx, "catalog fetch failed",
				slog.String("error", err.Error()),
			)
			return
		}
		s.status = StatusSucceeded
		s.items = items
	})

	return op
}

// Add validates the draft, assigns a fresh id, slug and creation timestamp,
// appends the product and persists the catalog. A persist failure is returned
// but the in-memory change is not rolled back.
func (s *Store) Add(input CreateProductInput) (Product, error) {
	if err := validator.Validate(input); err != nil {
		return Product{}, apperrors.Validation(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Slug:        slug.Generate(input.Name),
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Image:       input.Image,
		Category:    input.Category,
		CreatedAt:   time.Now().UTC(),
	}

	next := make([]Product, len(s.items), len(s.items)+1)
	copy(next, s.items)
	s.items = append(next, p)

	if err := s.persistLocked(); err != nil {
		return p, err
	}

	s.logger.Info("product added",
		slog.String("product_id", p.ID),
		slog.String("name", p.Name),
		slog.String("category", p.Category),
	)
	return p, nil
}

// Update replaces the stored product with the same id verbatim and persists
// the catalog. Returns NOT_FOUND when the id is absent.
func (s *Store) Update(p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(p.ID)
	if idx < 0 {
		return apperrors.NotFound("product", p.ID)
	}

	next := make([]Product, len(s.items))
	copy(next, s.items)
	next[idx] = p
	s.items = next

	if err := s.persistLocked(); err != nil {
		return err
	}

	s.logger.Info("product updated", slog.String("product_id", p.ID))
	return nil
}

// Delete removes the product with the given id and persists the catalog.
// Deleting an absent id is a no-op, not an error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Product, 0, len(s.items))
	for _, p := range s.items {
		if p.ID != id {
			next = append(next, p)
		}
	}
	removed := len(next) < len(s.items)
	s.items = next

	if err := s.persistLocked(); err != nil {
		return err
	}

	if removed {
		s.logger.Info("product deleted", slog.String("product_id", id))
	}
	return nil
}

// IncrementSold adds amount to the sold counter of the product with the given
// id and persists the catalog. An absent id is a no-op.
func (s *Store) IncrementSold(id string, amount int) error {
	if amount < 0 {
		return apperrors.InvalidInput("amount must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return nil
	}

	next := make([]Product, len(s.items))
	copy(next, s.items)
	next[idx].SoldCount += amount
	s.items = next

	return s.persistLocked()
}

// View computes the derived view over the current catalog snapshot.
func (s *Store) View(q Query) Result {
	return View(s.Products(), q)
}

func (s *Store) indexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked() error {
	return storage.WriteJSON(s.adapter, storage.KeyProducts, s.items)
}
