// Package checkout implements the purchase flow consuming the catalog and
// cart stores.
package checkout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/cart"
	"github.com/utafrali/storefront/catalog"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/validator"
	"github.com/utafrali/storefront/userdata"
)

// Checkout stage constants.
const (
	StageBrowsing  = "browsing"
	StageDetails   = "details_form"
	StageConfirmed = "confirmed"
)

var stageTransitions = map[string][]string{
	StageBrowsing:  {StageDetails},
	StageDetails:   {StageConfirmed, StageBrowsing},
	StageConfirmed: {StageBrowsing},
}

// CanTransition checks whether a flow may move from one stage to another.
func CanTransition(from, to string) bool {
	for _, next := range stageTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DetailsInput holds the buyer details collected before confirmation.
type DetailsInput struct {
	FullName    string `json:"full_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	AddressLine string `json:"address_line" validate:"required"`
	City        string `json:"city" validate:"required"`
	PostalCode  string `json:"postal_code" validate:"required"`
	Country     string `json:"country" validate:"required"`
}

// Flow drives a checkout through browsing → details_form → confirmed.
type Flow struct {
	mu      sync.Mutex
	stage   string
	details DetailsInput

	catalog *catalog.Store
	cart    *cart.Store
	orders  *userdata.Orders
	logger  *slog.Logger
}

// NewFlow creates a checkout flow in the browsing stage.
func NewFlow(catalogStore *catalog.Store, cartStore *cart.Store, orders *userdata.Orders, logger *slog.Logger) *Flow {
	return &Flow{
		stage:   StageBrowsing,
		catalog: catalogStore,
		cart:    cartStore,
		orders:  orders,
		logger:  logger,
	}
}

// Stage returns the current checkout stage.
func (f *Flow) Stage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

// Details returns the buyer details submitted so far. The zero value is
// returned until SubmitDetails succeeds.
func (f *Flow) Details() DetailsInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.details
}

// Begin moves the flow from browsing to the details form.
func (f *Flow) Begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transitionLocked(StageDetails)
}

// SubmitDetails validates and records the buyer details.
func (f *Flow) SubmitDetails(input DetailsInput) error {
	if err := validator.Validate(input); err != nil {
		return apperrors.Validation(err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stage != StageDetails {
		return apperrors.InvalidInput("details can only be submitted from the details form")
	}
	f.details = input
	return nil
}

// Confirm completes the checkout: every cart line's quantity is added to its
// product's sold counter, an order record is appended, and the cart is
// cleared. Increments are best-effort, not atomic: a failing line is logged
// and subsequent lines still execute.
func (f *Flow) Confirm(ctx context.Context) (userdata.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.transitionLocked(StageConfirmed); err != nil {
		return userdata.Order{}, err
	}

	log := logger.WithContext(ctx, f.logger)

	lines := f.cart.Lines()
	total := f.cart.TotalCents()

	for _, line := range lines {
		if err := f.catalog.IncrementSold(line.ProductID, line.Quantity); err != nil {
			log.ErrorContext(ctx, "sold count increment failed",
				slog.String("product_id", line.ProductID),
				slog.Int("quantity", line.Quantity),
				slog.String("error", err.Error()),
			)
		}
	}

	order := userdata.Order{
		ID: uuid.NewString(),
		Buyer: userdata.Buyer{
			FullName:    f.details.FullName,
			Email:       f.details.Email,
			AddressLine: f.details.AddressLine,
			City:        f.details.City,
			PostalCode:  f.details.PostalCode,
			Country:     f.details.Country,
		},
		Items:      lines,
		TotalCents: total,
		PlacedAt:   time.Now().UTC(),
	}
	if err := f.orders.Append(order); err != nil {
		log.ErrorContext(ctx, "order record failed",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := f.cart.Clear(); err != nil {
		return order, err
	}

	log.InfoContext(ctx, "checkout confirmed",
		slog.String("order_id", order.ID),
		slog.Int("line_count", len(lines)),
		slog.Int64("total_cents", total),
	)
	return order, nil
}

// Reset returns the flow to browsing for the next purchase.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transitionLocked(StageBrowsing)
}

func (f *Flow) transitionLocked(to string) error {
	if !CanTransition(f.stage, to) {
		return apperrors.InvalidInput("cannot move from " + f.stage + " to " + to)
	}
	f.stage = to
	return nil
}
