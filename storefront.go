// Package storefront wires the stores of a client-resident storefront:
// a product catalog, a shopping cart, checkout, credentials and user data,
// all persisted through a synchronous key-value adapter.
package storefront

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/utafrali/storefront/account"
	"github.com/utafrali/storefront/async"
	"github.com/utafrali/storefront/cart"
	"github.com/utafrali/storefront/catalog"
	"github.com/utafrali/storefront/checkout"
	pkgconfig "github.com/utafrali/storefront/pkg/config"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/storage"
	"github.com/utafrali/storefront/userdata"
)

// Config holds all configuration for the storefront core.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// DataDir is the directory backing durable storage.
	// When empty, state lives in memory and does not survive the process.
	DataDir string `env:"STOREFRONT_DATA_DIR" envDefault:""`

	// FetchDelay is the simulated latency of catalog fetches.
	FetchDelay time.Duration `env:"STOREFRONT_FETCH_DELAY" envDefault:"500ms"`

	// PageSize is the product grid page size for derived views.
	PageSize int `env:"STOREFRONT_PAGE_SIZE" envDefault:"6"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("invalid page size: %d", c.PageSize)
	}
	if c.FetchDelay < 0 {
		return fmt.Errorf("invalid fetch delay: %s", c.FetchDelay)
	}
	return nil
}

// Option customizes App construction.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	adapter  storage.Adapter
	delay    async.Delay
	registry prometheus.Registerer
}

// WithLogger replaces the configured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithAdapter replaces the configured storage adapter.
func WithAdapter(a storage.Adapter) Option {
	return func(o *options) { o.adapter = a }
}

// WithDelay replaces the configured catalog fetch delay strategy.
func WithDelay(d async.Delay) Option {
	return func(o *options) { o.delay = d }
}

// WithMetrics instruments the storage adapter, registering its metrics
// with the given registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.registry = reg }
}

// App holds the wired storefront core.
type App struct {
	Logger      *slog.Logger
	Storage     storage.Adapter
	Catalog     *catalog.Store
	Cart        *cart.Store
	Accounts    *account.Store
	Orders      *userdata.Orders
	Preferences *userdata.Preferences

	cfg Config
}

// New builds the dependency graph: adapter, logger and all stores.
// Stores load their persisted state eagerly, so a New on the same DataDir
// resumes where the previous session left off.
func New(cfg Config, opts ...Option) (*App, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log := o.logger
	if log == nil {
		log = logger.New("storefront", cfg.LogLevel)
	}

	adapter := o.adapter
	if adapter == nil {
		if cfg.DataDir != "" {
			dir, err := storage.NewDir(cfg.DataDir)
			if err != nil {
				return nil, err
			}
			adapter = dir
		} else {
			adapter = storage.NewMemory()
		}
	}
	if o.registry != nil {
		medium := "memory"
		if cfg.DataDir != "" {
			medium = "dir"
		}
		adapter = storage.Instrument(adapter, o.registry, medium)
	}

	delay := o.delay
	if delay == nil {
		if cfg.FetchDelay > 0 {
			delay = async.Fixed(cfg.FetchDelay)
		} else {
			delay = async.Immediate{}
		}
	}

	catalogStore, err := catalog.NewStore(adapter, log.With(slog.String("store", "catalog")), delay)
	if err != nil {
		return nil, err
	}
	cartStore, err := cart.NewStore(adapter, log.With(slog.String("store", "cart")))
	if err != nil {
		return nil, err
	}
	accountStore, err := account.NewStore(adapter, log.With(slog.String("store", "account")))
	if err != nil {
		return nil, err
	}
	orders, err := userdata.NewOrders(adapter, log.With(slog.String("store", "orders")))
	if err != nil {
		return nil, err
	}
	prefs, err := userdata.NewPreferences(adapter)
	if err != nil {
		return nil, err
	}

	return &App{
		Logger:      log,
		Storage:     adapter,
		Catalog:     catalogStore,
		Cart:        cartStore,
		Accounts:    accountStore,
		Orders:      orders,
		Preferences: prefs,
		cfg:         cfg,
	}, nil
}

// NewCheckout starts a checkout flow over the app's stores.
func (a *App) NewCheckout() *checkout.Flow {
	return checkout.NewFlow(a.Catalog, a.Cart, a.Orders, a.Logger.With(slog.String("store", "checkout")))
}

// Browse computes a derived catalog view, applying the configured page size
// when the query does not set one.
func (a *App) Browse(q catalog.Query) catalog.Result {
	if q.PageSize < 1 {
		q.PageSize = a.cfg.PageSize
	}
	return a.Catalog.View(q)
}
