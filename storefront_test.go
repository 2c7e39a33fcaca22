package storefront

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/async"
	"github.com/utafrali/storefront/catalog"
	"github.com/utafrali/storefront/checkout"
	"github.com/utafrali/storefront/storage"
)

func testConfig() Config {
	return Config{LogLevel: "error", FetchDelay: 0, PageSize: 6}
}

func mugDraft() catalog.CreateProductInput {
	return catalog.CreateProductInput{
		Name:        "Mug",
		Description: "<p>A ceramic mug</p>",
		PriceCents:  999,
		Image:       "https://img.example.com/mug.jpg",
		Category:    "Kitchen",
	}
}

func details() checkout.DetailsInput {
	return checkout.DetailsInput{
		FullName:    "Alex Doe",
		Email:       "alex@example.com",
		AddressLine: "1 Main St",
		City:        "Springfield",
		PostalCode:  "12345",
		Country:     "US",
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"LOG_LEVEL", "STOREFRONT_DATA_DIR", "STOREFRONT_FETCH_DELAY", "STOREFRONT_PAGE_SIZE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DataDir)
	assert.Equal(t, 500*time.Millisecond, cfg.FetchDelay)
	assert.Equal(t, 6, cfg.PageSize)
}

func TestConfig_Validate(t *testing.T) {
	cfg := testConfig()
	cfg.PageSize = 0
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNew_MemoryByDefault(t *testing.T) {
	app, err := New(testConfig())
	require.NoError(t, err)

	assert.IsType(t, &storage.Memory{}, app.Storage)
	assert.Empty(t, app.Catalog.Products())
	assert.Empty(t, app.Cart.Lines())
}

func TestNew_DirPersistsAcrossSessions(t *testing.T) {
	cfg := testConfig()
	cfg.DataDir = t.TempDir()

	app, err := New(cfg)
	require.NoError(t, err)

	p, err := app.Catalog.Add(mugDraft())
	require.NoError(t, err)
	require.NoError(t, app.Cart.AddItem(p))

	// A fresh App on the same directory resumes the session.
	resumed, err := New(cfg)
	require.NoError(t, err)

	require.Len(t, resumed.Catalog.Products(), 1)
	assert.Equal(t, p.ID, resumed.Catalog.Products()[0].ID)
	require.Len(t, resumed.Cart.Lines(), 1)
	assert.Equal(t, 1, resumed.Cart.Lines()[0].Quantity)
}

func TestNew_WithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	app, err := New(testConfig(), WithMetrics(reg))
	require.NoError(t, err)

	_, err = app.Catalog.Add(mugDraft())
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, len(families))
	for i, f := range families {
		names[i] = f.GetName()
	}
	assert.Contains(t, names, "storage_operations_total")
}

func TestBrowse_AppliesConfiguredPageSize(t *testing.T) {
	cfg := testConfig()
	cfg.PageSize = 2
	app, err := New(cfg)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := app.Catalog.Add(mugDraft())
		require.NoError(t, err)
	}

	res := app.Browse(catalog.Query{Page: 1})

	assert.Len(t, res.Items, 2)
	assert.Equal(t, 3, res.TotalPages)
}

func TestEndToEnd_BrowseToCheckout(t *testing.T) {
	app, err := New(testConfig(), WithDelay(async.Immediate{}))
	require.NoError(t, err)

	p, err := app.Catalog.Add(mugDraft())
	require.NoError(t, err)

	op := app.Catalog.FetchAll(context.Background())
	_, err = op.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, catalog.StatusSucceeded, app.Catalog.Status())

	require.NoError(t, app.Cart.AddItem(p))
	require.NoError(t, app.Cart.AddItem(p))

	flow := app.NewCheckout()
	require.NoError(t, flow.Begin())
	require.NoError(t, flow.SubmitDetails(details()))

	order, err := flow.Confirm(context.Background())
	require.NoError(t, err)

	stored, ok := app.Catalog.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, 2, stored.SoldCount)
	assert.Empty(t, app.Cart.Lines())
	assert.Equal(t, int64(1998), order.TotalCents)

	all := app.Orders.All()
	require.Len(t, all, 1)
	assert.Equal(t, order.ID, all[0].ID)
}
