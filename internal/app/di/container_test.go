package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogentity "stock_dashboard/internal/feature/catalog/domain/entity"
	"stock_dashboard/internal/feature/prices/adapters"
	"stock_dashboard/internal/platform/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Market.Provider = config.ProviderYahoo
	cfg.Market.FetchConcurrency = 2
	cfg.Catalog = []catalogentity.Company{{Name: "Apple", Ticker: "AAPL"}, {Name: "Tesla", Ticker: "TSLA"}}
	cfg.Controls.DefaultDays = 5
	cfg.Controls.MaxDays = 30
	cfg.Controls.AxisMax = 1500
	cfg.Controls.DefaultSelection = []string{"Tesla"}
	cfg.Cache.RefreshHour = 18
	cfg.Cache.TimeZone = "UTC"
	return cfg
}

func TestNewMarket(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	f, name, err := NewMarket(cfg)
	require.NoError(t, err)
	assert.Equal(t, "yahoo", name)
	assert.NotNil(t, f)

	cfg.Market.Provider = config.ProviderTwelveData
	cfg.Market.TwelveDataAPIKey = "k"
	cfg.Market.RateLimitPerMinute = 8
	f, name, err = NewMarket(cfg)
	require.NoError(t, err)
	assert.Equal(t, "twelvedata", name)
	assert.IsType(t, &adapters.RateLimitedFetcher{}, f)

	cfg.Market.Provider = "bloomberg"
	_, _, err = NewMarket(cfg)
	assert.Error(t, err)
}

func TestNewTableCache_WithoutRedis(t *testing.T) {
	t.Parallel()

	tc, closeFn := NewTableCache(context.Background(), testConfig(t))
	require.NotNil(t, closeFn)
	assert.Equal(t, "memory", tc.Name())
	assert.NoError(t, closeFn())
}

// TestNewContainer_EndToEnd はYahooのモックサーバーとSQLiteのカタログで全体を組み立てて描画できることを検証します。
func TestNewContainer_EndToEnd(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"gmtoffset":-18000},
			"timestamp":[1704205800],"indicators":{"quote":[{"close":[100.5]}]}}],"error":null}}`))
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Market.YahooBaseURL = server.URL
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = filepath.Join(t.TempDir(), "catalog.db")

	c, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, c.Close()) }()

	assert.Equal(t, "yahoo", c.Health.Provider)
	assert.Equal(t, "memory", c.Health.Cache)
	assert.Equal(t, CatalogSourceDatabase, c.Health.Catalog)

	companies, err := c.Catalog.ListCompanies(context.Background())
	require.NoError(t, err)
	assert.Len(t, companies, 2)

	d, err := c.Dashboard.Render(context.Background(), c.Dashboard.DefaultQuery())
	require.NoError(t, err)
	assert.Equal(t, []string{"Tesla"}, d.Selection.Table.Names())
	assert.Equal(t, []string{"02 January 2024"}, d.Selection.Table.Labels())
}
