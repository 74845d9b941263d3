// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"
	"time"

	pricesadapters "stock_dashboard/internal/feature/prices/adapters"
	"stock_dashboard/internal/feature/prices/adapters/twelvedata"
	"stock_dashboard/internal/feature/prices/adapters/yahoo"
	"stock_dashboard/internal/feature/prices/usecase"
	"stock_dashboard/internal/platform/config"
	infrahttp "stock_dashboard/internal/platform/http"
	"stock_dashboard/internal/shared/ratelimiter"
)

// NewMarket creates the configured price fetcher with its HTTP client.
// When a per-minute rate limit is set the fetcher is wrapped with a shared limiter.
// The second return value is the provider name reported by /healthz.
func NewMarket(cfg *config.Config) (usecase.PriceFetcher, string, error) {
	httpClient := infrahttp.NewHTTPClient(cfg.Market.Timeout, cfg.Market.FetchConcurrency)

	var (
		fetcher usecase.PriceFetcher
		name    string
	)
	switch cfg.Market.Provider {
	case config.ProviderYahoo:
		m := yahoo.NewYahooMarket(yahoo.Config{
			BaseURL: cfg.Market.YahooBaseURL,
			Timeout: cfg.Market.Timeout,
		}, httpClient)
		fetcher, name = m, m.Name()
	case config.ProviderTwelveData:
		m := twelvedata.NewTwelveDataMarket(twelvedata.Config{
			TwelveDataAPIKey: cfg.Market.TwelveDataAPIKey,
			BaseURL:          cfg.Market.TwelveDataBaseURL,
			Timeout:          cfg.Market.Timeout,
		}, httpClient)
		fetcher, name = m, m.Name()
	default:
		return nil, "", fmt.Errorf("unknown market provider %q", cfg.Market.Provider)
	}

	if cfg.Market.RateLimitPerMinute > 0 {
		limiter := ratelimiter.NewRateLimiter(cfg.Market.RateLimitPerMinute, time.Minute)
		fetcher = pricesadapters.NewRateLimitedFetcher(fetcher, limiter)
	}
	return fetcher, name, nil
}
