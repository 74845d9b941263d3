package di

import (
	"context"
	"errors"

	catalogusecase "stock_dashboard/internal/feature/catalog/usecase"
	pricesusecase "stock_dashboard/internal/feature/prices/usecase"
	"stock_dashboard/internal/platform/config"
	platformhandler "stock_dashboard/internal/platform/http/handler"
)

// Container holds the wired application components.
type Container struct {
	Config    *config.Config
	Pipeline  *pricesusecase.PipelineUsecase
	Dashboard *pricesusecase.DashboardUsecase
	Catalog   *catalogusecase.CatalogUsecase
	Health    platformhandler.HealthInfo

	closers []func() error
}

// NewContainer builds every component from cfg. The catalog is loaded once here and
// stays fixed for the life of the process.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	fetcher, provider, err := NewMarket(cfg)
	if err != nil {
		return nil, err
	}

	tableCache, closeCache := NewTableCache(ctx, cfg)
	c.closers = append(c.closers, closeCache)

	catalogUC, source, closeDB, err := NewCatalogUsecase(ctx, cfg)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.closers = append(c.closers, closeDB)
	catalog, err := catalogUC.LoadCatalog(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Catalog = catalogUC
	c.Pipeline = pricesusecase.NewPipelineUsecase(fetcher, tableCache, cfg.Market.FetchConcurrency)
	c.Dashboard = pricesusecase.NewDashboardUsecase(c.Pipeline, catalog, pricesusecase.Controls{
		DefaultDays:      cfg.Controls.DefaultDays,
		MaxDays:          cfg.Controls.MaxDays,
		AxisMin:          cfg.Controls.AxisMin,
		AxisMax:          cfg.Controls.AxisMax,
		DefaultSelection: cfg.Controls.DefaultSelection,
	})
	c.Health = platformhandler.HealthInfo{
		Provider: provider,
		Cache:    tableCache.Name(),
		Catalog:  source,
	}
	return c, nil
}

// Close releases the Redis client and database handle.
func (c *Container) Close() error {
	var errs []error
	for _, f := range c.closers {
		errs = append(errs, f())
	}
	return errors.Join(errs...)
}
