package di

import (
	"context"
	"fmt"

	catalogadapters "stock_dashboard/internal/feature/catalog/adapters"
	catalogusecase "stock_dashboard/internal/feature/catalog/usecase"
	"stock_dashboard/internal/platform/config"
	infradb "stock_dashboard/internal/platform/db"
)

const (
	CatalogSourceConfig   = "config"
	CatalogSourceDatabase = "database"
)

// NewCatalogUsecase wires the catalog usecase. With a database configured, the symbols
// table is opened, seeded from the configured catalog when empty and used as the source.
func NewCatalogUsecase(ctx context.Context, cfg *config.Config) (*catalogusecase.CatalogUsecase, string, func() error, error) {
	noop := func() error { return nil }
	fallback := cfg.CatalogEntity()

	if cfg.Database.Driver == "" {
		return catalogusecase.NewCatalogUsecase(nil, fallback), CatalogSourceConfig, noop, nil
	}

	db, err := infradb.OpenDB(infradb.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
	if err != nil {
		return nil, "", noop, fmt.Errorf("open catalog database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, "", noop, err
	}

	uc := catalogusecase.NewCatalogUsecase(catalogadapters.NewSymbolRepository(db), fallback)
	if err := uc.EnsureSeeded(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, "", noop, err
	}
	return uc, CatalogSourceDatabase, sqlDB.Close, nil
}
