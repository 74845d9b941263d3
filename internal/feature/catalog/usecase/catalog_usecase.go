// Package usecase implements the business logic for the company catalog.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"stock_dashboard/internal/feature/catalog/domain/entity"
)

// SymbolRepository abstracts the persistence layer for the symbols table.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	Count(ctx context.Context) (int64, error)
	CreateAll(ctx context.Context, symbols []entity.Symbol) error
}

// CatalogUsecase resolves the company catalog, either from the symbols table or
// from the configured fallback.
type CatalogUsecase struct {
	repo     SymbolRepository
	fallback entity.Catalog

	mu      sync.RWMutex
	current *entity.Catalog
}

// NewCatalogUsecase creates a CatalogUsecase. repo may be nil, in which case the
// fallback catalog is always used.
func NewCatalogUsecase(repo SymbolRepository, fallback entity.Catalog) *CatalogUsecase {
	return &CatalogUsecase{repo: repo, fallback: fallback}
}

// LoadCatalog reads active symbols ordered by sort key and returns them as a catalog.
// An empty table falls back to the configured catalog. The result is remembered
// and returned by ListCompanies.
func (u *CatalogUsecase) LoadCatalog(ctx context.Context) (entity.Catalog, error) {
	c, err := u.resolve(ctx)
	if err != nil {
		return entity.Catalog{}, err
	}
	u.mu.Lock()
	u.current = &c
	u.mu.Unlock()
	return c, nil
}

func (u *CatalogUsecase) resolve(ctx context.Context) (entity.Catalog, error) {
	if u.repo == nil {
		return entity.NewCatalog(u.fallback.Companies...)
	}

	symbols, err := u.repo.ListActive(ctx)
	if err != nil {
		return entity.Catalog{}, fmt.Errorf("list active symbols: %w", err)
	}
	if len(symbols) == 0 {
		slog.Warn("symbols table has no active rows; using configured catalog")
		return entity.NewCatalog(u.fallback.Companies...)
	}

	companies := make([]entity.Company, 0, len(symbols))
	for _, s := range symbols {
		companies = append(companies, s.Company())
	}
	return entity.NewCatalog(companies...)
}

// EnsureSeeded inserts the fallback catalog into an empty symbols table.
// It is a no-op without a repository or when rows already exist.
func (u *CatalogUsecase) EnsureSeeded(ctx context.Context) error {
	if u.repo == nil {
		return nil
	}
	n, err := u.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count symbols: %w", err)
	}
	if n > 0 {
		return nil
	}

	symbols := make([]entity.Symbol, 0, u.fallback.Len())
	for i, c := range u.fallback.Companies {
		symbols = append(symbols, entity.Symbol{
			Code:     c.Ticker,
			Name:     c.Name,
			IsActive: true,
			SortKey:  i + 1,
		})
	}
	if err := u.repo.CreateAll(ctx, symbols); err != nil {
		return fmt.Errorf("seed symbols: %w", err)
	}
	slog.Info("seeded symbols table", "count", len(symbols))
	return nil
}

// ListCompanies returns the companies of the loaded catalog, loading it on first use.
func (u *CatalogUsecase) ListCompanies(ctx context.Context) ([]entity.Company, error) {
	u.mu.RLock()
	current := u.current
	u.mu.RUnlock()
	if current != nil {
		return current.Companies, nil
	}

	c, err := u.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return c.Companies, nil
}
