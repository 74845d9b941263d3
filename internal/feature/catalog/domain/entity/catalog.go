// Package entity defines the domain models for the catalog feature.
package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCatalog is returned when a catalog is empty or has duplicate or blank entries.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Company maps a display name to the ticker understood by the market-data provider.
type Company struct {
	Name   string `json:"name" yaml:"name"`     // Display name (e.g., "Apple")
	Ticker string `json:"ticker" yaml:"ticker"` // Provider ticker (e.g., "AAPL")
}

// Catalog is the ordered set of companies the dashboard offers.
// Order matters: it decides the row order of the wide table.
type Catalog struct {
	Companies []Company `json:"companies"`
}

// NewCatalog builds a catalog and validates it.
func NewCatalog(companies ...Company) (Catalog, error) {
	c := Catalog{Companies: append([]Company(nil), companies...)}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// DefaultCatalog returns the eight US companies the dashboard ships with.
func DefaultCatalog() Catalog {
	return Catalog{Companies: []Company{
		{Name: "Apple", Ticker: "AAPL"},
		{Name: "Tesla", Ticker: "TSLA"},
		{Name: "NVIDIA", Ticker: "NVDA"},
		{Name: "Meta", Ticker: "Meta"},
		{Name: "Alphabet", Ticker: "GOOG"},
		{Name: "Microsoft", Ticker: "MSFT"},
		{Name: "Netflix", Ticker: "NFLX"},
		{Name: "Amazon", Ticker: "AMZN"},
	}}
}

// DefaultSelection is the initial multi-select state of the dashboard.
func DefaultSelection() []string {
	return []string{"Amazon", "Tesla", "Apple", "NVIDIA", "Meta", "Alphabet", "Microsoft", "Netflix"}
}

// Validate checks that the catalog is non-empty and that names are unique.
func (c Catalog) Validate() error {
	if len(c.Companies) == 0 {
		return fmt.Errorf("%w: no companies", ErrInvalidCatalog)
	}
	seen := make(map[string]struct{}, len(c.Companies))
	for i, co := range c.Companies {
		if strings.TrimSpace(co.Name) == "" || strings.TrimSpace(co.Ticker) == "" {
			return fmt.Errorf("%w: entry %d has an empty name or ticker", ErrInvalidCatalog, i)
		}
		if _, ok := seen[co.Name]; ok {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidCatalog, co.Name)
		}
		seen[co.Name] = struct{}{}
	}
	return nil
}

// Names returns the display names in catalog order.
func (c Catalog) Names() []string {
	out := make([]string, 0, len(c.Companies))
	for _, co := range c.Companies {
		out = append(out, co.Name)
	}
	return out
}

// Ticker returns the ticker registered for name.
func (c Catalog) Ticker(name string) (string, bool) {
	for _, co := range c.Companies {
		if co.Name == name {
			return co.Ticker, true
		}
	}
	return "", false
}

// Len returns the number of companies.
func (c Catalog) Len() int { return len(c.Companies) }
