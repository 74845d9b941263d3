// Package entity defines the domain models for the prices feature.
package entity

import (
	"fmt"
	"strings"
	"time"

	catalogentity "stock_dashboard/internal/feature/catalog/domain/entity"
)

// DateLabelLayout is the column label layout of the wide table (e.g., "05 March 2024").
const DateLabelLayout = "02 January 2006"

// PricePoint is one trading day of a closing-price history.
type PricePoint struct {
	Date  time.Time // Trading date at UTC midnight
	Close float64   // Closing price in USD
}

// TradingDate truncates t to its calendar date at UTC midnight.
func TradingDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateLabel formats a trading date as a wide-table column label.
func DateLabel(d time.Time) string {
	return d.Format(DateLabelLayout)
}

// ParseDateLabel turns a column label back into a sortable date.
func ParseDateLabel(label string) (time.Time, error) {
	d, err := time.Parse(DateLabelLayout, label)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date label %q: %w", label, err)
	}
	return d, nil
}

// TableKey is the memoization key of a wide table.
// It includes days and every name=ticker pair in catalog order, so a changed
// catalog never reuses a stale table.
func TableKey(days int, catalog catalogentity.Catalog) string {
	pairs := make([]string, 0, catalog.Len())
	for _, c := range catalog.Companies {
		pairs = append(pairs, c.Name+"="+c.Ticker)
	}
	return fmt.Sprintf("days=%d|%s", days, strings.Join(pairs, ","))
}
