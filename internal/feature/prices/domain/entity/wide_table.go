package entity

import (
	"sort"
	"time"
)

// DateColumn is a wide-table column: a trading date and its display label.
type DateColumn struct {
	Label string    `json:"label"`
	Date  time.Time `json:"date"`
}

// WideRow holds one company's closing prices keyed by column label.
// A missing key means the provider had no trading data for that date.
type WideRow struct {
	Name   string             `json:"name"`
	Prices map[string]float64 `json:"prices"`
}

// WideTable is the companies × dates table built by the pipeline.
// Rows keep insertion order; Columns are the union of all dates, ascending.
type WideTable struct {
	Columns []DateColumn `json:"columns"`
	Rows    []WideRow    `json:"rows"`
}

// NewWideTable returns an empty table.
func NewWideTable() *WideTable {
	return &WideTable{Columns: []DateColumn{}, Rows: []WideRow{}}
}

// AppendRow appends a row for name built from its closing-price history and grows
// the column set to the union of dates. Appending an existing name replaces its prices.
func (t *WideTable) AppendRow(name string, history []PricePoint) {
	row := WideRow{Name: name, Prices: make(map[string]float64, len(history))}
	for _, p := range history {
		d := TradingDate(p.Date)
		label := DateLabel(d)
		row.Prices[label] = p.Close
		t.addColumn(DateColumn{Label: label, Date: d})
	}
	for i := range t.Rows {
		if t.Rows[i].Name == name {
			t.Rows[i] = row
			return
		}
	}
	t.Rows = append(t.Rows, row)
}

// addColumn inserts col keeping Columns sorted by date and free of duplicates.
func (t *WideTable) addColumn(col DateColumn) {
	i := sort.Search(len(t.Columns), func(i int) bool {
		return !t.Columns[i].Date.Before(col.Date)
	})
	if i < len(t.Columns) && t.Columns[i].Date.Equal(col.Date) {
		return
	}
	t.Columns = append(t.Columns, DateColumn{})
	copy(t.Columns[i+1:], t.Columns[i:])
	t.Columns[i] = col
}

// Row returns the row for name.
func (t *WideTable) Row(name string) (WideRow, bool) {
	for _, r := range t.Rows {
		if r.Name == name {
			return r, true
		}
	}
	return WideRow{}, false
}

// Value returns the closing price of name on the column label.
func (t *WideTable) Value(name, label string) (float64, bool) {
	r, ok := t.Row(name)
	if !ok {
		return 0, false
	}
	v, ok := r.Prices[label]
	return v, ok
}

// Names returns the row names in row order.
func (t *WideTable) Names() []string {
	out := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r.Name)
	}
	return out
}

// Labels returns the column labels in column order.
func (t *WideTable) Labels() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		out = append(out, c.Label)
	}
	return out
}

// Len returns the number of rows.
func (t *WideTable) Len() int { return len(t.Rows) }
