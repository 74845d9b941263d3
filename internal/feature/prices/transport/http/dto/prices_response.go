// Package dto defines data transfer objects for the prices HTTP API.
package dto

import "stock_dashboard/internal/feature/prices/domain/entity"

const dateLayout = "2006-01-02"

// PricesResponse is the body of GET /api/prices.
type PricesResponse struct {
	Days    int              `json:"days"`
	Axis    AxisRange        `json:"axis"`
	Columns []string         `json:"columns"` // date labels, oldest first
	Table   []TableRow       `json:"table"`   // selected companies sorted by name
	Rows    []TidyRow        `json:"rows"`
	Chart   entity.ChartSpec `json:"chart"`
}

// AxisRange is the y-axis domain of the chart.
type AxisRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TableRow is one company of the wide table. Days without data are absent from Prices.
type TableRow struct {
	Name   string             `json:"name"`
	Prices map[string]float64 `json:"prices"`
}

// TidyRow is one (company, date) observation. Price is null under the "null" missing policy.
type TidyRow struct {
	Date  string   `json:"date"`
	Label string   `json:"label"`
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

// ErrorResponse carries the message shown to the user.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewPricesResponse converts a rendered dashboard into the API shape.
func NewPricesResponse(d *entity.Dashboard) PricesResponse {
	sel := d.Selection
	res := PricesResponse{
		Days:    d.Days,
		Axis:    AxisRange{Min: sel.Axis.Min, Max: sel.Axis.Max},
		Columns: []string{},
		Table:   make([]TableRow, 0),
		Rows:    make([]TidyRow, 0, len(sel.Rows)),
		Chart:   d.Chart,
	}
	if sel.Table != nil {
		res.Columns = sel.Table.Labels()
		for _, r := range sel.Table.Rows {
			res.Table = append(res.Table, TableRow{Name: r.Name, Prices: r.Prices})
		}
	}
	for _, r := range sel.Rows {
		res.Rows = append(res.Rows, TidyRow{
			Date:  r.Date.Format(dateLayout),
			Label: r.Label,
			Name:  r.Name,
			Price: r.Price,
		})
	}
	return res
}
