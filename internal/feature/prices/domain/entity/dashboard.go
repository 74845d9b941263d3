package entity

import catalogentity "stock_dashboard/internal/feature/catalog/domain/entity"

// DashboardQuery carries the control state of one render.
type DashboardQuery struct {
	Days      int
	Companies []string
	YMin      float64
	YMax      float64
	Missing   MissingPolicy
}

// Dashboard is everything the presentation layer needs for one render.
type Dashboard struct {
	Days      int
	Catalog   catalogentity.Catalog
	Selected  []string
	Selection Selection
	Chart     ChartSpec
}

// ChartSpec is a Vega-Lite specification serialised as JSON by the handlers.
type ChartSpec map[string]any
