package handler

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"strconv"

	"stock_dashboard/internal/feature/prices/domain/entity"
)

type companyOption struct {
	Name    string
	Checked bool
}

type tableRow struct {
	Name  string
	Cells []string
}

// pageView はダッシュボードテンプレートに渡す値です。
type pageView struct {
	Title     string
	Days      int
	MaxDays   int
	YMin      float64
	YMax      float64
	AxisMin   float64
	AxisMax   float64
	Companies []companyOption
	Error     string
	Columns   []string
	Rows      []tableRow
	Chart     template.JS
}

func (h *PriceHandler) newPageView(q entity.DashboardQuery) *pageView {
	ctl := h.uc.Controls()
	checked := make(map[string]bool, len(q.Companies))
	for _, n := range q.Companies {
		checked[n] = true
	}

	companies := make([]companyOption, 0, h.uc.Catalog().Len())
	for _, n := range h.uc.Catalog().Names() {
		companies = append(companies, companyOption{Name: n, Checked: checked[n]})
	}

	return &pageView{
		Title:     PageTitle,
		Days:      q.Days,
		MaxDays:   ctl.MaxDays,
		YMin:      q.YMin,
		YMax:      q.YMax,
		AxisMin:   ctl.AxisMin,
		AxisMax:   ctl.AxisMax,
		Companies: companies,
	}
}

// fill は描画結果からテーブルとグラフを設定します。
func (v *pageView) fill(d *entity.Dashboard) {
	t := d.Selection.Table
	if t != nil {
		v.Columns = t.Labels()
		for _, r := range t.Rows {
			cells := make([]string, 0, len(v.Columns))
			for _, label := range v.Columns {
				if p, ok := r.Prices[label]; ok {
					cells = append(cells, strconv.FormatFloat(p, 'f', 2, 64))
				} else {
					cells = append(cells, "")
				}
			}
			v.Rows = append(v.Rows, tableRow{Name: r.Name, Cells: cells})
		}
	}

	// json.Marshal は < > & をエスケープするので script 内にそのまま埋め込める
	b, err := json.Marshal(d.Chart)
	if err != nil {
		slog.Error("failed to encode chart spec", "error", err)
		b = []byte("{}")
	}
	v.Chart = template.JS(b)
}
