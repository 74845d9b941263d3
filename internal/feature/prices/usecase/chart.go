package usecase

import "stock_dashboard/internal/feature/prices/domain/entity"

const (
	chartFieldDate  = "Date"
	chartFieldName  = "Name"
	chartFieldPrice = "Stock Prices(USD)"
	vegaLiteSchema  = "https://vega.github.io/schema/vega-lite/v5.json"
)

// BuildChartSpec は縦持ちデータから折れ線グラフの Vega-Lite 仕様を生成します。
// 縦軸の範囲は scale.domain として渡し、範囲外の点は clip で描画しないだけでデータからは除きません。
func BuildChartSpec(sel entity.Selection) entity.ChartSpec {
	values := make([]map[string]any, 0, len(sel.Rows))
	for _, r := range sel.Rows {
		var price any
		if r.Price != nil {
			price = *r.Price
		}
		values = append(values, map[string]any{
			chartFieldDate:  r.Date.Format("2006-01-02"),
			chartFieldName:  r.Name,
			chartFieldPrice: price,
		})
	}

	return entity.ChartSpec{
		"$schema": vegaLiteSchema,
		"width":   "container",
		"data":    map[string]any{"values": values},
		"mark": map[string]any{
			"type":    "line",
			"opacity": 0.8,
			"clip":    true,
		},
		"encoding": map[string]any{
			"x": map[string]any{"field": chartFieldDate, "type": "temporal"},
			"y": map[string]any{
				"field": chartFieldPrice,
				"type":  "quantitative",
				"stack": nil,
				"scale": map[string]any{"domain": []float64{sel.Axis.Min, sel.Axis.Max}},
			},
			"color": map[string]any{"field": chartFieldName, "type": "nominal"},
		},
	}
}
