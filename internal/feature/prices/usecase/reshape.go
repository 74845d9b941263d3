package usecase

import (
	"maps"
	"sort"
	"time"

	"stock_dashboard/internal/feature/prices/domain/entity"
)

// SelectAndReshape はワイドテーブルから selected の行を取り出して会社名順に並べ、
// 会社×日付ごとに1行の縦持ちデータへ変換します。
//
//   - selected が空の場合は空の結果を返します（呼び出し側で事前に弾くこと）
//   - table に存在しない会社名は無視します
//   - axis はデータを絞り込まず、そのまま結果に渡します
//   - 欠損セルの扱いは policy に従います
//
// table は変更しません。
func SelectAndReshape(table *entity.WideTable, selected []string, axis entity.AxisRange, policy entity.MissingPolicy) entity.Selection {
	sel := entity.Selection{
		Table: entity.NewWideTable(),
		Rows:  []entity.TidyRow{},
		Axis:  axis,
	}
	if table == nil || len(selected) == 0 {
		return sel
	}

	want := make(map[string]struct{}, len(selected))
	for _, name := range selected {
		want[name] = struct{}{}
	}

	rows := make([]entity.WideRow, 0, len(want))
	for _, r := range table.Rows {
		if _, ok := want[r.Name]; ok {
			rows = append(rows, entity.WideRow{Name: r.Name, Prices: maps.Clone(r.Prices)})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	sel.Table.Columns = append(sel.Table.Columns, table.Columns...)
	sel.Table.Rows = rows

	for _, r := range rows {
		for _, col := range table.Columns {
			v, ok := r.Prices[col.Label]
			if !ok && policy == entity.MissingOmit {
				continue
			}
			row := entity.TidyRow{Date: columnDate(col), Label: col.Label, Name: r.Name}
			if ok {
				price := v
				row.Price = &price
			}
			sel.Rows = append(sel.Rows, row)
		}
	}
	return sel
}

// columnDate は列の日付を返します。日付が欠けている場合はラベルから復元します。
func columnDate(col entity.DateColumn) time.Time {
	if !col.Date.IsZero() {
		return col.Date
	}
	d, err := entity.ParseDateLabel(col.Label)
	if err != nil {
		return col.Date
	}
	return d
}
