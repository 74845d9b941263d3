package usecase

import (
	"context"
	"fmt"
	"strings"

	catalogentity "stock_dashboard/internal/feature/catalog/domain/entity"
	"stock_dashboard/internal/feature/prices/domain"
	"stock_dashboard/internal/feature/prices/domain/entity"
)

// WideTableBuilder はワイドテーブルを構築するパイプラインのインターフェースです。
type WideTableBuilder interface {
	BuildWideTable(ctx context.Context, days int, catalog catalogentity.Catalog) (*entity.WideTable, error)
}

// Controls は画面のスライダーと選択欄の初期値と上下限です。
type Controls struct {
	DefaultDays      int
	MaxDays          int
	AxisMin          float64
	AxisMax          float64
	DefaultSelection []string
}

// DefaultControls は標準のコントロール設定を返します。
func DefaultControls() Controls {
	return Controls{
		DefaultDays:      20,
		MaxDays:          MaxDays,
		AxisMin:          0,
		AxisMax:          1500,
		DefaultSelection: catalogentity.DefaultSelection(),
	}
}

// DashboardUsecase は入力の検証、テーブル構築、絞り込み、グラフ生成をまとめて実行します。
type DashboardUsecase struct {
	pipeline WideTableBuilder
	catalog  catalogentity.Catalog
	controls Controls
}

// NewDashboardUsecase は新しい DashboardUsecase を生成します。
// controls の不正な値はデフォルト値で補います。
func NewDashboardUsecase(pipeline WideTableBuilder, catalog catalogentity.Catalog, controls Controls) *DashboardUsecase {
	def := DefaultControls()
	if controls.MaxDays < MinDays || controls.MaxDays > MaxDays {
		controls.MaxDays = def.MaxDays
	}
	if controls.DefaultDays < MinDays || controls.DefaultDays > controls.MaxDays {
		controls.DefaultDays = min(def.DefaultDays, controls.MaxDays)
	}
	if controls.AxisMin >= controls.AxisMax {
		controls.AxisMin, controls.AxisMax = def.AxisMin, def.AxisMax
	}
	if len(controls.DefaultSelection) == 0 {
		controls.DefaultSelection = catalog.Names()
	}
	return &DashboardUsecase{pipeline: pipeline, catalog: catalog, controls: controls}
}

// Catalog は選択可能な会社の一覧を返します。
func (u *DashboardUsecase) Catalog() catalogentity.Catalog { return u.catalog }

// Controls はコントロール設定を返します。
func (u *DashboardUsecase) Controls() Controls { return u.controls }

// DefaultQuery は画面の初期状態に対応するクエリを返します。
func (u *DashboardUsecase) DefaultQuery() entity.DashboardQuery {
	return entity.DashboardQuery{
		Days:      u.controls.DefaultDays,
		Companies: append([]string(nil), u.controls.DefaultSelection...),
		YMin:      u.controls.AxisMin,
		YMax:      u.controls.AxisMax,
		Missing:   entity.MissingOmit,
	}
}

// Render は1回の描画に必要なデータを生成します。
// 会社が未選択の場合は取得を行わずに domain.ErrEmptySelection を返します。
func (u *DashboardUsecase) Render(ctx context.Context, q entity.DashboardQuery) (*entity.Dashboard, error) {
	selected := normalizeSelection(q.Companies)
	if len(selected) == 0 {
		return nil, domain.ErrEmptySelection
	}
	if q.Days < MinDays || q.Days > u.controls.MaxDays {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", domain.ErrInvalidDays, q.Days, MinDays, u.controls.MaxDays)
	}
	if q.YMin > q.YMax || q.YMin < u.controls.AxisMin || q.YMax > u.controls.AxisMax {
		return nil, fmt.Errorf("%w: (%g, %g) not within [%g, %g]",
			domain.ErrInvalidAxisRange, q.YMin, q.YMax, u.controls.AxisMin, u.controls.AxisMax)
	}

	table, err := u.pipeline.BuildWideTable(ctx, q.Days, u.catalog)
	if err != nil {
		return nil, fmt.Errorf("build wide table: %w", err)
	}

	sel := SelectAndReshape(table, selected, entity.AxisRange{Min: q.YMin, Max: q.YMax}, q.Missing)
	return &entity.Dashboard{
		Days:      q.Days,
		Catalog:   u.catalog,
		Selected:  selected,
		Selection: sel,
		Chart:     BuildChartSpec(sel),
	}, nil
}

// normalizeSelection は空白を除去し、空の名前と重複を取り除きます。順序は保持します。
func normalizeSelection(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
