// Package handler は株価ダッシュボードのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogentity "stock_dashboard/internal/feature/catalog/domain/entity"
	"stock_dashboard/internal/feature/prices/domain"
	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/feature/prices/transport/http/dto"
	"stock_dashboard/internal/feature/prices/usecase"
)

// PageTitle はダッシュボードのタイトルです。
const PageTitle = "米国株可視化アプリ"

//go:embed templates/*.html
var templateFS embed.FS

// Templates はダッシュボードのHTMLテンプレートを返します。gin の SetHTMLTemplate に渡します。
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// DashboardUsecase はダッシュボード描画のユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type DashboardUsecase interface {
	Render(ctx context.Context, q entity.DashboardQuery) (*entity.Dashboard, error)
	DefaultQuery() entity.DashboardQuery
	Controls() usecase.Controls
	Catalog() catalogentity.Catalog
}

// PriceHandler は株価ダッシュボードのHTTPリクエストを処理します。
type PriceHandler struct {
	uc DashboardUsecase
}

// NewPriceHandler は新しい PriceHandler を作成します。
func NewPriceHandler(uc DashboardUsecase) *PriceHandler {
	return &PriceHandler{uc: uc}
}

// Prices は GET /api/prices を処理し、ワイドテーブルと縦持ちデータ、グラフ仕様をJSONで返します。
//
// パラメータ:
//   - days: 表示日数（省略時は既定値）
//   - company: 会社名（複数指定可、省略時は既定の選択）
//   - ymin, ymax: 縦軸の範囲
//   - missing: 欠損値の扱い（omit / null）
//
// 未選択と入力エラーは400、それ以外の失敗は502で汎用メッセージを返します。
func (h *PriceHandler) Prices(c *gin.Context) {
	q, err := parseQuery(c, h.uc.DefaultQuery())
	if err != nil {
		h.fail(c, err, func(status int, msg string) {
			c.JSON(status, dto.ErrorResponse{Error: msg})
		})
		return
	}

	d, err := h.uc.Render(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err, func(status int, msg string) {
			c.JSON(status, dto.ErrorResponse{Error: msg})
		})
		return
	}
	c.JSON(http.StatusOK, dto.NewPricesResponse(d))
}

// Page は GET / を処理し、ダッシュボードのHTMLを返します。
// エラー時もコントロールは表示したまま、メッセージを画面内に表示します。
func (h *PriceHandler) Page(c *gin.Context) {
	q, err := parseQuery(c, h.uc.DefaultQuery())
	view := h.newPageView(q)

	var d *entity.Dashboard
	if err == nil {
		d, err = h.uc.Render(c.Request.Context(), q)
	}
	if err != nil {
		h.fail(c, err, func(status int, msg string) {
			view.Error = msg
			c.HTML(status, "dashboard.html", view)
		})
		return
	}

	view.fill(d)
	c.HTML(http.StatusOK, "dashboard.html", view)
}

// fail はエラーを分類してステータスとメッセージを決め、write に渡します。
// 汎用メッセージになる失敗は原因をログに残します。
func (h *PriceHandler) fail(c *gin.Context, err error, write func(status int, msg string)) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("failed to render dashboard",
			"path", c.Request.URL.Path, "query", c.Request.URL.RawQuery, "error", err)
	}
	write(status, domain.UserMessage(err))
}

// StatusFor はエラー種別をHTTPステータスに対応付けます。
func StatusFor(err error) int {
	switch domain.Classify(err) {
	case domain.KindNone:
		return http.StatusOK
	case domain.KindEmptySelection, domain.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// parseQuery はクエリパラメータを読み取ります。省略された値は def を使います。
// 解釈できない値があった場合は、それまでに読めた値とエラーを返します。
func parseQuery(c *gin.Context, def entity.DashboardQuery) (entity.DashboardQuery, error) {
	q := def

	if companies, ok := c.GetQueryArray("company"); ok {
		q.Companies = companies
	}

	var errs []error
	if v, ok := c.GetQuery("days"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: days=%q", domain.ErrInvalidDays, v))
		} else {
			q.Days = n
		}
	}
	if v, ok := c.GetQuery("ymin"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: ymin=%q", domain.ErrInvalidAxisRange, v))
		} else {
			q.YMin = f
		}
	}
	if v, ok := c.GetQuery("ymax"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: ymax=%q", domain.ErrInvalidAxisRange, v))
		} else {
			q.YMax = f
		}
	}
	if v, ok := c.GetQuery("missing"); ok {
		p, err := entity.ParseMissingPolicy(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", domain.ErrInvalidParameter, err))
		} else {
			q.Missing = p
		}
	}
	return q, errors.Join(errs...)
}
