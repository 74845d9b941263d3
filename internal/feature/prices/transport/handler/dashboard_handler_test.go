package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogentity "stock_dashboard/internal/feature/catalog/domain/entity"
	"stock_dashboard/internal/feature/prices/domain"
	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/feature/prices/transport/http/dto"
	"stock_dashboard/internal/feature/prices/usecase"
)

// mockDashboardUsecase はDashboardUsecaseインターフェースのモック実装です。
type mockDashboardUsecase struct {
	RenderFunc func(ctx context.Context, q entity.DashboardQuery) (*entity.Dashboard, error)
	calls      []entity.DashboardQuery
}

func (m *mockDashboardUsecase) Render(ctx context.Context, q entity.DashboardQuery) (*entity.Dashboard, error) {
	m.calls = append(m.calls, q)
	if m.RenderFunc != nil {
		return m.RenderFunc(ctx, q)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDashboardUsecase) DefaultQuery() entity.DashboardQuery {
	return entity.DashboardQuery{Days: 20, Companies: []string{"A", "B"}, YMin: 0, YMax: 1500}
}

func (m *mockDashboardUsecase) Controls() usecase.Controls {
	return usecase.Controls{DefaultDays: 20, MaxDays: 365, AxisMin: 0, AxisMax: 1500, DefaultSelection: []string{"A", "B"}}
}

func (m *mockDashboardUsecase) Catalog() catalogentity.Catalog {
	return catalogentity.Catalog{Companies: []catalogentity.Company{{Name: "A", Ticker: "AAA"}, {Name: "B", Ticker: "BBB"}}}
}

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

// sampleDashboard は A が3日分、B が2日分（3日は欠損）の描画結果を返します。
func sampleDashboard(q entity.DashboardQuery) *entity.Dashboard {
	table := entity.NewWideTable()
	table.AppendRow("A", []entity.PricePoint{{Date: day(1), Close: 10}, {Date: day(2), Close: 11}, {Date: day(3), Close: 12}})
	table.AppendRow("B", []entity.PricePoint{{Date: day(1), Close: 20}, {Date: day(2), Close: 21}})
	sel := usecase.SelectAndReshape(table, q.Companies, entity.AxisRange{Min: q.YMin, Max: q.YMax}, q.Missing)
	return &entity.Dashboard{Days: q.Days, Selected: q.Companies, Selection: sel, Chart: usecase.BuildChartSpec(sel)}
}

func newRouter(uc DashboardUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPriceHandler(uc)
	r := gin.New()
	r.SetHTMLTemplate(Templates())
	r.GET("/", h.Page)
	r.GET("/api/prices", h.Prices)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestNewPriceHandler(t *testing.T) {
	t.Parallel()

	h := NewPriceHandler(&mockDashboardUsecase{})
	assert.NotNil(t, h)
	assert.NotNil(t, h.uc)
}

func TestPriceHandler_Prices_Success(t *testing.T) {
	t.Parallel()

	uc := &mockDashboardUsecase{RenderFunc: func(_ context.Context, q entity.DashboardQuery) (*entity.Dashboard, error) {
		return sampleDashboard(q), nil
	}}
	r := newRouter(uc)

	w := get(r, "/api/prices?days=5&company=B&company=A&ymin=5&ymax=50")
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, uc.calls, 1)
	assert.Equal(t, entity.DashboardQuery{Days: 5, Companies: []string{"B", "A"}, YMin: 5, YMax: 50}, uc.calls[0])

	var res dto.PricesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 5, res.Days)
	assert.Equal(t, dto.AxisRange{Min: 5, Max: 50}, res.Axis)
	assert.Equal(t, []string{"01 January 2024", "02 January 2024", "03 January 2024"}, res.Columns)
	require.Len(t, res.Table, 2)
	assert.Equal(t, "A", res.Table[0].Name)
	assert.Equal(t, "B", res.Table[1].Name)
	_, ok := res.Table[1].Prices["03 January 2024"]
	assert.False(t, ok, "missing cell must stay absent")
	assert.Len(t, res.Rows, 5)
	assert.Equal(t, "2024-01-01", res.Rows[0].Date)
	assert.Equal(t, "line", res.Chart["mark"].(map[string]any)["type"])
}

func TestPriceHandler_Prices_MissingNull(t *testing.T) {
	t.Parallel()

	uc := &mockDashboardUsecase{RenderFunc: func(_ context.Context, q entity.DashboardQuery) (*entity.Dashboard, error) {
		return sampleDashboard(q), nil
	}}
	w := get(newRouter(uc), "/api/prices?missing=null")
	require.Equal(t, http.StatusOK, w.Code)

	var res dto.PricesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Rows, 6)
	assert.Contains(t, w.Body.String(), `"price":null`)
	assert.Equal(t, entity.MissingNull, uc.calls[0].Missing)
}

// TestPriceHandler_Prices_Errors はエラー種別ごとのステータスとメッセージを検証します。
func TestPriceHandler_Prices_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		target         string
		renderErr      error
		expectedStatus int
		expectedMsg    string
		expectRender   bool
	}{
		{
			name:           "empty selection",
			target:         "/api/prices?company=",
			renderErr:      domain.ErrEmptySelection,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    domain.MessageEmptySelection,
			expectRender:   true,
		},
		{
			name:           "days out of range",
			target:         "/api/prices?days=400",
			renderErr:      fmt.Errorf("%w: 400", domain.ErrInvalidDays),
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    domain.MessageInvalidDays,
			expectRender:   true,
		},
		{
			name:           "days not a number",
			target:         "/api/prices?days=abc",
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    domain.MessageInvalidDays,
		},
		{
			name:           "ymax not a number",
			target:         "/api/prices?ymax=high",
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    domain.MessageInvalidAxisRange,
		},
		{
			name:           "unknown missing policy",
			target:         "/api/prices?missing=zero",
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    domain.MessageInvalidParameter,
		},
		{
			name:           "data unavailable",
			target:         "/api/prices",
			renderErr:      fmt.Errorf("build wide table: %w", domain.ErrDataUnavailable),
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    domain.MessageRetry,
			expectRender:   true,
		},
		{
			name:           "unexpected failure",
			target:         "/api/prices",
			renderErr:      errors.New("boom"),
			expectedStatus: http.StatusBadGateway,
			expectedMsg:    domain.MessageRetry,
			expectRender:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := &mockDashboardUsecase{RenderFunc: func(context.Context, entity.DashboardQuery) (*entity.Dashboard, error) {
				return nil, tt.renderErr
			}}
			w := get(newRouter(uc), tt.target)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.expectedMsg), w.Body.String())
			assert.Equal(t, tt.expectRender, len(uc.calls) == 1)
		})
	}
}

func TestPriceHandler_Prices_EmptyCompanyValuesReachUsecase(t *testing.T) {
	t.Parallel()

	uc := &mockDashboardUsecase{}
	get(newRouter(uc), "/api/prices?company=")

	require.Len(t, uc.calls, 1)
	assert.Equal(t, []string{""}, uc.calls[0].Companies)
}

func TestPriceHandler_Page_Success(t *testing.T) {
	t.Parallel()

	uc := &mockDashboardUsecase{RenderFunc: func(_ context.Context, q entity.DashboardQuery) (*entity.Dashboard, error) {
		return sampleDashboard(q), nil
	}}
	w := get(newRouter(uc), "/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>"+PageTitle+"</title>")
	assert.Contains(t, body, "<h2>過去 20日間 の各社株価</h2>")
	assert.Contains(t, body, "<th>03 January 2024</th>")
	assert.Contains(t, body, "<td>12.00</td>")
	assert.Contains(t, body, `vegaEmbed("#chart", {`)
	assert.Contains(t, body, `value="A" checked`)
	assert.NotContains(t, body, `class="error"`)
	// 初回表示は既定のクエリで描画する
	assert.Equal(t, uc.DefaultQuery(), uc.calls[0])
}

// TestPriceHandler_Page_EmptySelection は未選択時もコントロールを表示したままメッセージを出すことを検証します。
func TestPriceHandler_Page_EmptySelection(t *testing.T) {
	t.Parallel()

	uc := &mockDashboardUsecase{RenderFunc: func(context.Context, entity.DashboardQuery) (*entity.Dashboard, error) {
		return nil, domain.ErrEmptySelection
	}}
	w := get(newRouter(uc), "/?days=10&company=")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, domain.MessageEmptySelection)
	assert.NotContains(t, body, "の各社株価")
	assert.Contains(t, body, `name="days"`)
	assert.Contains(t, body, `value="10"`)
	assert.NotContains(t, body, `value="A" checked`)
	assert.NotContains(t, body, "vegaEmbed")
}

func TestPriceHandler_Page_InvalidInputSkipsRender(t *testing.T) {
	t.Parallel()

	uc := &mockDashboardUsecase{}
	w := get(newRouter(uc), "/?days=soon")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), domain.MessageInvalidDays)
	assert.Empty(t, uc.calls)
}

func TestPriceHandler_Page_GenericFailureHidesCause(t *testing.T) {
	t.Parallel()

	uc := &mockDashboardUsecase{RenderFunc: func(context.Context, entity.DashboardQuery) (*entity.Dashboard, error) {
		return nil, errors.New("secret upstream detail")
	}}
	w := get(newRouter(uc), "/")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), domain.MessageRetry)
	assert.False(t, strings.Contains(w.Body.String(), "secret upstream detail"))
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusOK, StatusFor(nil))
	assert.Equal(t, http.StatusBadRequest, StatusFor(domain.ErrEmptySelection))
	assert.Equal(t, http.StatusBadRequest, StatusFor(domain.ErrInvalidAxisRange))
	assert.Equal(t, http.StatusBadGateway, StatusFor(domain.ErrDataUnavailable))
	assert.Equal(t, http.StatusBadGateway, StatusFor(errors.New("x")))
}
