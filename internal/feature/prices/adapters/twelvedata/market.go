package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"stock_dashboard/internal/feature/prices/adapters/twelvedata/dto"
	"stock_dashboard/internal/feature/prices/domain"
	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/feature/prices/usecase"
)

const dateLayout = "2006-01-02"

// TwelveDataMarket はTwelve Data外部APIから終値履歴を取得するPriceFetcher実装です。
type TwelveDataMarket struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

// TwelveDataMarketがPriceFetcherを実装していることをコンパイル時に検証します。
var _ usecase.PriceFetcher = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
func NewTwelveDataMarket(cfg Config, client *http.Client) *TwelveDataMarket {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &TwelveDataMarket{cfg: cfg, client: client, now: time.Now}
}

// Name はデータ提供元の名前を返します。
func (t *TwelveDataMarket) Name() string { return "twelvedata" }

// Fetch は今日から days 日前までの日足終値を日付の昇順で返します。
func (t *TwelveDataMarket) Fetch(ctx context.Context, ticker string, days int) ([]entity.PricePoint, error) {
	if strings.TrimSpace(ticker) == "" {
		return nil, fmt.Errorf("%w: empty ticker", domain.ErrDataUnavailable)
	}
	if days < 1 {
		return nil, fmt.Errorf("twelvedata: days must be positive, got %d", days)
	}

	end := t.now().UTC()
	start := end.AddDate(0, 0, -days)

	q := url.Values{}
	// クエリパラメータを追加
	q.Set("symbol", ticker)
	q.Set("interval", "1day")
	q.Set("start_date", start.Format(dateLayout))
	q.Set("end_date", end.Format(dateLayout))
	// 取引日数は暦日数を超えない
	q.Set("outputsize", strconv.Itoa(days))
	q.Set("apikey", t.cfg.TwelveDataAPIKey)

	u := fmt.Sprintf("%s/time_series?%s", t.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: twelvedata request %s: %w", domain.ErrDataUnavailable, ticker, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: twelvedata http %d", domain.ErrDataUnavailable, res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("twelvedata decode: %w", err)
	}
	// 未知の銘柄やAPIキーの誤りはHTTP 200とstatus "error"で返される
	if body.Status == "error" {
		return nil, fmt.Errorf("%w: twelvedata: %s", domain.ErrDataUnavailable, body.Message)
	}
	if len(body.Values) == 0 {
		return nil, fmt.Errorf("%w: twelvedata %s: no data returned", domain.ErrDataUnavailable, ticker)
	}

	points := make([]entity.PricePoint, 0, len(body.Values))
	for _, v := range body.Values {
		// タイムスタンプをパース
		tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
		if err != nil {
			tm, err = time.Parse(dateLayout, v.Datetime)
			if err != nil {
				return nil, fmt.Errorf("parse time %q: %w", v.Datetime, err)
			}
		}
		// 終値をパース
		c, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("parse close %q: %w", v.Close, err)
		}
		points = append(points, entity.PricePoint{Date: entity.TradingDate(tm), Close: c})
	}

	// APIは新しい順に返すため昇順に並べ替える
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}
