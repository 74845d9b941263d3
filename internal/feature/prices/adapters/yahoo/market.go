// Package yahoo はYahoo Finance チャートAPIから日足終値を取得するクライアントを提供します。
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"stock_dashboard/internal/feature/prices/adapters/yahoo/dto"
	"stock_dashboard/internal/feature/prices/domain"
	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/feature/prices/usecase"
)

const (
	// DefaultBaseURL はYahoo Finance APIのベースURLです。
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	// DefaultUserAgent はリクエストに付与するUser-Agentです。既定のGoのUser-Agentは拒否されます。
	DefaultUserAgent = "Mozilla/5.0"
)

// Config はYahoo Financeクライアントの設定を保持します。
type Config struct {
	BaseURL   string        // APIのベースURL
	UserAgent string        // User-Agentヘッダー
	Timeout   time.Duration // HTTPリクエストタイムアウト
}

// YahooMarket はYahoo Financeから終値履歴を取得するPriceFetcher実装です。
type YahooMarket struct {
	cfg    Config
	client *http.Client
}

// YahooMarketがPriceFetcherを実装していることをコンパイル時に検証します。
var _ usecase.PriceFetcher = (*YahooMarket)(nil)

// NewYahooMarket は指定された設定とHTTPクライアントでYahooMarketを生成します。
func NewYahooMarket(cfg Config, client *http.Client) *YahooMarket {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &YahooMarket{cfg: cfg, client: client}
}

// Name はデータ提供元の名前を返します。
func (y *YahooMarket) Name() string { return "yahoo" }

// Fetch は直近 days 日（暦日）の日足終値を日付の昇順で返します。
// 取引のない日（終値がnull）は含みません。
func (y *YahooMarket) Fetch(ctx context.Context, ticker string, days int) ([]entity.PricePoint, error) {
	if strings.TrimSpace(ticker) == "" {
		return nil, fmt.Errorf("%w: empty ticker", domain.ErrDataUnavailable)
	}
	if days < 1 {
		return nil, fmt.Errorf("yahoo: days must be positive, got %d", days)
	}

	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("range", fmt.Sprintf("%dd", days))
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(ticker), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", y.cfg.UserAgent)

	res, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo request %s: %w", domain.ErrDataUnavailable, ticker, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	var body dto.ChartResponse
	decodeErr := json.NewDecoder(res.Body).Decode(&body)

	// 未知の銘柄は404とエラーオブジェクトで返される
	if body.Chart.Error != nil {
		return nil, fmt.Errorf("%w: yahoo %s: %s", domain.ErrDataUnavailable, ticker, body.Chart.Error.Description)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: yahoo http %d", domain.ErrDataUnavailable, res.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("yahoo decode: %w", decodeErr)
	}
	if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("%w: yahoo %s: no data returned", domain.ErrDataUnavailable, ticker)
	}

	points, err := toPricePoints(body.Chart.Result[0])
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: yahoo %s: no trading days in range", domain.ErrDataUnavailable, ticker)
	}
	return points, nil
}

// toPricePoints はタイムスタンプを取引所の現地日付に変換し、終値の系列を作ります。
// 同じ日付が重複した場合は後のバーを採用します。
func toPricePoints(r dto.ChartResult) ([]entity.PricePoint, error) {
	if len(r.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: response has no quote indicators")
	}
	closes := r.Indicators.Quote[0].Close
	if len(closes) != len(r.Timestamp) {
		return nil, fmt.Errorf("yahoo: %d timestamps but %d closes", len(r.Timestamp), len(closes))
	}

	byDate := make(map[time.Time]float64, len(closes))
	for i, ts := range r.Timestamp {
		c := closes[i]
		if c == nil {
			continue
		}
		d := entity.TradingDate(time.Unix(ts+r.Meta.GmtOffset, 0).UTC())
		byDate[d] = *c
	}

	points := make([]entity.PricePoint, 0, len(byDate))
	for d, c := range byDate {
		points = append(points, entity.PricePoint{Date: d, Close: c})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}
