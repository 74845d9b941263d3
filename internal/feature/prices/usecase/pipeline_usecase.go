// Package usecase は株価ダッシュボードのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	catalogentity "stock_dashboard/internal/feature/catalog/domain/entity"
	"stock_dashboard/internal/feature/prices/domain"
	"stock_dashboard/internal/feature/prices/domain/entity"
)

const (
	// MinDays は表示日数の下限です。
	MinDays = 1
	// MaxDays は表示日数の上限です。
	MaxDays = 365
	// DefaultFetchConcurrency は同時に実行する取得リクエスト数のデフォルト値です。
	DefaultFetchConcurrency = 4
	// DefaultBuildTimeout は共有されるテーブル構築1回あたりの上限時間です。
	DefaultBuildTimeout = 2 * time.Minute
)

// PriceFetcher は銘柄ごとの終値履歴を取得するリポジトリのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type PriceFetcher interface {
	// Fetch は直近 days 日分の日足終値を日付の昇順で返します。
	Fetch(ctx context.Context, ticker string, days int) ([]entity.PricePoint, error)
}

// TableCache はワイドテーブルのメモ化キャッシュを抽象化します。
// 返されたテーブルは共有されるため、呼び出し側で変更してはいけません。
type TableCache interface {
	Get(ctx context.Context, key string) (*entity.WideTable, bool)
	Set(ctx context.Context, key string, table *entity.WideTable)
}

// PipelineUsecase は銘柄一覧から終値のワイドテーブルを構築します。
type PipelineUsecase struct {
	fetcher     PriceFetcher
	cache       TableCache
	concurrency int
	group       singleflight.Group
}

// NewPipelineUsecase は新しい PipelineUsecase を生成します。
// cache が nil の場合はメモ化せず毎回取得します。
func NewPipelineUsecase(fetcher PriceFetcher, cache TableCache, concurrency int) *PipelineUsecase {
	if concurrency <= 0 {
		concurrency = DefaultFetchConcurrency
	}
	return &PipelineUsecase{fetcher: fetcher, cache: cache, concurrency: concurrency}
}

// fetchResult は1社分の取得結果です。
type fetchResult struct {
	history []entity.PricePoint
	err     error
}

// BuildWideTable は catalog の全社について直近 days 日の終値を取得し、
// 会社名を行、日付ラベルを列とするワイドテーブルを返します。
// 同じ (days, catalog) の2回目以降の呼び出しはキャッシュから返され、取得は行われません。
func (p *PipelineUsecase) BuildWideTable(ctx context.Context, days int, catalog catalogentity.Catalog) (*entity.WideTable, error) {
	if days < MinDays || days > MaxDays {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", domain.ErrInvalidDays, days, MinDays, MaxDays)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	key := entity.TableKey(days, catalog)
	if t, ok := p.lookup(ctx, key); ok {
		return t, nil
	}

	// 同一キーの同時リクエストは1回の構築にまとめる。
	// 構築は呼び出し元のキャンセルから切り離し、各呼び出し元は自分の ctx でだけ待ちを打ち切る。
	ch := p.group.DoChan(key, func() (any, error) {
		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultBuildTimeout)
		defer cancel()
		if t, ok := p.lookup(bctx, key); ok {
			return t, nil
		}
		return p.build(bctx, key, days, catalog)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*entity.WideTable), nil
	}
}

func (p *PipelineUsecase) lookup(ctx context.Context, key string) (*entity.WideTable, bool) {
	if p.cache == nil {
		return nil, false
	}
	return p.cache.Get(ctx, key)
}

// build は全社を並行に取得し、カタログ順にマージします。
func (p *PipelineUsecase) build(ctx context.Context, key string, days int, catalog catalogentity.Catalog) (*entity.WideTable, error) {
	results := make([]fetchResult, catalog.Len())

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, c := range catalog.Companies {
		g.Go(func() error {
			h, err := p.fetcher.Fetch(ctx, c.Ticker, days)
			results[i] = fetchResult{history: h, err: err}
			// 1社の失敗で他社の取得を止めない
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := entity.NewWideTable()
	var errs []error
	for i, c := range catalog.Companies {
		r := results[i]
		if r.err == nil && len(r.history) == 0 {
			r.err = fmt.Errorf("%w: empty history", domain.ErrDataUnavailable)
		}
		if r.err != nil {
			slog.Warn("skipping company: price fetch failed",
				"company", c.Name, "ticker", c.Ticker, "days", days, "error", r.err)
			errs = append(errs, fmt.Errorf("%s (%s): %w", c.Name, c.Ticker, r.err))
			continue
		}
		table.AppendRow(c.Name, r.history)
	}

	if table.Len() == 0 {
		return nil, errors.Join(append([]error{domain.ErrDataUnavailable}, errs...)...)
	}

	// 欠けのあるテーブルはキャッシュしない（次回のリクエストで再取得する）
	if len(errs) == 0 && p.cache != nil {
		p.cache.Set(ctx, key, table)
	}
	return table, nil
}
