// Package adapters はpricesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/feature/prices/usecase"
	"stock_dashboard/internal/shared/ratelimiter"
)

// RateLimitedFetcher は取得の前にレートリミッターで待機するPriceFetcherのデコレーターです。
// 並行取得時も提供元の呼び出し回数の上限を超えないようにします。
type RateLimitedFetcher struct {
	inner   usecase.PriceFetcher
	limiter ratelimiter.RateLimiterInterface
}

var _ usecase.PriceFetcher = (*RateLimitedFetcher)(nil)

// NewRateLimitedFetcher は inner を limiter でラップします。
func NewRateLimitedFetcher(inner usecase.PriceFetcher, limiter ratelimiter.RateLimiterInterface) *RateLimitedFetcher {
	return &RateLimitedFetcher{inner: inner, limiter: limiter}
}

// Fetch はレートリミットの範囲内で inner.Fetch を呼び出します。
func (r *RateLimitedFetcher) Fetch(ctx context.Context, ticker string, days int) ([]entity.PricePoint, error) {
	if err := r.limiter.WaitIfNeeded(ctx); err != nil {
		return nil, err
	}
	return r.inner.Fetch(ctx, ticker, days)
}
