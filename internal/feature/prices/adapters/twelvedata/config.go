// Package twelvedata はTwelve Data株式市場APIのクライアントを提供します。
package twelvedata

import "time"

// DefaultBaseURL はTwelve Data APIのベースURLです。
const DefaultBaseURL = "https://api.twelvedata.com"

// Config はTwelve Data APIクライアントの設定を保持します。
type Config struct {
	TwelveDataAPIKey string        // 認証用APIキー
	BaseURL          string        // APIのベースURL（例: "https://api.twelvedata.com"）
	Timeout          time.Duration // HTTPリクエストタイムアウト
}
