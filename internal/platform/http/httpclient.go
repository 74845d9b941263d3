// Package http は外部の株価APIを呼び出すためのHTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// defaultMaxConnsPerHost は perHost が0以下のときに使う同一ホストへの接続数です。
const defaultMaxConnsPerHost = 4

// NewHTTPClient は株価提供元の呼び出し用に設定されたHTTPクライアントを作成します。
//
// 1回のテーブル構築で同じ提供元へ銘柄数ぶんのリクエストが同時に飛ぶため、
// 同一ホストへの接続数とアイドル接続数を perHost（取得の並行数）に合わせます。
//
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト
//   - MaxConnsPerHost / MaxIdleConnsPerHost: 取得の並行数
//   - Client.Timeout: リクエスト全体のタイムアウト（呼び出し元から渡される）
func NewHTTPClient(timeout time.Duration, perHost int) *http.Client {
	if perHost <= 0 {
		perHost = defaultMaxConnsPerHost
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     perHost,
		MaxIdleConnsPerHost: perHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
