// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthInfo はヘルスチェックで返す構成情報です。
type HealthInfo struct {
	Provider string // 株価データの提供元（yahoo / twelvedata）
	Cache    string // テーブルキャッシュの種類（redis / memory）
	Catalog  string // 会社一覧の取得元（config / database）
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理するハンドラーを返します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func Health(info HealthInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			c.JSON(http.StatusOK, gin.H{
				"status":   "ok",
				"provider": info.Provider,
				"cache":    info.Cache,
				"catalog":  info.Catalog,
			})
		}
	}
}
