// Package dto はTwelve Data APIレスポンスのデータ転送オブジェクトを定義します。
package dto

// TimeSeriesResponse は time_series エンドポイントのレスポンスのうち、終値の表示に使う部分です。
// 値は新しい日付から順に並び、終値は文字列で返されます。
// 未知の銘柄やAPIキーの誤りでは Status が "error" になり Message に理由が入ります。
type TimeSeriesResponse struct {
	Status  string       `json:"status"`
	Code    int          `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
	Values  []DailyClose `json:"values"`
}

// DailyClose は1本の日足の日時と終値です。
type DailyClose struct {
	Datetime string `json:"datetime"`
	Close    string `json:"close"`
}
