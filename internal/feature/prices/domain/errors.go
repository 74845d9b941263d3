// Package domain は prices フィーチャーのドメインエラーを定義します。
package domain

import "errors"

// 株価ダッシュボードのエラー分類です。
// ここに含まれないエラーはすべて KindUnexpected として扱われます。
var (
	// ErrEmptySelection は会社が一社も選択されていない場合に返されます。
	// 取得処理の前に検出され、専用のメッセージで利用者に通知されます。
	ErrEmptySelection = errors.New("no company selected")

	// ErrDataUnavailable はデータ提供元が銘柄の履歴を返せなかった場合に返されます
	// （未知の銘柄、接続不可、空のレスポンス）。
	ErrDataUnavailable = errors.New("price data unavailable")

	// ErrInvalidDays は表示日数が許容範囲外の場合に返されます。
	ErrInvalidDays = errors.New("days out of range")

	// ErrInvalidAxisRange は縦軸の範囲が不正な場合に返されます。
	ErrInvalidAxisRange = errors.New("axis range out of bounds")

	// ErrInvalidParameter はその他のクエリパラメータが解釈できない場合に返されます。
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Kind は利用者に表示するメッセージの階層を決めるエラー種別です。
type Kind int

const (
	KindNone Kind = iota
	KindEmptySelection
	KindInvalidInput
	KindDataUnavailable
	KindUnexpected
)

const (
	// MessageEmptySelection は会社未選択時に表示するメッセージです。
	MessageEmptySelection = "少なくとも一社は選んで下さい。"
	// MessageRetry はそれ以外の失敗時に表示する汎用メッセージです。
	MessageRetry = "エラーが発生しました。再更新してください。"

	// 範囲は設定で変えられるため、メッセージには具体的な値を含めない
	MessageInvalidDays      = "日数が指定できる範囲外です。スライダーの範囲内で指定してください。"
	MessageInvalidAxisRange = "株価の範囲が不正です。下限は上限以下にし、指定できる範囲内で入力してください。"
	MessageInvalidParameter = "入力値が不正です。"
)

// Classify はエラーを Kind に分類します。
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrEmptySelection):
		return KindEmptySelection
	case errors.Is(err, ErrInvalidDays), errors.Is(err, ErrInvalidAxisRange), errors.Is(err, ErrInvalidParameter):
		return KindInvalidInput
	case errors.Is(err, ErrDataUnavailable):
		return KindDataUnavailable
	default:
		return KindUnexpected
	}
}

// UserMessage はエラーに対応する利用者向けメッセージを返します。
// 入力エラー以外は原因を表示せず、再試行を促す汎用メッセージに統一します。
func UserMessage(err error) string {
	switch Classify(err) {
	case KindNone:
		return ""
	case KindEmptySelection:
		return MessageEmptySelection
	case KindInvalidInput:
		switch {
		case errors.Is(err, ErrInvalidDays):
			return MessageInvalidDays
		case errors.Is(err, ErrInvalidAxisRange):
			return MessageInvalidAxisRange
		default:
			return MessageInvalidParameter
		}
	default:
		return MessageRetry
	}
}
