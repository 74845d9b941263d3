package cache

import (
	"time"
)

// TimeUntilNextHour は loc における次の hour 時0分までの期間を返します。
// 米国市場の終値が確定した後に表を作り直すため、キャッシュのTTLとして使います。
func TimeUntilNextHour(hour int, loc *time.Location) time.Duration {
	return timeUntilNextHour(time.Now(), hour, loc)
}

func timeUntilNextHour(now time.Time, hour int, loc *time.Location) time.Duration {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)

	// 今日の指定時刻が既に過ぎている場合は翌日を使用
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	return next.Sub(now)
}
