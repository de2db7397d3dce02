package util

import "time"

// EndOfDay 返回 t 所在自然日的结束时刻 (次日零点)，
// wbi key 按日轮换，以此作为缓存过期边界
func EndOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}

// MillisToTime 将毫秒级 Unix 时间戳转换为 time.Time
func MillisToTime(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.Unix(ms/1000, (ms%1000)*1000000)
}
