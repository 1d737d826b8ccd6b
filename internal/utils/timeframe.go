package utils

import (
	"time"
)

// 时间窗口参数，排行榜和趋势列表共用
const (
	TimeframeDay   = "day"
	TimeframeWeek  = "week"
	TimeframeMonth = "month"
	TimeframeAll   = "all"
)

// ValidTimeframe 校验 timeframe 参数
func ValidTimeframe(tf string) bool {
	return tf == TimeframeDay || tf == TimeframeWeek || tf == TimeframeMonth || tf == TimeframeAll
}

// TimeframeCutoff 返回窗口起点。all 返回 ok=false 表示不过滤
func TimeframeCutoff(tf string, now time.Time) (cutoff time.Time, ok bool) {
	switch tf {
	case TimeframeDay:
		return now.Add(-24 * time.Hour), true
	case TimeframeWeek:
		return now.Add(-7 * 24 * time.Hour), true
	case TimeframeMonth:
		return now.Add(-30 * 24 * time.Hour), true
	default:
		return time.Time{}, false
	}
}
