package domain

import "github.com/go-kratos/kratos/v2/errors"

var (
	// ErrInvalidWindow 趋势窗口必须为正整数
	ErrInvalidWindow = errors.BadRequest("INVALID_WINDOW", "window must be a positive number of days")
	// ErrInvalidLookback 热力图回看天数必须为正整数
	ErrInvalidLookback = errors.BadRequest("INVALID_LOOKBACK", "lookback must be a positive number of days")
)

// Defaults 展示服务的分析默认参数
type Defaults struct {
	TrendWindow     int
	SentimentDays   int
	EntryDays       int
	HeatmapLookback int
}
