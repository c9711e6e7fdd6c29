// Package trend 比较时间序列最近两个窗口的均值变化。
package trend

import (
	"github.com/iWorld-y/wemind/app/analytics/pkg/model"
)

// Direction 变化方向
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
	Flat Direction = "flat"
	// None 无法计算变化（窗口为空或上一窗口均值为 0）
	None Direction = "none"
)

// Result 单个指标的趋势结果
type Result struct {
	CurrentAverage  float64 `json:"current_average"`
	PreviousAverage float64 `json:"previous_average"`
	// DeltaPercent 为 nil 表示没有可比较的基数，展示层显示占位符
	DeltaPercent  *float64  `json:"delta_percent"`
	IsImprovement bool      `json:"is_improvement"`
	Direction     Direction `json:"direction"`
}

// MetricTrend 带指标名的趋势结果
type MetricTrend struct {
	Metric   model.Metric   `json:"metric"`
	Polarity model.Polarity `json:"polarity"`
	Result
}

// Analyze 计算 series 最后 windowDays 个点与其之前 windowDays 个点的均值变化
//
// 两个窗口右对齐且互不重叠。任一窗口为空或上一窗口均值为 0 时 DeltaPercent 为 nil。
// 变化为 0 时既不算改善也不算退步。
func Analyze(series []float64, windowDays int, polarity model.Polarity) Result {
	n := len(series)
	if windowDays < 0 {
		windowDays = 0
	}

	curStart := max(n-windowDays, 0)
	prevStart := max(n-2*windowDays, 0)
	current := series[curStart:]
	previous := series[prevStart:curStart]

	res := Result{
		CurrentAverage:  mean(current),
		PreviousAverage: mean(previous),
		Direction:       None,
	}
	if len(current) == 0 || len(previous) == 0 || res.PreviousAverage == 0 {
		return res
	}

	delta := (res.CurrentAverage - res.PreviousAverage) / res.PreviousAverage * 100
	res.DeltaPercent = &delta

	switch {
	case delta > 0:
		res.Direction = Up
	case delta < 0:
		res.Direction = Down
	default:
		res.Direction = Flat
	}
	res.IsImprovement = delta != 0 && (delta > 0) == (polarity == model.HigherIsBetter)
	return res
}

// ForSeries 按 TrackedMetrics 的顺序分析每个指标
func ForSeries(s model.SentimentSeries, windowDays int) []MetricTrend {
	out := make([]MetricTrend, 0, len(model.TrackedMetrics))
	for _, spec := range model.TrackedMetrics {
		out = append(out, MetricTrend{
			Metric:   spec.Metric,
			Polarity: spec.Polarity,
			Result:   Analyze(s.Values(spec.Metric), windowDays, spec.Polarity),
		})
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
