package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iWorld-y/wemind/app/analytics/pkg/datekey"
)

// Metric 追踪的情绪指标
type Metric string

const (
	Stress    Metric = "stress"
	Happiness Metric = "happiness"
	Energy    Metric = "energy"

	// fatigue 只在记录缺少 energy 时用于推算 energy = 10 - fatigue
	fatigue = "fatigue"
)

// Polarity 指标变化方向的含义
type Polarity string

const (
	HigherIsBetter Polarity = "higherIsBetter"
	LowerIsBetter  Polarity = "lowerIsBetter"
)

// MetricSpec 指标定义：极性与自然量程
type MetricSpec struct {
	Metric   Metric
	Polarity Polarity
	Min      float64
	Max      float64
}

// TrackedMetrics 按固定顺序列出的追踪指标
var TrackedMetrics = []MetricSpec{
	{Metric: Stress, Polarity: LowerIsBetter, Min: 0, Max: 10},
	{Metric: Happiness, Polarity: HigherIsBetter, Min: 0, Max: 10},
	{Metric: Energy, Polarity: HigherIsBetter, Min: 0, Max: 10},
}

// OverallLabels SentimentSeries.Overall 各位置的含义
var OverallLabels = [5]string{"happiness", "energy", "calm", "motivation", "wellbeing"}

// Emotions 情绪名称到分值的映射，可能缺失或不完整
type Emotions map[string]float64

// Value 读取指标值；energy 缺失时由 fatigue 推算
func (e Emotions) Value(m Metric) (float64, bool) {
	if v, ok := e[string(m)]; ok {
		return v, true
	}
	if m == Energy {
		if f, ok := e[fatigue]; ok {
			return 10 - f, true
		}
	}
	return 0, false
}

// Metadata 日记附带的元数据
type Metadata struct {
	Source           string   `json:"source,omitempty"`
	EmotionsDetected Emotions `json:"emotions_detected,omitempty"`
}

// JournalEntry 一篇日记
type JournalEntry struct {
	Date      string   `json:"date"`
	Timestamp string   `json:"timestamp,omitempty"`
	Text      string   `json:"entry"`
	Metadata  Metadata `json:"metadata"`

	// Key 由 Loader 填充的规范日期，日期无法解析时为空
	Key datekey.Key `json:"-"`
}

// UnmarshalJSON 兼容 text / emotionsDetected 两种字段命名
func (e *JournalEntry) UnmarshalJSON(data []byte) error {
	type plain JournalEntry
	var aux struct {
		plain
		AltText  *string `json:"text"`
		Metadata struct {
			Metadata
			AltEmotions Emotions `json:"emotionsDetected"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*e = JournalEntry(aux.plain)
	e.Metadata = aux.Metadata.Metadata
	if e.Text == "" && aux.AltText != nil {
		e.Text = *aux.AltText
	}
	if e.Metadata.EmotionsDetected == nil && aux.Metadata.AltEmotions != nil {
		e.Metadata.EmotionsDetected = aux.Metadata.AltEmotions
	}
	return nil
}

// DateKey 返回规范日期：优先使用已填充的 Key，否则现场规范化 Date
func (e JournalEntry) DateKey() (datekey.Key, error) {
	if !e.Key.IsZero() {
		return e.Key, nil
	}
	return datekey.Canonicalize(e.Date)
}

// MetricValue 读取日记的指标值
func (e JournalEntry) MetricValue(m Metric) (float64, bool) {
	return e.Metadata.EmotionsDetected.Value(m)
}

// SentimentSeries 多指标情绪时间序列，各数组按下标与 Dates 对齐
type SentimentSeries struct {
	Dates     []string  `json:"dates"`
	Stress    []float64 `json:"stress"`
	Happiness []float64 `json:"happiness"`
	Energy    []float64 `json:"energy"`
	Overall   []float64 `json:"overall"`

	// Keys 与 Dates 一一对应的规范日期，由 Loader 填充
	Keys []datekey.Key `json:"-"`
}

// ErrMisaligned 序列数组长度不一致
var ErrMisaligned = errors.New("sentiment series misaligned")

// Len 样本天数
func (s SentimentSeries) Len() int { return len(s.Dates) }

// IsEmpty 是否没有任何样本
func (s SentimentSeries) IsEmpty() bool { return len(s.Dates) == 0 }

// Values 返回指标对应的序列，未知指标返回 nil
func (s SentimentSeries) Values(m Metric) []float64 {
	switch m {
	case Stress:
		return s.Stress
	case Happiness:
		return s.Happiness
	case Energy:
		return s.Energy
	}
	return nil
}

// Validate 检查下标对齐不变量
func (s SentimentSeries) Validate() error {
	n := len(s.Dates)
	for _, spec := range TrackedMetrics {
		if got := len(s.Values(spec.Metric)); got != n {
			return fmt.Errorf("%w: %s has %d values for %d dates", ErrMisaligned, spec.Metric, got, n)
		}
	}
	if len(s.Keys) != 0 && len(s.Keys) != n {
		return fmt.Errorf("%w: %d keys for %d dates", ErrMisaligned, len(s.Keys), n)
	}
	if len(s.Overall) != 0 && len(s.Overall) != len(OverallLabels) {
		return fmt.Errorf("%w: overall has %d values, want %d", ErrMisaligned, len(s.Overall), len(OverallLabels))
	}
	return nil
}

// Drop 返回去掉指定下标后的新序列，所有数组同步删除
func (s SentimentSeries) Drop(skip map[int]bool) SentimentSeries {
	if len(skip) == 0 {
		return s
	}
	out := SentimentSeries{Overall: append([]float64(nil), s.Overall...)}
	for i := range s.Dates {
		if skip[i] {
			continue
		}
		out.Dates = append(out.Dates, s.Dates[i])
		out.Stress = append(out.Stress, s.Stress[i])
		out.Happiness = append(out.Happiness, s.Happiness[i])
		out.Energy = append(out.Energy, s.Energy[i])
		if len(s.Keys) == len(s.Dates) {
			out.Keys = append(out.Keys, s.Keys[i])
		}
	}
	return out
}

// Stats 服务端预先计算好的统计值
type Stats struct {
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	TotalEntries  int    `json:"total_entries"`
	LastEntry     string `json:"last_entry,omitempty"`
}

// Section 快照中独立获取的一段数据
type Section string

const (
	SectionStats     Section = "stats"
	SectionSentiment Section = "sentiment"
	SectionEntries   Section = "entries"
)

// SectionError 某一段数据获取失败，属于非致命告警
type SectionError struct {
	Section Section
	Err     error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Section, e.Err)
}

func (e *SectionError) Unwrap() error { return e.Err }

// Snapshot 一次视图会话使用的只读数据快照
type Snapshot struct {
	ID            string    `json:"id"`
	Seq           uint64    `json:"seq"`
	FetchedAt     time.Time `json:"fetched_at"`
	SentimentDays int       `json:"sentiment_days"`
	EntryDays     int       `json:"entry_days"`

	Stats    Stats           `json:"stats"`
	Achieved []string        `json:"achieved,omitempty"`
	Series   SentimentSeries `json:"series"`
	Entries  []JournalEntry  `json:"entries"`

	Warnings []*SectionError `json:"-"`
	// Skipped 日期无法规范化而被下游跳过的记录数
	Skipped int `json:"skipped"`
}

// Err 汇总所有告警，没有告警时返回 nil
func (s *Snapshot) Err() error {
	if s == nil || len(s.Warnings) == 0 {
		return nil
	}
	errs := make([]error, 0, len(s.Warnings))
	for _, w := range s.Warnings {
		errs = append(errs, w)
	}
	return errors.Join(errs...)
}
