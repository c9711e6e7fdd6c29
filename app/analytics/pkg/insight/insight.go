// Package insight 从日记与情绪序列中生成按固定顺序排列的文字洞察。
package insight

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/iWorld-y/wemind/app/analytics/pkg/model"
)

// Kind 洞察类别
type Kind string

const (
	KindEmpty           Kind = "empty"
	KindDominantDay     Kind = "dominant_day"
	KindAverageLength   Kind = "average_length"
	KindDominantEmotion Kind = "dominant_emotion"
)

// Insight 一条展示用洞察
type Insight struct {
	Kind Kind   `json:"kind"`
	Icon string `json:"icon"`
	Text string `json:"text"`
}

var titleCase = cases.Title(language.English)

// Generate 生成洞察：最常写作的星期、平均篇幅、主导情绪，顺序固定
//
// entries 为空时只返回一条空状态洞察。没有任何合法日期时省略星期洞察，
// 所有指标序列为空时省略情绪洞察。
func Generate(entries []model.JournalEntry, series model.SentimentSeries) []Insight {
	if len(entries) == 0 {
		return []Insight{{
			Kind: KindEmpty,
			Icon: "📝",
			Text: "No entries yet. Write your first journal entry to unlock insights.",
		}}
	}

	var out []Insight
	if day, count, ok := dominantWeekday(entries); ok {
		out = append(out, Insight{
			Kind: KindDominantDay,
			Icon: "📅",
			Text: fmt.Sprintf("You write most often on %ss (%s %s).", day, humanize.Comma(int64(count)), plural(count, "entry", "entries")),
		})
	}

	words := averageWords(entries)
	out = append(out, Insight{
		Kind: KindAverageLength,
		Icon: "✍️",
		Text: fmt.Sprintf("Your entries average %s %s.", humanize.Comma(int64(words)), plural(words, "word", "words")),
	})

	if spec, avg, ok := dominantMetric(series); ok {
		out = append(out, Insight{
			Kind: KindDominantEmotion,
			Icon: emotionIcon(spec.Metric),
			Text: fmt.Sprintf("%s has been your strongest signal lately (average %.1f/%s).",
				titleCase.String(string(spec.Metric)), avg, humanize.Ftoa(spec.Max)),
		})
	}
	return out
}

// dominantWeekday 统计每个星期几的日记数，取最大值；并列时取下标最小的星期
func dominantWeekday(entries []model.JournalEntry) (time.Weekday, int, bool) {
	var tally [7]int
	valid := 0
	for _, e := range entries {
		k, err := e.DateKey()
		if err != nil {
			continue
		}
		tally[k.Weekday()]++
		valid++
	}
	if valid == 0 {
		return 0, 0, false
	}

	best := 0
	for d := 1; d < len(tally); d++ {
		if tally[d] > tally[best] {
			best = d
		}
	}
	return time.Weekday(best), tally[best], true
}

// averageWords 每篇日记按空白切分的平均词数，四舍五入
func averageWords(entries []model.JournalEntry) int {
	total := 0
	for _, e := range entries {
		total += len(strings.Fields(e.Text))
	}
	return int(math.Round(float64(total) / float64(len(entries))))
}

// dominantMetric 按量程归一化后比较各指标均值，空序列跳过
func dominantMetric(s model.SentimentSeries) (model.MetricSpec, float64, bool) {
	var (
		best      model.MetricSpec
		bestAvg   float64
		bestScore float64
		found     bool
	)
	for _, spec := range model.TrackedMetrics {
		values := s.Values(spec.Metric)
		if len(values) == 0 {
			continue
		}
		var sum float64
		for _, v := range values {
			sum += v
		}
		avg := sum / float64(len(values))

		score := avg
		if span := spec.Max - spec.Min; span > 0 {
			score = (avg - spec.Min) / span
		}
		if !found || score > bestScore {
			best, bestAvg, bestScore, found = spec, avg, score, true
		}
	}
	return best, bestAvg, found
}

func emotionIcon(m model.Metric) string {
	switch m {
	case model.Stress:
		return "😰"
	case model.Happiness:
		return "😊"
	case model.Energy:
		return "⚡"
	}
	return "💭"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
