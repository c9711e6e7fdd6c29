package engine

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/iWorld-y/wemind/app/analytics/pkg/heatmap"
	"github.com/iWorld-y/wemind/app/analytics/pkg/insight"
	"github.com/iWorld-y/wemind/app/analytics/pkg/loader"
	"github.com/iWorld-y/wemind/app/analytics/pkg/logger"
	"github.com/iWorld-y/wemind/app/analytics/pkg/milestone"
	"github.com/iWorld-y/wemind/app/analytics/pkg/model"
	"github.com/iWorld-y/wemind/app/analytics/pkg/trend"
)

// Params 派生视图所需的参数
type Params struct {
	WindowDays      int
	HeatmapLookback int
	// Reference 热力图终点，零值表示快照获取时间
	Reference time.Time
	Ladder    []milestone.Milestone
}

// Summary 统计卡片
type Summary struct {
	CurrentStreak int      `json:"current_streak"`
	LongestStreak int      `json:"longest_streak"`
	TotalEntries  int      `json:"total_entries"`
	AvgPerWeek    float64  `json:"avg_per_week"`
	Achieved      []string `json:"achieved,omitempty"`
}

// NextMilestone 下一个待完成的目标
type NextMilestone struct {
	milestone.Progress
	DaysRemaining int `json:"days_remaining"`
}

// View 展示层读取的完整视图模型
type View struct {
	SnapshotID    string               `json:"snapshot_id"`
	Seq           uint64               `json:"seq"`
	WindowDays    int                  `json:"window_days"`
	Summary       Summary              `json:"summary"`
	Trends        []trend.MetricTrend  `json:"trends"`
	Overall       map[string]float64   `json:"overall,omitempty"`
	Heatmap       *heatmap.Grid        `json:"heatmap"`
	Insights      []insight.Insight    `json:"insights"`
	Milestones    []milestone.Progress `json:"milestones"`
	NextMilestone *NextMilestone       `json:"next_milestone,omitempty"`
	Warnings      []string             `json:"warnings,omitempty"`
}

// Derive 从快照派生视图，不修改快照
func Derive(snap *model.Snapshot, p Params) *View {
	if snap == nil {
		snap = &model.Snapshot{}
	}
	ref := p.Reference
	if ref.IsZero() {
		ref = snap.FetchedAt
	}
	if ref.IsZero() {
		ref = time.Now()
	}
	lookback := p.HeatmapLookback
	if lookback <= 0 {
		lookback = heatmap.DefaultLookbackDays
	}
	ladder := p.Ladder
	if ladder == nil {
		ladder = milestone.DefaultLadder
	}

	v := &View{
		SnapshotID: snap.ID,
		Seq:        snap.Seq,
		WindowDays: p.WindowDays,
		Summary:    summarize(snap),
		Trends:     trend.ForSeries(snap.Series, p.WindowDays),
		Heatmap:    heatmap.Build(snap.Entries, lookback, ref),
		Insights:   insight.Generate(snap.Entries, snap.Series),
		Milestones: milestone.Compute(snap.Stats.CurrentStreak, ladder),
	}
	if len(snap.Series.Overall) == len(model.OverallLabels) {
		v.Overall = make(map[string]float64, len(model.OverallLabels))
		for i, label := range model.OverallLabels {
			v.Overall[label] = snap.Series.Overall[i]
		}
	}
	if next, remaining, ok := milestone.Next(v.Milestones, snap.Stats.CurrentStreak); ok {
		v.NextMilestone = &NextMilestone{Progress: next, DaysRemaining: remaining}
	}
	for _, w := range snap.Warnings {
		v.Warnings = append(v.Warnings, w.Error())
	}
	return v
}

// summarize 每周平均篇数 = 总篇数 / max(最长连续天数/7, 1)，保留一位小数
func summarize(snap *model.Snapshot) Summary {
	s := Summary{
		CurrentStreak: snap.Stats.CurrentStreak,
		LongestStreak: snap.Stats.LongestStreak,
		TotalEntries:  snap.Stats.TotalEntries,
		Achieved:      snap.Achieved,
	}
	if s.TotalEntries > 0 {
		weeks := math.Max(float64(s.LongestStreak)/7, 1)
		s.AvgPerWeek = math.Round(float64(s.TotalEntries)/weeks*10) / 10
	}
	return s
}

// Fetcher 加载快照，*loader.Loader 实现此接口
type Fetcher interface {
	Load(ctx context.Context, opts loader.Options) *model.Snapshot
}

// Session 一次分析视图会话
//
// 会话持有当前快照；窗口变化只重新派生视图，只有所需历史超过已获取的范围时才重新加载，
// 新快照整体替换旧快照。较早发起但较晚返回的加载结果会被丢弃。
type Session struct {
	fetcher Fetcher
	base    loader.Options

	mu   sync.RWMutex
	snap *model.Snapshot
}

// NewSession 创建会话，base 为首次加载使用的历史长度
func NewSession(f Fetcher, base loader.Options) *Session {
	return &Session{fetcher: f, base: base}
}

// Snapshot 当前快照，尚未加载时为 nil
func (s *Session) Snapshot() *model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Refresh 按 opts 重新加载并尝试替换当前快照，返回替换后的当前快照
func (s *Session) Refresh(ctx context.Context, opts loader.Options) *model.Snapshot {
	fresh := s.fetcher.Load(ctx, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap != nil && s.snap.Seq >= fresh.Seq {
		logger.Log.Debugf("丢弃过期快照 seq=%d (当前 seq=%d)", fresh.Seq, s.snap.Seq)
		return s.snap
	}
	s.snap = fresh
	return s.snap
}

// View 返回按 p 派生的视图，必要时先加载或扩大历史范围
func (s *Session) View(ctx context.Context, p Params) *View {
	needed := 2 * p.WindowDays

	snap := s.Snapshot()
	switch {
	case snap == nil:
		opts := s.base
		opts.SentimentDays = max(opts.SentimentDays, needed)
		snap = s.Refresh(ctx, opts)
	case needed > snap.SentimentDays:
		logger.Log.Infof("趋势窗口 %d 天超出已获取的 %d 天历史，重新加载", p.WindowDays, snap.SentimentDays)
		snap = s.Refresh(ctx, loader.Options{SentimentDays: needed, EntryDays: snap.EntryDays})
	}
	return Derive(snap, p)
}
