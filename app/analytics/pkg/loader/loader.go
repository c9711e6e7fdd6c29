package loader

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/wemind/app/analytics/pkg/datekey"
	"github.com/iWorld-y/wemind/app/analytics/pkg/logger"
	"github.com/iWorld-y/wemind/app/analytics/pkg/model"
)

// Source 三个互相独立的数据集来源
type Source interface {
	FetchStats(ctx context.Context) (model.Stats, []string, error)
	FetchSentiment(ctx context.Context, days int) (model.SentimentSeries, error)
	FetchEntries(ctx context.Context, days int) ([]model.JournalEntry, error)
}

// Options 一次加载请求的历史长度
type Options struct {
	SentimentDays int
	EntryDays     int
}

// Loader 并发获取三个数据集并合成快照
type Loader struct {
	src Source
	seq atomic.Uint64
	now func() time.Time
}

// New 创建 Loader
func New(src Source) *Loader {
	return &Loader{src: src, now: time.Now}
}

// Load 并发获取三个数据集，等待全部结束后返回快照
//
// 任何一段失败都不会影响另外两段：失败的一段保持空值并记录到 Snapshot.Warnings。
func (l *Loader) Load(ctx context.Context, opts Options) *model.Snapshot {
	snap := &model.Snapshot{
		ID:            uuid.NewString(),
		Seq:           l.seq.Add(1),
		SentimentDays: opts.SentimentDays,
		EntryDays:     opts.EntryDays,
		Entries:       []model.JournalEntry{},
	}
	log := logger.Log.WithFields(logrus.Fields{"snapshot": snap.ID, "seq": snap.Seq})

	var (
		g            errgroup.Group
		stats        model.Stats
		achieved     []string
		series       model.SentimentSeries
		entries      []model.JournalEntry
		errStats     error
		errSentiment error
		errEntries   error
	)
	g.Go(func() error {
		stats, achieved, errStats = l.src.FetchStats(ctx)
		return nil
	})
	g.Go(func() error {
		series, errSentiment = l.src.FetchSentiment(ctx, opts.SentimentDays)
		return nil
	})
	g.Go(func() error {
		entries, errEntries = l.src.FetchEntries(ctx, opts.EntryDays)
		return nil
	})
	_ = g.Wait()

	snap.FetchedAt = l.now()
	aligner := datekey.Aligner{Reference: snap.FetchedAt}

	warn := func(section model.Section, err error) {
		log.WithField("section", section).Warnf("数据段获取失败，使用空数据: %v", err)
		snap.Warnings = append(snap.Warnings, &model.SectionError{Section: section, Err: err})
	}

	if errStats != nil {
		warn(model.SectionStats, errStats)
	} else {
		snap.Stats = stats
		snap.Achieved = achieved
	}

	if errSentiment == nil {
		errSentiment = series.Validate()
	}
	if errSentiment != nil {
		warn(model.SectionSentiment, errSentiment)
	} else {
		var skipped int
		snap.Series, skipped = alignSeries(aligner, series)
		snap.Skipped += skipped
	}

	if errEntries != nil {
		warn(model.SectionEntries, errEntries)
	} else {
		var skipped int
		snap.Entries, skipped = alignEntries(aligner, entries)
		snap.Skipped += skipped
	}

	if snap.Skipped > 0 {
		log.Warnf("%d 条记录日期无法解析，已跳过", snap.Skipped)
	}
	log.Debugf("快照加载完成: %d 篇日记, %d 个情绪样本", len(snap.Entries), snap.Series.Len())
	return snap
}

// alignEntries 为每篇日记填充规范日期，日期非法的日记保留但 Key 为空
func alignEntries(a datekey.Aligner, in []model.JournalEntry) ([]model.JournalEntry, int) {
	out := make([]model.JournalEntry, len(in))
	skipped := 0
	for i, e := range in {
		k, err := a.Canonicalize(e.Date)
		if err != nil {
			skipped++
			k = ""
		}
		e.Key = k
		out[i] = e
	}
	return out, skipped
}

// alignSeries 规范化序列日期标签，无法解析的下标在所有数组中同步删除
func alignSeries(a datekey.Aligner, s model.SentimentSeries) (model.SentimentSeries, int) {
	keys := make([]datekey.Key, len(s.Dates))
	skip := map[int]bool{}
	for i, d := range s.Dates {
		k, err := a.Canonicalize(d)
		if err != nil {
			skip[i] = true
			continue
		}
		keys[i] = k
	}
	s.Keys = keys
	return s.Drop(skip), len(skip)
}
