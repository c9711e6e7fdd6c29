package loader

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/iWorld-y/wemind/app/analytics/pkg/datekey"
	"github.com/iWorld-y/wemind/app/analytics/pkg/model"
)

// fakeSource 模拟数据服务
type fakeSource struct {
	stats     model.Stats
	series    model.SentimentSeries
	entries   []model.JournalEntry
	statsErr  error
	seriesErr error
	entryErr  error

	sentimentDays atomic.Int64
	entryDays     atomic.Int64
}

func (f *fakeSource) FetchStats(ctx context.Context) (model.Stats, []string, error) {
	if f.statsErr != nil {
		return model.Stats{}, nil, f.statsErr
	}
	return f.stats, []string{"🔥 Impegno"}, nil
}

func (f *fakeSource) FetchSentiment(ctx context.Context, days int) (model.SentimentSeries, error) {
	f.sentimentDays.Store(int64(days))
	return f.series, f.seriesErr
}

func (f *fakeSource) FetchEntries(ctx context.Context, days int) ([]model.JournalEntry, error) {
	f.entryDays.Store(int64(days))
	return f.entries, f.entryErr
}

func fixedLoader(src Source) *Loader {
	l := New(src)
	l.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	return l
}

func TestLoad_AllSections(t *testing.T) {
	src := &fakeSource{
		stats: model.Stats{CurrentStreak: 3, LongestStreak: 5, TotalEntries: 12},
		series: model.SentimentSeries{
			Dates:     []string{"08/03", "09/03"},
			Stress:    []float64{5, 4},
			Happiness: []float64{6, 7},
			Energy:    []float64{6, 6},
		},
		entries: []model.JournalEntry{
			{Date: "2024-03-09T22:00:00", Text: "b"},
			{Date: "2024-03-08", Text: "a"},
		},
	}

	snap := fixedLoader(src).Load(context.Background(), Options{SentimentDays: 30, EntryDays: 372})
	if err := snap.Err(); err != nil {
		t.Fatalf("Load() warnings = %v", err)
	}
	if snap.ID == "" || snap.Seq != 1 {
		t.Errorf("snapshot id/seq = %q/%d", snap.ID, snap.Seq)
	}
	if src.sentimentDays.Load() != 30 || src.entryDays.Load() != 372 {
		t.Errorf("days forwarded = %d/%d, want 30/372", src.sentimentDays.Load(), src.entryDays.Load())
	}
	if snap.Stats.CurrentStreak != 3 || len(snap.Achieved) != 1 {
		t.Errorf("stats = %+v achieved = %v", snap.Stats, snap.Achieved)
	}
	wantKeys := []datekey.Key{"2024-03-08", "2024-03-09"}
	if diff := cmp.Diff(wantKeys, snap.Series.Keys); diff != "" {
		t.Errorf("series keys mismatch (-want +got):\n%s", diff)
	}
	if snap.Entries[0].Key != "2024-03-09" || snap.Entries[1].Key != "2024-03-08" {
		t.Errorf("entry keys = %s, %s", snap.Entries[0].Key, snap.Entries[1].Key)
	}
	if src.entries[0].Key != "" {
		t.Errorf("Load() mutated source entries")
	}
}

func TestLoad_PartialFailure(t *testing.T) {
	netErr := errors.New("connection refused")
	src := &fakeSource{
		statsErr: netErr,
		series: model.SentimentSeries{
			Dates:     []string{"01/03"},
			Stress:    []float64{5},
			Happiness: []float64{6},
			Energy:    []float64{6},
		},
		entryErr: netErr,
	}

	snap := fixedLoader(src).Load(context.Background(), Options{SentimentDays: 30, EntryDays: 30})
	if len(snap.Warnings) != 2 {
		t.Fatalf("Warnings = %v, want 2", snap.Warnings)
	}
	if snap.Warnings[0].Section != model.SectionStats || snap.Warnings[1].Section != model.SectionEntries {
		t.Errorf("warning sections = %s, %s", snap.Warnings[0].Section, snap.Warnings[1].Section)
	}
	if !errors.Is(snap.Err(), netErr) {
		t.Errorf("Err() = %v, want to wrap the fetch error", snap.Err())
	}
	if snap.Stats != (model.Stats{}) {
		t.Errorf("Stats = %+v, want zero value", snap.Stats)
	}
	if snap.Entries == nil || len(snap.Entries) != 0 {
		t.Errorf("Entries = %v, want empty non-nil list", snap.Entries)
	}
	if snap.Series.Len() != 1 {
		t.Errorf("Series.Len() = %d, want 1", snap.Series.Len())
	}
}

func TestLoad_MisalignedSeriesRejected(t *testing.T) {
	src := &fakeSource{
		series: model.SentimentSeries{
			Dates:     []string{"01/03", "02/03"},
			Stress:    []float64{5, 4},
			Happiness: []float64{6},
			Energy:    []float64{6, 6},
		},
		entries: []model.JournalEntry{},
	}
	snap := fixedLoader(src).Load(context.Background(), Options{})
	if !errors.Is(snap.Err(), model.ErrMisaligned) {
		t.Errorf("Err() = %v, want ErrMisaligned", snap.Err())
	}
	if !snap.Series.IsEmpty() {
		t.Errorf("Series = %+v, want empty", snap.Series)
	}
}

func TestLoad_SkipsBadRecords(t *testing.T) {
	src := &fakeSource{
		series: model.SentimentSeries{
			Dates:     []string{"01/03", "??", "03/03"},
			Stress:    []float64{1, 2, 3},
			Happiness: []float64{4, 5, 6},
			Energy:    []float64{7, 8, 9},
		},
		entries: []model.JournalEntry{{Date: "bad"}, {Date: "2024-03-01"}, {Date: "yesterday, maybe"}},
	}
	snap := fixedLoader(src).Load(context.Background(), Options{})
	if snap.Err() != nil {
		t.Fatalf("Err() = %v, want nil", snap.Err())
	}
	if snap.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", snap.Skipped)
	}

	want := model.SentimentSeries{
		Dates:     []string{"01/03", "03/03"},
		Stress:    []float64{1, 3},
		Happiness: []float64{4, 6},
		Energy:    []float64{7, 9},
		Keys:      []datekey.Key{"2024-03-01", "2024-03-03"},
	}
	if diff := cmp.Diff(want, snap.Series); diff != "" {
		t.Errorf("Series mismatch (-want +got):\n%s", diff)
	}
	if len(snap.Entries) != 3 || snap.Entries[0].Key != "" || snap.Entries[1].Key != "2024-03-01" || snap.Entries[2].Key != "" {
		t.Errorf("Entries = %+v", snap.Entries)
	}
}

func TestLoad_SeqIncreases(t *testing.T) {
	l := fixedLoader(&fakeSource{})
	a := l.Load(context.Background(), Options{})
	b := l.Load(context.Background(), Options{})
	if b.Seq <= a.Seq || a.ID == b.ID {
		t.Errorf("seq %d -> %d, ids %s %s", a.Seq, b.Seq, a.ID, b.ID)
	}
}
