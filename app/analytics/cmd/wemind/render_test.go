package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/iWorld-y/wemind/app/analytics/pkg/engine"
	"github.com/iWorld-y/wemind/app/analytics/pkg/heatmap"
	"github.com/iWorld-y/wemind/app/analytics/pkg/model"
	"github.com/iWorld-y/wemind/app/analytics/pkg/trend"
)

func TestFormatDelta(t *testing.T) {
	d := -12.5
	if got := formatDelta(trend.MetricTrend{Result: trend.Result{DeltaPercent: &d}}); got != "-12.5%" {
		t.Errorf("formatDelta() = %q", got)
	}
	if got := formatDelta(trend.MetricTrend{}); got != "n/a" {
		t.Errorf("formatDelta(nil) = %q", got)
	}
}

func TestRenderReport(t *testing.T) {
	snap := &model.Snapshot{
		FetchedAt: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		Stats:     model.Stats{CurrentStreak: 5, LongestStreak: 14, TotalEntries: 1200},
		Entries:   []model.JournalEntry{{Date: "2024-03-08", Key: "2024-03-08", Text: "a b c"}},
	}
	var buf bytes.Buffer
	renderReport(&buf, engine.Derive(snap, engine.Params{WindowDays: 7}))

	out := buf.String()
	for _, want := range []string{"1,200", "First Week", "2 more day(s)", "n/a"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHeatmap(t *testing.T) {
	ref := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	g := heatmap.Build([]model.JournalEntry{{Date: "2024-03-03", Key: "2024-03-03"}}, 365, ref)

	var buf bytes.Buffer
	renderHeatmap(&buf, g)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1+heatmap.DaysPerWeek {
		t.Fatalf("lines = %d, want %d", len(lines), 1+heatmap.DaysPerWeek)
	}
	if !strings.HasPrefix(lines[1], "Sun ") || !strings.Contains(lines[1], "░") {
		t.Errorf("sunday row = %q", lines[1])
	}
}
