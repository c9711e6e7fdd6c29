package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/wemind/app/analytics/pkg/loader"
	"github.com/iWorld-y/wemind/app/analytics/pkg/model"
	"github.com/iWorld-y/wemind/app/display/internal/domain"
)

// mockSnapshotRepo 模拟快照仓库
type mockSnapshotRepo struct {
	mu    sync.Mutex
	seq   uint64
	calls []loader.Options
}

func (m *mockSnapshotRepo) Load(ctx context.Context, opts loader.Options) *model.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.calls = append(m.calls, opts)
	return &model.Snapshot{
		ID:            "snap",
		Seq:           m.seq,
		FetchedAt:     time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		SentimentDays: opts.SentimentDays,
		EntryDays:     opts.EntryDays,
		Stats:         model.Stats{CurrentStreak: 2, LongestStreak: 7, TotalEntries: 2},
		Entries: []model.JournalEntry{
			{Date: "2024-03-09", Key: "2024-03-09", Text: `said "hi"`},
			{Date: "2024-03-08", Key: "2024-03-08", Text: "ok"},
		},
	}
}

func newTestUseCase() (*AnalyticsUseCase, *mockSnapshotRepo) {
	repo := &mockSnapshotRepo{}
	uc := NewAnalyticsUseCase(repo, domain.Defaults{
		TrendWindow:     7,
		SentimentDays:   30,
		EntryDays:       372,
		HeatmapLookback: 365,
	}, log.DefaultLogger)
	return uc, repo
}

func TestAnalyticsUseCase_View(t *testing.T) {
	uc, repo := newTestUseCase()

	v, err := uc.View(context.Background(), 7, false)
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if v.Summary.TotalEntries != 2 || v.WindowDays != 7 {
		t.Errorf("View() = %+v", v.Summary)
	}
	if _, err := uc.View(context.Background(), 14, false); err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if len(repo.calls) != 1 {
		t.Errorf("loads = %d, want 1", len(repo.calls))
	}

	if _, err := uc.View(context.Background(), 7, true); err != nil {
		t.Fatalf("View(refresh) error = %v", err)
	}
	if len(repo.calls) != 2 {
		t.Errorf("loads after refresh = %d, want 2", len(repo.calls))
	}
}

func TestAnalyticsUseCase_InvalidParams(t *testing.T) {
	uc, _ := newTestUseCase()

	if _, err := uc.View(context.Background(), 0, false); !errors.IsBadRequest(err) {
		t.Errorf("View(0) error = %v, want bad request", err)
	}
	if _, err := uc.Heatmap(context.Background(), -1); !errors.IsBadRequest(err) {
		t.Errorf("Heatmap(-1) error = %v, want bad request", err)
	}
}

func TestAnalyticsUseCase_Heatmap(t *testing.T) {
	uc, _ := newTestUseCase()

	g, err := uc.Heatmap(context.Background(), 30)
	if err != nil {
		t.Fatalf("Heatmap() error = %v", err)
	}
	if c, ok := g.Lookup("2024-03-09"); !ok || c.Count != 1 {
		t.Errorf("Lookup(2024-03-09) = %+v %v", c, ok)
	}
}

func TestAnalyticsUseCase_ExportCSV(t *testing.T) {
	uc, _ := newTestUseCase()

	data, err := uc.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("ExportCSV() lines = %d, want 3", len(lines))
	}
	if lines[1] != `2024-03-09,"said ""hi""",0,0,0` {
		t.Errorf("row = %s", lines[1])
	}
}
