package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/wemind/app/analytics/pkg/engine"
	"github.com/iWorld-y/wemind/app/analytics/pkg/export"
	"github.com/iWorld-y/wemind/app/analytics/pkg/heatmap"
	"github.com/iWorld-y/wemind/app/analytics/pkg/loader"
	"github.com/iWorld-y/wemind/app/analytics/pkg/model"
	"github.com/iWorld-y/wemind/app/display/internal/domain"
	"github.com/iWorld-y/wemind/app/display/internal/repo"
)

// AnalyticsUseCase 分析视图业务逻辑，整个服务共享一个会话
type AnalyticsUseCase struct {
	session  *engine.Session
	defaults domain.Defaults
	log      *log.Helper
}

// NewAnalyticsUseCase 创建分析业务逻辑实例
func NewAnalyticsUseCase(repo repo.SnapshotRepo, d domain.Defaults, logger log.Logger) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		session:  engine.NewSession(repo, loader.Options{SentimentDays: d.SentimentDays, EntryDays: d.EntryDays}),
		defaults: d,
		log:      log.NewHelper(logger),
	}
}

// DefaultWindow 未指定窗口时使用的趋势窗口
func (uc *AnalyticsUseCase) DefaultWindow() int {
	return uc.defaults.TrendWindow
}

// View 按趋势窗口派生视图，refresh 为真时先重新加载快照
func (uc *AnalyticsUseCase) View(ctx context.Context, window int, refresh bool) (*engine.View, error) {
	if window <= 0 {
		return nil, domain.ErrInvalidWindow
	}
	if refresh {
		uc.log.WithContext(ctx).Infof("refreshing snapshot for window %d", window)
		uc.session.Refresh(ctx, loader.Options{
			SentimentDays: max(uc.defaults.SentimentDays, 2*window),
			EntryDays:     uc.defaults.EntryDays,
		})
	}
	return uc.session.View(ctx, engine.Params{
		WindowDays:      window,
		HeatmapLookback: uc.defaults.HeatmapLookback,
	}), nil
}

// Heatmap 按回看天数重建热力图，参考日为快照获取时间
func (uc *AnalyticsUseCase) Heatmap(ctx context.Context, lookback int) (*heatmap.Grid, error) {
	if lookback <= 0 {
		return nil, domain.ErrInvalidLookback
	}
	snap := uc.current(ctx)
	return heatmap.Build(snap.Entries, lookback, snap.FetchedAt), nil
}

// ExportCSV 导出当前快照的全部日记
func (uc *AnalyticsUseCase) ExportCSV(ctx context.Context) ([]byte, error) {
	snap := uc.current(ctx)
	return []byte(export.CSV(snap.Entries)), nil
}

func (uc *AnalyticsUseCase) current(ctx context.Context) *model.Snapshot {
	if snap := uc.session.Snapshot(); snap != nil {
		return snap
	}
	return uc.session.Refresh(ctx, loader.Options{
		SentimentDays: uc.defaults.SentimentDays,
		EntryDays:     uc.defaults.EntryDays,
	})
}
