package service

import (
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/wemind/app/display/internal/usecase"
)

const csvContentType = "text/csv; charset=utf-8"

type AnalyticsService struct {
	uc  *usecase.AnalyticsUseCase
	log *log.Helper
}

func NewAnalyticsService(uc *usecase.AnalyticsUseCase, logger log.Logger) *AnalyticsService {
	return &AnalyticsService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

// GetView GET /api/analytics/view?window=N&refresh=1
func (s *AnalyticsService) GetView(ctx http.Context) error {
	q := ctx.Query()
	window, err := intParam(q.Get("window"), s.uc.DefaultWindow())
	if err != nil {
		return err
	}
	refresh := q.Get("refresh") == "1" || q.Get("refresh") == "true"

	v, err := s.uc.View(ctx, window, refresh)
	if err != nil {
		return err
	}
	return ctx.Result(200, v)
}

// GetHeatmap GET /api/analytics/heatmap?lookback=N
func (s *AnalyticsService) GetHeatmap(ctx http.Context) error {
	lookback, err := intParam(ctx.Query().Get("lookback"), 365)
	if err != nil {
		return err
	}
	g, err := s.uc.Heatmap(ctx, lookback)
	if err != nil {
		return err
	}
	return ctx.Result(200, g)
}

// ExportCSV GET /api/analytics/export.csv
func (s *AnalyticsService) ExportCSV(ctx http.Context) error {
	data, err := s.uc.ExportCSV(ctx)
	if err != nil {
		s.log.WithContext(ctx).Errorf("export failed: %v", err)
		return errors.InternalServer("EXPORT_FAILED", err.Error())
	}
	ctx.Response().Header().Set("Content-Disposition", `attachment; filename="wemind-export.csv"`)
	return ctx.Blob(200, csvContentType, data)
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.BadRequest("INVALID_PARAM", "query parameter must be an integer: "+raw)
	}
	return n, nil
}
