package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/cache"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
	"github.com/shiftsense-dev/shiftsense/backend/internal/solver"
)

// ForecastResult 是预测读路径的返回：历史需求序列加上游的预测结果
type ForecastResult struct {
	History  []solver.TSPoint         `json:"history"`
	Forecast *solver.ForecastResponse `json:"forecast"`
}

// Forecast 用需求模板反推出历史每日需求序列，交给预测服务外推。
// 结果缓存 ForecastTTL；这里的审计是尽力而为的，失败只记日志
func (s *Service) Forecast(ctx context.Context, orgRef string, horizonDays int) (*ForecastResult, error) {
	orgID, err := s.resolveOrg(orgRef)
	if err != nil {
		return nil, err
	}

	if horizonDays <= 0 {
		horizonDays = 14
	}

	key := cache.ForecastKey(orgID, horizonDays)

	cached := &ForecastResult{}
	if s.cache.GetJSON(ctx, key, cached) {
		return cached, nil
	}

	templates, err := s.store.GetDemandTemplatesByOrgID(orgID, nil)
	if err != nil {
		return nil, err
	}

	series := buildDemandSeries(templates, s.cfg.Forecast.HistoryWeeks, time.Now())

	resp, err := s.solver.Forecast(ctx, &solver.ForecastRequest{
		Series:         series,
		HorizonDays:    horizonDays,
		SeasonalPeriod: s.cfg.Forecast.SeasonalPeriod,
		BacktestFolds:  s.cfg.Forecast.BacktestFolds,
	})
	if err != nil {
		return nil, &UpstreamError{Detail: err.Error(), Err: err}
	}

	result := &ForecastResult{History: series, Forecast: resp}

	s.cache.SetJSON(ctx, key, result, s.forecastTTL())

	if err := s.audit.Record(&domain.AuditLog{
		OrgID:    orgID,
		Entity:   "Forecast",
		EntityID: orgID,
		Action:   domain.AuditActionForecastRun,
		Meta:     map[string]any{"horizonDays": horizonDays},
	}); err != nil {
		slog.Warn("预测审计事件写入失败，忽略", "orgID", orgID, "error", err)
	}

	return result, nil
}

// buildDemandSeries 把每周重复的需求模式按星期几汇总，
// 再往回铺成 weeks 周的每日需求序列
func buildDemandSeries(templates []*domain.ShiftDemandTemplate, weeks int, ref time.Time) []solver.TSPoint {
	weekdayTotals := make([]float64, 7)
	for _, t := range templates {
		weekdayTotals[t.Weekday%7] += float64(t.Required)
	}

	days := weeks * 7
	series := make([]solver.TSPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := ref.AddDate(0, 0, -i)
		series = append(series, solver.TSPoint{
			DS: d.Format("2006-01-02"),
			Y:  weekdayTotals[int(d.Weekday())],
		})
	}

	return series
}
