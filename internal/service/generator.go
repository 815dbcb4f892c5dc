package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/cache"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

// Generate 把 org 的所有需求模板展开成目标周的具体班次。
// 生成永远不是幂等的：每次调用都会产生一个新的 DRAFT 排班表，
// 即使该周已经存在别的排班表
func (s *Service) Generate(ctx context.Context, orgRef string, weekStartISO string) (*domain.Schedule, error) {
	orgID, err := s.resolveOrg(orgRef)
	if err != nil {
		return nil, err
	}

	weekStart, err := time.Parse("2006-01-02", weekStartISO)
	if err != nil {
		return nil, ErrInvalidWeekStart
	}
	weekEnd := weekStart.AddDate(0, 0, 7)

	templates, err := s.store.GetDemandTemplatesByOrgID(orgID, nil)
	if err != nil {
		return nil, err
	}

	schedule := &domain.Schedule{
		OrgID:     orgID,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Status:    domain.ScheduleStatusDraft,
		Shifts:    make([]domain.Shift, 0, len(templates)),
	}

	for _, t := range templates {
		// 班次日期 = 周起始日 + (weekday mod 7) 天，再拼上模板的当日时间
		day := weekStart.AddDate(0, 0, int(t.Weekday%7))

		start, err := combineDayAndTime(day, t.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := combineDayAndTime(day, t.EndTime)
		if err != nil {
			return nil, err
		}

		schedule.Shifts = append(schedule.Shifts, domain.Shift{
			LocationID: t.LocationID,
			RoleID:     t.RoleID,
			Start:      start,
			End:        end,
			Required:   t.Required,
		})
	}

	if err := s.store.CreateSchedule(schedule); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.MutationScheduleGenerated, cache.Scope{OrgID: orgID})

	// 生成没有不可逆的后果，审计是尽力而为的
	if err := s.audit.Record(&domain.AuditLog{
		OrgID:    orgID,
		Entity:   "Schedule",
		EntityID: schedule.ID,
		Action:   domain.AuditActionScheduleMake,
		Meta: map[string]any{
			"weekStart": weekStartISO,
			"shifts":    len(schedule.Shifts),
		},
	}); err != nil {
		slog.Warn("生成审计事件写入失败，忽略", "scheduleID", schedule.ID, "error", err)
	}

	// 走标准读路径返回，顺带填充排班表自己的缓存
	return s.GetSchedule(ctx, schedule.ID)
}

func combineDayAndTime(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
