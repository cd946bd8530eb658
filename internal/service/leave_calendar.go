package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository"
	"staffhub/pkg/daterange"
	pkgerrors "staffhub/pkg/errors"
)

// ── iCalendar 请假导入 ──────────────────────────────────────
//
// 每个 VEVENT 对应一条请假：
//   - 全天事件 (VALUE=DATE) 的 DTEND 为开区间，取前一天为结束日
//   - 带时间的事件按 DTSTART/DTEND 所在日期取闭区间，DTEND 恰为零点时不计当天
//   - 无 DTEND 视为单日；DTEND 无法解析或早于 DTSTART 的事件跳过
//   - 带 RRULE 的重复事件不导入
// ─────────────────────────────────────────────────────────────

const maxLeaveReasonRunes = 200

// 导入结果中非业务规则的跳过原因
const (
	skipUnsupported = "unsupported"
	skipInvalid     = "invalid"
)

// calendarLeave 解析后的日历请假
type calendarLeave struct {
	summary string
	rng     daterange.Range
	skip    *dto.LeaveImportSkip // 非空表示解析阶段即被跳过
}

// parseLeaveCalendar 解析 iCalendar 内容，格式错误返回字段级校验错误
func parseLeaveCalendar(r io.Reader) ([]calendarLeave, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, pkgerrors.Validation("file", fmt.Sprintf("iCalendar 格式解析失败: %v", err))
	}

	events := cal.Events()
	result := make([]calendarLeave, 0, len(events))
	for _, evt := range events {
		result = append(result, parseLeaveEvent(evt))
	}
	return result, nil
}

func parseLeaveEvent(evt *ics.VEvent) calendarLeave {
	var out calendarLeave
	if p := evt.GetProperty(ics.ComponentPropertySummary); p != nil {
		out.summary = strings.TrimSpace(p.Value)
	}

	if evt.GetProperty(ics.ComponentPropertyRrule) != nil {
		out.skip = &dto.LeaveImportSkip{Summary: out.summary, Kind: skipUnsupported, Message: "不支持重复事件"}
		return out
	}

	start, _, err := parseICSDate(evt, ics.ComponentPropertyDtStart)
	if err != nil {
		out.skip = &dto.LeaveImportSkip{Summary: out.summary, Kind: skipInvalid, Message: err.Error()}
		return out
	}

	end := start
	if evt.GetProperty(ics.ComponentPropertyDtEnd) != nil {
		t, allDay, err := parseICSDate(evt, ics.ComponentPropertyDtEnd)
		if err != nil {
			out.skip = &dto.LeaveImportSkip{Summary: out.summary, Kind: skipInvalid, Message: err.Error()}
			return out
		}
		switch {
		case allDay && t.Equal(start):
		case allDay:
			end = t.AddDate(0, 0, -1)
		case t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.After(start):
			end = t.AddDate(0, 0, -1)
		default:
			end = t
		}
	}

	out.rng = daterange.New(start, &end)
	if !out.rng.Valid() {
		out.skip = &dto.LeaveImportSkip{
			Summary:   out.summary,
			StartDate: start.Format(daterange.Layout),
			Kind:      skipInvalid,
			Message:   "DTEND 早于 DTSTART",
		}
	}
	return out
}

// parseICSDate 解析 DTSTART/DTEND，返回值是否为全天日期；带时区的时间换算为 UTC
func parseICSDate(evt *ics.VEvent, name ics.ComponentProperty) (time.Time, bool, error) {
	prop := evt.GetProperty(name)
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("缺少 %s", name)
	}
	val := strings.TrimSpace(prop.Value)

	if t, err := time.Parse("20060102", val); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse("20060102T150405Z", val); err == nil {
		return t, false, nil
	}
	if t, err := time.Parse("20060102T150405", val); err == nil {
		if tzid, ok := prop.ICalParameters[string(ics.ParameterTzid)]; ok && len(tzid) > 0 {
			if loc, err := time.LoadLocation(tzid[0]); err == nil {
				t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
			}
		}
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("无法解析日期: %s", val)
}

// ImportCalendar 逐条导入日历中的请假，每条独立事务；基础设施故障立即中止
func (s *leaveService) ImportCalendar(ctx context.Context, caller Caller, userID string, r io.Reader) (*dto.LeaveImportResponse, error) {
	subject, err := resolveSubject(caller, userID)
	if err != nil {
		return nil, err
	}
	events, err := parseLeaveCalendar(r)
	if err != nil {
		return nil, err
	}

	resp := &dto.LeaveImportResponse{
		Imported: make([]dto.LeaveResponse, 0, len(events)),
		Skipped:  make([]dto.LeaveImportSkip, 0),
	}

	for _, evt := range events {
		if evt.skip != nil {
			resp.Skipped = append(resp.Skipped, *evt.skip)
			continue
		}

		leave, err := s.importOne(ctx, subject, evt)
		if err == nil {
			resp.Imported = append(resp.Imported, *toLeaveResponse(leave))
			continue
		}

		re, ok := pkgerrors.AsRule(err)
		if !ok {
			return nil, classify(s.logger, "导入请假失败", err, zap.String("user_id", subject))
		}
		// 用户不存在时后续事件同样失败
		if re.Kind == pkgerrors.KindValidation && re.Field == "user_id" {
			return nil, re
		}
		resp.Skipped = append(resp.Skipped, dto.LeaveImportSkip{
			Summary:   evt.summary,
			StartDate: evt.rng.Start.Format(daterange.Layout),
			EndDate:   evt.rng.End.Format(daterange.Layout),
			Kind:      string(re.Kind),
			Message:   re.Message,
		})
	}

	s.logger.Info("日历请假导入完成",
		zap.String("user_id", subject),
		zap.Int("imported", len(resp.Imported)),
		zap.Int("skipped", len(resp.Skipped)),
	)
	return resp, nil
}

func (s *leaveService) importOne(ctx context.Context, userID string, evt calendarLeave) (*model.Leave, error) {
	var leave *model.Leave
	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := checkLeave(ctx, tx.Leave, userID, evt.rng, ""); err != nil {
			return err
		}

		leave = &model.Leave{
			UserID:    userID,
			StartDate: model.NewDate(evt.rng.Start),
			EndDate:   model.NewDate(evt.rng.End),
			Reason:    truncateRunes(evt.summary, maxLeaveReasonRunes),
		}
		return tx.Leave.Create(ctx, leave)
	})
	return leave, err
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
