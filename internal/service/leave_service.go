package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository"
	"staffhub/pkg/daterange"
	pkgerrors "staffhub/pkg/errors"
)

// ── 请假模块业务错误 ──

var (
	ErrLeaveNotFound = errors.New("请假记录不存在")
)

// LeaveService 请假业务接口
//
// 写操作在同一事务内完成「锁定用户行 → 校验 → 写入」，
// 同一用户的并发请求串行化，不会同时通过校验后写入重叠记录。
type LeaveService interface {
	RecordLeave(ctx context.Context, caller Caller, req *dto.LeaveRequest) (*dto.LeaveResponse, error)
	// UpdateLeave 按其余请假记录重新校验（排除自身）
	UpdateLeave(ctx context.Context, caller Caller, id string, req *dto.LeaveRequest) (*dto.LeaveResponse, error)
	DeleteLeave(ctx context.Context, caller Caller, id string) error
	GetByID(ctx context.Context, caller Caller, id string) (*dto.LeaveResponse, error)
	List(ctx context.Context, caller Caller, req *dto.LeaveListRequest) ([]dto.LeaveResponse, error)
	// ValidateLeave 只校验不写入，excludeID 非空时按修改该记录处理
	ValidateLeave(ctx context.Context, caller Caller, req *dto.LeaveRequest, excludeID string) error
	// ExportCalendar 将请假导出为 iCalendar（全天事件）
	ExportCalendar(ctx context.Context, caller Caller, req *dto.LeaveListRequest) ([]byte, error)
	// ImportCalendar 从 iCalendar 批量导入请假，冲突事件跳过并在结果中列出
	ImportCalendar(ctx context.Context, caller Caller, userID string, r io.Reader) (*dto.LeaveImportResponse, error)
}

type leaveService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLeaveService 创建 LeaveService 实例
func NewLeaveService(repo *repository.Repository, logger *zap.Logger) LeaveService {
	return &leaveService{repo: repo, logger: logger}
}

// ────────────────────── RecordLeave ──────────────────────

func (s *leaveService) RecordLeave(ctx context.Context, caller Caller, req *dto.LeaveRequest) (*dto.LeaveResponse, error) {
	userID, err := resolveSubject(caller, req.UserID)
	if err != nil {
		return nil, err
	}
	rng, err := leaveRange(req)
	if err != nil {
		return nil, err
	}

	var leave *model.Leave
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := checkLeave(ctx, tx.Leave, userID, rng, ""); err != nil {
			return err
		}

		leave = &model.Leave{
			UserID:    userID,
			StartDate: model.NewDate(rng.Start),
			EndDate:   model.NewDate(rng.End),
			Reason:    req.Reason,
		}
		return tx.Leave.Create(ctx, leave)
	})
	if err != nil {
		return nil, classify(s.logger, "登记请假失败", err, zap.String("user_id", userID))
	}

	return toLeaveResponse(leave), nil
}

// ────────────────────── UpdateLeave ──────────────────────

func (s *leaveService) UpdateLeave(ctx context.Context, caller Caller, id string, req *dto.LeaveRequest) (*dto.LeaveResponse, error) {
	leave, err := s.getOwnedLeave(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	userID := leave.UserID
	if req.UserID != "" && req.UserID != leave.UserID {
		if !caller.IsStaff() {
			return nil, ErrForbidden
		}
		userID = req.UserID
	}
	rng, err := leaveRange(req)
	if err != nil {
		return nil, err
	}

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := checkLeave(ctx, tx.Leave, userID, rng, leave.LeaveID); err != nil {
			return err
		}

		leave.UserID = userID
		leave.User = nil
		leave.StartDate = model.NewDate(rng.Start)
		leave.EndDate = model.NewDate(rng.End)
		leave.Reason = req.Reason
		return tx.Leave.Update(ctx, leave)
	})
	if err != nil {
		return nil, classify(s.logger, "修改请假失败", err, zap.String("id", id))
	}

	return toLeaveResponse(leave), nil
}

// ────────────────────── DeleteLeave ──────────────────────

func (s *leaveService) DeleteLeave(ctx context.Context, caller Caller, id string) error {
	if _, err := s.getOwnedLeave(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Leave.Delete(ctx, id); err != nil {
		return classify(s.logger, "删除请假失败", err, zap.String("id", id))
	}
	return nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *leaveService) GetByID(ctx context.Context, caller Caller, id string) (*dto.LeaveResponse, error) {
	leave, err := s.getOwnedLeave(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return toLeaveResponse(leave), nil
}

func (s *leaveService) List(ctx context.Context, caller Caller, req *dto.LeaveListRequest) ([]dto.LeaveResponse, error) {
	leaves, err := s.list(ctx, caller, req)
	if err != nil {
		return nil, err
	}

	result := make([]dto.LeaveResponse, 0, len(leaves))
	for i := range leaves {
		result = append(result, *toLeaveResponse(&leaves[i]))
	}
	return result, nil
}

// ────────────────────── ValidateLeave ──────────────────────

func (s *leaveService) ValidateLeave(ctx context.Context, caller Caller, req *dto.LeaveRequest, excludeID string) error {
	userID, err := resolveSubject(caller, req.UserID)
	if err != nil {
		return err
	}
	if excludeID != "" {
		existing, err := s.getOwnedLeave(ctx, caller, excludeID)
		if err != nil {
			return err
		}
		if req.UserID == "" {
			userID = existing.UserID
		}
	}
	rng, err := leaveRange(req)
	if err != nil {
		return err
	}

	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Validation("user_id", "用户不存在")
		}
		return classify(s.logger, "查询用户失败", err)
	}

	return classify(s.logger, "校验请假失败", checkLeave(ctx, s.repo.Leave, userID, rng, excludeID))
}

// ────────────────────── ExportCalendar ──────────────────────

func (s *leaveService) ExportCalendar(ctx context.Context, caller Caller, req *dto.LeaveListRequest) ([]byte, error) {
	leaves, err := s.list(ctx, caller, req)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//staffhub//leave calendar//EN")

	for i := range leaves {
		l := &leaves[i]
		rng := l.Range()

		summary := "请假"
		if l.User != nil {
			summary = fmt.Sprintf("请假: %s", l.User.DisplayName())
		}

		event := cal.AddEvent(l.LeaveID + "@staffhub")
		event.SetSummary(summary)
		event.SetDtStampTime(l.CreatedAt)
		event.SetAllDayStartAt(rng.Start)
		// DTEND 为开区间，取结束日的次日
		event.SetAllDayEndAt(rng.End.AddDate(0, 0, 1))
		if l.Reason != "" {
			event.SetDescription(l.Reason)
		}
	}

	return []byte(cal.Serialize()), nil
}

// ── 内部辅助方法 ──

func (s *leaveService) list(ctx context.Context, caller Caller, req *dto.LeaveListRequest) ([]model.Leave, error) {
	userID := req.UserID
	if !caller.IsStaff() {
		if userID != "" && !caller.owns(userID) {
			return nil, ErrForbidden
		}
		userID = caller.UserID
	}

	from, err := parseOptionalDate("from", &req.From)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate("to", &req.To)
	if err != nil {
		return nil, err
	}

	leaves, err := s.repo.Leave.List(ctx, repository.LeaveFilter{UserID: userID, From: from, To: to})
	if err != nil {
		return nil, classify(s.logger, "列出请假失败", err)
	}
	return leaves, nil
}

// getOwnedLeave 经理、管理员可访问任意记录，工程师只能访问本人的
func (s *leaveService) getOwnedLeave(ctx context.Context, caller Caller, id string) (*model.Leave, error) {
	leave, err := s.repo.Leave.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		return nil, classify(s.logger, "查询请假失败", err, zap.String("id", id))
	}
	if !caller.IsStaff() && !caller.owns(leave.UserID) {
		return nil, ErrForbidden
	}
	return leave, nil
}

func leaveRange(req *dto.LeaveRequest) (daterange.Range, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return daterange.Range{}, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return daterange.Range{}, err
	}
	return daterange.New(start, &end), nil
}

// checkLeave 依次校验：区间有效 → 完全相同的请假 → 与其他请假重叠
// 相同区间必然重叠，先查重复以便返回更具体的错误
func checkLeave(ctx context.Context, leaves repository.LeaveRepository, userID string, rng daterange.Range, excludeID string) error {
	if !rng.Valid() {
		return pkgerrors.Validation("end_date", "结束日期不能早于开始日期")
	}

	dup, err := leaves.ExistsPeriod(ctx, userID, rng, excludeID)
	if err != nil {
		return err
	}
	if dup {
		return pkgerrors.Duplicate(fmt.Sprintf("%s 的请假记录已存在", rng))
	}

	candidates, err := leaves.FindOverlapping(ctx, userID, rng, excludeID)
	if err != nil {
		return err
	}
	for i := range candidates {
		if other := candidates[i].Range(); other.Overlaps(rng) {
			return pkgerrors.Overlap(fmt.Sprintf("与已有请假 %s 重叠", other))
		}
	}
	return nil
}

// resolveSubject 确定记录归属用户：未指定时为调用方本人，代他人操作需经理或管理员
func resolveSubject(caller Caller, requested string) (string, error) {
	if requested == "" || requested == caller.UserID {
		if caller.UserID == "" {
			return "", ErrForbidden
		}
		return caller.UserID, nil
	}
	if !caller.IsStaff() {
		return "", ErrForbidden
	}
	return requested, nil
}

// lockUser 在事务内锁定用户行，用户不存在时返回字段级校验错误
func lockUser(ctx context.Context, tx *repository.Repository, userID string) error {
	if _, err := tx.User.LockByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Validation("user_id", "用户不存在")
		}
		return err
	}
	return nil
}
