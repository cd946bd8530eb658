package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository"
	"staffhub/pkg/daterange"
	pkgerrors "staffhub/pkg/errors"
)

// ── 工时模块业务错误 ──

var (
	ErrTimeEntryNotFound = errors.New("工时记录不存在")
)

// TimeEntryService 工时业务接口
//
// 已分配工时在事务内锁定用户行，未分配工时锁定项目行，
// 保证同一键的并发写入不会同时通过重复校验。
type TimeEntryService interface {
	RecordTimeEntry(ctx context.Context, caller Caller, req *dto.TimeEntryRequest) (*dto.TimeEntryResponse, error)
	// UpdateTimeEntry 重复校验排除自身，请假冲突校验照常执行
	UpdateTimeEntry(ctx context.Context, caller Caller, id string, req *dto.TimeEntryRequest) (*dto.TimeEntryResponse, error)
	DeleteTimeEntry(ctx context.Context, caller Caller, id string) error
	GetByID(ctx context.Context, caller Caller, id string) (*dto.TimeEntryResponse, error)
	List(ctx context.Context, caller Caller, req *dto.TimeEntryListRequest) ([]dto.TimeEntryResponse, error)
	// ValidateTimeEntry 只校验不写入，excludeID 非空时按修改该记录处理
	ValidateTimeEntry(ctx context.Context, caller Caller, req *dto.TimeEntryRequest, excludeID string) error
}

type timeEntryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimeEntryService 创建 TimeEntryService 实例
func NewTimeEntryService(repo *repository.Repository, logger *zap.Logger) TimeEntryService {
	return &timeEntryService{repo: repo, logger: logger}
}

// timeEntryInput 解析后的工时写入参数
type timeEntryInput struct {
	userID    *string
	projectID string
	rng       daterange.Range
	hasEnd    bool
	hours     float64
}

// ────────────────────── RecordTimeEntry ──────────────────────

func (s *timeEntryService) RecordTimeEntry(ctx context.Context, caller Caller, req *dto.TimeEntryRequest) (*dto.TimeEntryResponse, error) {
	userID, err := resolveEntrySubject(caller, req.UserID)
	if err != nil {
		return nil, err
	}
	in, err := parseTimeEntry(userID, req)
	if err != nil {
		return nil, err
	}

	var entry *model.TimeEntry
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := lockEntryKey(ctx, tx, in); err != nil {
			return err
		}
		if err := checkTimeEntry(ctx, tx, in, ""); err != nil {
			return err
		}

		entry = &model.TimeEntry{WorkDescription: req.WorkDescription}
		in.apply(entry)
		return tx.TimeEntry.Create(ctx, entry)
	})
	if err != nil {
		return nil, classify(s.logger, "登记工时失败", err, zap.String("project_id", in.projectID))
	}

	return toTimeEntryResponse(entry), nil
}

// ────────────────────── UpdateTimeEntry ──────────────────────

func (s *timeEntryService) UpdateTimeEntry(ctx context.Context, caller Caller, id string, req *dto.TimeEntryRequest) (*dto.TimeEntryResponse, error) {
	entry, err := s.getOwnedEntry(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	// 经理、管理员不传 user_id 时保持原归属，传空串表示改为未分配
	requested := req.UserID
	if requested == nil {
		requested = entry.UserID
	}
	userID, err := resolveEntrySubject(caller, requested)
	if err != nil {
		return nil, err
	}
	in, err := parseTimeEntry(userID, req)
	if err != nil {
		return nil, err
	}

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := lockEntryKey(ctx, tx, in); err != nil {
			return err
		}
		if err := checkTimeEntry(ctx, tx, in, entry.TimeEntryID); err != nil {
			return err
		}

		in.apply(entry)
		entry.WorkDescription = req.WorkDescription
		entry.User = nil
		entry.Project = nil
		return tx.TimeEntry.Update(ctx, entry)
	})
	if err != nil {
		return nil, classify(s.logger, "修改工时失败", err, zap.String("id", id))
	}

	return toTimeEntryResponse(entry), nil
}

// ────────────────────── DeleteTimeEntry ──────────────────────

func (s *timeEntryService) DeleteTimeEntry(ctx context.Context, caller Caller, id string) error {
	if _, err := s.getOwnedEntry(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.TimeEntry.Delete(ctx, id); err != nil {
		return classify(s.logger, "删除工时失败", err, zap.String("id", id))
	}
	return nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *timeEntryService) GetByID(ctx context.Context, caller Caller, id string) (*dto.TimeEntryResponse, error) {
	entry, err := s.getOwnedEntry(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return toTimeEntryResponse(entry), nil
}

func (s *timeEntryService) List(ctx context.Context, caller Caller, req *dto.TimeEntryListRequest) ([]dto.TimeEntryResponse, error) {
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

	entries, err := s.repo.TimeEntry.List(ctx, repository.TimeEntryFilter{
		UserID:    userID,
		ProjectID: req.ProjectID,
		From:      from,
		To:        to,
	})
	if err != nil {
		return nil, classify(s.logger, "列出工时失败", err)
	}
	return toTimeEntryResponses(entries), nil
}

// ────────────────────── ValidateTimeEntry ──────────────────────

func (s *timeEntryService) ValidateTimeEntry(ctx context.Context, caller Caller, req *dto.TimeEntryRequest, excludeID string) error {
	requested := req.UserID
	if excludeID != "" {
		existing, err := s.getOwnedEntry(ctx, caller, excludeID)
		if err != nil {
			return err
		}
		// 与修改一致：不传 user_id 时按原归属校验
		if requested == nil {
			requested = existing.UserID
		}
	}

	userID, err := resolveEntrySubject(caller, requested)
	if err != nil {
		return err
	}
	in, err := parseTimeEntry(userID, req)
	if err != nil {
		return err
	}

	if in.userID != nil {
		if _, err := s.repo.User.GetByID(ctx, *in.userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Validation("user_id", "用户不存在")
			}
			return classify(s.logger, "查询用户失败", err)
		}
	}
	if _, err := s.repo.Project.GetByID(ctx, in.projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Validation("project_id", "项目不存在")
		}
		return classify(s.logger, "查询项目失败", err)
	}

	return classify(s.logger, "校验工时失败", checkTimeEntry(ctx, s.repo, in, excludeID))
}

// ── 内部辅助方法 ──

// getOwnedEntry 经理、管理员可访问任意记录，工程师只能访问本人的
func (s *timeEntryService) getOwnedEntry(ctx context.Context, caller Caller, id string) (*model.TimeEntry, error) {
	entry, err := s.repo.TimeEntry.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeEntryNotFound
		}
		return nil, classify(s.logger, "查询工时失败", err, zap.String("id", id))
	}
	if !caller.IsStaff() && !caller.ownsPtr(entry.UserID) {
		return nil, ErrForbidden
	}
	return entry, nil
}

// resolveEntrySubject 工程师只能为本人登记；经理、管理员未指定用户时登记为未分配工时
func resolveEntrySubject(caller Caller, requested *string) (*string, error) {
	if caller.IsStaff() {
		if requested == nil || *requested == "" {
			return nil, nil
		}
		id := *requested
		return &id, nil
	}
	if caller.UserID == "" {
		return nil, ErrForbidden
	}
	if requested != nil && *requested != "" && *requested != caller.UserID {
		return nil, ErrForbidden
	}
	id := caller.UserID
	return &id, nil
}

func parseTimeEntry(userID *string, req *dto.TimeEntryRequest) (*timeEntryInput, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}

	in := &timeEntryInput{
		userID:    userID,
		projectID: req.ProjectID,
		rng:       daterange.New(start, end),
		hasEnd:    end != nil,
		hours:     req.HoursSpent,
	}
	return in, nil
}

func (in *timeEntryInput) apply(entry *model.TimeEntry) {
	entry.UserID = in.userID
	entry.ProjectID = in.projectID
	entry.StartDate = model.NewDate(in.rng.Start)
	entry.EndDate = nil
	if in.hasEnd {
		entry.EndDate = model.NewDatePtr(&in.rng.End)
	}
	entry.HoursSpent = in.hours
}

// lockEntryKey 已分配工时锁定用户行并确认项目存在；未分配工时锁定项目行
func lockEntryKey(ctx context.Context, tx *repository.Repository, in *timeEntryInput) error {
	if in.userID != nil {
		if err := lockUser(ctx, tx, *in.userID); err != nil {
			return err
		}
		if _, err := tx.Project.GetByID(ctx, in.projectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Validation("project_id", "项目不存在")
			}
			return err
		}
		return nil
	}

	if _, err := tx.Project.LockByID(ctx, in.projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Validation("project_id", "项目不存在")
		}
		return err
	}
	return nil
}

// checkTimeEntry 依次校验：工时非负 → 区间有效 → (用户, 开始日期, 项目) 唯一 → 不落在请假期间
// 未分配工时没有可比对的请假，跳过请假冲突校验
func checkTimeEntry(ctx context.Context, repo *repository.Repository, in *timeEntryInput, excludeID string) error {
	if in.hours < 0 {
		return pkgerrors.Validation("hours_spent", "工时不能为负数")
	}
	if !in.rng.Valid() {
		return pkgerrors.Validation("end_date", "结束日期不能早于开始日期")
	}

	dup, err := repo.TimeEntry.ExistsKey(ctx, in.userID, in.rng.Start, in.projectID, excludeID)
	if err != nil {
		return err
	}
	if dup {
		return pkgerrors.Duplicate(fmt.Sprintf("%s 已有该项目的工时记录", in.rng.Start.Format(daterange.Layout)))
	}

	if in.userID == nil {
		return nil
	}

	leaves, err := repo.Leave.FindOverlapping(ctx, *in.userID, in.rng, "")
	if err != nil {
		return err
	}
	for i := range leaves {
		if leave := leaves[i].Range(); leave.Overlaps(in.rng) {
			return pkgerrors.LeaveConflict(fmt.Sprintf("%s 处于请假期间 %s", in.rng, leave))
		}
	}
	return nil
}

func toTimeEntryResponses(entries []model.TimeEntry) []dto.TimeEntryResponse {
	result := make([]dto.TimeEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, *toTimeEntryResponse(&entries[i]))
	}
	return result
}
