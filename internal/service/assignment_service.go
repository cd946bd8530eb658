package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository"
	"staffhub/pkg/daterange"
	pkgerrors "staffhub/pkg/errors"
)

// ── 项目分配模块业务错误 ──

var (
	ErrAssignmentNotFound = errors.New("项目分配不存在")
)

// AssignmentService 项目分配业务接口，仅校验引用完整性与日期先后
type AssignmentService interface {
	Create(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error)
	GetByID(ctx context.Context, caller Caller, id string) (*dto.AssignmentResponse, error)
	List(ctx context.Context, caller Caller, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

func (s *assignmentService) Create(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}

	a := &model.Assignment{
		EngineerID:    req.EngineerID,
		ProjectID:     req.ProjectID,
		StartDate:     model.NewDate(start),
		EndDate:       model.NewDatePtr(end),
		HoursWorked:   req.HoursWorked,
		RoleInProject: req.RoleInProject,
	}
	if err := s.validate(ctx, a); err != nil {
		return nil, err
	}

	if err := s.repo.Assignment.Create(ctx, a); err != nil {
		return nil, classify(s.logger, "创建项目分配失败", err)
	}
	return toAssignmentResponse(a), nil
}

func (s *assignmentService) GetByID(ctx context.Context, caller Caller, id string) (*dto.AssignmentResponse, error) {
	a, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff() && !caller.owns(a.EngineerID) {
		return nil, ErrForbidden
	}
	return toAssignmentResponse(a), nil
}

func (s *assignmentService) List(ctx context.Context, caller Caller, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, error) {
	engineerID := req.EngineerID
	if !caller.IsStaff() {
		if engineerID != "" && !caller.owns(engineerID) {
			return nil, ErrForbidden
		}
		engineerID = caller.UserID
	}

	list, err := s.repo.Assignment.List(ctx, repository.AssignmentFilter{
		EngineerID: engineerID,
		ProjectID:  req.ProjectID,
	})
	if err != nil {
		return nil, classify(s.logger, "列出项目分配失败", err)
	}
	return toAssignmentResponses(list), nil
}

func (s *assignmentService) Update(ctx context.Context, id string, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	a, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StartDate != nil {
		start, err := parseDate("start_date", *req.StartDate)
		if err != nil {
			return nil, err
		}
		a.StartDate = model.NewDate(start)
	}
	if req.EndDate != nil {
		end, err := parseOptionalDate("end_date", req.EndDate)
		if err != nil {
			return nil, err
		}
		a.EndDate = model.NewDatePtr(end)
	}
	if req.HoursWorked != nil {
		a.HoursWorked = *req.HoursWorked
	}
	if req.RoleInProject != nil {
		a.RoleInProject = *req.RoleInProject
	}
	if err := s.validate(ctx, a); err != nil {
		return nil, err
	}

	if err := s.repo.Assignment.Update(ctx, a); err != nil {
		return nil, classify(s.logger, "更新项目分配失败", err, zap.String("id", id))
	}
	return toAssignmentResponse(a), nil
}

func (s *assignmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.getAssignment(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Assignment.Delete(ctx, id); err != nil {
		return classify(s.logger, "删除项目分配失败", err, zap.String("id", id))
	}
	return nil
}

// validate 工程师、项目存在且日期先后正确
func (s *assignmentService) validate(ctx context.Context, a *model.Assignment) error {
	if a.HoursWorked < 0 {
		return pkgerrors.Validation("hours_worked", "工时不能为负数")
	}
	if a.EndDate != nil {
		rng := daterange.New(model.DateTime(a.StartDate), model.DateTimePtr(a.EndDate))
		if !rng.Valid() {
			return pkgerrors.Validation("end_date", "结束日期不能早于开始日期")
		}
	}
	if _, err := s.repo.User.GetByID(ctx, a.EngineerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Validation("engineer_id", "工程师不存在")
		}
		return classify(s.logger, "查询工程师失败", err)
	}
	if _, err := s.repo.Project.GetByID(ctx, a.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Validation("project_id", "项目不存在")
		}
		return classify(s.logger, "查询项目失败", err)
	}
	return nil
}

func (s *assignmentService) getAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	a, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, classify(s.logger, "查询项目分配失败", err, zap.String("id", id))
	}
	return a, nil
}

func toAssignmentResponses(list []model.Assignment) []dto.AssignmentResponse {
	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toAssignmentResponse(&list[i]))
	}
	return result
}
