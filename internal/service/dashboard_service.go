package service

import (
	"context"

	"go.uber.org/zap"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository"
)

// DashboardService 按角色聚合看板数据，只读
type DashboardService interface {
	// Dashboard 未知角色或缺少身份时返回 ErrDashboardDenied
	Dashboard(ctx context.Context, caller Caller) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger}
}

func (s *dashboardService) Dashboard(ctx context.Context, caller Caller) (*dto.DashboardResponse, error) {
	if caller.UserID == "" {
		return nil, ErrDashboardDenied
	}

	resp := &dto.DashboardResponse{Role: caller.Role.String()}
	var err error

	switch caller.Role {
	case model.RoleEngineer:
		err = s.fillOwn(ctx, resp, caller.UserID)
	case model.RoleManager:
		err = s.fillProjectsAndEngineers(ctx, resp)
	case model.RoleAdmin:
		if err = s.fillProjectsAndEngineers(ctx, resp); err == nil {
			err = s.fillAll(ctx, resp)
		}
	default:
		return nil, ErrDashboardDenied
	}

	if err != nil {
		return nil, classify(s.logger, "加载看板失败", err, zap.String("role", caller.Role.String()))
	}
	return resp, nil
}

// fillOwn 工程师：仅本人的项目分配与工时
func (s *dashboardService) fillOwn(ctx context.Context, resp *dto.DashboardResponse, userID string) error {
	assignments, err := s.repo.Assignment.List(ctx, repository.AssignmentFilter{EngineerID: userID})
	if err != nil {
		return err
	}
	entries, err := s.repo.TimeEntry.List(ctx, repository.TimeEntryFilter{UserID: userID})
	if err != nil {
		return err
	}

	resp.Assignments = toAssignmentResponses(assignments)
	resp.TimeEntries = toTimeEntryResponses(entries)
	return nil
}

func (s *dashboardService) fillProjectsAndEngineers(ctx context.Context, resp *dto.DashboardResponse) error {
	projects, err := s.repo.Project.List(ctx, repository.ProjectFilter{})
	if err != nil {
		return err
	}
	engineers, err := s.repo.User.ListByRole(ctx, model.RoleEngineer)
	if err != nil {
		return err
	}

	resp.Projects = toProjectResponses(projects)
	resp.Engineers = make([]dto.UserResponse, 0, len(engineers))
	for i := range engineers {
		resp.Engineers = append(resp.Engineers, *toUserResponse(&engineers[i]))
	}
	return nil
}

func (s *dashboardService) fillAll(ctx context.Context, resp *dto.DashboardResponse) error {
	assignments, err := s.repo.Assignment.List(ctx, repository.AssignmentFilter{})
	if err != nil {
		return err
	}
	entries, err := s.repo.TimeEntry.List(ctx, repository.TimeEntryFilter{})
	if err != nil {
		return err
	}

	resp.Assignments = toAssignmentResponses(assignments)
	resp.TimeEntries = toTimeEntryResponses(entries)
	return nil
}
