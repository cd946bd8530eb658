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

// ── 项目模块业务错误 ──

var (
	ErrProjectNotFound = errors.New("项目不存在")
)

// ProjectService 项目业务接口
type ProjectService interface {
	Create(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProjectResponse, error)
	List(ctx context.Context, req *dto.ProjectListRequest) ([]dto.ProjectResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	// Delete 级联删除项目的工时与分配，并清空用户的 current_project_id
	Delete(ctx context.Context, id string) error
}

type projectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProjectService 创建 ProjectService 实例
func NewProjectService(repo *repository.Repository, logger *zap.Logger) ProjectService {
	return &projectService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *projectService) Create(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   model.NewDate(start),
		EndDate:     model.NewDatePtr(end),
		Budget:      req.Budget,
		Status:      req.Status,
		ClientID:    req.ClientID,
	}
	if err := s.validate(ctx, project); err != nil {
		return nil, err
	}

	if err := s.repo.Project.Create(ctx, project); err != nil {
		return nil, classify(s.logger, "创建项目失败", err)
	}
	return toProjectResponse(project), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *projectService) GetByID(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	project, err := s.getProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

// ────────────────────── List ──────────────────────

func (s *projectService) List(ctx context.Context, req *dto.ProjectListRequest) ([]dto.ProjectResponse, error) {
	projects, err := s.repo.Project.List(ctx, repository.ProjectFilter{
		Status:   req.Status,
		ClientID: req.ClientID,
	})
	if err != nil {
		return nil, classify(s.logger, "列出项目失败", err)
	}
	return toProjectResponses(projects), nil
}

// ────────────────────── Update ──────────────────────

func (s *projectService) Update(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.getProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StartDate != nil {
		start, err := parseDate("start_date", *req.StartDate)
		if err != nil {
			return nil, err
		}
		project.StartDate = model.NewDate(start)
	}
	if req.EndDate != nil {
		// 空串表示清除结束日期
		end, err := parseOptionalDate("end_date", req.EndDate)
		if err != nil {
			return nil, err
		}
		project.EndDate = model.NewDatePtr(end)
	}
	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Budget != nil {
		project.Budget = *req.Budget
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.ClientID != nil {
		project.ClientID = req.ClientID
		if *req.ClientID == "" {
			project.ClientID = nil
		}
		project.Client = nil
	}

	if err := s.validate(ctx, project); err != nil {
		return nil, err
	}

	if err := s.repo.Project.Update(ctx, project); err != nil {
		return nil, classify(s.logger, "更新项目失败", err, zap.String("id", id))
	}
	return toProjectResponse(project), nil
}

// ────────────────────── Delete ──────────────────────

func (s *projectService) Delete(ctx context.Context, id string) error {
	if _, err := s.getProject(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Project.Delete(ctx, id); err != nil {
		return classify(s.logger, "删除项目失败", err, zap.String("id", id))
	}
	return nil
}

// ── 内部辅助方法 ──

// validate 状态取值、日期先后、预算非负与客户引用
func (s *projectService) validate(ctx context.Context, p *model.Project) error {
	if !model.ValidProjectStatus(p.Status) {
		return pkgerrors.Validation("status", "未知的项目状态")
	}
	if p.Budget < 0 {
		return pkgerrors.Validation("budget", "预算不能为负数")
	}
	if p.EndDate != nil {
		rng := daterange.New(model.DateTime(p.StartDate), model.DateTimePtr(p.EndDate))
		if !rng.Valid() {
			return pkgerrors.Validation("end_date", "结束日期不能早于开始日期")
		}
	}
	if p.ClientID != nil {
		if _, err := s.repo.Client.GetByID(ctx, *p.ClientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Validation("client_id", "客户不存在")
			}
			return classify(s.logger, "查询客户失败", err)
		}
	}
	return nil
}

func (s *projectService) getProject(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.repo.Project.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, classify(s.logger, "查询项目失败", err, zap.String("id", id))
	}
	return project, nil
}

func toProjectResponses(projects []model.Project) []dto.ProjectResponse {
	result := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		result = append(result, *toProjectResponse(&projects[i]))
	}
	return result
}
