package service

import (
	"go.uber.org/zap"

	"staffhub/internal/repository"
	"staffhub/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	User       UserService
	Client     ClientService
	Project    ProjectService
	Leave      LeaveService
	TimeEntry  TimeEntryService
	Assignment AssignmentService
	Dashboard  DashboardService
	Export     ExportService
}

// NewService 创建 Service 聚合，blacklist 可为 nil（未配置 Redis）
func NewService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, blacklist, logger),
		User:       NewUserService(repo, logger),
		Client:     NewClientService(repo, logger),
		Project:    NewProjectService(repo, logger),
		Leave:      NewLeaveService(repo, logger),
		TimeEntry:  NewTimeEntryService(repo, logger),
		Assignment: NewAssignmentService(repo, logger),
		Dashboard:  NewDashboardService(repo, logger),
		Export:     NewExportService(repo, logger),
	}
}
