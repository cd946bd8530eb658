package handler

import (
	"staffhub/config"
	"staffhub/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Client     *ClientHandler
	Project    *ProjectHandler
	Leave      *LeaveHandler
	TimeEntry  *TimeEntryHandler
	Assignment *AssignmentHandler
	Dashboard  *DashboardHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, cfg *config.Config) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, cfg),
		User:       NewUserHandler(svc.User),
		Client:     NewClientHandler(svc.Client),
		Project:    NewProjectHandler(svc.Project),
		Leave:      NewLeaveHandler(svc.Leave),
		TimeEntry:  NewTimeEntryHandler(svc.TimeEntry),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Dashboard:  NewDashboardHandler(svc.Dashboard),
		Export:     NewExportHandler(svc.Export),
	}
}
