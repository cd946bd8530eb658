package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffhub/internal/service"
	"staffhub/pkg/response"
)

// DashboardHandler 看板 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// GetDashboard 按当前角色返回看板
// GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	data, err := h.dashboardSvc.Dashboard(c.Request.Context(), caller)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDashboardDenied):
			response.Forbidden(c, 18001, "当前角色无看板权限")
		default:
			handleCommonError(c, err)
		}
		return
	}

	response.OK(c, data)
}
