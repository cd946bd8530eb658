package handler

import (
	"github.com/gin-gonic/gin"

	"staffhub/internal/dto"
	"staffhub/internal/service"
	"staffhub/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTimesheet 导出工时表
// GET /api/v1/export/timesheet?from=2024-01-01&to=2024-01-31
func (h *ExportHandler) ExportTimesheet(c *gin.Context) {
	var req dto.TimesheetExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportTimesheet(c.Request.Context(), caller, &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}

	response.Attachment(c, xlsxContentType, filename, buf.Bytes())
}
