package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffhub/internal/dto"
	"staffhub/internal/service"
	"staffhub/pkg/response"
)

const (
	icsMaxFileSize = 1 << 20
	icsContentType = "text/calendar; charset=utf-8"
)

// LeaveHandler 请假模块 HTTP 处理器
type LeaveHandler struct {
	leaveSvc service.LeaveService
}

// NewLeaveHandler 创建 LeaveHandler
func NewLeaveHandler(leaveSvc service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveSvc: leaveSvc}
}

// ListLeaves 请假列表，工程师仅返回本人记录
// GET /api/v1/leaves
func (h *LeaveHandler) ListLeaves(c *gin.Context) {
	var req dto.LeaveListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	leaves, err := h.leaveSvc.List(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, gin.H{"list": leaves})
}

// GetLeave 请假详情
// GET /api/v1/leaves/:id
func (h *LeaveHandler) GetLeave(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	leave, err := h.leaveSvc.GetByID(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, leave)
}

// RecordLeave 登记请假
// POST /api/v1/leaves
func (h *LeaveHandler) RecordLeave(c *gin.Context) {
	var req dto.LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	leave, err := h.leaveSvc.RecordLeave(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.Created(c, leave)
}

// UpdateLeave 修改请假
// PUT /api/v1/leaves/:id
func (h *LeaveHandler) UpdateLeave(c *gin.Context) {
	var req dto.LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	leave, err := h.leaveSvc.UpdateLeave(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, leave)
}

// DeleteLeave 删除请假
// DELETE /api/v1/leaves/:id
func (h *LeaveHandler) DeleteLeave(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.leaveSvc.DeleteLeave(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, nil)
}

// ValidateLeave 表单预校验，不写入
// POST /api/v1/leaves/validate?exclude_id=xxx
func (h *LeaveHandler) ValidateLeave(c *gin.Context) {
	var req dto.LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	err := h.leaveSvc.ValidateLeave(c.Request.Context(), caller, &req, c.Query("exclude_id"))
	validationResult(c, err, h.handleLeaveError)
}

// ExportCalendar 导出 iCalendar
// GET /api/v1/leaves/calendar.ics
func (h *LeaveHandler) ExportCalendar(c *gin.Context) {
	var req dto.LeaveListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	data, err := h.leaveSvc.ExportCalendar(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.Attachment(c, icsContentType, "leaves.ics", data)
}

// ImportCalendar 上传 .ics 文件批量导入请假
// POST /api/v1/leaves/import  (multipart: file, user_id)
func (h *LeaveHandler) ImportCalendar(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, codeValidation, "请上传 .ics 文件", "file")
		return
	}
	if header.Size > icsMaxFileSize {
		response.ErrorWithDetails(c, http.StatusBadRequest, codeValidation, "文件过大", "file")
		return
	}

	file, err := header.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer file.Close()

	result, err := h.leaveSvc.ImportCalendar(c.Request.Context(), caller, c.PostForm("user_id"), file)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, result)
}

// handleLeaveError 统一处理请假模块业务错误
func (h *LeaveHandler) handleLeaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLeaveNotFound):
		response.NotFound(c, 15001, "请假记录不存在")
	default:
		handleCommonError(c, err)
	}
}
