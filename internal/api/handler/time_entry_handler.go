package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffhub/internal/dto"
	"staffhub/internal/service"
	"staffhub/pkg/response"
)

// TimeEntryHandler 工时模块 HTTP 处理器
type TimeEntryHandler struct {
	timeEntrySvc service.TimeEntryService
}

// NewTimeEntryHandler 创建 TimeEntryHandler
func NewTimeEntryHandler(timeEntrySvc service.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{timeEntrySvc: timeEntrySvc}
}

// ListTimeEntries 工时列表，工程师仅返回本人记录
// GET /api/v1/time-entries
func (h *TimeEntryHandler) ListTimeEntries(c *gin.Context) {
	var req dto.TimeEntryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	entries, err := h.timeEntrySvc.List(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.OK(c, gin.H{"list": entries})
}

// GetTimeEntry 工时详情
// GET /api/v1/time-entries/:id
func (h *TimeEntryHandler) GetTimeEntry(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	entry, err := h.timeEntrySvc.GetByID(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.OK(c, entry)
}

// RecordTimeEntry 登记工时
// POST /api/v1/time-entries
func (h *TimeEntryHandler) RecordTimeEntry(c *gin.Context) {
	var req dto.TimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	entry, err := h.timeEntrySvc.RecordTimeEntry(c.Request.Context(), caller, &req)
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.Created(c, entry)
}

// UpdateTimeEntry 修改工时
// PUT /api/v1/time-entries/:id
func (h *TimeEntryHandler) UpdateTimeEntry(c *gin.Context) {
	var req dto.TimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	entry, err := h.timeEntrySvc.UpdateTimeEntry(c.Request.Context(), caller, c.Param("id"), &req)
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.OK(c, entry)
}

// DeleteTimeEntry 删除工时
// DELETE /api/v1/time-entries/:id
func (h *TimeEntryHandler) DeleteTimeEntry(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.timeEntrySvc.DeleteTimeEntry(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.OK(c, nil)
}

// ValidateTimeEntry 表单预校验，不写入
// POST /api/v1/time-entries/validate?exclude_id=xxx
func (h *TimeEntryHandler) ValidateTimeEntry(c *gin.Context) {
	var req dto.TimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	err := h.timeEntrySvc.ValidateTimeEntry(c.Request.Context(), caller, &req, c.Query("exclude_id"))
	validationResult(c, err, h.handleTimeEntryError)
}

// handleTimeEntryError 统一处理工时模块业务错误
func (h *TimeEntryHandler) handleTimeEntryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimeEntryNotFound):
		response.NotFound(c, 16001, "工时记录不存在")
	default:
		handleCommonError(c, err)
	}
}
