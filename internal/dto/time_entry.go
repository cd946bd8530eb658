package dto

// ── 工时模块 DTO ──

// TimeEntryRequest 登记/修改/预校验工时
// 工程师的 user_id 固定为本人；经理、管理员不填 user_id 时登记为未分配工时
// hours_spent 的非负校验在业务层完成，以便返回字段级规则错误
type TimeEntryRequest struct {
	UserID          *string `json:"user_id"          binding:"omitempty,uuid"`
	ProjectID       string  `json:"project_id"       binding:"required,uuid"`
	StartDate       string  `json:"start_date"       binding:"required,date_ymd"`
	EndDate         *string `json:"end_date"         binding:"omitempty,date_ymd"`
	HoursSpent      float64 `json:"hours_spent"`
	WorkDescription string  `json:"work_description" binding:"omitempty,max=5000"`
}

// TimeEntryListRequest 工时列表查询参数
type TimeEntryListRequest struct {
	UserID    string `form:"user_id"    binding:"omitempty,uuid"`
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
	From      string `form:"from"       binding:"omitempty,date_ymd"`
	To        string `form:"to"         binding:"omitempty,date_ymd"`
}

// TimeEntryResponse 工时记录响应
type TimeEntryResponse struct {
	ID              string        `json:"id"`
	UserID          *string       `json:"user_id"`
	User            *UserBrief    `json:"user,omitempty"`
	ProjectID       string        `json:"project_id"`
	Project         *ProjectBrief `json:"project,omitempty"`
	StartDate       string        `json:"start_date"`
	EndDate         *string       `json:"end_date,omitempty"`
	HoursSpent      float64       `json:"hours_spent"`
	WorkDescription string        `json:"work_description,omitempty"`
	CreatedAt       string        `json:"created_at"`
}
