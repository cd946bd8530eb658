package dto

// TimesheetExportRequest 工时表导出参数
type TimesheetExportRequest struct {
	From      string `form:"from"       binding:"required,date_ymd"`
	To        string `form:"to"         binding:"required,date_ymd"`
	UserID    string `form:"user_id"    binding:"omitempty,uuid"`
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
}
