package dto

// ── 项目分配模块 DTO ──

// CreateAssignmentRequest 创建项目分配请求
type CreateAssignmentRequest struct {
	EngineerID    string  `json:"engineer_id"     binding:"required,uuid"`
	ProjectID     string  `json:"project_id"      binding:"required,uuid"`
	StartDate     string  `json:"start_date"      binding:"required,date_ymd"`
	EndDate       *string `json:"end_date"        binding:"omitempty,date_ymd"`
	HoursWorked   float64 `json:"hours_worked"    binding:"gte=0"`
	RoleInProject string  `json:"role_in_project" binding:"omitempty,max=100"`
}

// UpdateAssignmentRequest 更新项目分配请求
type UpdateAssignmentRequest struct {
	StartDate     *string  `json:"start_date"      binding:"omitempty,date_ymd"`
	EndDate       *string  `json:"end_date"        binding:"omitempty,date_ymd"`
	HoursWorked   *float64 `json:"hours_worked"    binding:"omitempty,gte=0"`
	RoleInProject *string  `json:"role_in_project" binding:"omitempty,max=100"`
}

// AssignmentListRequest 项目分配列表查询参数
type AssignmentListRequest struct {
	EngineerID string `form:"engineer_id" binding:"omitempty,uuid"`
	ProjectID  string `form:"project_id"  binding:"omitempty,uuid"`
}

// AssignmentResponse 项目分配响应
type AssignmentResponse struct {
	ID            string        `json:"id"`
	EngineerID    string        `json:"engineer_id"`
	Engineer      *UserBrief    `json:"engineer,omitempty"`
	ProjectID     string        `json:"project_id"`
	Project       *ProjectBrief `json:"project,omitempty"`
	StartDate     string        `json:"start_date"`
	EndDate       *string       `json:"end_date,omitempty"`
	HoursWorked   float64       `json:"hours_worked"`
	RoleInProject string        `json:"role_in_project,omitempty"`
}
