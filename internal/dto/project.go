package dto

// ── 项目模块 DTO ──

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name        string  `json:"name"        binding:"required,max=200"`
	Description string  `json:"description" binding:"omitempty,max=5000"`
	StartDate   string  `json:"start_date"  binding:"required,date_ymd"`
	EndDate     *string `json:"end_date"    binding:"omitempty,date_ymd"`
	Budget      float64 `json:"budget"      binding:"gte=0"`
	Status      string  `json:"status"      binding:"required,project_status"`
	ClientID    *string `json:"client_id"   binding:"omitempty,uuid"`
}

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	Name        *string  `json:"name"        binding:"omitempty,max=200"`
	Description *string  `json:"description" binding:"omitempty,max=5000"`
	StartDate   *string  `json:"start_date"  binding:"omitempty,date_ymd"`
	EndDate     *string  `json:"end_date"    binding:"omitempty,date_ymd"`
	Budget      *float64 `json:"budget"      binding:"omitempty,gte=0"`
	Status      *string  `json:"status"      binding:"omitempty,project_status"`
	ClientID    *string  `json:"client_id"   binding:"omitempty,uuid"`
}

// ProjectListRequest 项目列表查询参数
type ProjectListRequest struct {
	Status   string `form:"status"    binding:"omitempty,project_status"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
}

// ProjectResponse 项目信息响应
type ProjectResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	StartDate   string       `json:"start_date"`
	EndDate     *string      `json:"end_date,omitempty"`
	Budget      float64      `json:"budget"`
	Status      string       `json:"status"`
	ClientID    *string      `json:"client_id,omitempty"`
	Client      *ClientBrief `json:"client,omitempty"`
	CreatedAt   string       `json:"created_at"`
}

// ProjectBrief 项目简要信息
type ProjectBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
