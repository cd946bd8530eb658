package dto

// DashboardResponse 按角色聚合的看板数据
// engineer: assignments + time_entries（仅本人）
// manager:  projects + engineers
// admin:    全部四项
type DashboardResponse struct {
	Role        string               `json:"role"`
	Projects    []ProjectResponse    `json:"projects,omitempty"`
	Engineers   []UserResponse       `json:"engineers,omitempty"`
	Assignments []AssignmentResponse `json:"assignments,omitempty"`
	TimeEntries []TimeEntryResponse  `json:"time_entries,omitempty"`
}
