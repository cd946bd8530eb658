package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求（管理员）
type CreateUserRequest struct {
	Username           string  `json:"username"            binding:"required,max=150"`
	Name               string  `json:"name"                binding:"omitempty,max=255"`
	Email              string  `json:"email"               binding:"required,email"`
	Password           string  `json:"password"            binding:"required,min=8,max=64"`
	Role               string  `json:"role"                binding:"omitempty,user_role"`
	PhoneNumber        string  `json:"phone_number"        binding:"omitempty,max=15"`
	Address            string  `json:"address"             binding:"omitempty,max=500"`
	JobTitle           string  `json:"job_title"           binding:"omitempty,max=100"`
	Department         string  `json:"department"          binding:"omitempty,max=100"`
	ExperienceLevel    string  `json:"experience_level"    binding:"omitempty,experience_level"`
	HourlyRate         float64 `json:"hourly_rate"         binding:"gte=0,lte=9999.99"`
	AvailabilityStatus string  `json:"availability_status" binding:"omitempty,availability_status"`
	LinkedInProfile    string  `json:"linkedin_profile"    binding:"omitempty,url,max=255"`
	CurrentProjectID   *string `json:"current_project_id"  binding:"omitempty,uuid"`
}

// UpdateUserRequest 更新用户信息请求，nil 字段保持不变
type UpdateUserRequest struct {
	Name               *string  `json:"name"                binding:"omitempty,max=255"`
	Email              *string  `json:"email"               binding:"omitempty,email"`
	PhoneNumber        *string  `json:"phone_number"        binding:"omitempty,max=15"`
	Address            *string  `json:"address"             binding:"omitempty,max=500"`
	JobTitle           *string  `json:"job_title"           binding:"omitempty,max=100"`
	Department         *string  `json:"department"          binding:"omitempty,max=100"`
	ExperienceLevel    *string  `json:"experience_level"    binding:"omitempty,experience_level"`
	HourlyRate         *float64 `json:"hourly_rate"         binding:"omitempty,gte=0,lte=9999.99"`
	AvailabilityStatus *string  `json:"availability_status" binding:"omitempty,availability_status"`
	LinkedInProfile    *string  `json:"linkedin_profile"    binding:"omitempty,url,max=255"`
	CurrentProjectID   *string  `json:"current_project_id"  binding:"omitempty,uuid"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role string `form:"role" binding:"omitempty,user_role"`
}

// AssignRoleRequest 分配角色请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,user_role"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID                 string  `json:"id"`
	Username           string  `json:"username"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Role               string  `json:"role"`
	PhoneNumber        string  `json:"phone_number,omitempty"`
	Address            string  `json:"address,omitempty"`
	JobTitle           string  `json:"job_title,omitempty"`
	Department         string  `json:"department,omitempty"`
	ExperienceLevel    string  `json:"experience_level"`
	HourlyRate         float64 `json:"hourly_rate"`
	AvailabilityStatus string  `json:"availability_status"`
	LinkedInProfile    string  `json:"linkedin_profile,omitempty"`
	CurrentProjectID   *string `json:"current_project_id,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

// UserBrief 关联对象中嵌入的用户简要信息
type UserBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
