package dto

// ── 客户模块 DTO ──

// CreateClientRequest 创建客户请求
type CreateClientRequest struct {
	Name          string `json:"name"           binding:"required,max=100"`
	ContactPerson string `json:"contact_person" binding:"omitempty,max=100"`
	Email         string `json:"email"          binding:"required,email"`
	PhoneNumber   string `json:"phone_number"   binding:"omitempty,max=15"`
	Address       string `json:"address"        binding:"omitempty,max=500"`
	Notes         string `json:"notes"          binding:"omitempty,max=2000"`
}

// UpdateClientRequest 更新客户请求
type UpdateClientRequest struct {
	Name          *string `json:"name"           binding:"omitempty,max=100"`
	ContactPerson *string `json:"contact_person" binding:"omitempty,max=100"`
	Email         *string `json:"email"          binding:"omitempty,email"`
	PhoneNumber   *string `json:"phone_number"   binding:"omitempty,max=15"`
	Address       *string `json:"address"        binding:"omitempty,max=500"`
	Notes         *string `json:"notes"          binding:"omitempty,max=2000"`
}

// ClientResponse 客户信息响应
type ClientResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person,omitempty"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	Address       string `json:"address,omitempty"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// ClientBrief 客户简要信息
type ClientBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
