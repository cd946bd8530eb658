package service

import "staffhub/internal/model"

// Caller 已认证的调用方身份，由认证中间件注入，业务层按原样信任
type Caller struct {
	UserID string
	Role   model.Role
}

// IsStaff 经理或管理员
func (c Caller) IsStaff() bool {
	return c.Role.IsStaff()
}

// owns 调用方是否为 userID 本人
func (c Caller) owns(userID string) bool {
	return c.UserID != "" && c.UserID == userID
}

// ownsPtr 未分配（nil）的记录不属于任何人
func (c Caller) ownsPtr(userID *string) bool {
	return userID != nil && c.owns(*userID)
}
