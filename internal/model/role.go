package model

// Role 用户角色，决定仪表盘可见范围与写权限
type Role string

const (
	RoleEngineer Role = "engineer"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// ParseRole 解析角色字符串，未知角色返回 false
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleEngineer, RoleManager, RoleAdmin:
		return r, true
	}
	return "", false
}

// IsStaff 经理与管理员可代他人写入请假、工时
func (r Role) IsStaff() bool {
	return r == RoleManager || r == RoleAdmin
}

func (r Role) String() string { return string(r) }
