package repository

import (
	"time"

	"staffhub/internal/model"
)

// UserFilter 用户列表过滤条件
type UserFilter struct {
	Role   *model.Role
	Offset int
	Limit  int
}

// ProjectFilter 项目列表过滤条件
type ProjectFilter struct {
	Status   string
	ClientID string
}

// LeaveFilter 请假列表过滤条件，From/To 为闭区间窗口，与窗口重叠的记录均返回
type LeaveFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
}

// TimeEntryFilter 工时列表过滤条件
type TimeEntryFilter struct {
	UserID    string
	ProjectID string
	From      *time.Time
	To        *time.Time
}

// AssignmentFilter 项目分配列表过滤条件
type AssignmentFilter struct {
	EngineerID string
	ProjectID  string
}
