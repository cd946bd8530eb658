package dto

// ── 请假模块 DTO ──

// LeaveRequest 登记/修改/预校验请假
// user_id 为空时取当前用户；工程师只能为自己登记
type LeaveRequest struct {
	UserID    string `json:"user_id"    binding:"omitempty,uuid"`
	StartDate string `json:"start_date" binding:"required,date_ymd"`
	EndDate   string `json:"end_date"   binding:"required,date_ymd"`
	Reason    string `json:"reason"     binding:"omitempty,max=200"`
}

// LeaveListRequest 请假列表查询参数，from/to 窗口内有交集的请假均返回
type LeaveListRequest struct {
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	From   string `form:"from"    binding:"omitempty,date_ymd"`
	To     string `form:"to"      binding:"omitempty,date_ymd"`
}

// LeaveResponse 请假记录响应
type LeaveResponse struct {
	ID        string     `json:"id"`
	User      *UserBrief `json:"user,omitempty"`
	UserID    string     `json:"user_id"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Days      int        `json:"days"`
	Reason    string     `json:"reason,omitempty"`
	CreatedAt string     `json:"created_at"`
}

// LeaveImportResponse 日历导入结果，被业务规则拒绝的事件逐条列出，不影响其余事件
type LeaveImportResponse struct {
	Imported []LeaveResponse   `json:"imported"`
	Skipped  []LeaveImportSkip `json:"skipped"`
}

// LeaveImportSkip 未导入的日历事件
type LeaveImportSkip struct {
	Summary   string `json:"summary,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
}
