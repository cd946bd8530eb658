package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"staffhub/pkg/daterange"
)

// Leave 请假表，对应 leaves
// 同一用户的请假区间互不重叠，(user_id, start_date, end_date) 唯一
type Leave struct {
	LeaveID   string         `gorm:"type:uuid;primaryKey"                                json:"leave_id"`
	UserID    string         `gorm:"type:uuid;not null;index:idx_leaves_user_dates"      json:"user_id"`
	StartDate datatypes.Date `gorm:"type:date;not null;index:idx_leaves_user_dates"      json:"start_date"`
	EndDate   datatypes.Date `gorm:"type:date;not null;index:idx_leaves_user_dates"      json:"end_date"`
	Reason    string         `gorm:"type:varchar(200)"                                   json:"reason,omitempty"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Leave) TableName() string { return "leaves" }

// BeforeCreate 生成主键
func (l *Leave) BeforeCreate(*gorm.DB) error {
	ensureID(&l.LeaveID)
	return nil
}

// Range 请假的闭区间
func (l *Leave) Range() daterange.Range {
	end := DateTime(l.EndDate)
	return daterange.New(DateTime(l.StartDate), &end)
}
