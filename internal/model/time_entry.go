package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"staffhub/pkg/daterange"
)

// TimeEntry 工时记录表，对应 time_entries
// UserID 为空表示未分配的历史记录；(user_id, start_date, project_id) 唯一
type TimeEntry struct {
	TimeEntryID     string          `gorm:"type:uuid;primaryKey"      json:"time_entry_id"`
	UserID          *string         `gorm:"type:uuid"                 json:"user_id,omitempty"`
	ProjectID       string          `gorm:"type:uuid;not null;index"  json:"project_id"`
	StartDate       datatypes.Date  `gorm:"type:date;not null"        json:"start_date"`
	EndDate         *datatypes.Date `gorm:"type:date"                 json:"end_date,omitempty"`
	HoursSpent      float64         `gorm:"type:numeric(5,2);not null" json:"hours_spent"`
	WorkDescription string          `gorm:"type:text"                 json:"work_description,omitempty"`
	BaseModel

	// 关联
	User    *User    `gorm:"foreignKey:UserID;references:UserID"       json:"user,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID;references:ProjectID" json:"project,omitempty"`
}

// TableName 指定表名
func (TimeEntry) TableName() string { return "time_entries" }

// BeforeCreate 生成主键
func (t *TimeEntry) BeforeCreate(*gorm.DB) error {
	ensureID(&t.TimeEntryID)
	return nil
}

// Range 有效区间，未填结束日期时按单日处理
func (t *TimeEntry) Range() daterange.Range {
	return daterange.New(DateTime(t.StartDate), DateTimePtr(t.EndDate))
}
