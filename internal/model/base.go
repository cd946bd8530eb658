package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"staffhub/pkg/daterange"
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ensureID 主键为空时生成 UUID（PostgreSQL 侧另有 gen_random_uuid() 默认值）
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// NewDate 将 time.Time 截断到天并转为 datatypes.Date
func NewDate(t time.Time) datatypes.Date {
	return datatypes.Date(daterange.Truncate(t))
}

// NewDatePtr nil 安全版本
func NewDatePtr(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := NewDate(*t)
	return &d
}

// DateTime 取出 datatypes.Date 对应的 time.Time
func DateTime(d datatypes.Date) time.Time {
	return daterange.Truncate(time.Time(d))
}

// DateTimePtr nil 安全版本
func DateTimePtr(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := DateTime(*d)
	return &t
}

// FormatDate 格式化为 YYYY-MM-DD
func FormatDate(d datatypes.Date) string {
	return DateTime(d).Format(daterange.Layout)
}

// FormatDatePtr nil 时返回 nil
func FormatDatePtr(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := FormatDate(*d)
	return &s
}
