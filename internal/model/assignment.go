package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Assignment 项目分配表，对应 assignments
type Assignment struct {
	AssignmentID  string          `gorm:"type:uuid;primaryKey"                  json:"assignment_id"`
	EngineerID    string          `gorm:"type:uuid;not null;index"              json:"engineer_id"`
	ProjectID     string          `gorm:"type:uuid;not null;index"              json:"project_id"`
	StartDate     datatypes.Date  `gorm:"type:date;not null"                    json:"start_date"`
	EndDate       *datatypes.Date `gorm:"type:date"                             json:"end_date,omitempty"`
	HoursWorked   float64         `gorm:"type:numeric(7,2);not null;default:0"  json:"hours_worked"`
	RoleInProject string          `gorm:"type:varchar(100);not null;default:''" json:"role_in_project"`
	BaseModel

	// 关联
	Engineer *User    `gorm:"foreignKey:EngineerID;references:UserID"   json:"engineer,omitempty"`
	Project  *Project `gorm:"foreignKey:ProjectID;references:ProjectID" json:"project,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// BeforeCreate 生成主键
func (a *Assignment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.AssignmentID)
	return nil
}
