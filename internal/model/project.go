package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 项目状态
const (
	ProjectStatusPlanned    = "Planned"
	ProjectStatusInProgress = "In Progress"
	ProjectStatusCompleted  = "Completed"
)

// ValidProjectStatus 校验项目状态取值
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusPlanned, ProjectStatusInProgress, ProjectStatusCompleted:
		return true
	}
	return false
}

// Project 项目表，对应 projects
type Project struct {
	ProjectID   string          `gorm:"type:uuid;primaryKey"                        json:"project_id"`
	Name        string          `gorm:"type:varchar(200);not null"                  json:"name"`
	Description string          `gorm:"type:text;not null;default:''"               json:"description"`
	StartDate   datatypes.Date  `gorm:"type:date;not null"                          json:"start_date"`
	EndDate     *datatypes.Date `gorm:"type:date"                                   json:"end_date,omitempty"`
	Budget      float64         `gorm:"type:numeric(15,2);not null;default:0"       json:"budget"`
	Status      string          `gorm:"type:varchar(20);not null;default:'Planned'" json:"status"`
	ClientID    *string         `gorm:"type:uuid"                                   json:"client_id,omitempty"`
	BaseModel

	// 关联
	Client *Client `gorm:"foreignKey:ClientID;references:ClientID" json:"client,omitempty"`
}

// TableName 指定表名
func (Project) TableName() string { return "projects" }

// BeforeCreate 生成主键
func (p *Project) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ProjectID)
	return nil
}
