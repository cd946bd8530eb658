package model

import "gorm.io/gorm"

// 经验等级
const (
	ExperienceJunior = "Junior"
	ExperienceMid    = "Mid"
	ExperienceSenior = "Senior"
)

// 可用状态
const (
	AvailabilityAvailable = "Available"
	AvailabilityAssigned  = "Assigned"
	AvailabilityOnLeave   = "On Leave"
)

// User 用户表，对应 users（工程师、经理、管理员共用）
type User struct {
	UserID             string  `gorm:"type:uuid;primaryKey"                            json:"user_id"`
	Username           string  `gorm:"type:varchar(150);not null"                      json:"username"`
	Name               string  `gorm:"type:varchar(255)"                               json:"name"`
	Email              string  `gorm:"type:varchar(255);not null;uniqueIndex"          json:"email"`
	PasswordHash       string  `gorm:"type:varchar(255);not null"                      json:"-"`
	Role               Role    `gorm:"type:varchar(20);not null;default:'engineer'"    json:"role"`
	PhoneNumber        string  `gorm:"type:varchar(15)"                                json:"phone_number,omitempty"`
	Address            string  `gorm:"type:text"                                       json:"address,omitempty"`
	JobTitle           string  `gorm:"type:varchar(100)"                               json:"job_title,omitempty"`
	Department         string  `gorm:"type:varchar(100)"                               json:"department,omitempty"`
	ExperienceLevel    string  `gorm:"type:varchar(10);not null;default:'Junior'"      json:"experience_level"`
	HourlyRate         float64 `gorm:"type:numeric(6,2);not null;default:0"            json:"hourly_rate"`
	AvailabilityStatus string  `gorm:"type:varchar(20);not null;default:'Available'"   json:"availability_status"`
	LinkedInProfile    string  `gorm:"column:linkedin_profile;type:varchar(255)"       json:"linkedin_profile,omitempty"`
	CurrentProjectID   *string `gorm:"type:uuid"                                       json:"current_project_id,omitempty"`
	BaseModel

	// 关联
	CurrentProject *Project `gorm:"foreignKey:CurrentProjectID;references:ProjectID" json:"current_project,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// BeforeCreate 生成主键
func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.UserID)
	return nil
}

// DisplayName 姓名为空时退回用户名
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
