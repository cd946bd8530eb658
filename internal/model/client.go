package model

import "gorm.io/gorm"

// Client 客户表，对应 clients
type Client struct {
	ClientID      string `gorm:"type:uuid;primaryKey"                   json:"client_id"`
	Name          string `gorm:"type:varchar(100);not null"             json:"name"`
	ContactPerson string `gorm:"type:varchar(100);not null"             json:"contact_person"`
	Email         string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PhoneNumber   string `gorm:"type:varchar(15)"                       json:"phone_number,omitempty"`
	Address       string `gorm:"type:text"                              json:"address,omitempty"`
	Notes         string `gorm:"type:text"                              json:"notes,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Client) TableName() string { return "clients" }

// BeforeCreate 生成主键
func (c *Client) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ClientID)
	return nil
}
