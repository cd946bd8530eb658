package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User       UserRepository
	Client     ClientRepository
	Project    ProjectRepository
	Leave      LeaveRepository
	TimeEntry  TimeEntryRepository
	Assignment AssignmentRepository
	Tx         Transactor
}

// Transactor 在同一事务内执行一组仓储操作
// fn 收到的 Repository 全部绑定到事务连接，fn 返回错误时整体回滚
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *Repository) error) error
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		Client:     NewClientRepo(db),
		Project:    NewProjectRepo(db),
		Leave:      NewLeaveRepo(db),
		TimeEntry:  NewTimeEntryRepo(db),
		Assignment: NewAssignmentRepo(db),
		Tx:         &gormTransactor{db: db},
	}
}

type gormTransactor struct {
	db *gorm.DB
}

func (t *gormTransactor) WithinTx(ctx context.Context, fn func(tx *Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
