package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staffhub/internal/model"
)

// TimeEntryRepository 工时数据访问接口
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *model.TimeEntry) error
	GetByID(ctx context.Context, id string) (*model.TimeEntry, error)
	Update(ctx context.Context, entry *model.TimeEntry) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TimeEntryFilter) ([]model.TimeEntry, error)
	// ExistsKey 是否已存在相同 (user, start_date, project) 的工时，excludeID 非空时排除该记录
	// userID 为 nil 时匹配未分配（user_id IS NULL）的记录
	ExistsKey(ctx context.Context, userID *string, startDate time.Time, projectID, excludeID string) (bool, error)
}

type timeEntryRepo struct {
	db *gorm.DB
}

// NewTimeEntryRepo 创建 TimeEntryRepository 实例
func NewTimeEntryRepo(db *gorm.DB) TimeEntryRepository {
	return &timeEntryRepo{db: db}
}

func (r *timeEntryRepo) Create(ctx context.Context, entry *model.TimeEntry) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

func (r *timeEntryRepo) GetByID(ctx context.Context, id string) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Project").
		Where("time_entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepo) Update(ctx context.Context, entry *model.TimeEntry) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(entry).Error
}

func (r *timeEntryRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("time_entry_id = ?", id).Delete(&model.TimeEntry{}).Error
}

func (r *timeEntryRepo) List(ctx context.Context, filter TimeEntryFilter) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	db := r.db.WithContext(ctx).Preload("User").Preload("Project")
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.ProjectID != "" {
		db = db.Where("project_id = ?", filter.ProjectID)
	}
	if filter.From != nil {
		db = db.Where("start_date >= ?", model.NewDate(*filter.From))
	}
	if filter.To != nil {
		db = db.Where("start_date <= ?", model.NewDate(*filter.To))
	}
	err := db.Order("start_date ASC").Find(&entries).Error
	return entries, err
}

func (r *timeEntryRepo) ExistsKey(ctx context.Context, userID *string, startDate time.Time, projectID, excludeID string) (bool, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.TimeEntry{}).
		Where("start_date = ? AND project_id = ?", model.NewDate(startDate), projectID)
	if userID != nil {
		db = db.Where("user_id = ?", *userID)
	} else {
		db = db.Where("user_id IS NULL")
	}
	if excludeID != "" {
		db = db.Where("time_entry_id <> ?", excludeID)
	}
	if err := db.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
