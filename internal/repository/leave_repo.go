package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staffhub/internal/model"
	"staffhub/pkg/daterange"
)

// LeaveRepository 请假数据访问接口
type LeaveRepository interface {
	Create(ctx context.Context, leave *model.Leave) error
	GetByID(ctx context.Context, id string) (*model.Leave, error)
	Update(ctx context.Context, leave *model.Leave) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter LeaveFilter) ([]model.Leave, error)
	// FindOverlapping 查询用户与 rng 重叠的请假（start_date <= rng.End AND end_date >= rng.Start）
	// excludeID 非空时排除该记录
	FindOverlapping(ctx context.Context, userID string, rng daterange.Range, excludeID string) ([]model.Leave, error)
	// ExistsPeriod 是否存在完全相同的 (user, start, end) 请假
	ExistsPeriod(ctx context.Context, userID string, rng daterange.Range, excludeID string) (bool, error)
}

type leaveRepo struct {
	db *gorm.DB
}

// NewLeaveRepo 创建 LeaveRepository 实例
func NewLeaveRepo(db *gorm.DB) LeaveRepository {
	return &leaveRepo{db: db}
}

func (r *leaveRepo) Create(ctx context.Context, leave *model.Leave) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(leave).Error
}

func (r *leaveRepo) GetByID(ctx context.Context, id string) (*model.Leave, error) {
	var leave model.Leave
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("leave_id = ?", id).
		First(&leave).Error
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

func (r *leaveRepo) Update(ctx context.Context, leave *model.Leave) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(leave).Error
}

func (r *leaveRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("leave_id = ?", id).Delete(&model.Leave{}).Error
}

func (r *leaveRepo) List(ctx context.Context, filter LeaveFilter) ([]model.Leave, error) {
	var leaves []model.Leave
	db := r.db.WithContext(ctx).Preload("User")
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.To != nil {
		db = db.Where("start_date <= ?", model.NewDate(*filter.To))
	}
	if filter.From != nil {
		db = db.Where("end_date >= ?", model.NewDate(*filter.From))
	}
	err := db.Order("start_date ASC").Find(&leaves).Error
	return leaves, err
}

func (r *leaveRepo) FindOverlapping(ctx context.Context, userID string, rng daterange.Range, excludeID string) ([]model.Leave, error) {
	var leaves []model.Leave
	db := r.db.WithContext(ctx).
		Where("user_id = ? AND start_date <= ? AND end_date >= ?",
			userID, model.NewDate(rng.End), model.NewDate(rng.Start))
	if excludeID != "" {
		db = db.Where("leave_id <> ?", excludeID)
	}
	err := db.Order("start_date ASC").Find(&leaves).Error
	return leaves, err
}

func (r *leaveRepo) ExistsPeriod(ctx context.Context, userID string, rng daterange.Range, excludeID string) (bool, error) {
	var n int64
	db := r.db.WithContext(ctx).Model(&model.Leave{}).
		Where("user_id = ? AND start_date = ? AND end_date = ?",
			userID, model.NewDate(rng.Start), model.NewDate(rng.End))
	if excludeID != "" {
		db = db.Where("leave_id <> ?", excludeID)
	}
	if err := db.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
