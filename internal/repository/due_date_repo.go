package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/samarth-p/expertiza/internal/model"
)

// DueDateRepository 截止日期数据访问接口
type DueDateRepository interface {
	// ListByParent 父对象下全部截止日期（不分种类），按 due_at 升序
	ListByParent(ctx context.Context, parentID string) ([]model.DueDate, error)
	// ListByParentAndType 父对象下指定种类的截止日期，按 due_at 升序
	ListByParentAndType(ctx context.Context, kind, parentID string) ([]model.DueDate, error)
	// FindNext 指定种类中 due_at >= from 的最早一条；不存在时返回 nil, nil
	FindNext(ctx context.Context, kind, parentID string, from time.Time) (*model.DueDate, error)
	CountByParentAndType(ctx context.Context, kind, parentID string) (int64, error)
	Create(ctx context.Context, dueDate *model.DueDate) error
}

type dueDateRepo struct {
	db *gorm.DB
}

// NewDueDateRepo 创建 DueDateRepository 实例
func NewDueDateRepo(db *gorm.DB) DueDateRepository {
	return &dueDateRepo{db: db}
}

func (r *dueDateRepo) ListByParent(ctx context.Context, parentID string) ([]model.DueDate, error) {
	var dueDates []model.DueDate
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("due_at ASC").
		Find(&dueDates).Error
	return dueDates, err
}

func (r *dueDateRepo) ListByParentAndType(ctx context.Context, kind, parentID string) ([]model.DueDate, error) {
	var dueDates []model.DueDate
	err := r.db.WithContext(ctx).
		Where("type = ? AND parent_id = ?", kind, parentID).
		Order("due_at ASC").
		Find(&dueDates).Error
	return dueDates, err
}

func (r *dueDateRepo) FindNext(ctx context.Context, kind, parentID string, from time.Time) (*model.DueDate, error) {
	var dueDate model.DueDate
	err := r.db.WithContext(ctx).
		Where("type = ? AND parent_id = ? AND due_at >= ?", kind, parentID, from).
		Order("due_at ASC").
		First(&dueDate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dueDate, nil
}

func (r *dueDateRepo) CountByParentAndType(ctx context.Context, kind, parentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DueDate{}).
		Where("type = ? AND parent_id = ?", kind, parentID).
		Count(&count).Error
	return count, err
}

func (r *dueDateRepo) Create(ctx context.Context, dueDate *model.DueDate) error {
	return r.db.WithContext(ctx).Create(dueDate).Error
}
