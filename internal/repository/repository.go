package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	DueDate     DueDateRepository
	Assignment  AssignmentRepository
	Participant ParticipantRepository
	ResponseMap ResponseMapRepository
	Response    ResponseRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		DueDate:     NewDueDateRepo(db),
		Assignment:  NewAssignmentRepo(db),
		Participant: NewParticipantRepo(db),
		ResponseMap: NewResponseMapRepo(db),
		Response:    NewResponseRepo(db),
	}
}

// BeginTx 开启事务
// 单元测试中以 mock 组装的 Repository 没有底层连接，此时返回 nil 事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository 副本；tx 为 nil 时原样返回
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
