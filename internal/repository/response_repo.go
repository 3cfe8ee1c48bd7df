package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/samarth-p/expertiza/internal/model"
)

// ResponseMapRepository 回复映射数据访问接口（只读）
type ResponseMapRepository interface {
	GetByID(ctx context.Context, id string) (*model.ResponseMap, error)
}

type responseMapRepo struct {
	db *gorm.DB
}

// NewResponseMapRepo 创建 ResponseMapRepository 实例
func NewResponseMapRepo(db *gorm.DB) ResponseMapRepository {
	return &responseMapRepo{db: db}
}

func (r *responseMapRepo) GetByID(ctx context.Context, id string) (*model.ResponseMap, error) {
	var m model.ResponseMap
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ResponseRepository 回复数据访问接口（只读）
type ResponseRepository interface {
	GetByID(ctx context.Context, id string) (*model.Response, error)
}

type responseRepo struct {
	db *gorm.DB
}

// NewResponseRepo 创建 ResponseRepository 实例
func NewResponseRepo(db *gorm.DB) ResponseRepository {
	return &responseRepo{db: db}
}

func (r *responseRepo) GetByID(ctx context.Context, id string) (*model.Response, error) {
	var resp model.Response
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&resp).Error; err != nil {
		return nil, err
	}
	return &resp, nil
}
