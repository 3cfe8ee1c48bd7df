package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/samarth-p/expertiza/internal/model"
)

// AssignmentRepository 作业数据访问接口（只读）
type AssignmentRepository interface {
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ParticipantRepository 参与者数据访问接口（只读）
type ParticipantRepository interface {
	GetByID(ctx context.Context, id string) (*model.Participant, error)
}

type participantRepo struct {
	db *gorm.DB
}

// NewParticipantRepo 创建 ParticipantRepository 实例
func NewParticipantRepo(db *gorm.DB) ParticipantRepository {
	return &participantRepo{db: db}
}

func (r *participantRepo) GetByID(ctx context.Context, id string) (*model.Participant, error) {
	var participant model.Participant
	err := r.db.WithContext(ctx).
		Preload("Assignment").
		Where("id = ?", id).
		First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}
