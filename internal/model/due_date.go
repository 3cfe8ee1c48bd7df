package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/samarth-p/expertiza/pkg/errors"
)

// 截止日期种类（due_dates.type 区分）
const (
	DueDateKindAssignment = "AssignmentDueDate"
	DueDateKindTopic      = "TopicDueDate"
)

// DueDate 截止日期表，对应 due_dates
// ParentID 指向作业（AssignmentDueDate）或选题（TopicDueDate）
type DueDate struct {
	DueDateID               string        `gorm:"column:id;type:uuid;primaryKey"                      json:"id"`
	Type                    string        `gorm:"type:varchar(30);not null;index:idx_due_dates_parent" json:"type"`
	ParentID                string        `gorm:"type:uuid;not null;index:idx_due_dates_parent"        json:"parent_id"`
	DueAt                   time.Time     `gorm:"not null"                                            json:"due_at"`
	DeadlineTypeID          int           `gorm:"not null"                                            json:"deadline_type_id"`
	SubmissionAllowedID     DeadlineRight `gorm:"not null;default:1"                                  json:"submission_allowed_id"`
	ReviewAllowedID         DeadlineRight `gorm:"not null;default:1"                                  json:"review_allowed_id"`
	TeammateReviewAllowedID DeadlineRight `gorm:"not null;default:1"                                  json:"teammate_review_allowed_id"`
	Round                   int           `gorm:"not null;default:1"                                  json:"round"`
	DeadlineName            string        `gorm:"type:varchar(100)"                                   json:"deadline_name,omitempty"`
	DescriptionURL          string        `gorm:"type:varchar(500)"                                   json:"description_url,omitempty"`
	BaseModel
}

// TableName 指定表名
func (DueDate) TableName() string { return "due_dates" }

// BeforeCreate 分配新 ID 并拒绝不完整的记录
func (d *DueDate) BeforeCreate(_ *gorm.DB) error {
	if d.DueDateID == "" {
		d.DueDateID = uuid.New().String()
	}
	if d.Type == "" {
		d.Type = DueDateKindAssignment
	}
	if d.ParentID == "" || d.DueAt.IsZero() || d.DeadlineTypeID <= 0 {
		return pkgerrors.ErrInvalidDueDate
	}
	return nil
}

// Duplicate 复制一份挂到新父对象下；ID 与时间戳清空，由写入时重新生成
func (d DueDate) Duplicate(parentID string) DueDate {
	dup := d
	dup.DueDateID = ""
	dup.ParentID = parentID
	dup.BaseModel = BaseModel{}
	return dup
}
