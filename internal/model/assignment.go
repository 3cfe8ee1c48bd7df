package model

// Assignment 作业表，对应 assignments（外部维护，本模块只读）
type Assignment struct {
	AssignmentID      string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name              string `gorm:"type:varchar(200);not null"     json:"name"`
	StaggeredDeadline bool   `gorm:"not null;default:false"         json:"staggered_deadline"` // 按选题错峰截止
	BaseModel
}

func (Assignment) TableName() string { return "assignments" }

// Participant 作业参与者表，对应 participants（即"学生"）
type Participant struct {
	ParticipantID string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID        string  `gorm:"type:uuid;not null"             json:"user_id"`
	AssignmentID  string  `gorm:"type:uuid;not null;index"       json:"assignment_id"`
	TopicID       *string `gorm:"type:uuid"                      json:"topic_id,omitempty"`
	BaseModel

	// 关联
	Assignment *Assignment `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"assignment,omitempty"`
}

func (Participant) TableName() string { return "participants" }
