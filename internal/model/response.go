package model

// ReviewResponseMapType 同行评审映射类型，只有此类回复参与轮次计算
const ReviewResponseMapType = "ReviewResponseMap"

// ResponseMap 回复映射表，对应 response_maps（外部维护）
type ResponseMap struct {
	ResponseMapID    string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Type             string `gorm:"type:varchar(50);not null"      json:"type"` // ReviewResponseMap | TeammateReviewResponseMap | ...
	ReviewedObjectID string `gorm:"type:uuid;not null"             json:"reviewed_object_id"`
	ReviewerID       string `gorm:"type:uuid;not null"             json:"reviewer_id"`
	RevieweeID       string `gorm:"type:uuid;not null"             json:"reviewee_id"`
	BaseModel
}

func (ResponseMap) TableName() string { return "response_maps" }

// IsReview 是否同行评审映射
func (m *ResponseMap) IsReview() bool { return m.Type == ReviewResponseMapType }

// Response 回复表，对应 responses
type Response struct {
	ResponseID string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MapID      string `gorm:"type:uuid;not null;index"       json:"map_id"`
	Round      *int   `json:"round,omitempty"`
	BaseModel
}

func (Response) TableName() string { return "responses" }
