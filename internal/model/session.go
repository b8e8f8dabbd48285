package model

import "time"

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// LearningSession 学生在某个主题上完成的一次学习
// swagger:model LearningSession
type LearningSession struct {
	BaseModel
	TenantID    uint          `gorm:"index:idx_tenant_student_session" json:"tenantId"`
	StudentID   uint          `gorm:"index:idx_tenant_student_session" json:"studentId"`
	ThemeID     uint          `gorm:"index" json:"themeId"`
	Score       float64       `json:"score"`     // 0-100
	Mastery     float64       `json:"mastery"`   // 0.0-1.0
	TimeSpent   int           `json:"timeSpent"` // seconds
	Status      SessionStatus `gorm:"type:varchar(20);default:'completed';index" json:"status"`
	CompletedAt time.Time     `gorm:"index" json:"completedAt"`
}

func (LearningSession) TableName() string {
	return "learning_sessions"
}
