package repository

import (
	"studymate_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// ListCompleted 返回学生在租户下的全部已完成学习记录，按完成时间倒序
func (r *SessionRepository) ListCompleted(studentID, tenantID uint) ([]model.LearningSession, error) {
	var sessions []model.LearningSession
	err := r.DB.
		Where("student_id = ? AND tenant_id = ? AND status = ?", studentID, tenantID, model.SessionCompleted).
		Order("completed_at DESC").
		Find(&sessions).Error
	return sessions, err
}
