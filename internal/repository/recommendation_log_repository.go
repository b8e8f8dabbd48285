package repository

import (
	"studymate_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type RecommendationLogRepository struct {
	DB *gorm.DB
}

func NewRecommendationLogRepository(db *gorm.DB) *RecommendationLogRepository {
	return &RecommendationLogRepository{DB: db}
}

func (r *RecommendationLogRepository) Append(entry *model.RecommendationLog) error {
	return r.DB.Create(entry).Error
}

// UpdateFeedback 更新 (student, tenant, theme) 在时间窗口内最近的一条日志，
// 返回受影响的行数。没有匹配行不是错误
func (r *RecommendationLogRepository) UpdateFeedback(studentID, tenantID, themeID uint, feedback string, within time.Duration) (int64, error) {
	cutoff := time.Now().Add(-within)

	var entry model.RecommendationLog
	err := r.DB.
		Where("student_id = ? AND tenant_id = ? AND theme_id = ? AND created_at >= ?",
			studentID, tenantID, themeID, cutoff).
		Order("created_at DESC").
		First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	now := time.Now()
	res := r.DB.Model(&model.RecommendationLog{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"feedback":    feedback,
			"feedback_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *RecommendationLogRepository) ListForStudent(studentID, tenantID uint, limit int) ([]model.RecommendationLog, error) {
	var entries []model.RecommendationLog
	err := r.DB.
		Where("student_id = ? AND tenant_id = ?", studentID, tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
