package repository

import (
	"studymate_backend/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

// Exists 区分"学生不存在"与"学生存在但没有任何学习记录"
func (r *StudentRepository) Exists(studentID, tenantID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.StudentAccount{}).
		Where("id = ? AND tenant_id = ?", studentID, tenantID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *StudentRepository) UpdateLastSeen(studentID uint) error {
	return r.DB.Model(&model.StudentAccount{}).
		Where("id = ?", studentID).
		Update("last_seen", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
