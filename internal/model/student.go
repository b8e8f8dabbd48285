package model

import "time"

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// StudentAccount 租户下的学习者档案
// swagger:model StudentAccount
type StudentAccount struct {
	BaseModel
	TenantID uint      `gorm:"index:idx_tenant_student;not null" json:"tenantId"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Email    string    `gorm:"size:255;index" json:"email"`
	Role     UserRole  `gorm:"type:varchar(20);default:'student'" json:"role"`
	LastSeen time.Time `json:"lastSeen"`
}

func (StudentAccount) TableName() string {
	return "student_accounts"
}
