package model

type ThemeDifficulty string

const (
	DifficultyBeginner     ThemeDifficulty = "beginner"
	DifficultyIntermediate ThemeDifficulty = "intermediate"
	DifficultyAdvanced     ThemeDifficulty = "advanced"
)

type ThemeStatus string

const (
	ThemeActive   ThemeStatus = "active"
	ThemeArchived ThemeStatus = "archived"
)

// Theme 可被推荐的学习单元
// swagger:model Theme
type Theme struct {
	BaseModel
	TenantID    uint            `gorm:"index:idx_tenant_theme_status" json:"tenantId"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Difficulty  ThemeDifficulty `gorm:"type:varchar(20);default:'beginner'" json:"difficulty"`
	Status      ThemeStatus     `gorm:"type:varchar(20);default:'active';index:idx_tenant_theme_status" json:"status"`
}

func (Theme) TableName() string {
	return "themes"
}
