package model

import "time"

type LearningVelocity string

const (
	VelocityImproving        LearningVelocity = "improving"
	VelocityStable           LearningVelocity = "stable"
	VelocityDeclining        LearningVelocity = "declining"
	VelocityInsufficientData LearningVelocity = "insufficient_data"
)

type StudentLevel string

const (
	LevelBeginner     StudentLevel = "beginner"
	LevelIntermediate StudentLevel = "intermediate"
	LevelAdvanced     StudentLevel = "advanced"
)

type ReasonType string

const (
	ReasonNewContent         ReasonType = "new_content"
	ReasonNeedsReview        ReasonType = "needs_review"
	ReasonAdaptiveDifficulty ReasonType = "adaptive_difficulty"
	ReasonOptimalTiming      ReasonType = "optimal_timing"
	ReasonWeaknessFocus      ReasonType = "weakness_focus"
	ReasonStrengthBuilding   ReasonType = "strength_building"
)

// StudentProfile 学生整体表现画像，每次请求即时计算，不落库
// swagger:model StudentProfile
type StudentProfile struct {
	StudentID      uint             `json:"studentId"`
	TenantID       uint             `json:"tenantId"`
	TotalSessions  int              `json:"totalSessions"`
	AvgScore       float64          `json:"avgScore"`
	AvgMastery     float64          `json:"avgMastery"`
	TotalTimeSpent int              `json:"totalTimeSpent"`
	Velocity       LearningVelocity `json:"learningVelocity"`
}

// ThemePerformance 学生在单个主题上的表现汇总
// swagger:model ThemePerformance
type ThemePerformance struct {
	ThemeID       uint       `json:"themeId"`
	Attempts      int        `json:"attempts"`
	AvgScore      float64    `json:"avgScore"`
	AvgMastery    float64    `json:"avgMastery"`
	LastAttemptAt *time.Time `json:"lastAttemptAt"`
	SuccessCount  int        `json:"successCount"` // score >= 70
	FailureCount  int        `json:"failureCount"` // score < 50
}

// PerformanceOverview 学生表现总览，含强弱项
// swagger:model PerformanceOverview
type PerformanceOverview struct {
	Profile    StudentProfile     `json:"profile"`
	Themes     []ThemePerformance `json:"themes"`
	Strengths  []ThemePerformance `json:"strengths"`
	Weaknesses []ThemePerformance `json:"weaknesses"`
}

// CandidateTheme 主题元数据与该学生在此主题上的历史表现
type CandidateTheme struct {
	Theme
	AttemptCount  int
	AvgScore      *float64
	LastAttemptAt *time.Time
}

// RecommendationScore 单个候选主题的加权得分，按请求生成
type RecommendationScore struct {
	ThemeID       uint
	Score         float64 // 0-100, 2 decimal places
	AttemptCount  int
	AvgScore      *float64
	LastAttemptAt *time.Time
}

// RecommendationReason 附加在推荐上的结构化理由
// swagger:model RecommendationReason
type RecommendationReason struct {
	Type        ReasonType `json:"type"`
	Label       string     `json:"label"`
	Description string     `json:"description"`
}

// RecommendationItem 最终返回给调用方的单条推荐
// swagger:model RecommendationItem
type RecommendationItem struct {
	ThemeID     uint                   `json:"themeId"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Difficulty  ThemeDifficulty        `json:"difficulty"`
	Score       float64                `json:"score"`
	Reasons     []RecommendationReason `json:"reasons"`
	Explanation string                 `json:"explanation"`
}

// ProfileSummary 推荐响应里携带的画像摘要
// swagger:model ProfileSummary
type ProfileSummary struct {
	AvgScore      float64          `json:"avgScore"`
	AvgMastery    float64          `json:"avgMastery"`
	TotalSessions int              `json:"totalSessions"`
	Velocity      LearningVelocity `json:"learningVelocity"`
}

// RecommendationResponse generateRecommendations 的完整响应
// swagger:model RecommendationResponse
type RecommendationResponse struct {
	StudentID       uint                 `json:"studentId"`
	Recommendations []RecommendationItem `json:"recommendations"`
	ProfileSummary  ProfileSummary       `json:"profileSummary"`
	GeneratedAt     time.Time            `json:"generatedAt"`
}

// RecommendationLog 审计日志，写入后只允许反馈字段被更新一次
// swagger:model RecommendationLog
type RecommendationLog struct {
	UUIDBase
	TenantID   uint       `gorm:"index:idx_reco_log_lookup" json:"tenantId"`
	StudentID  uint       `gorm:"index:idx_reco_log_lookup" json:"studentId"`
	ThemeID    uint       `gorm:"index:idx_reco_log_lookup" json:"themeId"`
	Score      float64    `json:"score"`
	Reasons    string     `gorm:"type:text" json:"reasons"` // JSON-serialized []RecommendationReason
	Feedback   *string    `gorm:"size:50" json:"feedback"`
	FeedbackAt *time.Time `json:"feedbackAt"`
}

func (RecommendationLog) TableName() string {
	return "recommendation_logs"
}
