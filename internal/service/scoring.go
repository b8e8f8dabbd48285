package service

import (
	"math"
	"studymate_backend/internal/config"
	"studymate_backend/internal/model"
	"time"
)

// ScoringWeights 四因子加权配置，权重之和应为 1.0。
// 作为显式配置传入，支持按租户调优而无需改代码。
type ScoringWeights struct {
	Performance float64 `mapstructure:"performance"`
	Difficulty  float64 `mapstructure:"difficulty"`
	Recency     float64 `mapstructure:"recency"`
	Completion  float64 `mapstructure:"completion"`
}

func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Performance: 0.35,
		Difficulty:  0.30,
		Recency:     0.20,
		Completion:  0.15,
	}
}

// WeightsFromConfig 读取配置权重；未配置或总和异常时退回默认值
func WeightsFromConfig(cfg config.ScoringConfig) ScoringWeights {
	w := ScoringWeights{
		Performance: cfg.Performance,
		Difficulty:  cfg.Difficulty,
		Recency:     cfg.Recency,
		Completion:  cfg.Completion,
	}
	sum := w.Performance + w.Difficulty + w.Recency + w.Completion
	if sum < 0.99 || sum > 1.01 {
		return DefaultScoringWeights()
	}
	return w
}

// Combine 加权合并四个 [0,100] 子分数，保留两位小数
func (w ScoringWeights) Combine(performance, difficulty, recency, completion float64) float64 {
	total := performance*w.Performance +
		difficulty*w.Difficulty +
		recency*w.Recency +
		completion*w.Completion
	return round2(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// performanceFactor 基于学生在该主题上的历史平均分。
// 从未做过按 50 分基线处理；50-80 区间越接近 65 越高；
// 低于 50 固定 80（需要复习）；80 以上固定 30（已掌握，降权）。
func performanceFactor(avgScore *float64) float64 {
	s := 50.0
	if avgScore != nil {
		s = *avgScore
	}

	switch {
	case s >= 80:
		return 30
	case s < 50:
		return 80
	default:
		return 100 - math.Abs(65-s)
	}
}

// classifyStudentLevel 按整体平均分与掌握度划分学生水平
func classifyStudentLevel(avgScore, avgMastery float64) model.StudentLevel {
	switch {
	case avgScore >= 80 && avgMastery >= 0.70:
		return model.LevelAdvanced
	case avgScore >= 60 && avgMastery >= 0.50:
		return model.LevelIntermediate
	default:
		return model.LevelBeginner
	}
}

// zpdTable (学生水平, 主题难度) → 匹配分。偏向比当前水平高一档的主题
var zpdTable = map[model.StudentLevel]map[model.ThemeDifficulty]float64{
	model.LevelBeginner: {
		model.DifficultyBeginner:     70,
		model.DifficultyIntermediate: 100,
		model.DifficultyAdvanced:     40,
	},
	model.LevelIntermediate: {
		model.DifficultyBeginner:     40,
		model.DifficultyIntermediate: 80,
		model.DifficultyAdvanced:     100,
	},
	model.LevelAdvanced: {
		model.DifficultyBeginner:     20,
		model.DifficultyIntermediate: 60,
		model.DifficultyAdvanced:     100,
	},
}

func difficultyFactor(level model.StudentLevel, difficulty model.ThemeDifficulty) float64 {
	if row, ok := zpdTable[level]; ok {
		if score, ok := row[difficulty]; ok {
			return score
		}
	}
	return 50
}

// recencyFactor 遗忘曲线：3-7 天前最后一次练习是最佳复习窗口
func recencyFactor(lastAttemptAt *time.Time, now time.Time) float64 {
	if lastAttemptAt == nil {
		return 100
	}

	days := now.Sub(*lastAttemptAt).Hours() / 24

	switch {
	case days < 1:
		return 20
	case days < 3:
		return 60
	case days < 7:
		return 100
	case days < 14:
		return 80
	case days < 30:
		return 60
	default:
		return 40
	}
}

// completionFactor 尝试次数越少越优先，鼓励接触新内容
func completionFactor(attemptCount int) float64 {
	switch {
	case attemptCount == 0:
		return 100
	case attemptCount <= 2:
		return 70
	default:
		return 40
	}
}

// scoreCandidate 对单个候选主题计算加权总分
func scoreCandidate(candidate model.CandidateTheme, profile model.StudentProfile, weights ScoringWeights, now time.Time) model.RecommendationScore {
	perf := performanceFactor(candidate.AvgScore)
	level := classifyStudentLevel(profile.AvgScore, profile.AvgMastery)
	diff := difficultyFactor(level, candidate.Difficulty)
	rec := recencyFactor(candidate.LastAttemptAt, now)
	comp := completionFactor(candidate.AttemptCount)

	return model.RecommendationScore{
		ThemeID:       candidate.ID,
		Score:         weights.Combine(perf, diff, rec, comp),
		AttemptCount:  candidate.AttemptCount,
		AvgScore:      candidate.AvgScore,
		LastAttemptAt: candidate.LastAttemptAt,
	}
}
