package service

import (
	"fmt"
	"math"
	"strings"
	"studymate_backend/internal/model"
	"time"
)

// 最佳复习窗口（天），与 recencyFactor 的 3-7 天档一致
const (
	reviewWindowMinDays = 3.0
	reviewWindowMaxDays = 7.0
)

// buildReasons 生成结构化推荐理由，顺序固定：
// 新内容 → 需要复习 → 难度匹配 → 最佳时机。
// 顺序影响最终的解释文本，属于对外契约的一部分
func buildReasons(score model.RecommendationScore, now time.Time) []model.RecommendationReason {
	var reasons []model.RecommendationReason

	if score.AttemptCount == 0 {
		reasons = append(reasons, model.RecommendationReason{
			Type:        model.ReasonNewContent,
			Label:       "New content",
			Description: "You have not explored this theme yet",
		})
	}

	if score.AvgScore != nil && *score.AvgScore < 60 {
		reasons = append(reasons, model.RecommendationReason{
			Type:        model.ReasonNeedsReview,
			Label:       "Needs review",
			Description: fmt.Sprintf("Your average score on this theme is %.0f, extra practice will help", math.Round(*score.AvgScore)),
		})
	}

	reasons = append(reasons, model.RecommendationReason{
		Type:        model.ReasonAdaptiveDifficulty,
		Label:       "Adaptive difficulty",
		Description: "The difficulty sits just above your current level, in your zone of proximal development",
	})

	if score.LastAttemptAt != nil {
		days := now.Sub(*score.LastAttemptAt).Hours() / 24
		if days >= reviewWindowMinDays && days <= reviewWindowMaxDays {
			reasons = append(reasons, model.RecommendationReason{
				Type:        model.ReasonOptimalTiming,
				Label:       "Optimal timing",
				Description: "Your last attempt falls in the ideal spaced-review window",
			})
		}
	}

	return reasons
}

// buildExplanation 将理由描述拼接为一段可读文本
func buildExplanation(reasons []model.RecommendationReason) string {
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = r.Description
	}
	return strings.Join(parts, ". ")
}
