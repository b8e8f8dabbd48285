package service

import (
	"sort"
	"studymate_backend/internal/model"
	"studymate_backend/internal/repository"
	"studymate_backend/internal/util"
)

const (
	trendWindow     = 5  // 最近/之前两个窗口各取 5 次
	trendMinSamples = 3  // 少于 3 次不判断趋势
	trendLookback   = 10 // 趋势只看最近 10 次
	trendThreshold  = 5.0

	successScore = 70.0 // 单次成功线
	failureScore = 50.0 // 单次失败线

	topThemeCount = 3 // 强项/弱项各取前 3
)

type ProfileService struct {
	StudentRepo *repository.StudentRepository
	SessionRepo *repository.SessionRepository
}

func NewProfileService(studentRepo *repository.StudentRepository, sessionRepo *repository.SessionRepository) *ProfileService {
	return &ProfileService{
		StudentRepo: studentRepo,
		SessionRepo: sessionRepo,
	}
}

// BuildProfile 将学生的全部已完成记录归约为画像和各主题表现。
// 学生不存在返回 ErrStudentNotFound；存在但零记录返回全零画像
func (s *ProfileService) BuildProfile(studentID, tenantID uint) (model.StudentProfile, map[uint]*model.ThemePerformance, error) {
	exists, err := s.StudentRepo.Exists(studentID, tenantID)
	if err != nil {
		return model.StudentProfile{}, nil, err
	}
	if !exists {
		return model.StudentProfile{}, nil, util.ErrStudentNotFound
	}

	sessions, err := s.SessionRepo.ListCompleted(studentID, tenantID)
	if err != nil {
		return model.StudentProfile{}, nil, err
	}

	profile, themes := aggregateSessions(sessions)
	profile.StudentID = studentID
	profile.TenantID = tenantID
	profile.Velocity = analyzeTrend(sessions)

	return profile, themes, nil
}

// GetPerformance 表现总览：画像、各主题明细、强项与弱项
func (s *ProfileService) GetPerformance(studentID, tenantID uint) (*model.PerformanceOverview, error) {
	profile, themeMap, err := s.BuildProfile(studentID, tenantID)
	if err != nil {
		return nil, err
	}

	themes := make([]model.ThemePerformance, 0, len(themeMap))
	for _, tp := range themeMap {
		themes = append(themes, *tp)
	}
	sort.Slice(themes, func(i, j int) bool { return themes[i].ThemeID < themes[j].ThemeID })

	return &model.PerformanceOverview{
		Profile:    profile,
		Themes:     themes,
		Strengths:  extractStrengths(themes),
		Weaknesses: extractWeaknesses(themes),
	}, nil
}

// aggregateSessions 空记录集不算错误，产出全零画像
func aggregateSessions(sessions []model.LearningSession) (model.StudentProfile, map[uint]*model.ThemePerformance) {
	themes := make(map[uint]*model.ThemePerformance)
	profile := model.StudentProfile{Velocity: model.VelocityInsufficientData}

	if len(sessions) == 0 {
		return profile, themes
	}

	var scoreSum, masterySum float64
	for _, sess := range sessions {
		scoreSum += sess.Score
		masterySum += sess.Mastery
		profile.TotalTimeSpent += sess.TimeSpent

		tp, ok := themes[sess.ThemeID]
		if !ok {
			tp = &model.ThemePerformance{ThemeID: sess.ThemeID}
			themes[sess.ThemeID] = tp
		}
		tp.Attempts++
		tp.AvgScore += sess.Score
		tp.AvgMastery += sess.Mastery
		if sess.Score >= successScore {
			tp.SuccessCount++
		}
		if sess.Score < failureScore {
			tp.FailureCount++
		}
		completedAt := sess.CompletedAt
		if tp.LastAttemptAt == nil || completedAt.After(*tp.LastAttemptAt) {
			tp.LastAttemptAt = &completedAt
		}
	}

	profile.TotalSessions = len(sessions)
	profile.AvgScore = round2(scoreSum / float64(len(sessions)))
	profile.AvgMastery = round2(masterySum / float64(len(sessions)))

	for _, tp := range themes {
		tp.AvgScore = round2(tp.AvgScore / float64(tp.Attempts))
		tp.AvgMastery = round2(tp.AvgMastery / float64(tp.Attempts))
	}

	return profile, themes
}

// analyzeTrend 双窗口趋势启发式，输入按完成时间倒序。
// 不足 10 次时"之前窗口"退化为最近窗口本身，得到中性趋势
func analyzeTrend(sessions []model.LearningSession) model.LearningVelocity {
	if len(sessions) < trendMinSamples {
		return model.VelocityInsufficientData
	}

	if len(sessions) > trendLookback {
		sessions = sessions[:trendLookback]
	}

	recent := sessions
	if len(recent) > trendWindow {
		recent = recent[:trendWindow]
	}
	previous := sessions[min(trendWindow, len(sessions)):]
	if len(previous) == 0 {
		previous = recent
	}

	diff := meanScore(recent) - meanScore(previous)
	switch {
	case diff > trendThreshold:
		return model.VelocityImproving
	case diff < -trendThreshold:
		return model.VelocityDeclining
	default:
		return model.VelocityStable
	}
}

func meanScore(sessions []model.LearningSession) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sessions {
		sum += s.Score
	}
	return sum / float64(len(sessions))
}

// extractStrengths 掌握度 ≥0.75 且均分 ≥75，按掌握度降序取前 3
func extractStrengths(themes []model.ThemePerformance) []model.ThemePerformance {
	var strengths []model.ThemePerformance
	for _, tp := range themes {
		if tp.AvgMastery >= 0.75 && tp.AvgScore >= 75 {
			strengths = append(strengths, tp)
		}
	}
	sort.Slice(strengths, func(i, j int) bool { return strengths[i].AvgMastery > strengths[j].AvgMastery })
	if len(strengths) > topThemeCount {
		strengths = strengths[:topThemeCount]
	}
	return strengths
}

// extractWeaknesses 掌握度 <0.50 或均分 <50，按掌握度升序取前 3
func extractWeaknesses(themes []model.ThemePerformance) []model.ThemePerformance {
	var weaknesses []model.ThemePerformance
	for _, tp := range themes {
		if tp.AvgMastery < 0.50 || tp.AvgScore < 50 {
			weaknesses = append(weaknesses, tp)
		}
	}
	sort.Slice(weaknesses, func(i, j int) bool { return weaknesses[i].AvgMastery < weaknesses[j].AvgMastery })
	if len(weaknesses) > topThemeCount {
		weaknesses = weaknesses[:topThemeCount]
	}
	return weaknesses
}
