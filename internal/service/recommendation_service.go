package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"studymate_backend/internal/model"
	"studymate_backend/internal/repository"
	"studymate_backend/pkg/logger"
	"studymate_backend/pkg/monitoring"
	"studymate_backend/pkg/tracing"

	"go.uber.org/zap"
)

const (
	// 每次最多返回 3 条推荐
	maxRecommendations = 3
	// 反馈只允许更新 24 小时内的日志
	feedbackWindow = 24 * time.Hour
)

type RecommendationService struct {
	ProfileService *ProfileService
	ThemeRepo      *repository.ThemeRepository
	LogRepo        *repository.RecommendationLogRepository

	mu      sync.RWMutex
	weights ScoringWeights
}

func NewRecommendationService(
	profileService *ProfileService,
	themeRepo *repository.ThemeRepository,
	logRepo *repository.RecommendationLogRepository,
	weights ScoringWeights,
) *RecommendationService {
	return &RecommendationService{
		ProfileService: profileService,
		ThemeRepo:      themeRepo,
		LogRepo:        logRepo,
		weights:        weights,
	}
}

// Weights 返回当前权重快照，配置热更新时可能被替换
func (s *RecommendationService) Weights() ScoringWeights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weights
}

func (s *RecommendationService) SetWeights(w ScoringWeights) {
	s.mu.Lock()
	s.weights = w
	s.mu.Unlock()
	logger.Log.Info("scoring weights updated",
		zap.Float64("performance", w.Performance),
		zap.Float64("difficulty", w.Difficulty),
		zap.Float64("recency", w.Recency),
		zap.Float64("completion", w.Completion))
}

// Generate 为学生生成至多 3 条带理由的推荐。
// 读路径任何失败都会中止请求，不返回部分结果
func (s *RecommendationService) Generate(ctx context.Context, studentID, tenantID uint) (*model.RecommendationResponse, error) {
	ctx, span := tracing.Tracer.Start(ctx, "recommendation.generate")
	defer span.End()

	profile, themePerf, err := s.ProfileService.BuildProfile(studentID, tenantID)
	if err != nil {
		return nil, err
	}

	themes, err := s.ThemeRepo.ListActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	weights := s.Weights()

	scores := make([]model.RecommendationScore, 0, len(themes))
	themeByID := make(map[uint]model.Theme, len(themes))
	for _, theme := range themes {
		themeByID[theme.ID] = theme
		scores = append(scores, scoreCandidate(joinCandidate(theme, themePerf), profile, weights, now))
	}

	top := rankScores(scores)

	items := make([]model.RecommendationItem, 0, len(top))
	for _, sc := range top {
		theme := themeByID[sc.ThemeID]
		reasons := buildReasons(sc, now)
		items = append(items, model.RecommendationItem{
			ThemeID:     theme.ID,
			Title:       theme.Title,
			Description: theme.Description,
			Difficulty:  theme.Difficulty,
			Score:       sc.Score,
			Reasons:     reasons,
			Explanation: buildExplanation(reasons),
		})
	}

	s.logRecommendations(studentID, tenantID, items)
	monitoring.RecommendationCounter.WithLabelValues(string(profile.Velocity)).Inc()

	return &model.RecommendationResponse{
		StudentID:       studentID,
		Recommendations: items,
		ProfileSummary: model.ProfileSummary{
			AvgScore:      profile.AvgScore,
			AvgMastery:    profile.AvgMastery,
			TotalSessions: profile.TotalSessions,
			Velocity:      profile.Velocity,
		},
		GeneratedAt: now,
	}, nil
}

// RecordFeedback 更新窗口内最近一条匹配日志的反馈。
// 没有匹配行按成功处理；只有底层存储错误才向上返回。
// 同窗口并发反馈按后写覆盖处理
func (s *RecommendationService) RecordFeedback(studentID, tenantID, themeID uint, feedback string) error {
	affected, err := s.LogRepo.UpdateFeedback(studentID, tenantID, themeID, feedback, feedbackWindow)
	if err != nil {
		return err
	}
	if affected == 0 {
		logger.Log.Debug("feedback matched no log entry",
			zap.Uint("studentId", studentID),
			zap.Uint("themeId", themeID))
	}
	return nil
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// History 返回学生最近的推荐审计记录，按生成时间倒序
func (s *RecommendationService) History(studentID, tenantID uint, limit int) ([]model.RecommendationLog, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.LogRepo.ListForStudent(studentID, tenantID, limit)
}

// joinCandidate 主题元数据与学生在该主题上的历史表现合并为候选
func joinCandidate(theme model.Theme, themePerf map[uint]*model.ThemePerformance) model.CandidateTheme {
	candidate := model.CandidateTheme{Theme: theme}
	if tp, ok := themePerf[theme.ID]; ok {
		avgScore := tp.AvgScore
		candidate.AttemptCount = tp.Attempts
		candidate.AvgScore = &avgScore
		candidate.LastAttemptAt = tp.LastAttemptAt
	}
	return candidate
}

// rankScores 过滤零分候选，按分数降序排列，同分按主题 ID 升序保证确定性，
// 截断到前 3 条
func rankScores(scores []model.RecommendationScore) []model.RecommendationScore {
	ranked := make([]model.RecommendationScore, 0, len(scores))
	for _, sc := range scores {
		if sc.Score > 0 {
			ranked = append(ranked, sc)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ThemeID < ranked[j].ThemeID
	})

	if len(ranked) > maxRecommendations {
		ranked = ranked[:maxRecommendations]
	}
	return ranked
}

// logRecommendations 尽力而为的审计写入。失败只记日志，绝不影响响应
func (s *RecommendationService) logRecommendations(studentID, tenantID uint, items []model.RecommendationItem) {
	for _, item := range items {
		serialized, err := json.Marshal(item.Reasons)
		if err != nil {
			logger.Log.Warn("failed to serialize recommendation reasons",
				zap.Uint("themeId", item.ThemeID), zap.Error(err))
			continue
		}

		entry := &model.RecommendationLog{
			TenantID:  tenantID,
			StudentID: studentID,
			ThemeID:   item.ThemeID,
			Score:     item.Score,
			Reasons:   string(serialized),
		}
		if err := s.LogRepo.Append(entry); err != nil {
			logger.Log.Warn("failed to persist recommendation log",
				zap.Uint("studentId", studentID),
				zap.Uint("themeId", item.ThemeID),
				zap.Error(err))
		}
	}
}
