package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"studymate_backend/internal/model"
	"studymate_backend/internal/repository"
	"studymate_backend/internal/util"
	"studymate_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testTenant = uint(1)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Log = zap.NewNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.StudentAccount{},
		&model.Theme{},
		&model.LearningSession{},
		&model.RecommendationLog{},
	))
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *RecommendationService {
	t.Helper()
	profileService := NewProfileService(
		repository.NewStudentRepository(db),
		repository.NewSessionRepository(db),
	)
	return NewRecommendationService(
		profileService,
		repository.NewThemeRepository(db, nil),
		repository.NewRecommendationLogRepository(db),
		DefaultScoringWeights(),
	)
}

func seedStudent(t *testing.T, db *gorm.DB) *model.StudentAccount {
	t.Helper()
	student := &model.StudentAccount{TenantID: testTenant, Name: "Alice", Email: "alice@example.com"}
	require.NoError(t, db.Create(student).Error)
	return student
}

func seedTheme(t *testing.T, db *gorm.DB, title string, difficulty model.ThemeDifficulty) *model.Theme {
	t.Helper()
	theme := &model.Theme{
		TenantID:   testTenant,
		Title:      title,
		Difficulty: difficulty,
		Status:     model.ThemeActive,
	}
	require.NoError(t, db.Create(theme).Error)
	return theme
}

func seedSession(t *testing.T, db *gorm.DB, studentID, themeID uint, score, mastery float64, completedAt time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&model.LearningSession{
		TenantID:    testTenant,
		StudentID:   studentID,
		ThemeID:     themeID,
		Score:       score,
		Mastery:     mastery,
		TimeSpent:   600,
		Status:      model.SessionCompleted,
		CompletedAt: completedAt,
	}).Error)
}

func TestGenerateUnknownStudent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Generate(context.Background(), 999, testTenant)
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestGenerateStudentInWrongTenant(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	student := seedStudent(t, db)

	_, err := svc.Generate(context.Background(), student.ID, testTenant+1)
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestGenerateZeroSessionStudent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	student := seedStudent(t, db)
	seedTheme(t, db, "Fractions", model.DifficultyBeginner)
	seedTheme(t, db, "Algebra", model.DifficultyIntermediate)

	res, err := svc.Generate(context.Background(), student.ID, testTenant)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.ProfileSummary.AvgScore)
	assert.Equal(t, 0.0, res.ProfileSummary.AvgMastery)
	assert.Equal(t, 0, res.ProfileSummary.TotalSessions)
	assert.Equal(t, model.VelocityInsufficientData, res.ProfileSummary.Velocity)

	// scoring still runs with never-attempted defaults
	require.Len(t, res.Recommendations, 2)
	for _, item := range res.Recommendations {
		assert.Greater(t, item.Score, 0.0)
		// new content reason comes first for unattempted themes
		require.NotEmpty(t, item.Reasons)
		assert.Equal(t, model.ReasonNewContent, item.Reasons[0].Type)
	}

	// beginner student: intermediate theme is the ZPD match and ranks first
	assert.Equal(t, "Algebra", res.Recommendations[0].Title)
}

func TestGenerateReturnsAtMostThreeNonIncreasing(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	student := seedStudent(t, db)
	for i := 0; i < 6; i++ {
		seedTheme(t, db, fmt.Sprintf("Theme %d", i), model.DifficultyIntermediate)
	}

	res, err := svc.Generate(context.Background(), student.ID, testTenant)
	require.NoError(t, err)

	require.Len(t, res.Recommendations, 3)
	for i := 1; i < len(res.Recommendations); i++ {
		assert.GreaterOrEqual(t, res.Recommendations[i-1].Score, res.Recommendations[i].Score)
	}
}

func TestGenerateDeterministicWithTieBreak(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	student := seedStudent(t, db)
	// identical themes produce identical scores; order must fall back to theme id
	for i := 0; i < 4; i++ {
		seedTheme(t, db, fmt.Sprintf("Clone %d", i), model.DifficultyIntermediate)
	}

	first, err := svc.Generate(context.Background(), student.ID, testTenant)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), student.ID, testTenant)
	require.NoError(t, err)

	require.Len(t, first.Recommendations, 3)
	for i := range first.Recommendations {
		assert.Equal(t, first.Recommendations[i].ThemeID, second.Recommendations[i].ThemeID)
		assert.Equal(t, first.Recommendations[i].Score, second.Recommendations[i].Score)
	}

	for i := 1; i < len(first.Recommendations); i++ {
		prev, cur := first.Recommendations[i-1], first.Recommendations[i]
		if prev.Score == cur.Score {
			assert.Less(t, prev.ThemeID, cur.ThemeID)
		}
	}
}

func TestGenerateReasonOrderingAndExplanation(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	student := seedStudent(t, db)
	theme := seedTheme(t, db, "Geometry", model.DifficultyIntermediate)

	// one weak attempt five days ago: needs_review + adaptive + optimal_timing
	seedSession(t, db, student.ID, theme.ID, 45, 0.3, time.Now().Add(-5*24*time.Hour))

	res, err := svc.Generate(context.Background(), student.ID, testTenant)
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 1)

	item := res.Recommendations[0]
	require.Len(t, item.Reasons, 3)
	assert.Equal(t, model.ReasonNeedsReview, item.Reasons[0].Type)
	assert.Equal(t, model.ReasonAdaptiveDifficulty, item.Reasons[1].Type)
	assert.Equal(t, model.ReasonOptimalTiming, item.Reasons[2].Type)
	assert.Contains(t, item.Reasons[0].Description, "45")

	expected := item.Reasons[0].Description + ". " + item.Reasons[1].Description + ". " + item.Reasons[2].Description
	assert.Equal(t, expected, item.Explanation)
}

func TestGeneratePersistsAuditLog(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	student := seedStudent(t, db)
	seedTheme(t, db, "Fractions", model.DifficultyBeginner)

	res, err := svc.Generate(context.Background(), student.ID, testTenant)
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 1)

	var entries []model.RecommendationLog
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, student.ID, entry.StudentID)
	assert.Equal(t, res.Recommendations[0].ThemeID, entry.ThemeID)
	assert.Equal(t, res.Recommendations[0].Score, entry.Score)
	assert.Nil(t, entry.Feedback)

	var reasons []model.RecommendationReason
	require.NoError(t, json.Unmarshal([]byte(entry.Reasons), &reasons))
	assert.Equal(t, res.Recommendations[0].Reasons, reasons)
}

func TestGenerateSurvivesLogWriteFailure(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	student := seedStudent(t, db)
	seedTheme(t, db, "Fractions", model.DifficultyBeginner)

	// audit table gone: logging fails, the response must not
	require.NoError(t, db.Migrator().DropTable(&model.RecommendationLog{}))

	res, err := svc.Generate(context.Background(), student.ID, testTenant)
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, 1)
}

func TestRecordFeedbackWithinWindow(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	student := seedStudent(t, db)
	theme := seedTheme(t, db, "Fractions", model.DifficultyBeginner)

	_, err := svc.Generate(context.Background(), student.ID, testTenant)
	require.NoError(t, err)

	require.NoError(t, svc.RecordFeedback(student.ID, testTenant, theme.ID, "not_relevant"))

	var entry model.RecommendationLog
	require.NoError(t, db.Where("student_id = ? AND theme_id = ?", student.ID, theme.ID).First(&entry).Error)
	require.NotNil(t, entry.Feedback)
	assert.Equal(t, "not_relevant", *entry.Feedback)
	assert.NotNil(t, entry.FeedbackAt)
}

func TestRecordFeedbackUpdatesMostRecentEntryOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	student := seedStudent(t, db)
	theme := seedTheme(t, db, "Fractions", model.DifficultyBeginner)

	old := &model.RecommendationLog{
		UUIDBase:  model.UUIDBase{CreatedAt: time.Now().Add(-2 * time.Hour)},
		TenantID:  testTenant,
		StudentID: student.ID,
		ThemeID:   theme.ID,
		Score:     50,
		Reasons:   "[]",
	}
	require.NoError(t, db.Create(old).Error)

	recent := &model.RecommendationLog{
		UUIDBase:  model.UUIDBase{CreatedAt: time.Now().Add(-10 * time.Minute)},
		TenantID:  testTenant,
		StudentID: student.ID,
		ThemeID:   theme.ID,
		Score:     60,
		Reasons:   "[]",
	}
	require.NoError(t, db.Create(recent).Error)

	require.NoError(t, svc.RecordFeedback(student.ID, testTenant, theme.ID, "completed"))

	var got model.RecommendationLog
	require.NoError(t, db.First(&got, "id = ?", recent.ID).Error)
	require.NotNil(t, got.Feedback)
	assert.Equal(t, "completed", *got.Feedback)

	got = model.RecommendationLog{}
	require.NoError(t, db.First(&got, "id = ?", old.ID).Error)
	assert.Nil(t, got.Feedback)
}

func TestRecordFeedbackExpiredWindowIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	student := seedStudent(t, db)
	theme := seedTheme(t, db, "Fractions", model.DifficultyBeginner)

	expired := &model.RecommendationLog{
		UUIDBase:  model.UUIDBase{CreatedAt: time.Now().Add(-25 * time.Hour)},
		TenantID:  testTenant,
		StudentID: student.ID,
		ThemeID:   theme.ID,
		Score:     50,
		Reasons:   "[]",
	}
	require.NoError(t, db.Create(expired).Error)

	// no matching entry inside the 24h window: silent success
	require.NoError(t, svc.RecordFeedback(student.ID, testTenant, theme.ID, "not_relevant"))

	var got model.RecommendationLog
	require.NoError(t, db.First(&got, "id = ?", expired.ID).Error)
	assert.Nil(t, got.Feedback)
}

func TestRecordFeedbackNoEntriesAtAll(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	student := seedStudent(t, db)

	assert.NoError(t, svc.RecordFeedback(student.ID, testTenant, 42, "completed"))
}

func TestSetWeightsAffectsScoring(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	student := seedStudent(t, db)
	seedTheme(t, db, "Fractions", model.DifficultyBeginner)

	before, err := svc.Generate(context.Background(), student.ID, testTenant)
	require.NoError(t, err)

	// full weight on completion: an unattempted theme scores exactly 100
	svc.SetWeights(ScoringWeights{Completion: 1.0})

	after, err := svc.Generate(context.Background(), student.ID, testTenant)
	require.NoError(t, err)

	assert.NotEqual(t, before.Recommendations[0].Score, after.Recommendations[0].Score)
	assert.Equal(t, 100.0, after.Recommendations[0].Score)
}

func TestHistoryReturnsRecentEntriesFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	student := seedStudent(t, db)
	theme := seedTheme(t, db, "Fractions", model.DifficultyBeginner)

	old := &model.RecommendationLog{
		TenantID:  testTenant,
		StudentID: student.ID,
		ThemeID:   theme.ID,
		Score:     55.0,
		Reasons:   "[]",
	}
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Create(old).Error)

	_, err := svc.Generate(context.Background(), student.ID, testTenant)
	require.NoError(t, err)

	entries, err := svc.History(student.ID, testTenant, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, old.ID, entries[1].ID)
	assert.True(t, entries[0].CreatedAt.After(entries[1].CreatedAt))
}

func TestHistoryRespectsLimitAndTenant(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	student := seedStudent(t, db)

	for i := 0; i < 3; i++ {
		entry := &model.RecommendationLog{
			TenantID:  testTenant,
			StudentID: student.ID,
			ThemeID:   uint(i + 1),
			Score:     70.0,
			Reasons:   "[]",
		}
		entry.CreatedAt = time.Now().Add(-time.Duration(i) * time.Hour)
		require.NoError(t, db.Create(entry).Error)
	}
	other := &model.RecommendationLog{
		TenantID:  testTenant + 1,
		StudentID: student.ID,
		ThemeID:   9,
		Score:     70.0,
		Reasons:   "[]",
	}
	require.NoError(t, db.Create(other).Error)

	entries, err := svc.History(student.ID, testTenant, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(1), entries[0].ThemeID)

	all, err := svc.History(student.ID, testTenant, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
