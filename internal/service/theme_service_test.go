package service

import (
	"context"
	"testing"

	"studymate_backend/internal/model"
	"studymate_backend/internal/repository"
	"studymate_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newThemeService(db *gorm.DB) *ThemeService {
	return NewThemeService(repository.NewThemeRepository(db, nil))
}

func TestCreateThemeEntersCandidatePool(t *testing.T) {
	db := newTestDB(t)
	svc := newThemeService(db)
	ctx := context.Background()

	theme, err := svc.CreateTheme(ctx, testTenant, CreateThemeRequest{
		Title:       "代数基础",
		Description: "变量与一元一次方程",
		Difficulty:  model.DifficultyIntermediate,
	})
	require.NoError(t, err)
	assert.NotZero(t, theme.ID)
	assert.Equal(t, model.ThemeActive, theme.Status)

	active, err := svc.ThemeRepo.ListActive(ctx, testTenant)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "代数基础", active[0].Title)
}

func TestGetTheme(t *testing.T) {
	db := newTestDB(t)
	svc := newThemeService(db)
	theme := seedTheme(t, db, "几何图形", model.DifficultyBeginner)

	got, err := svc.GetTheme(theme.ID, testTenant)
	require.NoError(t, err)
	assert.Equal(t, theme.Title, got.Title)
}

func TestGetThemeNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newThemeService(db)
	theme := seedTheme(t, db, "几何图形", model.DifficultyBeginner)

	_, err := svc.GetTheme(9999, testTenant)
	assert.ErrorIs(t, err, util.ErrThemeNotFound)

	// 其他租户看不到该主题
	_, err = svc.GetTheme(theme.ID, testTenant+1)
	assert.ErrorIs(t, err, util.ErrThemeNotFound)
}
