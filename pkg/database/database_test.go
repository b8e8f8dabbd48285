package database

import (
	"fmt"
	"testing"

	"studymate_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestSeedPopulatesEmptyCatalog(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db))

	Seed(db)

	var themes []model.Theme
	require.NoError(t, db.Find(&themes).Error)
	assert.NotEmpty(t, themes)
	for _, theme := range themes {
		assert.Equal(t, uint(1), theme.TenantID)
		assert.Equal(t, model.ThemeActive, theme.Status)
		assert.NotEmpty(t, theme.Title)
	}

	difficulties := make(map[model.ThemeDifficulty]bool)
	for _, theme := range themes {
		difficulties[theme.Difficulty] = true
	}
	assert.True(t, difficulties[model.DifficultyBeginner])
	assert.True(t, difficulties[model.DifficultyIntermediate])
	assert.True(t, difficulties[model.DifficultyAdvanced])
}

func TestSeedSkipsNonEmptyCatalog(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db))

	existing := model.Theme{
		TenantID:   2,
		Title:      "阅读理解",
		Difficulty: model.DifficultyBeginner,
		Status:     model.ThemeActive,
	}
	require.NoError(t, db.Create(&existing).Error)

	Seed(db)

	var count int64
	require.NoError(t, db.Model(&model.Theme{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
