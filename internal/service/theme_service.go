package service

import (
	"context"

	"studymate_backend/internal/model"
	"studymate_backend/internal/repository"
	"studymate_backend/internal/util"

	"gorm.io/gorm"
)

type ThemeService struct {
	ThemeRepo *repository.ThemeRepository
}

func NewThemeService(themeRepo *repository.ThemeRepository) *ThemeService {
	return &ThemeService{ThemeRepo: themeRepo}
}

type CreateThemeRequest struct {
	Title       string                `json:"title" binding:"required,max=255"`
	Description string                `json:"description"`
	Difficulty  model.ThemeDifficulty `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
}

// CreateTheme 新建主题并清掉租户的目录缓存，新主题立刻可被推荐
func (s *ThemeService) CreateTheme(ctx context.Context, tenantID uint, req CreateThemeRequest) (*model.Theme, error) {
	theme := &model.Theme{
		TenantID:    tenantID,
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  req.Difficulty,
		Status:      model.ThemeActive,
	}
	if err := s.ThemeRepo.Create(theme); err != nil {
		return nil, err
	}
	s.ThemeRepo.InvalidateCache(ctx, tenantID)
	return theme, nil
}

func (s *ThemeService) GetTheme(themeID, tenantID uint) (*model.Theme, error) {
	theme, err := s.ThemeRepo.FindByID(themeID, tenantID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrThemeNotFound
	}
	if err != nil {
		return nil, err
	}
	return theme, nil
}
