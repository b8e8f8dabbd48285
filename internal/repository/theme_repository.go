package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"studymate_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const themeCacheTTL = 5 * time.Minute

type ThemeRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewThemeRepository(db *gorm.DB, rdb *redis.Client) *ThemeRepository {
	return &ThemeRepository{DB: db, Redis: rdb}
}

// ListActive 返回租户下所有启用的主题，带短 TTL 的 redis 缓存
func (r *ThemeRepository) ListActive(ctx context.Context, tenantID uint) ([]model.Theme, error) {
	cacheKey := fmt.Sprintf("themes:active:%d", tenantID)

	if r.Redis != nil {
		if cached, err := r.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var themes []model.Theme
			if err := json.Unmarshal([]byte(cached), &themes); err == nil {
				return themes, nil
			}
		}
	}

	var themes []model.Theme
	err := r.DB.
		Where("tenant_id = ? AND status = ?", tenantID, model.ThemeActive).
		Order("id ASC").
		Find(&themes).Error
	if err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if data, err := json.Marshal(themes); err == nil {
			// 缓存写失败不影响读路径
			r.Redis.Set(ctx, cacheKey, data, themeCacheTTL)
		}
	}

	return themes, nil
}

func (r *ThemeRepository) FindByID(themeID, tenantID uint) (*model.Theme, error) {
	var theme model.Theme
	err := r.DB.Where("id = ? AND tenant_id = ?", themeID, tenantID).First(&theme).Error
	if err != nil {
		return nil, err
	}
	return &theme, nil
}

func (r *ThemeRepository) Create(theme *model.Theme) error {
	return r.DB.Create(theme).Error
}

// InvalidateCache 主题目录变更后清掉租户缓存
func (r *ThemeRepository) InvalidateCache(ctx context.Context, tenantID uint) {
	if r.Redis != nil {
		r.Redis.Del(ctx, fmt.Sprintf("themes:active:%d", tenantID))
	}
}
