package controller

import (
	"errors"

	"studymate_backend/internal/service"
	"studymate_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ThemeController struct {
	ThemeService *service.ThemeService
}

func NewThemeController(themeService *service.ThemeService) *ThemeController {
	return &ThemeController{ThemeService: themeService}
}

// @Summary 创建学习主题
// @Description 在当前租户下创建一个新主题，创建后立即进入推荐候选池
// @Tags 主题管理
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param theme body service.CreateThemeRequest true "主题信息"
// @Success 201 {object} util.Response{data=model.Theme}
// @Failure 400 {object} util.Response
// @Router /api/admin/themes [post]
func (c *ThemeController) CreateTheme(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateThemeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	theme, err := c.ThemeService.CreateTheme(ctx.Request.Context(), user.TenantID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, theme)
}

// @Summary 获取主题详情
// @Tags 主题管理
// @Security BearerAuth
// @Produce json
// @Param id path int true "主题 ID"
// @Success 200 {object} util.Response{data=model.Theme}
// @Failure 404 {object} util.Response
// @Router /api/admin/themes/{id} [get]
func (c *ThemeController) GetTheme(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	themeID := util.MustParseUint(ctx.Param("id"))
	if themeID == 0 {
		util.BadRequest(ctx, "invalid theme id")
		return
	}

	theme, err := c.ThemeService.GetTheme(themeID, user.TenantID)
	if err != nil {
		if errors.Is(err, util.ErrThemeNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, theme)
}
