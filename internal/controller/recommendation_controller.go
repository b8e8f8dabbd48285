package controller

import (
	"errors"
	"strconv"
	"studymate_backend/internal/model"
	"studymate_backend/internal/service"
	"studymate_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	RecommendationService *service.RecommendationService
	ProfileService        *service.ProfileService
}

func NewRecommendationController(
	recommendationService *service.RecommendationService,
	profileService *service.ProfileService,
) *RecommendationController {
	return &RecommendationController{
		RecommendationService: recommendationService,
		ProfileService:        profileService,
	}
}

// resolveStudent 学生只能访问自己的数据，教师/管理员可访问租户内任意学生
func resolveStudent(ctx *gin.Context) (studentID, tenantID uint, ok bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return 0, 0, false
	}

	studentID = util.MustParseUint(ctx.Param("id"))
	if studentID == 0 {
		util.BadRequest(ctx, "invalid student id")
		return 0, 0, false
	}

	if user.Role == model.Student && user.StudentID != studentID {
		util.Forbidden(ctx)
		return 0, 0, false
	}

	return studentID, user.TenantID, true
}

// @Summary 生成个性化推荐
// @Description 基于学习历史为学生生成至多 3 条带理由的主题推荐
// @Tags 推荐
// @Security BearerAuth
// @Produce json
// @Param id path int true "学生 ID"
// @Success 200 {object} util.Response{data=model.RecommendationResponse}
// @Failure 404 {object} util.Response
// @Router /api/students/{id}/recommendations [get]
func (c *RecommendationController) GetRecommendations(ctx *gin.Context) {
	studentID, tenantID, ok := resolveStudent(ctx)
	if !ok {
		return
	}

	res, err := c.RecommendationService.Generate(ctx.Request.Context(), studentID, tenantID)
	if err != nil {
		if errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, res)
}

type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required,max=50"`
}

// @Summary 记录推荐反馈
// @Description 对 24 小时内收到的推荐打反馈标签，如 not_relevant、completed
// @Tags 推荐
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "学生 ID"
// @Param themeId path int true "主题 ID"
// @Param feedback body FeedbackRequest true "反馈标签"
// @Success 200 {object} util.Response
// @Router /api/students/{id}/recommendations/{themeId}/feedback [post]
func (c *RecommendationController) PostFeedback(ctx *gin.Context) {
	studentID, tenantID, ok := resolveStudent(ctx)
	if !ok {
		return
	}

	themeID := util.MustParseUint(ctx.Param("themeId"))
	if themeID == 0 {
		util.BadRequest(ctx, "invalid theme id")
		return
	}

	var req FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.RecommendationService.RecordFeedback(studentID, tenantID, themeID, req.Feedback); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"success": true})
}

// @Summary 获取学生表现总览
// @Description 画像、各主题表现明细以及强项和弱项
// @Tags 推荐
// @Security BearerAuth
// @Produce json
// @Param id path int true "学生 ID"
// @Success 200 {object} util.Response{data=model.PerformanceOverview}
// @Failure 404 {object} util.Response
// @Router /api/students/{id}/performance [get]
func (c *RecommendationController) GetPerformance(ctx *gin.Context) {
	studentID, tenantID, ok := resolveStudent(ctx)
	if !ok {
		return
	}

	overview, err := c.ProfileService.GetPerformance(studentID, tenantID)
	if err != nil {
		if errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, overview)
}

// @Summary 获取推荐历史记录
// @Description 按生成时间倒序返回学生最近收到的推荐审计记录
// @Tags 推荐
// @Security BearerAuth
// @Produce json
// @Param id path int true "学生 ID"
// @Param limit query int false "返回条数，默认 20，最大 100"
// @Success 200 {object} util.Response{data=[]model.RecommendationLog}
// @Router /api/students/{id}/recommendations/history [get]
func (c *RecommendationController) GetHistory(ctx *gin.Context) {
	studentID, tenantID, ok := resolveStudent(ctx)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))

	entries, err := c.RecommendationService.History(studentID, tenantID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}
