package app

import (
	"studymate_backend/docs"
	"studymate_backend/internal/config"
	"studymate_backend/internal/middleware"
	"studymate_backend/internal/model"
	"studymate_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.student))
	{
		students := authGroup.Group("/students/:id")
		{
			students.GET("/recommendations", c.recommendation.GetRecommendations)
			students.GET("/recommendations/history", c.recommendation.GetHistory)
			students.POST("/recommendations/:themeId/feedback", c.recommendation.PostFeedback)
			students.GET("/performance", c.recommendation.GetPerformance)
		}

		// 主题维护只开放给教师和管理员
		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Teacher))
		{
			admin.POST("/themes", c.theme.CreateTheme)
			admin.GET("/themes/:id", c.theme.GetTheme)
		}
	}
}
