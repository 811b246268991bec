package app

import (
	"skill_assess_backend/docs"
	"skill_assess_backend/internal/config"
	"skill_assess_backend/internal/middleware"
	"skill_assess_backend/internal/model"
	"skill_assess_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// public routes
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/skills", c.skill.ListSkills)
		public.GET("/skills/:id", c.skill.GetSkill)
	}

	// authenticated routes
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		tests := authGroup.Group("/tests")
		{
			tests.POST("/start", c.assessment.StartTest)
			tests.POST("/:attemptId/submit", c.assessment.SubmitTest)
			tests.GET("/history", c.assessment.GetHistory)
			tests.GET("/attempts/:attemptId", c.assessment.GetAttempt)
		}

		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
		{
			admin.POST("/skills", c.skill.CreateSkill)
			admin.POST("/skills/:skillId/questions/generate", c.assessment.GenerateQuestions)
		}
	}
}
