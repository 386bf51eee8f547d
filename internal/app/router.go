package app

import (
	"chosung_quiz_backend/internal/config"
	"chosung_quiz_backend/internal/middleware"
	"chosung_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/stats", c.stats.GetStats)

		quiz := public.Group("/quiz")
		{
			quiz.POST("/start", c.quiz.StartQuiz)
			quiz.GET("/question", c.quiz.GetQuestion)
			quiz.POST("/answer", c.quiz.SubmitAnswer)
			quiz.GET("/result", c.quiz.GetResult)
			quiz.DELETE("/session", c.quiz.EndSession)
		}

		public.POST("/admin/login", c.admin.Login)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.AdminAuth(cfg))
	{
		admin.POST("/scrape", c.admin.Scrape)
		admin.POST("/classify", c.admin.Classify)
		admin.POST("/export", c.admin.Export)
		admin.GET("/songs", c.admin.Songs)
		admin.GET("/songs/:trackId", c.admin.SongDetail)
	}
}
