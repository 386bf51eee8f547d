package controller

import (
	"chosung_quiz_backend/internal/service"
	"chosung_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	Service *service.QuizService
}

func NewStatsController(svc *service.QuizService) *StatsController {
	return &StatsController{Service: svc}
}

// GetStats backs the landing page: per-tier question counts plus catalog
// totals.
func (c *StatsController) GetStats(ctx *gin.Context) {
	stats, err := c.Service.Stats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
