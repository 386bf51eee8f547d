package controller

import (
	"chosung_quiz_backend/internal/service"
	"chosung_quiz_backend/internal/util"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminController struct {
	Auth       *service.AuthService
	Scraper    *service.ScraperService
	Classifier *service.ClassifierService
	Storage    *service.StorageService
	Quiz       *service.QuizService
}

func NewAdminController(auth *service.AuthService, scraper *service.ScraperService, classifier *service.ClassifierService, storage *service.StorageService, quiz *service.QuizService) *AdminController {
	return &AdminController{
		Auth:       auth,
		Scraper:    scraper,
		Classifier: classifier,
		Storage:    storage,
		Quiz:       quiz,
	}
}

type adminLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

func (c *AdminController) Login(ctx *gin.Context) {
	var req adminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	jwt, err := c.Auth.AdminLogin(req.Token)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAdminDisabled):
			util.Error(ctx, http.StatusForbidden, "admin not configured")
		case errors.Is(err, util.ErrInvalidAdminToken):
			util.Unauthorized(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"token": jwt})
}

// Scrape runs the full catalog scrape synchronously and reports totals.
func (c *AdminController) Scrape(ctx *gin.Context) {
	report, err := c.Scraper.ScrapeAll(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// Classify runs one classification pass over unclassified lines and
// returns the refreshed per-tier stats.
func (c *AdminController) Classify(ctx *gin.Context) {
	report, err := c.Classifier.ClassifyAll(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	stats, err := c.Quiz.Stats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"report": report, "stats": stats})
}

func (c *AdminController) Songs(ctx *gin.Context) {
	songs, err := c.Scraper.ListSongs()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"songs": songs})
}

func (c *AdminController) SongDetail(ctx *gin.Context) {
	trackID, err := strconv.ParseUint(ctx.Param("trackId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid track id")
		return
	}

	song, lines, err := c.Scraper.SongDetail(uint(trackID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"song": song, "lines": lines})
}

func (c *AdminController) Export(ctx *gin.Context) {
	location, err := c.Storage.ExportCatalog(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"location": location})
}
