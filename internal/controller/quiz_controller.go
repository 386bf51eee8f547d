package controller

import (
	"chosung_quiz_backend/internal/model"
	"chosung_quiz_backend/internal/service"
	"chosung_quiz_backend/internal/util"
	"chosung_quiz_backend/pkg/monitoring"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "quiz_sid"

type QuizController struct {
	Service          *service.QuizService
	SessionTTLSecond int
}

func NewQuizController(svc *service.QuizService, sessionTTLSeconds int) *QuizController {
	return &QuizController{Service: svc, SessionTTLSecond: sessionTTLSeconds}
}

type startQuizRequest struct {
	Difficulty string `json:"difficulty" form:"difficulty"`
}

func (c *QuizController) StartQuiz(ctx *gin.Context) {
	var req startQuizRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = "normal"
	}

	sid := uuid.NewString()
	session, err := c.Service.StartQuiz(ctx.Request.Context(), sid, req.Difficulty)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidDifficulty):
			util.BadRequest(ctx, "invalid difficulty")
		case errors.Is(err, util.ErrEmptyCatalog):
			util.Error(ctx, http.StatusNotFound, "no quiz questions for this difficulty")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.QuizStarted.WithLabelValues(req.Difficulty).Inc()

	ctx.SetCookie(sessionCookie, sid, c.SessionTTLSecond, "/", "", false, true)
	util.Success(ctx, gin.H{
		"difficulty": session.Difficulty,
		"total":      len(session.ItemIDs),
	})
}

func (c *QuizController) GetQuestion(ctx *gin.Context) {
	session, ok := c.loadSession(ctx)
	if !ok {
		return
	}

	view, pending := c.Service.CurrentQuestion(session)
	if !pending {
		util.Success(ctx, gin.H{"done": true})
		return
	}
	util.Success(ctx, view)
}

type submitAnswerRequest struct {
	Title  string `json:"title" form:"title"`
	Lyrics string `json:"lyrics" form:"lyrics"`
}

func (c *QuizController) SubmitAnswer(ctx *gin.Context) {
	session, ok := c.loadSession(ctx)
	if !ok {
		return
	}

	var req submitAnswerRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sid, _ := ctx.Cookie(sessionCookie)
	result, err := c.Service.SubmitAnswer(ctx.Request.Context(), sid, session, req.Title, req.Lyrics)
	if err != nil {
		// A vanished question routes the client to the final results
		// instead of failing the quiz.
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.Success(ctx, gin.H{"done": true})
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	monitoring.AnswersGraded.WithLabelValues(string(result.TitleMatch), string(result.LyricsMatch)).Inc()
	util.Success(ctx, result)
}

func (c *QuizController) GetResult(ctx *gin.Context) {
	session, ok := c.loadSession(ctx)
	if !ok {
		return
	}
	util.Success(ctx, c.Service.FinalResult(session))
}

// EndSession discards the quiz early (the player gave up).
func (c *QuizController) EndSession(ctx *gin.Context) {
	sid, err := ctx.Cookie(sessionCookie)
	if err != nil || sid == "" {
		util.Success(ctx, gin.H{"ended": true})
		return
	}
	if err := c.Service.EndSession(ctx.Request.Context(), sid); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	ctx.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	util.Success(ctx, gin.H{"ended": true})
}

func (c *QuizController) loadSession(ctx *gin.Context) (*model.QuizSession, bool) {
	sid, err := ctx.Cookie(sessionCookie)
	if err != nil || sid == "" {
		util.Error(ctx, http.StatusNotFound, "no quiz in progress")
		return nil, false
	}

	session, err := c.Service.FindSession(ctx.Request.Context(), sid)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.Error(ctx, http.StatusNotFound, "no quiz in progress")
		} else {
			util.LogInternalError(ctx, err)
		}
		return nil, false
	}
	return session, true
}
