package service

import (
	"chosung_quiz_backend/internal/config"
	"chosung_quiz_backend/internal/model"
	"chosung_quiz_backend/internal/util"
	"context"
	"sync"
)

// QuizCatalog is the read side of the question catalog.
type QuizCatalog interface {
	DrawRandom(tier model.Difficulty, n int) ([]model.QuizItem, error)
	FindItemByID(id uint) (*model.QuizItem, error)
	DifficultyStats() (map[model.Difficulty]int64, error)
}

// SessionStore round-trips quiz sessions keyed by session id.
type SessionStore interface {
	Save(ctx context.Context, sid string, session *model.QuizSession) error
	Find(ctx context.Context, sid string) (*model.QuizSession, error)
	Delete(ctx context.Context, sid string) error
}

// RowCounter covers the catalog totals shown on the index page.
type RowCounter interface {
	Count() (int64, error)
}

// QuizService composes quizzes and drives the question/answer/result flow.
type QuizService struct {
	catalog  QuizCatalog
	sessions SessionStore
	grading  *GradingService
	songs    RowCounter
	lyrics   RowCounter

	mu  sync.RWMutex
	cfg config.QuizConfig
}

func NewQuizService(catalog QuizCatalog, sessions SessionStore, grading *GradingService, songs, lyrics RowCounter, cfg config.QuizConfig) *QuizService {
	return &QuizService{
		catalog:  catalog,
		sessions: sessions,
		grading:  grading,
		songs:    songs,
		lyrics:   lyrics,
		cfg:      cfg,
	}
}

// UpdateConfig swaps the quiz tunables; wired to the config hot reload.
func (s *QuizService) UpdateConfig(cfg config.QuizConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

func (s *QuizService) quizConfig() config.QuizConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// StartQuiz draws a fresh question set and stores a new session under sid,
// overwriting any quiz in progress. A single tier draws question_count
// items; "mixed" concatenates the configured per-tier draws in tier order
// without reshuffling. Underpopulated tiers shorten the quiz silently; an
// entirely empty draw is ErrEmptyCatalog.
func (s *QuizService) StartQuiz(ctx context.Context, sid, difficulty string) (*model.QuizSession, error) {
	cfg := s.quizConfig()

	var items []model.QuizItem
	if difficulty == model.DifficultyMixed {
		counts := map[model.Difficulty]int{
			model.DifficultyEasy:     cfg.Mixed.Easy,
			model.DifficultyNormal:   cfg.Mixed.Normal,
			model.DifficultyHard:     cfg.Mixed.Hard,
			model.DifficultyVeryHard: cfg.Mixed.VeryHard,
		}
		for _, tier := range model.Tiers {
			drawn, err := s.catalog.DrawRandom(tier, counts[tier])
			if err != nil {
				return nil, err
			}
			items = append(items, drawn...)
		}
	} else {
		tier := model.Difficulty(difficulty)
		if !tier.Valid() {
			return nil, util.ErrInvalidDifficulty
		}
		var err error
		items, err = s.catalog.DrawRandom(tier, cfg.QuestionCount)
		if err != nil {
			return nil, err
		}
	}

	if len(items) == 0 {
		return nil, util.ErrEmptyCatalog
	}

	session := &model.QuizSession{
		Difficulty: difficulty,
		ItemIDs:    make([]uint, 0, len(items)),
		Clues:      make([]model.QuizClue, 0, len(items)),
		Results:    []model.AnswerResult{},
	}
	for _, item := range items {
		session.ItemIDs = append(session.ItemIDs, item.ID)
		session.Clues = append(session.Clues, item.Public())
	}

	if err := s.sessions.Save(ctx, sid, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *QuizService) FindSession(ctx context.Context, sid string) (*model.QuizSession, error) {
	return s.sessions.Find(ctx, sid)
}

func (s *QuizService) EndSession(ctx context.Context, sid string) error {
	return s.sessions.Delete(ctx, sid)
}

// QuestionView is what the player sees before answering.
type QuestionView struct {
	Question model.QuizClue `json:"question"`
	Current  int            `json:"current"`
	Total    int            `json:"total"`
	Score    int            `json:"score"`
}

// CurrentQuestion returns the public view of the pending question, or
// (nil, false) once the session is complete.
func (s *QuizService) CurrentQuestion(session *model.QuizSession) (*QuestionView, bool) {
	if session.Complete() {
		return nil, false
	}
	return &QuestionView{
		Question: session.Clues[session.Current],
		Current:  session.Current + 1,
		Total:    len(session.ItemIDs),
		Score:    session.Score,
	}, true
}

// SubmitAnswer grades the pending question against the catalog's
// authoritative item, never against client-held state, then advances the
// session: cursor +1, score accumulated, one result appended.
func (s *QuizService) SubmitAnswer(ctx context.Context, sid string, session *model.QuizSession, userTitle, userLyrics string) (*model.AnswerResult, error) {
	if session.Complete() {
		return nil, util.ErrQuestionNotFound
	}

	item, err := s.catalog.FindItemByID(session.ItemIDs[session.Current])
	if err != nil {
		return nil, err
	}

	result := s.grading.Grade(session.Current+1, item, userTitle, userLyrics)

	session.Score += result.TotalScore
	session.Results = append(session.Results, result)
	session.Current++

	if err := s.sessions.Save(ctx, sid, session); err != nil {
		return nil, err
	}
	return &result, nil
}

// ResultSummary is the final scoreboard of a session.
type ResultSummary struct {
	Difficulty string               `json:"difficulty"`
	Results    []model.AnswerResult `json:"results"`
	Score      int                  `json:"score"`
	MaxScore   int                  `json:"maxScore"`
}

func (s *QuizService) FinalResult(session *model.QuizSession) ResultSummary {
	return ResultSummary{
		Difficulty: session.Difficulty,
		Results:    session.Results,
		Score:      session.Score,
		MaxScore:   100 * len(session.Results),
	}
}

// CatalogStats backs the index page.
type CatalogStats struct {
	Difficulty map[model.Difficulty]int64 `json:"difficulty"`
	TotalSongs int64                      `json:"totalSongs"`
	TotalLines int64                      `json:"totalLines"`
	TotalQuiz  int64                      `json:"totalQuiz"`
}

func (s *QuizService) Stats() (*CatalogStats, error) {
	stats, err := s.catalog.DifficultyStats()
	if err != nil {
		return nil, err
	}
	songs, err := s.songs.Count()
	if err != nil {
		return nil, err
	}
	lines, err := s.lyrics.Count()
	if err != nil {
		return nil, err
	}

	var totalQuiz int64
	for _, n := range stats {
		totalQuiz += n
	}

	return &CatalogStats{
		Difficulty: stats,
		TotalSongs: songs,
		TotalLines: lines,
		TotalQuiz:  totalQuiz,
	}, nil
}
