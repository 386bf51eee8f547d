package service

import (
	"chosung_quiz_backend/internal/config"
	"chosung_quiz_backend/internal/model"
	"chosung_quiz_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type fakeCatalog struct {
	byTier map[model.Difficulty][]model.QuizItem
	byID   map[uint]model.QuizItem
}

func newFakeCatalog(counts map[model.Difficulty]int) *fakeCatalog {
	c := &fakeCatalog{
		byTier: make(map[model.Difficulty][]model.QuizItem),
		byID:   make(map[uint]model.QuizItem),
	}
	var id uint
	for tier, n := range counts {
		for i := 0; i < n; i++ {
			id++
			item := model.QuizItem{
				ID:          id,
				Clue:        fmt.Sprintf("ㅋㄹ %d", id),
				CharCount:   5,
				Difficulty:  tier,
				AnswerTitle: fmt.Sprintf("곡 %d", id),
				AnswerText:  fmt.Sprintf("가사 %d", id),
			}
			c.byTier[tier] = append(c.byTier[tier], item)
			c.byID[id] = item
		}
	}
	return c
}

func (c *fakeCatalog) DrawRandom(tier model.Difficulty, n int) ([]model.QuizItem, error) {
	items := c.byTier[tier]
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

func (c *fakeCatalog) FindItemByID(id uint) (*model.QuizItem, error) {
	item, ok := c.byID[id]
	if !ok {
		return nil, util.ErrQuestionNotFound
	}
	return &item, nil
}

func (c *fakeCatalog) DifficultyStats() (map[model.Difficulty]int64, error) {
	stats := make(map[model.Difficulty]int64)
	for tier, items := range c.byTier {
		stats[tier] = int64(len(items))
	}
	return stats, nil
}

type fakeSessions struct {
	data map[string]*model.QuizSession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{data: make(map[string]*model.QuizSession)}
}

func (s *fakeSessions) Save(_ context.Context, sid string, session *model.QuizSession) error {
	copied := *session
	s.data[sid] = &copied
	return nil
}

func (s *fakeSessions) Find(_ context.Context, sid string) (*model.QuizSession, error) {
	session, ok := s.data[sid]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	return session, nil
}

func (s *fakeSessions) Delete(_ context.Context, sid string) error {
	delete(s.data, sid)
	return nil
}

type fixedCount int64

func (c fixedCount) Count() (int64, error) { return int64(c), nil }

func testQuizConfig() config.QuizConfig {
	return config.QuizConfig{
		QuestionCount:     10,
		SessionTTLMinutes: 60,
		Mixed:             config.MixedConfig{Easy: 2, Normal: 3, Hard: 3, VeryHard: 2},
	}
}

func newTestQuizService(catalog QuizCatalog) (*QuizService, *fakeSessions) {
	sessions := newFakeSessions()
	svc := NewQuizService(catalog, sessions, NewGradingService(), fixedCount(12), fixedCount(340), testQuizConfig())
	return svc, sessions
}

func TestStartQuizSingleTier(t *testing.T) {
	catalog := newFakeCatalog(map[model.Difficulty]int{model.DifficultyEasy: 20})
	svc, sessions := newTestQuizService(catalog)

	session, err := svc.StartQuiz(context.Background(), "sid-1", "easy")
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}
	if len(session.ItemIDs) != 10 {
		t.Errorf("question count = %d, want 10", len(session.ItemIDs))
	}
	if session.Current != 0 || session.Score != 0 {
		t.Errorf("fresh session has current=%d score=%d", session.Current, session.Score)
	}
	if _, ok := sessions.data["sid-1"]; !ok {
		t.Error("session was not persisted")
	}
}

func TestStartQuizMixedDistribution(t *testing.T) {
	catalog := newFakeCatalog(map[model.Difficulty]int{
		model.DifficultyEasy:     10,
		model.DifficultyNormal:   10,
		model.DifficultyHard:     10,
		model.DifficultyVeryHard: 10,
	})
	svc, _ := newTestQuizService(catalog)

	session, err := svc.StartQuiz(context.Background(), "sid-1", "mixed")
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}
	if len(session.ItemIDs) != 10 {
		t.Fatalf("question count = %d, want 10", len(session.ItemIDs))
	}

	// Questions arrive in tier order: 2 easy, 3 normal, 3 hard, 2 very_hard.
	want := []model.Difficulty{
		model.DifficultyEasy, model.DifficultyEasy,
		model.DifficultyNormal, model.DifficultyNormal, model.DifficultyNormal,
		model.DifficultyHard, model.DifficultyHard, model.DifficultyHard,
		model.DifficultyVeryHard, model.DifficultyVeryHard,
	}
	for i, clue := range session.Clues {
		if clue.Difficulty != want[i] {
			t.Errorf("question %d difficulty = %s, want %s", i+1, clue.Difficulty, want[i])
		}
	}
}

func TestStartQuizMixedShortTier(t *testing.T) {
	// Only one hard line exists; the quiz shortens without error.
	catalog := newFakeCatalog(map[model.Difficulty]int{
		model.DifficultyEasy:     10,
		model.DifficultyNormal:   10,
		model.DifficultyHard:     1,
		model.DifficultyVeryHard: 10,
	})
	svc, _ := newTestQuizService(catalog)

	session, err := svc.StartQuiz(context.Background(), "sid-1", "mixed")
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}
	if len(session.ItemIDs) != 8 {
		t.Errorf("question count = %d, want 8", len(session.ItemIDs))
	}
}

func TestStartQuizInvalidDifficulty(t *testing.T) {
	svc, _ := newTestQuizService(newFakeCatalog(nil))

	_, err := svc.StartQuiz(context.Background(), "sid-1", "impossible")
	if !errors.Is(err, util.ErrInvalidDifficulty) {
		t.Errorf("err = %v, want ErrInvalidDifficulty", err)
	}
}

func TestStartQuizEmptyCatalog(t *testing.T) {
	svc, _ := newTestQuizService(newFakeCatalog(nil))

	_, err := svc.StartQuiz(context.Background(), "sid-1", "easy")
	if !errors.Is(err, util.ErrEmptyCatalog) {
		t.Errorf("err = %v, want ErrEmptyCatalog", err)
	}
}

func TestSessionCluesCarryNoAnswers(t *testing.T) {
	catalog := newFakeCatalog(map[model.Difficulty]int{model.DifficultyEasy: 5})
	svc, _ := newTestQuizService(catalog)

	session, err := svc.StartQuiz(context.Background(), "sid-1", "easy")
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}

	for i, clue := range session.Clues {
		item := catalog.byID[session.ItemIDs[i]]
		if clue.Clue != item.Clue || clue.CharCount != item.CharCount {
			t.Errorf("clue %d does not mirror its item", i)
		}
	}

	// Neither the serialized session nor its clues may leak an answer.
	data, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}
	for _, id := range session.ItemIDs {
		item := catalog.byID[id]
		if strings.Contains(string(data), item.AnswerTitle) || strings.Contains(string(data), item.AnswerText) {
			t.Fatalf("serialized session leaks the answer for item %d", id)
		}
	}
}

func TestSubmitAnswerAdvancesSession(t *testing.T) {
	catalog := newFakeCatalog(map[model.Difficulty]int{model.DifficultyEasy: 2})
	svc, sessions := newTestQuizService(catalog)
	ctx := context.Background()

	session, err := svc.StartQuiz(ctx, "sid-1", "easy")
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}

	first := catalog.byID[session.ItemIDs[0]]
	result, err := svc.SubmitAnswer(ctx, "sid-1", session, first.AnswerTitle, first.AnswerText)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if result.TotalScore != 100 {
		t.Errorf("TotalScore = %d, want 100", result.TotalScore)
	}
	if session.Current != 1 || session.Score != 100 || len(session.Results) != 1 {
		t.Errorf("session after answer: current=%d score=%d results=%d",
			session.Current, session.Score, len(session.Results))
	}

	stored, err := sessions.Find(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if stored.Current != 1 || stored.Score != 100 {
		t.Errorf("persisted session: current=%d score=%d", stored.Current, stored.Score)
	}

	// Wrong answer on the last question still advances and completes.
	if _, err := svc.SubmitAnswer(ctx, "sid-1", session, "", ""); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !session.Complete() {
		t.Error("session should be complete after answering every question")
	}

	// No further answers are accepted.
	if _, err := svc.SubmitAnswer(ctx, "sid-1", session, "x", "y"); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Errorf("err = %v, want ErrQuestionNotFound", err)
	}
}

func TestCurrentQuestionViews(t *testing.T) {
	catalog := newFakeCatalog(map[model.Difficulty]int{model.DifficultyEasy: 2})
	svc, _ := newTestQuizService(catalog)
	ctx := context.Background()

	session, err := svc.StartQuiz(ctx, "sid-1", "easy")
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}

	view, ok := svc.CurrentQuestion(session)
	if !ok {
		t.Fatal("expected a pending question")
	}
	if view.Current != 1 || view.Total != 2 {
		t.Errorf("view = %d/%d, want 1/2", view.Current, view.Total)
	}

	session.Current = len(session.ItemIDs)
	if _, ok := svc.CurrentQuestion(session); ok {
		t.Error("completed session must not yield a question")
	}
}

func TestFinalResult(t *testing.T) {
	svc, _ := newTestQuizService(newFakeCatalog(nil))

	session := &model.QuizSession{
		Difficulty: "normal",
		Score:      125,
		Results: []model.AnswerResult{
			{TotalScore: 100}, {TotalScore: 25}, {TotalScore: 0},
		},
	}
	summary := svc.FinalResult(session)
	if summary.Score != 125 || summary.MaxScore != 300 {
		t.Errorf("summary = %d/%d, want 125/300", summary.Score, summary.MaxScore)
	}
	if summary.Difficulty != "normal" {
		t.Errorf("difficulty = %s, want normal", summary.Difficulty)
	}
}

func TestStats(t *testing.T) {
	catalog := newFakeCatalog(map[model.Difficulty]int{
		model.DifficultyEasy: 3,
		model.DifficultyHard: 4,
	})
	svc, _ := newTestQuizService(catalog)

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalQuiz != 7 {
		t.Errorf("TotalQuiz = %d, want 7", stats.TotalQuiz)
	}
	if stats.TotalSongs != 12 || stats.TotalLines != 340 {
		t.Errorf("totals = %d songs, %d lines", stats.TotalSongs, stats.TotalLines)
	}
}

func TestUpdateConfigTakesEffect(t *testing.T) {
	catalog := newFakeCatalog(map[model.Difficulty]int{model.DifficultyEasy: 20})
	svc, _ := newTestQuizService(catalog)
	ctx := context.Background()

	cfg := testQuizConfig()
	cfg.QuestionCount = 3
	svc.UpdateConfig(cfg)

	session, err := svc.StartQuiz(ctx, "sid-1", "easy")
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}
	if len(session.ItemIDs) != 3 {
		t.Errorf("question count = %d, want 3 after reload", len(session.ItemIDs))
	}
}
