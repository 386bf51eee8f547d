package repository

import (
	"chosung_quiz_backend/internal/model"
	"chosung_quiz_backend/internal/util"
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestSessionRepository(t *testing.T) (*SessionRepository, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionRepository(client, time.Minute), mr
}

func TestSessionRoundTrip(t *testing.T) {
	repo, mr := newTestSessionRepository(t)
	ctx := context.Background()

	session := &model.QuizSession{
		Difficulty: "mixed",
		ItemIDs:    []uint{4, 9, 2},
		Clues: []model.QuizClue{
			{Clue: "ㅂㄹㅇ ㅂㄷ", CharCount: 5, Difficulty: model.DifficultyEasy},
		},
		Current: 1,
		Score:   75,
		Results: []model.AnswerResult{{QuestionNo: 1, TotalScore: 75}},
	}

	if err := repo.Save(ctx, "abc", session); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !mr.Exists("quiz:session:abc") {
		t.Fatal("expected redis key to be set")
	}

	got, err := repo.Find(ctx, "abc")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.Difficulty != "mixed" || got.Current != 1 || got.Score != 75 {
		t.Errorf("round trip lost state: %+v", got)
	}
	if len(got.ItemIDs) != 3 || got.ItemIDs[1] != 9 {
		t.Errorf("item ids = %v, want [4 9 2]", got.ItemIDs)
	}
	if len(got.Results) != 1 || got.Results[0].TotalScore != 75 {
		t.Errorf("results = %+v", got.Results)
	}
}

func TestSessionExpires(t *testing.T) {
	repo, mr := newTestSessionRepository(t)
	ctx := context.Background()

	if err := repo.Save(ctx, "abc", &model.QuizSession{}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := repo.Find(ctx, "abc"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionFindUnknown(t *testing.T) {
	repo, _ := newTestSessionRepository(t)

	if _, err := repo.Find(context.Background(), "missing"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionDelete(t *testing.T) {
	repo, mr := newTestSessionRepository(t)
	ctx := context.Background()

	if err := repo.Save(ctx, "abc", &model.QuizSession{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Delete(ctx, "abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mr.Exists("quiz:session:abc") {
		t.Fatal("expected redis key to be removed")
	}
}
