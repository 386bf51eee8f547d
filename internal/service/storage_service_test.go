package service

import (
	"chosung_quiz_backend/internal/config"
	"chosung_quiz_backend/internal/model"
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"
)

type fakeCatalogLister struct{}

func (fakeCatalogLister) ListAllSongs() ([]model.Song, error) {
	return []model.Song{{TrackID: 31992904, Title: "어디에도", Album: "Ceremony"}}, nil
}

func (fakeCatalogLister) ListAllLines() ([]model.LyricLine, error) {
	return []model.LyricLine{
		{ID: 1, TrackID: 31992904, LineNo: 1, LineText: "바람이 분다", Chosung: "ㅂㄹㅇ ㅂㄷ", CharCount: 5},
	}, nil
}

func (fakeCatalogLister) ListAllQuizLines() ([]model.QuizLine, error) {
	return []model.QuizLine{{ID: 1, LyricLineID: 1, Difficulty: model.DifficultyEasy, ClassifiedAt: time.Now()}}, nil
}

func TestExportCatalogLocal(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewStorageService(&config.Config{
		Storage: config.StorageConfig{Type: "local", LocalPath: dir},
	}, fakeCatalogLister{})
	if err != nil {
		t.Fatalf("NewStorageService: %v", err)
	}

	location, err := svc.ExportCatalog(context.Background())
	if err != nil {
		t.Fatalf("ExportCatalog: %v", err)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var export struct {
		Songs     []model.Song      `json:"songs"`
		Lines     []model.LyricLine `json:"lines"`
		QuizLines []model.QuizLine  `json:"quizLines"`
	}
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if len(export.Songs) != 1 || export.Songs[0].Title != "어디에도" {
		t.Errorf("songs = %+v", export.Songs)
	}
	if len(export.Lines) != 1 || len(export.QuizLines) != 1 {
		t.Errorf("lines = %d, quiz lines = %d, want 1 each", len(export.Lines), len(export.QuizLines))
	}
}

func TestNewProviderDefaultsToLocal(t *testing.T) {
	provider, err := newProvider(&config.StorageConfig{Type: ""})
	if err != nil {
		t.Fatalf("newProvider: %v", err)
	}
	if _, ok := provider.(*LocalStorageProvider); !ok {
		t.Errorf("provider = %T, want *LocalStorageProvider", provider)
	}
}
