package repository

import (
	"chosung_quiz_backend/internal/model"

	"gorm.io/gorm"
)

// ExportRepository reads the full catalog for the admin export.
type ExportRepository struct {
	DB *gorm.DB
}

func NewExportRepository(db *gorm.DB) *ExportRepository {
	return &ExportRepository{DB: db}
}

func (r *ExportRepository) ListAllSongs() ([]model.Song, error) {
	var songs []model.Song
	err := r.DB.Order("track_id").Find(&songs).Error
	return songs, err
}

func (r *ExportRepository) ListAllLines() ([]model.LyricLine, error) {
	var lines []model.LyricLine
	err := r.DB.Order("id").Find(&lines).Error
	return lines, err
}

func (r *ExportRepository) ListAllQuizLines() ([]model.QuizLine, error) {
	var quizLines []model.QuizLine
	err := r.DB.Order("id").Find(&quizLines).Error
	return quizLines, err
}
