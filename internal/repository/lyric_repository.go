package repository

import (
	"chosung_quiz_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LyricRepository struct {
	DB *gorm.DB
}

func NewLyricRepository(db *gorm.DB) *LyricRepository {
	return &LyricRepository{DB: db}
}

// InsertLine ignores duplicates on (track_id, line_no) so a partial
// re-scrape never fails.
func (r *LyricRepository) InsertLine(line *model.LyricLine) error {
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(line).Error
}

func (r *LyricRepository) HasLines(trackID uint) (bool, error) {
	var n int64
	err := r.DB.Model(&model.LyricLine{}).Where("track_id = ?", trackID).Count(&n).Error
	return n > 0, err
}

func (r *LyricRepository) ListForSong(trackID uint) ([]model.LyricLine, error) {
	var lines []model.LyricLine
	err := r.DB.Where("track_id = ?", trackID).Order("line_no").Find(&lines).Error
	return lines, err
}

func (r *LyricRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&model.LyricLine{}).Count(&n).Error
	return n, err
}
