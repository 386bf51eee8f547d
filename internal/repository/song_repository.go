package repository

import (
	"chosung_quiz_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SongRepository struct {
	DB *gorm.DB
}

func NewSongRepository(db *gorm.DB) *SongRepository {
	return &SongRepository{DB: db}
}

// Upsert inserts the song or refreshes title/album/scraped_at on conflict,
// so re-scraping the catalog is idempotent.
func (r *SongRepository) Upsert(song *model.Song) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "track_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "album", "scraped_at"}),
	}).Create(song).Error
}

func (r *SongRepository) FindByTrackID(trackID uint) (*model.Song, error) {
	var s model.Song
	err := r.DB.First(&s, "track_id = ?", trackID).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SongRepository) ListAll() ([]model.Song, error) {
	var songs []model.Song
	err := r.DB.Order("title").Find(&songs).Error
	return songs, err
}

func (r *SongRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&model.Song{}).Count(&n).Error
	return n, err
}
