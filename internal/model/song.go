package model

import "time"

// Song is one track of the scraped artist catalog. TrackID is the source
// site's identifier, so re-scraping upserts instead of duplicating.
type Song struct {
	TrackID   uint      `gorm:"primaryKey" json:"trackId"`
	Title     string    `gorm:"not null" json:"title"`
	Album     string    `json:"album"`
	ScrapedAt time.Time `json:"scrapedAt"`
}

func (Song) TableName() string {
	return "songs"
}
