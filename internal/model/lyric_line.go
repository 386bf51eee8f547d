package model

// LyricLine is a single line of a song's lyrics with its precomputed
// chosung rendering and Hangul character count.
type LyricLine struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	TrackID   uint   `gorm:"not null;uniqueIndex:idx_track_line" json:"trackId"`
	LineNo    int    `gorm:"not null;uniqueIndex:idx_track_line" json:"lineNo"`
	LineText  string `gorm:"not null" json:"lineText"`
	Chosung   string `gorm:"not null" json:"chosung"`
	CharCount int    `gorm:"not null" json:"charCount"`
}

func (LyricLine) TableName() string {
	return "lyric_lines"
}
