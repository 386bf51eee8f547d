package model

import "time"

// Difficulty is one of the four fixed quiz tiers. "mixed" is a request
// value handled by the composer, never a stored tier.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyNormal   Difficulty = "normal"
	DifficultyHard     Difficulty = "hard"
	DifficultyVeryHard Difficulty = "very_hard"

	DifficultyMixed = "mixed"
)

// Tiers lists the stored difficulties in display / mixed-draw order.
var Tiers = []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyVeryHard}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyVeryHard:
		return true
	}
	return false
}

// QuizLine marks a lyric line as quiz material with its LLM-assigned tier.
type QuizLine struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	LyricLineID  uint       `gorm:"uniqueIndex;not null" json:"lyricLineId"`
	Difficulty   Difficulty `gorm:"type:varchar(16);index;not null" json:"difficulty"`
	ClassifiedAt time.Time  `json:"classifiedAt"`
}

func (QuizLine) TableName() string {
	return "quiz_lines"
}
