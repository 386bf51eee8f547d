package repository

import (
	"chosung_quiz_backend/internal/model"
	"chosung_quiz_backend/internal/util"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// itemSelect joins a classified line with its song and, when one exists,
// the immediately following line of the same track. The LEFT JOIN is the
// two-line merge policy: merge when possible, fall back to a single line,
// never shrink the draw pool.
const itemSelect = `
SELECT ql.id AS quiz_id, ql.difficulty, ll.line_text, ll.chosung, ll.char_count, s.title,
       nl.line_text AS next_text, nl.chosung AS next_chosung, nl.char_count AS next_char_count
FROM quiz_lines ql
JOIN lyric_lines ll ON ql.lyric_line_id = ll.id
JOIN songs s ON ll.track_id = s.track_id
LEFT JOIN lyric_lines nl ON nl.track_id = ll.track_id AND nl.line_no = ll.line_no + 1
`

type itemRow struct {
	QuizID        uint             `gorm:"column:quiz_id"`
	Difficulty    model.Difficulty `gorm:"column:difficulty"`
	LineText      string           `gorm:"column:line_text"`
	Chosung       string           `gorm:"column:chosung"`
	CharCount     int              `gorm:"column:char_count"`
	Title         string           `gorm:"column:title"`
	NextText      *string          `gorm:"column:next_text"`
	NextChosung   *string          `gorm:"column:next_chosung"`
	NextCharCount *int             `gorm:"column:next_char_count"`
}

func (row itemRow) toItem() model.QuizItem {
	item := model.QuizItem{
		ID:          row.QuizID,
		Clue:        row.Chosung,
		CharCount:   row.CharCount,
		Difficulty:  row.Difficulty,
		AnswerTitle: row.Title,
		AnswerText:  row.LineText,
	}
	if row.NextText != nil && *row.NextText != "" {
		item.AnswerText += "\n" + *row.NextText
		item.Clue += "\n" + *row.NextChosung
		item.CharCount += *row.NextCharCount
	}
	return item
}

// DrawRandom returns up to n items of the given tier, uniformly at random
// without replacement. Fewer rows than requested is not an error.
func (r *QuizRepository) DrawRandom(tier model.Difficulty, n int) ([]model.QuizItem, error) {
	var rows []itemRow
	err := r.DB.Raw(itemSelect+"WHERE ql.difficulty = ? ORDER BY RAND() LIMIT ?", tier, n).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]model.QuizItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toItem())
	}
	return items, nil
}

// FindItemByID is the authoritative lookup used at grading time.
func (r *QuizRepository) FindItemByID(id uint) (*model.QuizItem, error) {
	var rows []itemRow
	err := r.DB.Raw(itemSelect+"WHERE ql.id = ?", id).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, util.ErrQuestionNotFound
	}

	item := rows[0].toItem()
	return &item, nil
}

func (r *QuizRepository) DifficultyStats() (map[model.Difficulty]int64, error) {
	type statRow struct {
		Difficulty model.Difficulty
		Cnt        int64
	}
	var rows []statRow
	err := r.DB.Model(&model.QuizLine{}).
		Select("difficulty, COUNT(*) AS cnt").
		Group("difficulty").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[model.Difficulty]int64, len(rows))
	for _, row := range rows {
		stats[row.Difficulty] = row.Cnt
	}
	return stats, nil
}

// UnclassifiedLine is classifier input: the line plus its song title for
// prompt context.
type UnclassifiedLine struct {
	ID        uint   `gorm:"column:id"`
	Title     string `gorm:"column:title"`
	LineText  string `gorm:"column:line_text"`
	CharCount int    `gorm:"column:char_count"`
}

// UnclassifiedLines returns lines that have no quiz_lines row yet and are
// long enough to make a fair question. limit <= 0 returns everything.
func (r *QuizRepository) UnclassifiedLines(minChars, limit int) ([]UnclassifiedLine, error) {
	query := `
SELECT ll.id, s.title, ll.line_text, ll.char_count
FROM lyric_lines ll
LEFT JOIN quiz_lines ql ON ll.id = ql.lyric_line_id
JOIN songs s ON ll.track_id = s.track_id
WHERE ql.id IS NULL AND ll.char_count >= ?
ORDER BY ll.id`

	var rows []UnclassifiedLine
	var err error
	if limit > 0 {
		err = r.DB.Raw(query+" LIMIT ?", minChars, limit).Scan(&rows).Error
	} else {
		err = r.DB.Raw(query, minChars).Scan(&rows).Error
	}
	return rows, err
}

// UpsertClassification records or overwrites a line's difficulty tier.
func (r *QuizRepository) UpsertClassification(lyricLineID uint, difficulty model.Difficulty, classifiedAt time.Time) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "lyric_line_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"difficulty", "classified_at"}),
	}).Create(&model.QuizLine{
		LyricLineID:  lyricLineID,
		Difficulty:   difficulty,
		ClassifiedAt: classifiedAt,
	}).Error
}
