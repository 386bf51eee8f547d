package model

// Verdict is the categorical grade of one sub-answer.
type Verdict string

const (
	VerdictExact   Verdict = "exact"
	VerdictPartial Verdict = "partial"
	VerdictWrong   Verdict = "wrong"
)

// QuizItem is one playable question assembled from the catalog. When the
// source line has a following line in the same song, clue and answer carry
// both lines joined with "\n" and CharCount is the sum.
//
// AnswerTitle and AnswerText are authoritative and must never reach the
// client before the answer is graded; hand out Public() instead.
type QuizItem struct {
	ID          uint       `json:"id"`
	Clue        string     `json:"clue"`
	CharCount   int        `json:"charCount"`
	Difficulty  Difficulty `json:"difficulty"`
	AnswerTitle string     `json:"-"`
	AnswerText  string     `json:"-"`
}

// QuizClue is the answer-redacted projection of a QuizItem.
type QuizClue struct {
	Clue       string     `json:"clue"`
	CharCount  int        `json:"charCount"`
	Difficulty Difficulty `json:"difficulty"`
}

func (q QuizItem) Public() QuizClue {
	return QuizClue{
		Clue:       q.Clue,
		CharCount:  q.CharCount,
		Difficulty: q.Difficulty,
	}
}

// AnswerResult is the immutable grading record of one answered question.
type AnswerResult struct {
	QuestionNo    int        `json:"questionNo"`
	Clue          string     `json:"clue"`
	CorrectTitle  string     `json:"correctTitle"`
	CorrectLyrics string     `json:"correctLyrics"`
	UserTitle     string     `json:"userTitle"`
	UserLyrics    string     `json:"userLyrics"`
	TitleMatch    Verdict    `json:"titleMatch"`
	LyricsMatch   Verdict    `json:"lyricsMatch"`
	TitleScore    int        `json:"titleScore"`
	LyricsScore   int        `json:"lyricsScore"`
	TotalScore    int        `json:"totalScore"`
	Difficulty    Difficulty `json:"difficulty"`
}

// QuizSession is the per-player quiz state, JSON-serialized into Redis.
// Only item ids and public clues are stored; answers are re-fetched from
// the catalog at grading time.
type QuizSession struct {
	Difficulty string         `json:"difficulty"`
	ItemIDs    []uint         `json:"itemIds"`
	Clues      []QuizClue     `json:"clues"`
	Current    int            `json:"current"`
	Score      int            `json:"score"`
	Results    []AnswerResult `json:"results"`
}

// Complete reports whether every question has been answered (or the
// session ran out of questions).
func (s *QuizSession) Complete() bool {
	return s.Current >= len(s.ItemIDs)
}
