package service

import (
	"chosung_quiz_backend/internal/model"
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	titleExactScore    = 50
	lyricsExactScore   = 50
	lyricsPartialScore = 25
	lyricsPartialRatio = 0.8
)

var (
	// Parenthetical version noise in titles, e.g. "(Live ver.)".
	parentheticalRe = regexp.MustCompile(`\(.*?\)`)
	// Everything that is neither a word character nor Hangul.
	nonWordRe = regexp.MustCompile(`[^0-9A-Za-z_가-힣]`)
)

// GradingService scores free-text answers. All methods are pure; malformed
// or empty input degrades to the wrong verdict, never an error.
type GradingService struct{}

func NewGradingService() *GradingService {
	return &GradingService{}
}

// NormalizeTitle prepares a song title for comparison: parentheticals out,
// only word characters and Hangul kept, lowercased, trimmed. Idempotent.
func (s *GradingService) NormalizeTitle(title string) string {
	t := parentheticalRe.ReplaceAllString(title, "")
	t = nonWordRe.ReplaceAllString(t, "")
	return strings.ToLower(strings.TrimSpace(t))
}

// GradeTitle is all-or-nothing: normalized equality scores 50, anything
// else scores 0. There is no partial tier for titles.
func (s *GradingService) GradeTitle(user, correct string) (int, model.Verdict) {
	if s.NormalizeTitle(user) == s.NormalizeTitle(correct) {
		return titleExactScore, model.VerdictExact
	}
	return 0, model.VerdictWrong
}

// GradeLyrics compares the trimmed guess against the trimmed authoritative
// line: exact match scores 50, a sequence-matcher ratio of at least 0.8
// scores 25 as partial, everything else scores 0.
func (s *GradingService) GradeLyrics(user, correct string) (int, model.Verdict) {
	a := strings.TrimSpace(user)
	c := strings.TrimSpace(correct)

	if a == c {
		return lyricsExactScore, model.VerdictExact
	}
	if a == "" {
		return 0, model.VerdictWrong
	}
	if similarityRatio(a, c) >= lyricsPartialRatio {
		return lyricsPartialScore, model.VerdictPartial
	}
	return 0, model.VerdictWrong
}

// Grade scores one question. Internal line breaks of a merged two-line
// answer collapse to single spaces before the lyrics comparison; the
// result keeps the raw authoritative text for display.
func (s *GradingService) Grade(questionNo int, item *model.QuizItem, userTitle, userLyrics string) model.AnswerResult {
	titleScore, titleMatch := s.GradeTitle(userTitle, item.AnswerTitle)

	correctLyrics := strings.ReplaceAll(item.AnswerText, "\n", " ")
	lyricsScore, lyricsMatch := s.GradeLyrics(userLyrics, correctLyrics)

	return model.AnswerResult{
		QuestionNo:    questionNo,
		Clue:          item.Clue,
		CorrectTitle:  item.AnswerTitle,
		CorrectLyrics: item.AnswerText,
		UserTitle:     strings.TrimSpace(userTitle),
		UserLyrics:    strings.TrimSpace(userLyrics),
		TitleMatch:    titleMatch,
		LyricsMatch:   lyricsMatch,
		TitleScore:    titleScore,
		LyricsScore:   lyricsScore,
		TotalScore:    titleScore + lyricsScore,
		Difficulty:    item.Difficulty,
	}
}

// similarityRatio is the classic sequence-matcher ratio over characters:
// 2*M/T for M matching runes out of T total. Range [0,1].
func similarityRatio(a, b string) float64 {
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
