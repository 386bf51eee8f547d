package util

// The 19 lead consonants of composed Hangul, in Unicode jamo order.
var chosungTable = []rune{
	'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ', 'ㅅ',
	'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

const (
	hangulStart = rune(0xAC00)
	hangulEnd   = rune(0xD7A3)
	// Each lead consonant spans 21 vowels x 28 tail consonants.
	syllablesPerChosung = 588
)

// ExtractChosung replaces every composed Hangul syllable with its lead
// consonant and passes all other runes through unchanged, so spacing and
// punctuation survive as clue structure.
func ExtractChosung(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= hangulStart && r <= hangulEnd {
			out = append(out, chosungTable[(r-hangulStart)/syllablesPerChosung])
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// CountHangul counts the composed Hangul syllables in s.
func CountHangul(s string) int {
	n := 0
	for _, r := range s {
		if r >= hangulStart && r <= hangulEnd {
			n++
		}
	}
	return n
}
