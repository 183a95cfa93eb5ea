package extraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	blankRunRe      = regexp.MustCompile(`\n\s*\n\s*\n+`)
	horizontalRe    = regexp.MustCompile(`[ \t]+`)
	leadingSpaceRe  = regexp.MustCompile(`\n[ \t]+`)
	trailingSpaceRe = regexp.MustCompile(`[ \t]+\n`)
	disallowedRe    = regexp.MustCompile("[^\\p{L}\\p{N}_\\t\\n .\\-@#()\\[\\]{}:;,!?'\"/$%&*+=<>|\\\\`~•·▪▫◦‣⁃]")
	spaceBeforeRe   = regexp.MustCompile(`[ \t]+([,.!?;:])`)
	spaceAfterRe    = regexp.MustCompile(`([,;!?:])(\p{L})`)
	sentenceStopRe  = regexp.MustCompile(`\.\p{Lu}\p{Ll}`)
	tokenRe         = regexp.MustCompile(`\S+`)
	bulletRe        = regexp.MustCompile(`(?m)^[ \t]*[•·▪▫◦‣⁃][ \t]*`)
)

// Normalize canonicalizes raw extracted text: compatibility-normalized
// Unicode, LF line endings, at most one blank line in a row, single spaces,
// no leading indentation, no stray symbols, tight punctuation and "• " bullets.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := norm.NFKC.String(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = horizontalRe.ReplaceAllString(text, " ")
	text = leadingSpaceRe.ReplaceAllString(text, "\n")

	text = disallowedRe.ReplaceAllString(text, " ")
	text = horizontalRe.ReplaceAllString(text, " ")
	text = leadingSpaceRe.ReplaceAllString(text, "\n")
	text = trailingSpaceRe.ReplaceAllString(text, "\n")

	text = spaceBeforeRe.ReplaceAllString(text, "$1")
	text = tokenRe.ReplaceAllStringFunc(text, spaceAfterPunct)

	text = bulletRe.ReplaceAllString(text, "• ")
	text = blankRunRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// spaceAfterPunct puts one space between punctuation and a following word
// inside a single token. Emails and URLs are left alone. A period only counts
// when it ends a word of two or more letters (or a number) and a capitalized
// word follows, so "B.S." and "Node.js" stay intact.
func spaceAfterPunct(tok string) string {
	if strings.Contains(tok, "@") || strings.Contains(tok, "://") || strings.HasPrefix(strings.ToLower(tok), "www.") {
		return tok
	}
	tok = spaceAfterRe.ReplaceAllString(tok, "$1 $2")

	locs := sentenceStopRe.FindAllStringIndex(tok, -1)
	if locs == nil {
		return tok
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		if !endsSentence(tok[:loc[0]]) {
			continue
		}
		b.WriteString(tok[last : loc[0]+1])
		b.WriteByte(' ')
		last = loc[0] + 1
	}
	b.WriteString(tok[last:])
	return b.String()
}

func endsSentence(before string) bool {
	r1, n := utf8.DecodeLastRuneInString(before)
	if unicode.IsDigit(r1) {
		return true
	}
	if !unicode.IsLetter(r1) {
		return false
	}
	r2, _ := utf8.DecodeLastRuneInString(before[:len(before)-n])
	return unicode.IsLetter(r2)
}
