package textproc

import "strings"

var irregularNouns = map[string]string{
	"men":        "man",
	"women":      "woman",
	"children":   "child",
	"feet":       "foot",
	"teeth":      "tooth",
	"mice":       "mouse",
	"geese":      "goose",
	"analyses":   "analysis",
	"bases":      "basis",
	"crises":     "crisis",
	"criteria":   "criterion",
	"phenomena":  "phenomenon",
	"indices":    "index",
	"matrices":   "matrix",
	"vertices":   "vertex",
	"theses":     "thesis",
	"hypotheses": "hypothesis",
}

// Suffixes whose trailing "s" is part of the singular form.
var keepS = []string{"ss", "us", "is", "ics", "ous", "ness", "sis"}

// Lemmatize reduces an English noun to its singular form. Regular tokens with
// non-letter characters or three characters or fewer are returned unchanged.
func Lemmatize(tok string) string {
	if base, ok := irregularNouns[tok]; ok {
		return base
	}
	if len(tok) <= 3 || !lettersOnly(tok) {
		return tok
	}
	if !strings.HasSuffix(tok, "s") {
		return tok
	}
	for _, suf := range keepS {
		if strings.HasSuffix(tok, suf) {
			return tok
		}
	}

	switch {
	case strings.HasSuffix(tok, "ies") && len(tok) > 4:
		return tok[:len(tok)-3] + "y"
	case strings.HasSuffix(tok, "sses"),
		strings.HasSuffix(tok, "xes"),
		strings.HasSuffix(tok, "zes"),
		strings.HasSuffix(tok, "ches"),
		strings.HasSuffix(tok, "shes"):
		return tok[:len(tok)-2]
	default:
		return tok[:len(tok)-1]
	}
}

func lettersOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
