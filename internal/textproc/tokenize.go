// Package textproc holds the language tooling shared by extraction and scoring:
// tokenization, stopwords, lemmatization and TF-IDF vectorization.
package textproc

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s.,;:!?\-()\[\]/@#%&*+=]`)
	emailRe      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	urlRe        = regexp.MustCompile(`https?://[^\s]+`)
	tokenRe      = regexp.MustCompile(`[\p{L}\p{N}_]+(?:[.'\-][\p{L}\p{N}_]+)*[+#]*`)
	sentenceRe   = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
)

// Clean flattens text to a single line, masks e-mails and URLs, and drops
// characters that never carry matching signal.
func Clean(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = disallowedRe.ReplaceAllString(text, " ")
	text = emailRe.ReplaceAllString(text, " EMAIL ")
	text = urlRe.ReplaceAllString(text, " URL ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// Tokenize lowercases text and splits it into word tokens, dropping
// single-character and punctuation-only tokens.
func Tokenize(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if utf8.RuneCountInString(tok) <= 1 || punctuationOnly(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// RemoveStopWords drops English and resume-boilerplate stopwords.
func RemoveStopWords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !IsStopWord(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// Process runs the full token pipeline: clean, tokenize, drop stopwords, lemmatize.
// It returns the raw tokens and the processed tokens.
func Process(text string) (tokens, processed []string) {
	tokens = Tokenize(Clean(text))
	processed = RemoveStopWords(tokens)
	for i, tok := range processed {
		processed[i] = Lemmatize(tok)
	}
	return tokens, processed
}

// CountWords returns the number of whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountSentences returns the number of sentences, treating runs of
// terminal punctuation followed by whitespace as boundaries.
func CountSentences(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	n := 0
	for _, part := range sentenceRe.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}

func punctuationOnly(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
