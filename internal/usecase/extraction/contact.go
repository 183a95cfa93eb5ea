package extraction

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/kailas-cloud/resumatch/internal/domain/document"
)

var (
	emailRe    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe    = regexp.MustCompile(`(\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`)
	linkedinRe = regexp.MustCompile(`(?i)linkedin\.com/(?:in|pub)/[a-zA-Z0-9\-_%]+`)
	githubRe   = regexp.MustCompile(`(?i)github\.com/[a-zA-Z0-9\-_]+`)
	websiteRe  = regexp.MustCompile(`https?://[-\w.]+(?::[0-9]+)?(?:/[\w/_.]*(?:\?[\w&=%.]*)?(?:#[\w.]*)?)?`)
	locationRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)*,[ \t]*(?:[A-Z]{2}|[A-Z][a-z]+)\b`)
	digitsRe   = regexp.MustCompile(`\D`)
)

const nameScanLines = 5

// ExtractContact pulls e-mails, phones, profile links, a location and a
// candidate name from text.
func ExtractContact(text string) document.ContactInfo {
	info := document.ContactInfo{
		Emails:   uniqueSorted(emailRe.FindAllString(text, -1)),
		Phones:   extractPhones(text),
		Websites: uniqueSorted(websiteRe.FindAllString(text, -1)),
	}
	if m := linkedinRe.FindString(text); m != "" {
		info.LinkedIn = "https://" + m
	}
	if m := githubRe.FindString(text); m != "" {
		info.GitHub = "https://" + m
	}
	info.Location = locationRe.FindString(text)
	info.Name = guessName(text)
	return info
}

func extractPhones(text string) []string {
	var phones []string
	for _, m := range phoneRe.FindAllStringSubmatch(text, -1) {
		area, exchange, subscriber := m[2], m[3], m[4]
		if area != "" && exchange != "" && subscriber != "" {
			phones = append(phones, fmt.Sprintf("(%s) %s-%s", area, exchange, subscriber))
			continue
		}
		if len(digitsRe.ReplaceAllString(m[0], "")) >= 10 {
			phones = append(phones, m[0])
		}
	}
	return uniqueSorted(phones)
}

// guessName returns the first of the opening lines that looks like a
// personal name: short, two to four words, alphabetic words capitalized.
func guessName(text string) string {
	lines := strings.SplitN(text, "\n", nameScanLines+1)
	if len(lines) > nameScanLines {
		lines = lines[:nameScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len([]rune(line)) >= 50 {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		if capitalizedWords(words) {
			return line
		}
	}
	return ""
}

func capitalizedWords(words []string) bool {
	for _, w := range words {
		if !alphabetic(w) {
			continue
		}
		if r := []rune(w)[0]; !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func alphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// uniqueSorted deduplicates values and returns them sorted; never nil.
func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
