package extraction

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/resumatch/internal/domain/document"
)

var (
	degreeRe = regexp.MustCompile(
		`(?i)\b(?:Bachelor|Master|PhD|Ph\.D|MBA|Doctor|Associates?)\b|\b(?:M\.S|B\.S|B\.A|M\.A|A\.S|A\.A)\.`)
	gpaRe       = regexp.MustCompile(`(?i)GPA:?\s*([0-3]?\.[0-9]{1,2}|[0-4]\.[0-9]{1,2})`)
	yearRe      = regexp.MustCompile(`\b(?:19|20)[0-9]{2}\b`)
	dateRangeRe = regexp.MustCompile(
		`(?i)([0-9]{1,2}[/\-][0-9]{4}|[A-Za-z]+[ \t]+[0-9]{4}|[0-9]{4})[ \t]*(?:-|–|—|to)[ \t]*([0-9]{1,2}[/\-][0-9]{4}|[A-Za-z]+[ \t]+[0-9]{4}|[0-9]{4}|present|current)`)
	salaryRe = regexp.MustCompile(
		`(?i)\$\s*([0-9,]+)\s*(?:k|thousand)?(?:\s*[-–—]\s*\$?\s*([0-9,]+)\s*(?:k|thousand)?)?`)
	institutionRe = regexp.MustCompile(
		`\b(?:University|College|Institute|School)[ \t]+of[ \t]+[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)*|\b[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)*[ \t]+(?:University|College|Institute|School)\b`)
	companyRe = regexp.MustCompile(
		`\b[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)*[ \t]+(?:Inc|LLC|Corp|Corporation|Company|Technologies|Systems|Solutions|Group|Consulting)\b`)
	jobTitleRes = compileAll(
		`\b(?:software[ \t]+(?:engineer|developer|architect)|full[- ]stack[ \t]+developer|frontend[ \t]+developer|backend[ \t]+developer)\b`,
		`\b(?:data[ \t]+(?:scientist|analyst|engineer)|machine[ \t]+learning[ \t]+engineer|ai[ \t]+engineer|devops[ \t]+engineer)\b`,
		`\b(?:product[ \t]+manager|project[ \t]+manager|scrum[ \t]+master|technical[ \t]+lead|team[ \t]+lead|senior[ \t]+consultant)\b`,
		`\b(?:cto|ceo|cfo|vp|director|manager|analyst|specialist|coordinator|administrator)\b`,
	)
)

// Substring vocabularies for the coarse technical profile.
var technicalInfoTerms = struct {
	languages, frameworks, tools []string
}{
	languages: []string{
		"python", "java", "javascript", "typescript", "c++", "c#", "ruby", "php",
		"swift", "kotlin", "go", "rust", "scala", "r", "matlab", "sql",
	},
	frameworks: []string{
		"react", "angular", "vue", "django", "flask", "spring", "express",
		"laravel", "rails", "asp.net", "tensorflow", "pytorch",
	},
	tools: []string{
		"git", "docker", "kubernetes", "jenkins", "aws", "azure", "gcp",
		"linux", "windows", "macos", "mysql", "postgresql", "mongodb",
	},
}

// ExtractStructured builds the nested education, experience, technical and
// salary records. years holds the years-of-experience mentions and
// certifications the certification skills already found in text.
func ExtractStructured(text string, years []int, certifications []string) document.StructuredData {
	var data document.StructuredData

	data.Education.Degrees = uniqueSorted(degreeRe.FindAllString(text, -1))
	data.Education.Institutions = uniqueSorted(institutionRe.FindAllString(text, -1))
	if m := gpaRe.FindStringSubmatch(text); m != nil {
		if gpa, err := strconv.ParseFloat(m[1], 64); err == nil {
			data.Education.GPA = &gpa
		}
	}
	data.Education.GraduationYears = distinctYears(text)

	data.Experience.Companies = uniqueSorted(companyRe.FindAllString(text, -1))
	data.Experience.Positions = jobTitles(text)
	data.Experience.YearsExperience = years
	data.Experience.DateRanges = dateRanges(text)

	lower := strings.ToLower(text)
	data.TechnicalInfo = document.TechnicalInfo{
		ProgrammingLanguages: containedTerms(lower, technicalInfoTerms.languages),
		Frameworks:           containedTerms(lower, technicalInfoTerms.frameworks),
		Tools:                containedTerms(lower, technicalInfoTerms.tools),
		Certifications:       nonNil(certifications),
	}

	if m := salaryRe.FindStringSubmatch(text); m != nil {
		data.Metrics.SalaryMentioned = true
		data.Metrics.SalaryRange = &document.SalaryRange{Min: m[1], Max: m[2]}
	}
	if len(years) > 0 {
		total := years[0]
		for _, y := range years[1:] {
			total = max(total, y)
		}
		data.Metrics.YearsTotalExperience = &total
	}

	return data
}

func distinctYears(text string) []int {
	seen := make(map[int]struct{})
	out := []int{}
	for _, m := range yearRe.FindAllString(text, -1) {
		y, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

func dateRanges(text string) []document.DateRange {
	out := []document.DateRange{}
	for _, m := range dateRangeRe.FindAllStringSubmatch(text, -1) {
		out = append(out, document.DateRange{From: m[1], To: m[2]})
	}
	return out
}

func jobTitles(text string) []string {
	var titles []string
	for _, re := range jobTitleRes {
		for _, m := range re.FindAllString(text, -1) {
			titles = append(titles, strings.ToLower(m))
		}
	}
	return uniqueSorted(titles)
}

// containedTerms returns the terms that occur as substrings of lower, in vocabulary order.
func containedTerms(lower string, terms []string) []string {
	out := []string{}
	for _, t := range terms {
		if strings.Contains(lower, t) {
			out = append(out, t)
		}
	}
	return out
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile("(?i)" + p)
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
