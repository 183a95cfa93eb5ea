package extraction

import (
	"regexp"
	"strings"

	"github.com/kailas-cloud/resumatch/internal/domain/document"
)

type termGroup struct {
	category string
	terms    []string
}

var technicalTerms = []termGroup{
	{"programming", []string{
		"python", "java", "javascript", "typescript", "c++", "c#", "ruby", "php", "swift",
		"kotlin", "go", "rust", "scala", "r", "matlab", "sql", "html", "css",
	}},
	{"frameworks", []string{
		"react", "angular", "vue", "django", "flask", "spring", "express", "laravel",
		"rails", "asp.net", "tensorflow", "pytorch", "keras", "node.js",
	}},
	{"databases", []string{
		"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "cassandra", "oracle", "sqlite",
	}},
	{"cloud", []string{
		"aws", "azure", "gcp", "google cloud", "amazon web services", "microsoft azure",
	}},
	{"tools", []string{
		"git", "docker", "kubernetes", "jenkins", "linux", "windows", "macos", "jira", "confluence",
	}},
}

var (
	softSkillTerms = []string{
		"leadership", "communication", "teamwork", "problem solving", "analytical",
		"creative", "innovative", "collaborative", "adaptable", "detail-oriented",
		"self-motivated", "organized", "time management", "critical thinking",
	}
	industryTerms = []string{
		"technology", "healthcare", "finance", "education", "retail", "manufacturing",
		"consulting", "government", "nonprofit", "startup", "enterprise",
	}
	jobTitleTerms = []string{
		"developer", "engineer", "analyst", "manager", "director", "architect",
		"consultant", "specialist", "coordinator", "administrator", "designer",
	}
	actionWordTerms = []string{
		"developed", "implemented", "designed", "created", "built", "managed",
		"led", "optimized", "improved", "increased", "reduced", "achieved",
	}
)

// Keyword confidences.
const (
	technicalBase        = 0.7
	technicalSpacedBonus = 0.2
	technicalWordBonus   = 0.1
	softSkillSpaced      = 0.8
	softSkillEmbedded    = 0.6
	industryConfidence   = 0.7
	jobTitleConfidence   = 0.8
	actionConfidence     = 0.9
)

var (
	quantifiedAchievementRe = regexp.MustCompile(
		`(?i)(?:achieved|increased|decreased|improved|reduced|implemented|developed|led|managed|created|built|designed|optimized)\s+[^.!?]*(?:\d+%?|million|thousand|k|\$[0-9,]+)`)
	qualitativeAchievementRes = compileAll(
		`(?:promoted to|advancement to|selected for|chosen for|awarded|recognized for)[^.!?]*`,
		`(?:led team of|managed team of|supervised)[^.!?]*`,
		`(?:exceeded expectations|surpassed goals|beat targets)[^.!?]*`,
		`(?:first place|top performer|highest rated|best in)[^.!?]*`,
	)
)

// Achievement confidences.
const (
	quantifiedConfidence  = 0.8
	qualitativeConfidence = 0.7
)

// ExtractKeywords finds vocabulary terms by substring containment and
// annotates each hit with a confidence. Short terms can match inside longer
// words; whole-word and space-delimited hits score higher.
func ExtractKeywords(text string) document.Keywords {
	lower := strings.ToLower(text)
	words := make(map[string]struct{})
	for _, w := range strings.Fields(lower) {
		words[w] = struct{}{}
	}

	kw := document.Keywords{
		TechnicalSkills: []document.Keyword{},
		SoftSkills:      []document.Keyword{},
		Industries:      []document.Keyword{},
		JobTitles:       []document.Keyword{},
		ActionWords:     []document.Keyword{},
	}

	for _, g := range technicalTerms {
		for _, term := range g.terms {
			if !strings.Contains(lower, term) {
				continue
			}
			conf := technicalBase
			if strings.Contains(lower, " "+term+" ") {
				conf += technicalSpacedBonus
			}
			if _, ok := words[term]; ok {
				conf += technicalWordBonus
			}
			kw.TechnicalSkills = append(kw.TechnicalSkills, document.Keyword{
				Term: term, Category: g.category, Confidence: min(conf, 1.0),
			})
		}
	}

	for _, term := range softSkillTerms {
		if !strings.Contains(lower, term) {
			continue
		}
		conf := softSkillEmbedded
		if strings.Contains(lower, " "+term+" ") {
			conf = softSkillSpaced
		}
		kw.SoftSkills = append(kw.SoftSkills, document.Keyword{Term: term, Confidence: conf})
	}

	kw.Industries = fixedConfidence(lower, industryTerms, industryConfidence)
	kw.JobTitles = fixedConfidence(lower, jobTitleTerms, jobTitleConfidence)
	kw.ActionWords = fixedConfidence(lower, actionWordTerms, actionConfidence)
	return kw
}

func fixedConfidence(lower string, terms []string, conf float64) []document.Keyword {
	out := []document.Keyword{}
	for _, term := range terms {
		if strings.Contains(lower, term) {
			out = append(out, document.Keyword{Term: term, Confidence: conf})
		}
	}
	return out
}

// ExtractAchievements returns quantified accomplishments followed by
// qualitative ones.
func ExtractAchievements(text string) []document.Achievement {
	out := []document.Achievement{}
	for _, m := range quantifiedAchievementRe.FindAllString(text, -1) {
		out = append(out, document.Achievement{
			Text: m, Type: document.AchievementQuantified, Confidence: quantifiedConfidence,
		})
	}
	for _, re := range qualitativeAchievementRes {
		for _, m := range re.FindAllString(text, -1) {
			out = append(out, document.Achievement{
				Text: m, Type: document.AchievementQualitative, Confidence: qualitativeConfidence,
			})
		}
	}
	return out
}
