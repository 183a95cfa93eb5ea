package extraction

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/resumatch/internal/domain/document"
)

// skillPatterns maps each category to its word-boundary alternations.
// Terms ending in a symbol cannot close with \b; they get their own pattern
// and matchInOrder drops word hits that run into a trailing '+' or '#'.
var skillPatterns = map[document.SkillCategory][]*regexp.Regexp{
	document.ProgrammingLanguages: compileAll(
		`\b(?:python|java|javascript|typescript|c|ruby|php|swift|kotlin|go|rust|scala|r|matlab|perl|dart|objective-c)\b`,
		`\b(?:c\+\+|c#)`,
		`\b(?:html5?|css3?|sql|nosql|xml|json|yaml|toml|sass|scss|less)\b`,
	),
	document.FrameworksLibraries: compileAll(
		`\b(?:react|angular|vue|django|flask|spring|springboot|nodejs|express|laravel|symfony|rails|asp\.net)\b`,
		`\b(?:tensorflow|pytorch|scikit-learn|pandas|numpy|matplotlib|seaborn|plotly|opencv|keras)\b`,
		`\b(?:bootstrap|tailwind|jquery|d3\.js|three\.js|electron|react-native|flutter|xamarin)\b`,
	),
	document.Databases: compileAll(
		`\b(?:mysql|postgresql|mongodb|oracle|sqlite|redis|cassandra|elasticsearch|neo4j|couchdb|dynamodb)\b`,
		`\b(?:mariadb|firestore|cosmosdb|aurora|snowflake|bigquery|redshift)\b`,
	),
	document.ToolsPlatforms: compileAll(
		`\b(?:git|github|gitlab|bitbucket|docker|kubernetes|aws|azure|gcp|jenkins|terraform|ansible)\b`,
		`\b(?:jira|confluence|slack|trello|asana|notion|figma|sketch|adobe|photoshop|illustrator)\b`,
		`\b(?:linux|unix|windows|macos|ubuntu|centos|debian|fedora|arch)\b`,
	),
	document.CloudDevOps: compileAll(
		`\b(?:aws|amazon\s+web\s+services|azure|google\s+cloud|gcp|alibaba\s+cloud|ibm\s+cloud)\b`,
		`\b(?:docker|kubernetes|k8s|helm|istio|prometheus|grafana|elk|splunk|datadog|newrelic)\b`,
		`\b(?:ci/cd|jenkins|gitlab\s+ci|github\s+actions|travis\s+ci|circle\s+ci|bamboo)\b`,
	),
	document.SoftSkills: compileAll(
		`\b(?:leadership|communication|teamwork|problem[- ]solving|analytical|creative|innovative)\b`,
		`\b(?:adaptable|flexible|detail[- ]oriented|time\s+management|project\s+management|agile|scrum)\b`,
	),
	document.Certifications: compileAll(
		`\b(?:aws\s+certified|azure\s+certified|google\s+cloud\s+certified|cissp|cism|cisa|pmp|scrum\s+master)\b`,
		`\b(?:comptia|cisco|microsoft\s+certified|oracle\s+certified|salesforce\s+certified)\b`,
	),
}

// Years-of-experience phrasings, evaluated in order.
var experienceYearRes = compileAll(
	`(\d+)\+?\s*years?\s*(?:of\s*)?experience`,
	`(\d+)\+?\s*yrs?\s*(?:of\s*)?experience`,
	`experience.*?(\d+)\+?\s*years?`,
	`(\d+)\+?\s*years?\s*in`,
)

// ExtractSkills matches text against every skill vocabulary. Each category
// lists lowercased skills in order of first appearance.
func ExtractSkills(text string) document.Skills {
	skills := make(document.Skills, len(document.SkillCategories))
	for _, cat := range document.SkillCategories {
		skills[cat] = matchInOrder(text, skillPatterns[cat])
	}
	return skills
}

type positioned struct {
	pos  int
	term string
}

func matchInOrder(text string, patterns []*regexp.Regexp) []string {
	var hits []positioned
	for _, re := range patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if loc[1] < len(text) && (text[loc[1]] == '+' || text[loc[1]] == '#') {
				continue
			}
			hits = append(hits, positioned{pos: loc[0], term: strings.ToLower(text[loc[0]:loc[1]])})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := []string{}
	seen := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		if _, ok := seen[h.term]; ok {
			continue
		}
		seen[h.term] = struct{}{}
		out = append(out, h.term)
	}
	return out
}

// ExtractYearsExperience collects every years-of-experience figure. The list
// is not deduplicated.
func ExtractYearsExperience(text string) []int {
	years := []int{}
	for _, re := range experienceYearRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil {
				years = append(years, n)
			}
		}
	}
	return years
}
