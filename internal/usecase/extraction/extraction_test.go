package extraction

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/domain/document"
)

const sampleResume = `Jane Doe
jane.doe@example.com | 212-736-5000 | linkedin.com/in/janedoe | New York, NY

SUMMARY
Backend engineer with 6 years of experience building distributed systems in Go and Python.

EXPERIENCE
Senior Engineer, Acme Inc, Jan 2019 - Present
• Increased throughput by 40% by redesigning the ingestion pipeline.
• Led team of 5 engineers delivering the billing platform.

EDUCATION
B.S. in Computer Science, Stanford University, 2014 - 2018. GPA: 3.8

SKILLS
Python, Go, PostgreSQL, Redis, Docker, Kubernetes, AWS, leadership, communication`

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses blank runs and spaces", "Hello   world\n\n\n\nBye", "Hello world\n\nBye"},
		{"empty", "", ""},
		{"crlf and indentation", "Line one\r\n   Line two\r\n", "Line one\nLine two"},
		{"tight punctuation", "Python , Go ;Rust", "Python, Go; Rust"},
		{"space after sentence stop", "Hello.World", "Hello. World"},
		{"space after question mark", "Done?Yes", "Done? Yes"},
		{"space after colon", "Key:value", "Key: value"},
		{"abbreviations kept", "B.S. in C.S.", "B.S. in C.S."},
		{"lowercase dotted names kept", "Node.js and linkedin.com/in/jane", "Node.js and linkedin.com/in/jane"},
		{"urls and emails kept", "https://example.com/a?b=c mail:x.Y@Corp.com", "https://example.com/a?b=c mail:x.Y@Corp.com"},
		{"after a number", "Team of 5.Then more", "Team of 5. Then more"},
		{"bullets", "  ◦   first\n▪second", "• first\n• second"},
		{"compatibility forms", "ﬁnance", "finance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	once := Normalize(sampleResume)
	if twice := Normalize(once); twice != once {
		t.Errorf("second pass changed text:\n%q\n%q", once, twice)
	}
}

func TestSegment(t *testing.T) {
	sections, confidence := Segment("EXPERIENCE\nDid stuff\n\nEDUCATION\nBS degree")

	wantNames := []document.SectionName{document.SectionExperience, document.SectionEducation}
	if got := sections.Names(); !reflect.DeepEqual(got, wantNames) {
		t.Fatalf("Names() = %v, want %v", got, wantNames)
	}
	if got, _ := sections.Get(document.SectionExperience); got != "Did stuff" {
		t.Errorf("experience = %q", got)
	}
	if got, _ := sections.Get(document.SectionEducation); got != "BS degree" {
		t.Errorf("education = %q", got)
	}
	for name, c := range confidence {
		if c <= headingThreshold || c > 1.0 {
			t.Errorf("confidence[%s] = %v, want (%.2f, 1.0]", name, c, headingThreshold)
		}
	}
}

func TestSegment_LeadingTextIsGeneral(t *testing.T) {
	sections, confidence := Segment("Jane Doe\nBerlin\nSKILLS\nGo, Rust")
	if got, _ := sections.Get(document.SectionGeneral); got != "Jane Doe\nBerlin" {
		t.Errorf("general = %q", got)
	}
	if confidence[document.SectionGeneral] != defaultConfidence {
		t.Errorf("general confidence = %v, want %v", confidence[document.SectionGeneral], defaultConfidence)
	}
	if !sections.Has(document.SectionSkills) {
		t.Error("skills section missing")
	}
}

func TestSegment_EmptyHeadingDropped(t *testing.T) {
	sections, confidence := Segment("EXPERIENCE\n\nEDUCATION\nMSc")
	if sections.Has(document.SectionExperience) {
		t.Error("empty experience section kept")
	}
	if _, ok := confidence[document.SectionExperience]; ok {
		t.Error("confidence kept for empty section")
	}
}

func TestExtractContact(t *testing.T) {
	info := ExtractContact(Normalize(sampleResume))

	if !reflect.DeepEqual(info.Emails, []string{"jane.doe@example.com"}) {
		t.Errorf("Emails = %v", info.Emails)
	}
	if !reflect.DeepEqual(info.Phones, []string{"(212) 736-5000"}) {
		t.Errorf("Phones = %v", info.Phones)
	}
	if info.LinkedIn != "https://linkedin.com/in/janedoe" {
		t.Errorf("LinkedIn = %q", info.LinkedIn)
	}
	if info.Location != "New York, NY" {
		t.Errorf("Location = %q", info.Location)
	}
	if info.Name != "Jane Doe" {
		t.Errorf("Name = %q", info.Name)
	}
}

func TestExtractEntities_PhonesValidated(t *testing.T) {
	text := "Call 212-736-5000 or 123-456-7890"
	ents := ExtractEntities(text, ExtractContact(text))
	if got := ents[document.EntityPhone]; !reflect.DeepEqual(got, []string{"+12127365000"}) {
		t.Errorf("phones = %v, want [+12127365000]", got)
	}
	for _, kind := range document.EntityKinds {
		if ents[kind] == nil {
			t.Errorf("entities[%s] is nil", kind)
		}
	}
}

func TestExtractSkills(t *testing.T) {
	skills := ExtractSkills("5 years experience in Python, Django, React")

	tests := []struct {
		cat  document.SkillCategory
		want []string
	}{
		{document.ProgrammingLanguages, []string{"python"}},
		{document.FrameworksLibraries, []string{"django", "react"}},
		{document.Databases, []string{}},
		{document.CloudDevOps, []string{}},
	}
	for _, tt := range tests {
		if got := skills[tt.cat]; !reflect.DeepEqual(got, tt.want) {
			t.Errorf("skills[%s] = %v, want %v", tt.cat, got, tt.want)
		}
	}
}

func TestExtractSkills_FirstAppearanceOrder(t *testing.T) {
	skills := ExtractSkills("Docker and AWS, later Git and docker again")
	want := []string{"docker", "aws", "git"}
	if got := skills[document.ToolsPlatforms]; !reflect.DeepEqual(got, want) {
		t.Errorf("tools = %v, want %v", got, want)
	}
}

func TestExtractSkills_SymbolTerminated(t *testing.T) {
	skills := ExtractSkills("Skilled in C++ and C# and Go, plus plain C.")
	want := []string{"c++", "c#", "go", "c"}
	if got := skills[document.ProgrammingLanguages]; !reflect.DeepEqual(got, want) {
		t.Errorf("languages = %v, want %v", got, want)
	}

	skills = ExtractSkills("Modern C++17 codebase")
	if got := skills[document.ProgrammingLanguages]; !reflect.DeepEqual(got, []string{"c++"}) {
		t.Errorf("languages = %v, want [c++]", got)
	}
}

func TestExtractYearsExperience(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"5 years experience in Python", []int{5}},
		{"Requires 3+ years experience, Python, Django, AWS", []int{3}},
		{"7 yrs of experience", []int{7}},
		{"no figures here", []int{}},
	}
	for _, tt := range tests {
		if got := ExtractYearsExperience(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ExtractYearsExperience(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExtractStructured(t *testing.T) {
	text := "Software Engineer at Acme Technologies, Jan 2019 - Present. B.S. in Computer Science, Stanford University, GPA: 3.8"
	data := ExtractStructured(text, []int{4, 6}, nil)

	if !reflect.DeepEqual(data.Education.Degrees, []string{"B.S."}) {
		t.Errorf("Degrees = %v", data.Education.Degrees)
	}
	if !reflect.DeepEqual(data.Education.Institutions, []string{"Stanford University"}) {
		t.Errorf("Institutions = %v", data.Education.Institutions)
	}
	if data.Education.GPA == nil || *data.Education.GPA != 3.8 {
		t.Errorf("GPA = %v", data.Education.GPA)
	}
	if !reflect.DeepEqual(data.Experience.Companies, []string{"Acme Technologies"}) {
		t.Errorf("Companies = %v", data.Experience.Companies)
	}
	if !reflect.DeepEqual(data.Experience.Positions, []string{"software engineer"}) {
		t.Errorf("Positions = %v", data.Experience.Positions)
	}
	wantRange := []document.DateRange{{From: "Jan 2019", To: "Present"}}
	if !reflect.DeepEqual(data.Experience.DateRanges, wantRange) {
		t.Errorf("DateRanges = %v, want %v", data.Experience.DateRanges, wantRange)
	}
	if data.Metrics.YearsTotalExperience == nil || *data.Metrics.YearsTotalExperience != 6 {
		t.Errorf("YearsTotalExperience = %v, want 6", data.Metrics.YearsTotalExperience)
	}
	if data.TechnicalInfo.Certifications == nil {
		t.Error("Certifications is nil")
	}
}

func TestExtractStructured_Salary(t *testing.T) {
	data := ExtractStructured("Compensation: $120,000 - $150,000 per year", nil, nil)
	if !data.Metrics.SalaryMentioned {
		t.Fatal("salary not detected")
	}
	want := document.SalaryRange{Min: "120,000", Max: "150,000"}
	if *data.Metrics.SalaryRange != want {
		t.Errorf("SalaryRange = %+v, want %+v", *data.Metrics.SalaryRange, want)
	}
	if data.Metrics.YearsTotalExperience != nil {
		t.Error("YearsTotalExperience set without mentions")
	}
}

func TestExtractKeywords(t *testing.T) {
	kw := ExtractKeywords("Led a team using Python and Docker")

	byTerm := make(map[string]document.Keyword)
	for _, k := range kw.TechnicalSkills {
		byTerm[k.Term] = k
	}
	python, ok := byTerm["python"]
	if !ok || python.Category != "programming" || math.Abs(python.Confidence-1.0) > 1e-9 {
		t.Errorf("python = %+v", python)
	}
	docker, ok := byTerm["docker"]
	if !ok || docker.Category != "tools" || math.Abs(docker.Confidence-0.8) > 1e-9 {
		t.Errorf("docker = %+v", docker)
	}
	if len(kw.ActionWords) != 1 || kw.ActionWords[0].Term != "led" {
		t.Errorf("ActionWords = %+v", kw.ActionWords)
	}
}

func TestExtractAchievements(t *testing.T) {
	got := ExtractAchievements("Increased revenue by 25% in 2021. Promoted to team lead after one year.")
	if len(got) != 2 {
		t.Fatalf("got %d achievements, want 2: %+v", len(got), got)
	}
	if got[0].Type != document.AchievementQuantified || !strings.HasPrefix(got[0].Text, "Increased revenue by 25%") {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Type != document.AchievementQualitative || !strings.HasPrefix(got[1].Text, "Promoted to team lead") {
		t.Errorf("second = %+v", got[1])
	}
}

func TestExtract_Idempotent(t *testing.T) {
	a := Extract(sampleResume)
	b := Extract(sampleResume)
	if !reflect.DeepEqual(a, b) {
		t.Error("Extract is not deterministic")
	}
}

func TestExtract_Empty(t *testing.T) {
	doc := Extract("")
	if doc.Sections.Len() != 0 || doc.Skills.Total() != 0 || doc.Statistics.WordCount != 0 {
		t.Errorf("empty input produced %+v", doc.Statistics)
	}
	if !BuildFeatureVector(doc).IsEmpty() {
		t.Error("feature vector of empty document is not empty")
	}
}

func TestExtract_SampleResume(t *testing.T) {
	doc := Extract(sampleResume)

	for _, s := range []document.SectionName{
		document.SectionSummary, document.SectionExperience, document.SectionEducation, document.SectionSkills,
	} {
		if !doc.Sections.Has(s) {
			t.Errorf("section %s missing (have %v)", s, doc.Sections.Names())
		}
	}
	if doc.QualityScore <= 0 || doc.QualityScore > 100 {
		t.Errorf("QualityScore = %v", doc.QualityScore)
	}
	if doc.Statistics.LexicalDiversity <= 0 || doc.Statistics.LexicalDiversity > 1 {
		t.Errorf("LexicalDiversity = %v", doc.Statistics.LexicalDiversity)
	}
}

func TestBuildFeatureVector(t *testing.T) {
	doc := Extract("5 years experience in Python, Django, React")
	v := BuildFeatureVector(doc)

	if got := v.Skills.List(document.ProgrammingLanguages); !reflect.DeepEqual(got, []string{"python"}) {
		t.Errorf("programming = %v", got)
	}
	if !reflect.DeepEqual(v.Skills.YearsExperience, []int{5}) {
		t.Errorf("YearsExperience = %v", v.Skills.YearsExperience)
	}
	if v.Text.WordCount != 7 {
		t.Errorf("WordCount = %d, want 7", v.Text.WordCount)
	}
	if v.Text.ProcessedText == "" {
		t.Error("ProcessedText is empty")
	}
	if len(v.Entities) != len(document.EntityKinds) {
		t.Errorf("entity counts = %v", v.Entities)
	}
}

func TestService_Extract(t *testing.T) {
	svc := New(zap.NewNop(), WithMaxChars(50))

	doc, err := svc.Extract(context.Background(), "Python developer")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.NormalizedText != "Python developer" {
		t.Errorf("NormalizedText = %q", doc.NormalizedText)
	}

	_, err = svc.Extract(context.Background(), strings.Repeat("x", 51))
	if !errors.Is(err, domain.ErrDocumentTooLarge) {
		t.Errorf("err = %v, want ErrDocumentTooLarge", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Extract(ctx, "text"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
