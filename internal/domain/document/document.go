package document

// Document is the result of one extraction call over raw text.
// Every field is a pure function of RawText and the static vocabularies.
type Document struct {
	RawText           string                  `json:"raw_text"`
	NormalizedText    string                  `json:"normalized_text"`
	Sections          Sections                `json:"sections"`
	SectionConfidence map[SectionName]float64 `json:"section_confidence"`
	ContactInfo       ContactInfo             `json:"contact_info"`
	Entities          Entities                `json:"entities"`
	Skills            Skills                  `json:"skills"`
	YearsExperience   []int                   `json:"years_experience"`
	StructuredData    StructuredData          `json:"structured_data"`
	Keywords          Keywords                `json:"keywords"`
	Achievements      []Achievement           `json:"achievements"`
	Tokens            []string                `json:"-"`
	ProcessedTokens   []string                `json:"-"`
	Statistics        Statistics              `json:"statistics"`
	QualityScore      float64                 `json:"quality_score"`
}

// ContactInfo holds contact signals found in a document.
type ContactInfo struct {
	Emails   []string `json:"emails"`
	Phones   []string `json:"phones"`
	LinkedIn string   `json:"linkedin,omitempty"`
	GitHub   string   `json:"github,omitempty"`
	Websites []string `json:"websites"`
	Location string   `json:"location,omitempty"`
	Name     string   `json:"name,omitempty"`
}

// HasEmail reports whether at least one email was found.
func (c ContactInfo) HasEmail() bool { return len(c.Emails) > 0 }

// EntityKind names a class of extracted entity.
type EntityKind string

// Entity kinds.
const (
	EntityPerson       EntityKind = "person"
	EntityOrganization EntityKind = "organization"
	EntityLocation     EntityKind = "location"
	EntityDate         EntityKind = "date"
	EntityEmail        EntityKind = "email"
	EntityPhone        EntityKind = "phone"
	EntityURL          EntityKind = "url"
)

// EntityKinds lists every entity kind in a stable order.
var EntityKinds = []EntityKind{
	EntityPerson, EntityOrganization, EntityLocation, EntityDate,
	EntityEmail, EntityPhone, EntityURL,
}

// Entities maps an entity kind to its sorted, deduplicated values.
type Entities map[EntityKind][]string

// Total returns the number of entity values across all kinds.
func (e Entities) Total() int {
	n := 0
	for _, v := range e {
		n += len(v)
	}
	return n
}

// SkillCategory is one of the fixed vocabulary categories.
type SkillCategory string

// Skill categories.
const (
	ProgrammingLanguages SkillCategory = "programming_languages"
	FrameworksLibraries  SkillCategory = "frameworks_libraries"
	Databases            SkillCategory = "databases"
	ToolsPlatforms       SkillCategory = "tools_platforms"
	CloudDevOps          SkillCategory = "cloud_devops"
	SoftSkills           SkillCategory = "soft_skills"
	Certifications       SkillCategory = "certifications"
)

// SkillCategories lists every skill category in vocabulary order.
var SkillCategories = []SkillCategory{
	ProgrammingLanguages, FrameworksLibraries, Databases, ToolsPlatforms,
	CloudDevOps, SoftSkills, Certifications,
}

// Skills maps a category to lowercased skills in first-seen order.
type Skills map[SkillCategory][]string

// Total returns the number of skills across all categories.
func (s Skills) Total() int {
	n := 0
	for _, v := range s {
		n += len(v)
	}
	return n
}

// Statistics summarizes the size and token profile of a document.
type Statistics struct {
	CharacterCount      int     `json:"character_count"`
	WordCount           int     `json:"word_count"`
	SentenceCount       int     `json:"sentence_count"`
	TokenCount          int     `json:"token_count"`
	ProcessedTokenCount int     `json:"processed_token_count"`
	UniqueTokens        int     `json:"unique_tokens"`
	EntitiesFound       int     `json:"entities_found"`
	SkillsFound         int     `json:"skills_found"`
	LexicalDiversity    float64 `json:"lexical_diversity"`
}
