package feature

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/resumatch/internal/domain/document"
)

// Vector is the scoring projection of one extracted document.
type Vector struct {
	Text     TextFeatures
	Skills   SkillFeatures
	Entities map[document.EntityKind]int
	Sections map[document.SectionName]SectionFeature
}

// TextFeatures holds the token-level profile.
type TextFeatures struct {
	ProcessedText    string  `json:"processed_text"`
	WordCount        int     `json:"word_count"`
	UniqueWords      int     `json:"unique_words"`
	LexicalDiversity float64 `json:"lexical_diversity"`
}

// SkillFeatures holds per-category skill lists and the years-of-experience mentions.
type SkillFeatures struct {
	Lists           map[document.SkillCategory][]string
	YearsExperience []int
}

// List returns the skills observed for category.
func (s SkillFeatures) List(category document.SkillCategory) []string {
	return s.Lists[category]
}

// Count returns the number of skills observed for category.
func (s SkillFeatures) Count(category document.SkillCategory) int {
	return len(s.Lists[category])
}

// SectionFeature describes one recognized section.
type SectionFeature struct {
	Present bool
	Length  int // words
}

// HasSection reports whether the section was found with non-empty content.
func (v Vector) HasSection(name document.SectionName) bool {
	return v.Sections[name].Present
}

// IsEmpty reports whether the vector carries no text.
func (v Vector) IsEmpty() bool {
	return strings.TrimSpace(v.Text.ProcessedText) == "" && v.Text.WordCount == 0
}

// Flatten returns the keyed feature groups: text_features, skill_features,
// entity_features and section_features.
func (v Vector) Flatten() map[string]map[string]any {
	skills := make(map[string]any, len(v.Skills.Lists)*2+1)
	for cat, list := range v.Skills.Lists {
		skills[string(cat)+"_count"] = len(list)
		skills[string(cat)+"_list"] = nonNil(list)
	}
	if v.Skills.YearsExperience != nil {
		skills["years_experience"] = v.Skills.YearsExperience
	}

	entities := make(map[string]any, len(v.Entities))
	for kind, n := range v.Entities {
		entities[string(kind)+"_count"] = n
	}

	sections := make(map[string]any, len(v.Sections)*2)
	for name, sf := range v.Sections {
		sections["has_"+string(name)] = sf.Present
		sections[string(name)+"_length"] = sf.Length
	}

	return map[string]map[string]any{
		"text_features": {
			"processed_text":    v.Text.ProcessedText,
			"word_count":        v.Text.WordCount,
			"unique_words":      v.Text.UniqueWords,
			"lexical_diversity": v.Text.LexicalDiversity,
		},
		"skill_features":   skills,
		"entity_features":  entities,
		"section_features": sections,
	}
}

// MarshalJSON encodes the flattened feature groups.
func (v Vector) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Flatten())
}

type wireVector struct {
	Text     TextFeatures               `json:"text_features"`
	Skills   map[string]json.RawMessage `json:"skill_features"`
	Entities map[string]int             `json:"entity_features"`
	Sections map[string]json.RawMessage `json:"section_features"`
}

// UnmarshalJSON decodes the flattened feature groups.
func (v *Vector) UnmarshalJSON(data []byte) error {
	var w wireVector
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode feature vector: %w", err)
	}

	out := Vector{
		Text:     w.Text,
		Skills:   SkillFeatures{Lists: make(map[document.SkillCategory][]string)},
		Entities: make(map[document.EntityKind]int, len(w.Entities)),
		Sections: make(map[document.SectionName]SectionFeature),
	}

	for key, raw := range w.Skills {
		switch {
		case key == "years_experience":
			if err := json.Unmarshal(raw, &out.Skills.YearsExperience); err != nil {
				return fmt.Errorf("decode years_experience: %w", err)
			}
		case strings.HasSuffix(key, "_list"):
			var list []string
			if err := json.Unmarshal(raw, &list); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
			out.Skills.Lists[document.SkillCategory(strings.TrimSuffix(key, "_list"))] = list
		}
	}

	for key, n := range w.Entities {
		out.Entities[document.EntityKind(strings.TrimSuffix(key, "_count"))] = n
	}

	for key, raw := range w.Sections {
		switch {
		case strings.HasPrefix(key, "has_"):
			name := document.SectionName(strings.TrimPrefix(key, "has_"))
			sf := out.Sections[name]
			if err := json.Unmarshal(raw, &sf.Present); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
			out.Sections[name] = sf
		case strings.HasSuffix(key, "_length"):
			name := document.SectionName(strings.TrimSuffix(key, "_length"))
			sf := out.Sections[name]
			if err := json.Unmarshal(raw, &sf.Length); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
			out.Sections[name] = sf
		}
	}

	*v = out
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
