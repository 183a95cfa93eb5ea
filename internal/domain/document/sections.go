package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SectionName labels a document section.
type SectionName string

// Section names recognized by the segmenter.
const (
	SectionGeneral          SectionName = "general"
	SectionPersonalInfo     SectionName = "personal_info"
	SectionSummary          SectionName = "summary"
	SectionExperience       SectionName = "experience"
	SectionEducation        SectionName = "education"
	SectionSkills           SectionName = "skills"
	SectionProjects         SectionName = "projects"
	SectionCertifications   SectionName = "certifications"
	SectionAwards           SectionName = "awards"
	SectionRequirements     SectionName = "requirements"
	SectionResponsibilities SectionName = "responsibilities"
	SectionBenefits         SectionName = "benefits"
)

// Sections is an insertion-ordered mapping from section name to content.
// Setting an existing name replaces its content and keeps its original position.
type Sections struct {
	order   []SectionName
	content map[SectionName]string
}

// Set stores content under name.
func (s *Sections) Set(name SectionName, content string) {
	if s.content == nil {
		s.content = make(map[SectionName]string)
	}
	if _, ok := s.content[name]; !ok {
		s.order = append(s.order, name)
	}
	s.content[name] = content
}

// Get returns the content stored under name.
func (s Sections) Get(name SectionName) (string, bool) {
	c, ok := s.content[name]
	return c, ok
}

// Has reports whether name was found.
func (s Sections) Has(name SectionName) bool {
	_, ok := s.content[name]
	return ok
}

// Names returns section names in document order.
func (s Sections) Names() []SectionName {
	out := make([]SectionName, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of sections.
func (s Sections) Len() int { return len(s.order) }

// MarshalJSON encodes sections as an object in document order.
func (s Sections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(name))
		if err != nil {
			return nil, fmt.Errorf("marshal section name: %w", err)
		}
		v, err := json.Marshal(s.content[name])
		if err != nil {
			return nil, fmt.Errorf("marshal section %s: %w", name, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, keeping key order.
func (s *Sections) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode sections: %w", err)
	}
	if tok == nil {
		*s = Sections{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decode sections: expected object")
	}
	*s = Sections{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode section name: %w", err)
		}
		key, _ := keyTok.(string)
		var content string
		if err := dec.Decode(&content); err != nil {
			return fmt.Errorf("decode section %s: %w", key, err)
		}
		s.Set(SectionName(key), content)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode sections: %w", err)
	}
	return nil
}
