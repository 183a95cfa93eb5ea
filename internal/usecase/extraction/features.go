package extraction

import (
	"strings"

	"github.com/kailas-cloud/resumatch/internal/domain/document"
	"github.com/kailas-cloud/resumatch/internal/domain/feature"
	"github.com/kailas-cloud/resumatch/internal/textproc"
)

// BuildFeatureVector projects doc onto the features the similarity engine reads.
func BuildFeatureVector(doc document.Document) feature.Vector {
	v := feature.Vector{
		Text: feature.TextFeatures{
			ProcessedText:    strings.Join(doc.ProcessedTokens, " "),
			WordCount:        doc.Statistics.WordCount,
			UniqueWords:      doc.Statistics.UniqueTokens,
			LexicalDiversity: doc.Statistics.LexicalDiversity,
		},
		Skills: feature.SkillFeatures{
			Lists:           make(map[document.SkillCategory][]string, len(document.SkillCategories)),
			YearsExperience: nonNil(doc.YearsExperience),
		},
		Entities: make(map[document.EntityKind]int, len(document.EntityKinds)),
		Sections: make(map[document.SectionName]feature.SectionFeature, doc.Sections.Len()),
	}

	for _, cat := range document.SkillCategories {
		list := make([]string, len(doc.Skills[cat]))
		copy(list, doc.Skills[cat])
		v.Skills.Lists[cat] = list
	}
	for _, kind := range document.EntityKinds {
		v.Entities[kind] = len(doc.Entities[kind])
	}
	for _, name := range doc.Sections.Names() {
		content, _ := doc.Sections.Get(name)
		v.Sections[name] = feature.SectionFeature{
			Present: strings.TrimSpace(content) != "",
			Length:  textproc.CountWords(content),
		}
	}
	return v
}

func statistics(doc document.Document) document.Statistics {
	unique := make(map[string]struct{}, len(doc.ProcessedTokens))
	for _, t := range doc.ProcessedTokens {
		unique[t] = struct{}{}
	}
	stats := document.Statistics{
		CharacterCount:      len([]rune(doc.RawText)),
		WordCount:           textproc.CountWords(doc.NormalizedText),
		SentenceCount:       textproc.CountSentences(doc.NormalizedText),
		TokenCount:          len(doc.Tokens),
		ProcessedTokenCount: len(doc.ProcessedTokens),
		UniqueTokens:        len(unique),
		EntitiesFound:       doc.Entities.Total(),
		SkillsFound:         doc.Skills.Total(),
	}
	if n := len(doc.ProcessedTokens); n > 0 {
		stats.LexicalDiversity = float64(len(unique)) / float64(n)
	}
	return stats
}
