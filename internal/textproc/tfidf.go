package textproc

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxFeatures caps the vocabulary size.
const DefaultMaxFeatures = 5000

var termRe = regexp.MustCompile(`\b\w\w+\b`)

// Vectorizer builds L2-normalized TF-IDF vectors with smoothed IDF.
// A Vectorizer holds the vocabulary of its last fit; create one per comparison.
type Vectorizer struct {
	maxFeatures int
	stopWords   func(string) bool

	vocabulary map[string]int
	idf        []float64
}

// VectorizerOption configures a Vectorizer.
type VectorizerOption func(*Vectorizer)

// WithMaxFeatures limits the vocabulary to the n most frequent terms.
func WithMaxFeatures(n int) VectorizerOption {
	return func(v *Vectorizer) { v.maxFeatures = n }
}

// WithoutStopWords keeps stopwords in the vocabulary.
func WithoutStopWords() VectorizerOption {
	return func(v *Vectorizer) { v.stopWords = nil }
}

// NewVectorizer creates an unfitted vectorizer filtering English stopwords.
func NewVectorizer(opts ...VectorizerOption) *Vectorizer {
	v := &Vectorizer{maxFeatures: DefaultMaxFeatures, stopWords: IsEnglishStopWord}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Vocabulary returns the fitted terms in column order.
func (v *Vectorizer) Vocabulary() []string {
	out := make([]string, len(v.vocabulary))
	for term, col := range v.vocabulary {
		out[col] = term
	}
	return out
}

func (v *Vectorizer) analyze(doc string) []string {
	terms := termRe.FindAllString(strings.ToLower(doc), -1)
	if v.stopWords == nil {
		return terms
	}
	out := terms[:0]
	for _, t := range terms {
		if !v.stopWords(t) {
			out = append(out, t)
		}
	}
	return out
}

// FitTransform learns the vocabulary and IDF weights from docs and returns
// one dense row per document. Rows of documents without any vocabulary term
// are all zero.
func (v *Vectorizer) FitTransform(docs []string) [][]float64 {
	analyzed := make([][]string, len(docs))
	df := make(map[string]int)
	cf := make(map[string]int)
	for i, doc := range docs {
		analyzed[i] = v.analyze(doc)
		seen := make(map[string]struct{}, len(analyzed[i]))
		for _, t := range analyzed[i] {
			cf[t]++
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				df[t]++
			}
		}
	}

	terms := make([]string, 0, len(cf))
	for t := range cf {
		terms = append(terms, t)
	}
	if v.maxFeatures > 0 && len(terms) > v.maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if cf[terms[i]] != cf[terms[j]] {
				return cf[terms[i]] > cf[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for col, t := range terms {
		v.vocabulary[t] = col
		v.idf[col] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	rows := make([][]float64, len(docs))
	for i, toks := range analyzed {
		rows[i] = v.transformTokens(toks)
	}
	return rows
}

// Transform projects doc onto the fitted vocabulary.
func (v *Vectorizer) Transform(doc string) []float64 {
	return v.transformTokens(v.analyze(doc))
}

func (v *Vectorizer) transformTokens(toks []string) []float64 {
	row := make([]float64, len(v.vocabulary))
	for _, t := range toks {
		if col, ok := v.vocabulary[t]; ok {
			row[col]++
		}
	}
	var norm float64
	for col := range row {
		row[col] *= v.idf[col]
		norm += row[col] * row[col]
	}
	if norm == 0 {
		return row
	}
	norm = math.Sqrt(norm)
	for col := range row {
		row[col] /= norm
	}
	return row
}

// Cosine returns the cosine similarity of a and b, or 0 when either is a zero vector.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Similarity fits a fresh vectorizer on a and b and returns their cosine similarity.
func Similarity(a, b string) float64 {
	rows := NewVectorizer().FitTransform([]string{a, b})
	return Cosine(rows[0], rows[1])
}

// SimilarityMatrix fits a fresh vectorizer on docs and returns pairwise cosine similarities.
func SimilarityMatrix(docs []string) [][]float64 {
	rows := NewVectorizer().FitTransform(docs)
	out := make([][]float64, len(rows))
	for i := range rows {
		out[i] = make([]float64, len(rows))
		for j := range rows {
			out[i][j] = Cosine(rows[i], rows[j])
		}
	}
	return out
}
