package analysis

import (
	"sort"

	"github.com/james-bowman/nlp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const DefaultMaxFeatures = 100

// Matrix is a TF-IDF document-term matrix with L2-normalized rows.
type Matrix struct {
	Vocabulary []string
	Vectors    [][]float32
}

// tokeniser adapts Tokens to the nlp vectoriser.
type tokeniser struct{}

func (tokeniser) ForEachIn(text string, f func(token string)) {
	for _, t := range Tokens(text) {
		f(t)
	}
}

func (tokeniser) Tokenise(text string) []string { return Tokens(text) }

// TFIDF builds a matrix over docs. The vocabulary keeps the maxFeatures terms
// with the highest corpus frequency (ties alphabetical) and is then sorted.
// Weighting is nlp's smoothed inverse document frequency.
func TFIDF(docs []string, maxFeatures int) *Matrix {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	m := &Matrix{Vocabulary: []string{}, Vectors: make([][]float32, len(docs))}
	for i := range m.Vectors {
		m.Vectors[i] = []float32{}
	}
	if len(docs) == 0 {
		return m
	}

	vec := nlp.NewCountVectoriser()
	vec.Tokeniser = tokeniser{}
	counts, err := vec.FitTransform(docs...)
	if err != nil || len(vec.Vocabulary) == 0 {
		return m
	}

	// rows are terms, columns are documents
	freq := make(map[string]float64, len(vec.Vocabulary))
	for term, row := range vec.Vocabulary {
		freq[term] = floats.Sum(mat.Row(nil, row, counts))
	}
	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	reduced := mat.NewDense(len(terms), len(docs), nil)
	for i, t := range terms {
		reduced.SetRow(i, mat.Row(nil, vec.Vocabulary[t], counts))
	}
	weighted, err := nlp.NewTfidfTransformer().FitTransform(reduced)
	if err != nil {
		return m
	}

	m.Vocabulary = terms
	for j := range docs {
		col := mat.Col(nil, j, weighted)
		if n := floats.Norm(col, 2); n > 0 {
			floats.Scale(1/n, col)
		}
		m.Vectors[j] = toFloat32(col)
	}
	return m
}

// TopTerms returns the n vocabulary terms with the largest weights in v,
// skipping zero weights.
func (m *Matrix) TopTerms(v []float32, n int) []string {
	type tw struct {
		term string
		w    float32
	}
	all := make([]tw, 0, len(v))
	for j, w := range v {
		if w > 0 && j < len(m.Vocabulary) {
			all = append(all, tw{m.Vocabulary[j], w})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].w != all[j].w {
			return all[i].w > all[j].w
		}
		return all[i].term < all[j].term
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make([]string, 0, len(all))
	for _, x := range all {
		out = append(out, x.term)
	}
	return out
}
