package analysis

import "sort"

type SimilarPair struct {
	PaperA string  `json:"paper_a"`
	PaperB string  `json:"paper_b"`
	Score  float64 `json:"score"`
}

// SimilarPairs returns every unordered pair with cosine similarity at or
// above threshold, most similar first.
func SimilarPairs(docs []Document, vecs [][]float32, threshold float64) []SimilarPair {
	out := []SimilarPair{}
	for i := 0; i < len(docs) && i < len(vecs); i++ {
		for j := i + 1; j < len(docs) && j < len(vecs); j++ {
			s := Cosine(vecs[i], vecs[j])
			if s >= threshold {
				out = append(out, SimilarPair{PaperA: docs[i].ID, PaperB: docs[j].ID, Score: round2(s)})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
