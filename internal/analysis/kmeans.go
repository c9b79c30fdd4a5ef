package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const DefaultKMeansIterations = 50

// KMeans clusters vectors by cosine similarity and returns an assignment in
// [0,k). Seeding is deterministic: the first vector, then repeatedly the
// vector farthest from every chosen center. Equal input gives equal output.
func KMeans(vecs [][]float32, k int, iters int) []int {
	n := len(vecs)
	if n == 0 {
		return nil
	}
	if k > n {
		k = n
	}
	if k <= 1 {
		return make([]int, n)
	}
	if iters <= 0 {
		iters = DefaultKMeansIterations
	}

	// unit rows make cosine a plain dot product
	dim := len(vecs[0])
	points := make([]*mat.VecDense, n)
	for i, v := range vecs {
		points[i] = unitVec(v, dim)
	}

	centers := make([]*mat.VecDense, 0, k)
	centers = append(centers, points[0])
	for len(centers) < k {
		bestIdx := 0
		bestDist := -1.0
		for i := 0; i < n; i++ {
			maxSim := -1.0
			for _, c := range centers {
				if sim := mat.Dot(points[i], c); sim > maxSim {
					maxSim = sim
				}
			}
			if dist := 1.0 - maxSim; dist > bestDist {
				bestDist = dist
				bestIdx = i
			}
		}
		centers = append(centers, points[bestIdx])
	}

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}
	for iter := 0; iter < iters; iter++ {
		changed := false
		for i := 0; i < n; i++ {
			bestC := 0
			bestSim := -2.0
			for c := 0; c < k; c++ {
				if sim := mat.Dot(points[i], centers[c]); sim > bestSim {
					bestSim = sim
					bestC = c
				}
			}
			if assign[i] != bestC {
				assign[i] = bestC
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([]*mat.VecDense, k)
		for i, c := range assign {
			if sums[c] == nil {
				sums[c] = mat.NewVecDense(dim, nil)
			}
			sums[c].AddVec(sums[c], points[i])
		}
		for c := 0; c < k; c++ {
			// empty clusters keep their previous center
			if sums[c] != nil {
				centers[c] = normalizeVec(sums[c])
			}
		}
	}
	return assign
}

// unitVec copies v into a dim-length gonum vector scaled to unit length.
// Vectors of another length become zero vectors.
func unitVec(v []float32, dim int) *mat.VecDense {
	if len(v) != dim || dim == 0 {
		return mat.NewVecDense(max(dim, 1), nil)
	}
	return normalizeVec(mat.NewVecDense(dim, toFloat64(v)))
}

func normalizeVec(v *mat.VecDense) *mat.VecDense {
	raw := v.RawVector().Data
	if n := floats.Norm(raw, 2); n > 0 {
		floats.Scale(1/n, raw)
	}
	return v
}

type Cluster struct {
	ID       int      `json:"id"`
	Size     int      `json:"size"`
	PaperIDs []string `json:"paper_ids"`
	Keywords []string `json:"keywords"`
}

// ClusterDocuments assigns docs with KMeans over vecs, then labels each
// cluster with the top TF-IDF terms of its members' mean vector. Empty
// clusters are dropped and the remainder renumbered in order of first member.
func ClusterDocuments(docs []Document, vecs [][]float32, tfidf *Matrix, k int, keywords int) []Cluster {
	assign := KMeans(vecs, k, DefaultKMeansIterations)
	order := []int{}
	byCluster := map[int][]int{}
	for i, c := range assign {
		if _, ok := byCluster[c]; !ok {
			order = append(order, c)
		}
		byCluster[c] = append(byCluster[c], i)
	}

	out := make([]Cluster, 0, len(order))
	for id, c := range order {
		idx := byCluster[c]
		cl := Cluster{ID: id, Size: len(idx), PaperIDs: make([]string, 0, len(idx)), Keywords: []string{}}
		rows := make([][]float32, 0, len(idx))
		for _, i := range idx {
			cl.PaperIDs = append(cl.PaperIDs, docs[i].ID)
			if tfidf != nil && i < len(tfidf.Vectors) {
				rows = append(rows, tfidf.Vectors[i])
			}
		}
		if tfidf != nil && len(rows) > 0 {
			cl.Keywords = tfidf.TopTerms(meanVector(rows), keywords)
		}
		out = append(out, cl)
	}
	return out
}
