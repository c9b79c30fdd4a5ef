package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Document is one paper as seen by the analysis functions.
type Document struct {
	ID   string
	Text string
	// Year is the publication year, 0 when unknown.
	Year int
}

func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	xs, ys := toFloat64(a), toFloat64(b)
	na, nb := floats.Norm(xs, 2), floats.Norm(ys, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return mat.Dot(mat.NewVecDense(len(xs), xs), mat.NewVecDense(len(ys), ys)) / (na * nb)
}

func meanVector(vecs [][]float32) []float32 {
	if len(vecs) == 0 {
		return nil
	}
	sum := make([]float64, len(vecs[0]))
	for _, v := range vecs {
		if len(v) != len(sum) {
			continue
		}
		floats.Add(sum, toFloat64(v))
	}
	floats.Scale(1/float64(len(vecs)), sum)
	return toFloat32(sum)
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
