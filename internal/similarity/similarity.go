// Package similarity compares embedding vectors by cosine distance and
// shapes the results as heat-map data.
package similarity

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrTooFewInputs is returned when fewer than two vectors are compared.
	ErrTooFewInputs = errors.New("similarity: at least two inputs are required")
	// ErrLengthMismatch is returned when labels and vectors differ in count.
	ErrLengthMismatch = errors.New("similarity: labels and vectors differ in length")
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1; 0 when lengths differ or a norm is zero.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (normA * normB)
}

// CosineDistance is 1 - cosine similarity, in [0, 2].
func CosineDistance(a, b []float64) float64 {
	return 1 - CosineSimilarity(a, b)
}

// Pair is the distance between items I and J, with I < J.
type Pair struct {
	I        int     `json:"i"`
	J        int     `json:"j"`
	Distance float64 `json:"distance"`
}

// Pairs returns one distance per unordered pair of vectors.
func Pairs(vectors [][]float64) []Pair {
	n := len(vectors)
	if n < 2 {
		return nil
	}
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{I: i, J: j, Distance: CosineDistance(vectors[i], vectors[j])})
		}
	}
	return pairs
}

// DistanceMatrix returns the full symmetric n×n distance matrix with a zero
// diagonal.
func DistanceMatrix(vectors [][]float64) [][]float64 {
	n := len(vectors)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for _, p := range Pairs(vectors) {
		m[p.I][p.J] = p.Distance
		m[p.J][p.I] = p.Distance
	}
	return m
}

// Cell is one off-diagonal heat-map entry.
type Cell struct {
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	RowLabel string  `json:"row_label"`
	ColLabel string  `json:"col_label"`
	Distance float64 `json:"distance"`
	Label    string  `json:"label"`
}

// Heatmap is the data behind a pairwise distance chart: axis labels in
// input order, every ordered off-diagonal cell and the color scale domain.
type Heatmap struct {
	Labels      []string   `json:"labels"`
	Cells       []Cell     `json:"cells"`
	ColorDomain [2]float64 `json:"color_domain"`
}

// NewHeatmap compares every input with every other input. The diagonal is
// left out since it is always zero. The color domain runs from the smallest
// distance to 1.5 times the largest.
func NewHeatmap(labels []string, vectors [][]float64) (Heatmap, error) {
	if len(labels) != len(vectors) {
		return Heatmap{}, fmt.Errorf("%w: %d labels, %d vectors", ErrLengthMismatch, len(labels), len(vectors))
	}
	if len(vectors) < 2 {
		return Heatmap{}, ErrTooFewInputs
	}

	matrix := DistanceMatrix(vectors)
	n := len(vectors)
	cells := make([]Cell, 0, n*(n-1))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := matrix[i][j]
			cells = append(cells, Cell{
				Row:      i,
				Col:      j,
				RowLabel: labels[i],
				ColLabel: labels[j],
				Distance: d,
				Label:    fmt.Sprintf("%.2f", d),
			})
			lo = math.Min(lo, d)
			hi = math.Max(hi, d)
		}
	}

	return Heatmap{
		Labels:      append([]string(nil), labels...),
		Cells:       cells,
		ColorDomain: [2]float64{lo, 1.5 * hi},
	}, nil
}
