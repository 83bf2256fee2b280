package analysis

import "math"

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"` // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// pairAcc accumulates centered co-moments (Welford) so large offsets with a
// small spread do not cancel.
type pairAcc struct {
	n     float64
	meanX float64
	meanY float64
	m2X   float64
	m2Y   float64
	cXY   float64
}

func (pa *pairAcc) add(x, y float64) {
	pa.n++
	dx := x - pa.meanX
	dy := y - pa.meanY
	pa.meanX += dx / pa.n
	pa.meanY += dy / pa.n
	pa.m2X += dx * (x - pa.meanX)
	pa.m2Y += dy * (y - pa.meanY)
	pa.cXY += dx * (y - pa.meanY)
}

// r returns the clamped Pearson coefficient; undefined correlations are 0.
func (pa *pairAcc) r() float64 {
	if pa.n < 2 || pa.m2X <= 0 || pa.m2Y <= 0 {
		return 0
	}
	r := pa.cXY / math.Sqrt(pa.m2X*pa.m2Y)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

// Pearson computes the correlation matrix of equally long columns.
func Pearson(names []string, cols [][]float64) *CorrMatrix {
	n := len(cols)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
		mat[i][i] = 1
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			var pa pairAcc
			rows := len(cols[a])
			if len(cols[b]) < rows {
				rows = len(cols[b])
			}
			for i := 0; i < rows; i++ {
				pa.add(cols[a][i], cols[b][i])
			}
			r := pa.r()
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	return &CorrMatrix{Columns: append([]string(nil), names...), Values: mat}
}

// Pairs lists the upper-triangle pairs.
func (m *CorrMatrix) Pairs() []PairCorr {
	var out []PairCorr
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			out = append(out, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	return out
}
