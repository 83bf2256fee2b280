package analysis

import (
	"math"
	"sort"
)

// Quantile interpolates linearly between the closest ranks of sorted.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := sortedCopy(vals)
	median = Quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = Quantile(dev, 0.5)
	return
}

func sortedCopy(vals []float64) []float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return cp
}

// meanStd returns the mean and sample standard deviation (Welford).
func meanStd(vals []float64) (mean, std float64) {
	var n int
	var m2 float64
	for _, x := range vals {
		n++
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)
	}
	if n > 1 {
		std = math.Sqrt(m2 / float64(n-1))
	}
	return mean, std
}

// BoxStats summarizes a distribution for a box plot. Whiskers reach the most
// extreme values within 1.5·IQR of the quartiles; anything beyond is an outlier.
type BoxStats struct {
	N           int       `json:"n"`
	Min         float64   `json:"min"`
	Q1          float64   `json:"q1"`
	Median      float64   `json:"median"`
	Q3          float64   `json:"q3"`
	Max         float64   `json:"max"`
	Mean        float64   `json:"mean"`
	WhiskerLow  float64   `json:"whisker_low"`
	WhiskerHigh float64   `json:"whisker_high"`
	Outliers    []float64 `json:"outliers,omitempty"`
}

// IQR is the interquartile range.
func (b BoxStats) IQR() float64 { return b.Q3 - b.Q1 }

// Box computes BoxStats over values. An empty input yields the zero value.
func Box(values []float64) BoxStats {
	if len(values) == 0 {
		return BoxStats{}
	}
	s := sortedCopy(values)
	b := BoxStats{
		N:      len(s),
		Min:    s[0],
		Max:    s[len(s)-1],
		Q1:     Quantile(s, 0.25),
		Median: Quantile(s, 0.5),
		Q3:     Quantile(s, 0.75),
	}
	b.Mean, _ = meanStd(s)
	lowFence := b.Q1 - 1.5*b.IQR()
	highFence := b.Q3 + 1.5*b.IQR()
	b.WhiskerLow, b.WhiskerHigh = b.Max, b.Min
	for _, v := range s {
		if v < lowFence || v > highFence {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		if v < b.WhiskerLow {
			b.WhiskerLow = v
		}
		if v > b.WhiskerHigh {
			b.WhiskerHigh = v
		}
	}
	return b
}

// RollingMean is the trailing mean over window values. The first window-1
// positions have no full window and are NaN.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 0 {
		window = 1
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// Bandwidth is Silverman's rule of thumb for a Gaussian kernel.
func Bandwidth(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	s := sortedCopy(values)
	_, std := meanStd(s)
	iqr := Quantile(s, 0.75) - Quantile(s, 0.25)
	spread := std
	if iqr > 0 && iqr/1.349 < spread {
		spread = iqr / 1.349
	}
	return 1.059 * spread * math.Pow(float64(len(s)), -0.2)
}

// KDE evaluates a Gaussian kernel density estimate of values at points evenly
// spaced over [min-3h, max+3h]. Degenerate inputs (fewer than two values or no
// spread) return nil.
func KDE(values []float64, points int) (xs, ys []float64) {
	h := Bandwidth(values)
	if h <= 0 || points < 2 {
		return nil, nil
	}
	s := sortedCopy(values)
	lo, hi := s[0]-3*h, s[len(s)-1]+3*h
	step := (hi - lo) / float64(points-1)
	norm := 1 / (float64(len(s)) * h * math.Sqrt(2*math.Pi))
	xs = make([]float64, points)
	ys = make([]float64, points)
	for i := range xs {
		x := lo + float64(i)*step
		var sum float64
		for _, v := range s {
			u := (x - v) / h
			sum += math.Exp(-0.5 * u * u)
		}
		xs[i] = x
		ys[i] = sum * norm
	}
	return xs, ys
}
