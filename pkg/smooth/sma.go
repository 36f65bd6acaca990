// Package smooth implements distance-windowed moving averages over
// irregularly spaced samples.
package smooth

import "sort"

// SMALinear returns, for every sample i, the mean of the piecewise linear
// series through (times, values) over [times[i]-halfBefore, times[i]+halfAfter].
// The series is held constant before the first and after the last sample.
// times must be non-decreasing. A zero-width window returns a copy of values.
func SMALinear(values, times []float64, halfBefore, halfAfter float64) []float64 {
	out := make([]float64, len(values))
	width := halfBefore + halfAfter
	if width <= 0 || len(values) < 2 {
		copy(out, values)
		return out
	}

	s := newSeries(values, times)
	for i, t := range times {
		out[i] = (s.integral(t+halfAfter) - s.integral(t-halfBefore)) / width
	}
	return out
}

type series struct {
	t, v   []float64
	prefix []float64 // integral from t[0] to t[i]
}

func newSeries(values, times []float64) series {
	prefix := make([]float64, len(times))
	for i := 1; i < len(times); i++ {
		prefix[i] = prefix[i-1] + (times[i]-times[i-1])*(values[i-1]+values[i])/2
	}
	return series{t: times, v: values, prefix: prefix}
}

// integral returns the integral of the series from t[0] to x.
func (s series) integral(x float64) float64 {
	n := len(s.t)
	if x <= s.t[0] {
		return (x - s.t[0]) * s.v[0]
	}
	if x >= s.t[n-1] {
		return s.prefix[n-1] + (x-s.t[n-1])*s.v[n-1]
	}
	k := sort.Search(n, func(i int) bool { return s.t[i] > x }) - 1
	dx := x - s.t[k]
	vx := s.v[k] + (s.v[k+1]-s.v[k])*dx/(s.t[k+1]-s.t[k])
	return s.prefix[k] + dx*(s.v[k]+vx)/2
}
