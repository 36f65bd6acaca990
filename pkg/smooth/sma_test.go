package smooth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMALinear(t *testing.T) {
	values := []float64{10, 10, 10, 20, 10, 10, 10}
	times := []float64{0, 20, 40, 60, 80, 100, 120}

	got := SMALinear(values, times, 30, 30)

	want := []float64{10, 10.416667, 12.916667, 13.333333, 12.916667, 10.416667, 10}
	assert.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "index %d", i)
	}
}

func TestSMALinearConstant(t *testing.T) {
	values := []float64{42, 42, 42, 42}
	times := []float64{0, 3, 17, 90}
	for i, v := range SMALinear(values, times, 25, 25) {
		assert.InDelta(t, 42, v, 1e-9, "index %d", i)
	}
}

func TestSMALinearZeroWindow(t *testing.T) {
	values := []float64{1, 5, 3}
	got := SMALinear(values, []float64{0, 1, 2}, 0, 0)
	assert.Equal(t, values, got)

	got[0] = 99
	assert.Equal(t, 1.0, values[0], "result must not alias input")
}

func TestSMALinearDegenerateInput(t *testing.T) {
	assert.Empty(t, SMALinear(nil, nil, 30, 30))
	assert.Equal(t, []float64{7}, SMALinear([]float64{7}, []float64{0}, 30, 30))

	// Repeated positions are tolerated.
	got := SMALinear([]float64{10, 20, 20}, []float64{0, 0, 10}, 5, 5)
	assert.Len(t, got, 3)
	for _, v := range got {
		assert.False(t, math.IsNaN(v), "NaN in output")
	}
}

func TestSMALinearAsymmetric(t *testing.T) {
	values := []float64{0, 10}
	times := []float64{0, 10}
	// Window [0, 10] around t=0 covers the whole ramp: mean is 5.
	got := SMALinear(values, times, 0, 10)
	assert.InDelta(t, 5, got[0], 1e-9)
	// Window [10, 20] around t=10 is flat at 10.
	assert.InDelta(t, 10, got[1], 1e-9)
}
