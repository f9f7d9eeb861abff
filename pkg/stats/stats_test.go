package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidenceDegenerateInputs(t *testing.T) {
	tests := []struct {
		name           string
		c1, n1, c2, n2 int
	}{
		{"all zero", 0, 0, 0, 0},
		{"empty control", 0, 0, 5, 100},
		{"empty treatment", 5, 100, 0, 0},
		{"zero conversions both arms", 0, 100, 0, 100}, // pooled p = 0, se = 0
		{"full conversions both arms", 100, 100, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0.0, Confidence(tt.c1, tt.n1, tt.c2, tt.n2))
		})
	}
}

func TestConfidenceIdenticalProportions(t *testing.T) {
	// same conversion rate on both arms means z = 0, confidence ~ 0
	got := Confidence(10, 100, 10, 100)
	assert.InDelta(t, 0, got, 1e-4)
}

func TestConfidenceClearDifference(t *testing.T) {
	// 5% vs 15% over 1000 visitors each is overwhelmingly significant
	got := Confidence(50, 1000, 150, 1000)
	assert.Greater(t, got, 99.0)
	assert.LessOrEqual(t, got, 100.0)
}

func TestConfidenceSmallSampleInconclusive(t *testing.T) {
	// tiny samples shouldn't reach significance
	got := Confidence(1, 10, 2, 10)
	assert.Less(t, got, 95.0)
}

func TestConfidenceAlwaysInRange(t *testing.T) {
	cases := []struct{ c1, n1, c2, n2 int }{
		{0, 1, 1, 1},
		{1, 2, 0, 2},
		{500, 1000, 999, 1000},
		{1, 1000000, 2, 1000000},
		{7, 13, 11, 17},
	}
	for _, c := range cases {
		got := Confidence(c.c1, c.n1, c.c2, c.n2)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 100.0)
	}
}

func TestConfidenceSymmetric(t *testing.T) {
	// swapping arms can't change the two-tailed result
	a := Confidence(50, 1000, 80, 1000)
	b := Confidence(80, 1000, 50, 1000)
	assert.InDelta(t, a, b, 1e-9)
}

func TestRequiredSampleSizeBasic(t *testing.T) {
	n := RequiredSampleSize(0.05, 0.20, 0.80, 0.05)
	require.Positive(t, n)
	// standard calculators put 5% baseline with 20% relative MDE in the
	// low tens of thousands per arm
	assert.Greater(t, n, 1000)
	assert.Less(t, n, 100000)
}

func TestRequiredSampleSizeMonotonicInMDE(t *testing.T) {
	// a bigger effect is easier to detect, so required n must not grow
	prev := RequiredSampleSize(0.05, 0.05, 0.80, 0.05)
	for _, mde := range []float64{0.10, 0.20, 0.40, 0.80} {
		n := RequiredSampleSize(0.05, mde, 0.80, 0.05)
		assert.LessOrEqual(t, n, prev, "mde %v", mde)
		prev = n
	}
}

func TestRequiredSampleSizeIgnoresPowerAndAlpha(t *testing.T) {
	// the z-score constants are hardcoded; passing different power/alpha
	// values has no effect on the result
	base := RequiredSampleSize(0.05, 0.20, 0.80, 0.05)
	assert.Equal(t, base, RequiredSampleSize(0.05, 0.20, 0.99, 0.001))
	assert.Equal(t, base, RequiredSampleSize(0.05, 0.20, 0, 0))
}

func TestRequiredSampleSizeDegenerate(t *testing.T) {
	assert.Equal(t, 0, RequiredSampleSize(0, 0.20, 0.80, 0.05))
	assert.Equal(t, 0, RequiredSampleSize(0.05, 0, 0.80, 0.05))
	assert.Equal(t, 0, RequiredSampleSize(-0.1, 0.20, 0.80, 0.05))
}

func TestNormalCDFKnownValues(t *testing.T) {
	// spot checks against table values; approximation error < 7.5e-8
	assert.InDelta(t, 0.5, normalCDF(0), 1e-7)
	assert.InDelta(t, 0.8413, normalCDF(1), 1e-4)
	assert.InDelta(t, 0.9772, normalCDF(2), 1e-4)
	assert.InDelta(t, 0.0228, normalCDF(-2), 1e-4)
	assert.InDelta(t, 0.9750, normalCDF(1.96), 1e-4)
}
