// Package stats holds the A/B testing math. Two pure functions, no state.
package stats

import "math"

// Confidence runs a pooled two-proportion z-test and returns the two-tailed
// confidence as a percentage in [0,100]. Degenerate inputs (empty arms,
// zero standard error) return 0 instead of NaN.
func Confidence(controlConversions, controlSample, treatmentConversions, treatmentSample int) float64 {
	if controlSample <= 0 || treatmentSample <= 0 {
		return 0
	}

	n1 := float64(controlSample)
	n2 := float64(treatmentSample)
	p1 := float64(controlConversions) / n1
	p2 := float64(treatmentConversions) / n2

	// pooled proportion under the null hypothesis
	pooled := (float64(controlConversions) + float64(treatmentConversions)) / (n1 + n2)

	se := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))
	if se == 0 {
		return 0
	}

	z := math.Abs(p2-p1) / se

	// two-tailed: P(|Z| <= z) = 2*Phi(z) - 1
	confidence := (2*normalCDF(z) - 1) * 100

	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}

// RequiredSampleSize returns the per-arm sample size needed to detect a
// relative lift of mde over the baseline conversion rate.
//
// The z-scores are hardcoded for alpha=0.05 two-tailed (1.96) and power=0.80
// (0.84); the power and alpha arguments are accepted for interface
// compatibility but do not change the constants. Flagged with the product
// owner - kept as-is until they decide the external behavior may change.
func RequiredSampleSize(baseline, mde, power, alpha float64) int {
	if baseline <= 0 || mde <= 0 {
		return 0
	}

	const (
		zAlpha = 1.96 // two-tailed, alpha = 0.05
		zBeta  = 0.84 // power = 0.80
	)

	p1 := baseline
	p2 := baseline * (1 + mde)
	if p2 > 1 {
		p2 = 1
	}

	pBar := (p1 + p2) / 2
	numerator := zAlpha*math.Sqrt(2*pBar*(1-pBar)) + zBeta*math.Sqrt(p1*(1-p1)+p2*(1-p2))
	diff := p2 - p1
	if diff == 0 {
		return 0
	}

	n := (numerator * numerator) / (diff * diff)
	return int(math.Ceil(n))
}

// normalCDF approximates the standard normal CDF with the Abramowitz-Stegun
// rational polynomial (formula 26.2.17, |error| < 7.5e-8).
func normalCDF(z float64) float64 {
	if z < 0 {
		return 1 - normalCDF(-z)
	}

	const (
		b0 = 0.2316419
		b1 = 0.319381530
		b2 = -0.356563782
		b3 = 1.781477937
		b4 = -1.821255978
		b5 = 1.330274429
	)

	t := 1 / (1 + b0*z)
	pdf := math.Exp(-z*z/2) / math.Sqrt(2*math.Pi)
	poly := t * (b1 + t*(b2+t*(b3+t*(b4+t*b5))))
	return 1 - pdf*poly
}
