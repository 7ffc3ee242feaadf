package statistics

import "math"

// z95 is the two sided 95% normal quantile
const z95 = 1.96

// Proportion tracks how often an outcome occurred over a number of trials
type Proportion struct {
	Successes int
	Trials    int
}

// Mean returns the observed frequency
func (p Proportion) Mean() float64 {
	if p.Trials == 0 {
		return 0
	}
	return float64(p.Successes) / float64(p.Trials)
}

// Variance returns the binomial variance of a single trial
func (p Proportion) Variance() float64 {
	m := p.Mean()
	return m * (1 - m)
}

// StdError returns the standard error of the observed frequency
func (p Proportion) StdError() float64 {
	if p.Trials == 0 {
		return 0
	}
	return math.Sqrt(p.Variance() / float64(p.Trials))
}

// ConfidenceInterval95 returns the Wilson score interval for the frequency.
// Unlike the normal approximation it stays inside [0,1] and is usable for
// categories that were never or always observed.
func (p Proportion) ConfidenceInterval95() (float64, float64) {
	if p.Trials == 0 {
		return 0, 1
	}
	n := float64(p.Trials)
	m := p.Mean()
	z2 := z95 * z95

	denom := 1 + z2/n
	centre := (m + z2/(2*n)) / denom
	margin := z95 * math.Sqrt(m*(1-m)/n+z2/(4*n*n)) / denom
	return max(centre-margin, 0), min(centre+margin, 1)
}

// Contains reports whether want lies inside the 95% interval
func (p Proportion) Contains(want float64) bool {
	lo, hi := p.ConfidenceInterval95()
	return want >= lo && want <= hi
}

// ZScore returns how many standard errors the observed frequency sits from
// want, using the standard error implied by want.
func (p Proportion) ZScore(want float64) float64 {
	if p.Trials == 0 || want <= 0 || want >= 1 {
		return 0
	}
	se := math.Sqrt(want * (1 - want) / float64(p.Trials))
	return (p.Mean() - want) / se
}
