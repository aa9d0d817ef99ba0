package contribution

import "math"

type RiskLevel string

const (
	Conservative RiskLevel = "conservative"
	Moderate     RiskLevel = "moderate"
	Aggressive   RiskLevel = "aggressive"
)

var annualReturns = map[RiskLevel]float64{
	Conservative: 0.06,
	Moderate:     0.10,
	Aggressive:   0.14,
}

func (r RiskLevel) Valid() bool {
	_, ok := annualReturns[r]
	return ok
}

// AnnualRate is the expected nominal yearly return for the risk level.
// Unknown levels yield 0.
func AnnualRate(r RiskLevel) float64 { return annualReturns[r] }

// MonthlyContribution is the whole-unit monthly payment that, together with
// the compounded current amount, reaches target after the given years.
func MonthlyContribution(target, current float64, years int, risk RiskLevel) float64 {
	rate := AnnualRate(risk) / 12
	months := float64(years * 12)
	// no time left: the whole gap is due now
	if months <= 0 {
		return math.Max(0, math.Ceil(target-current))
	}

	growth := math.Pow(1+rate, months)
	needed := target - current*growth
	if needed <= 0 {
		return 0
	}

	var payment float64
	switch {
	case rate == 0:
		payment = needed / months
	default:
		payment = needed * rate / (growth - 1)
	}
	return math.Max(0, math.Ceil(payment))
}
