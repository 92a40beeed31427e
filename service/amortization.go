package service

import "math"

// MonthlyPayment returns the fixed monthly payment that repays principal at
// annualRatePercent over termYears. termYears*12 need not be whole.
//
// A zero rate divides the principal evenly and is not rounded; otherwise the
// annuity payment is rounded to the nearest whole currency unit. Inputs are
// not validated.
func MonthlyPayment(principal, annualRatePercent, termYears float64) float64 {
	r := annualRatePercent / 100 / MonthsPerYear
	n := termYears * MonthsPerYear

	if r == 0 {
		return principal / n
	}

	growth := math.Pow(1+r, n)
	return math.Round(principal * r * growth / (growth - 1))
}

// roundTo2Decimals rounds a float64 to two decimal places.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}
