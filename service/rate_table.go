package service

import (
	"errors"

	"loan-quote/domain"
)

// ErrNoRateBrackets is returned when a rate lookup is attempted against an
// empty bracket table. It is a configuration error.
var ErrNoRateBrackets = errors.New("no interest rate brackets configured")

// RateFor returns the rate of the first bracket containing amount. Amounts
// below every bracket get the first rate, amounts above every bracket get the
// last one.
func RateFor(amount float64, brackets []domain.RateBracket) (float64, error) {
	if len(brackets) == 0 {
		return 0, ErrNoRateBrackets
	}
	for _, b := range brackets {
		if amount >= b.MinAmount && amount <= b.MaxAmount {
			return b.Rate, nil
		}
	}
	if amount < brackets[0].MinAmount {
		return brackets[0].Rate, nil
	}
	return brackets[len(brackets)-1].Rate, nil
}

// RateTable is a bracket table known to be non-empty.
type RateTable struct {
	brackets []domain.RateBracket
}

// NewRateTable copies brackets into a table. It fails on an empty table.
func NewRateTable(brackets []domain.RateBracket) (RateTable, error) {
	if len(brackets) == 0 {
		return RateTable{}, ErrNoRateBrackets
	}
	return RateTable{brackets: append([]domain.RateBracket(nil), brackets...)}, nil
}

// RateFor is total over a table built by NewRateTable.
func (t RateTable) RateFor(amount float64) float64 {
	rate, _ := RateFor(amount, t.brackets)
	return rate
}
