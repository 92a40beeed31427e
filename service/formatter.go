package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bojanz/currency"
	"golang.org/x/text/language"

	"loan-quote/domain"
)

var spaceNormalizer = strings.NewReplacer("\u00a0", " ", "\u202f", " ")

// FormatCurrency renders value in the configuration's currency following the
// CLDR pattern of its locale. Integral values get no decimals, anything else
// two. A configured symbol replaces the locale's own.
func FormatCurrency(value float64, cfg domain.LoanConfig) string {
	tag, err := language.Parse(cfg.Currency.Locale)
	if err != nil {
		tag = language.English
	}

	f := currency.NewFormatter(currency.NewLocale(tag.String()))
	f.MinDigits, f.MaxDigits = 2, 2
	if value == math.Trunc(value) {
		f.MinDigits, f.MaxDigits = 0, 0
	}
	if cfg.Currency.Symbol != "" {
		f.SymbolMap = map[string]string{cfg.Currency.Code: cfg.Currency.Symbol}
	}

	n := strconv.FormatFloat(value, 'f', -1, 64)
	amount, err := currency.NewAmount(n, cfg.Currency.Code)
	if err != nil {
		return cfg.Currency.Symbol + n
	}
	return spaceNormalizer.Replace(f.Format(amount))
}

// TermUnit says how a term value is expressed.
type TermUnit int

const (
	TermYears TermUnit = iota
	TermMonths
)

// FormatYears renders a duration as years. Values above 5 are taken to be
// months; use FormatTerm when the unit is known.
func FormatYears(value float64) string {
	if value > 5 {
		return FormatTerm(value, TermMonths)
	}
	return FormatTerm(value, TermYears)
}

// FormatTerm renders a duration as whole years plus a quarter-year fraction,
// e.g. "1 year", "2½ years".
func FormatTerm(value float64, unit TermUnit) string {
	years := value
	if unit == TermMonths {
		years = value / MonthsPerYear
	}

	whole := math.Floor(years)
	remainder := math.Round((years-whole)*4) / 4
	n := strconv.FormatFloat(whole, 'f', 0, 64)

	switch remainder {
	case 0:
		if whole == 1 {
			return n + " year"
		}
		return n + " years"
	case 0.25:
		return n + "¼ years"
	case 0.5:
		return n + "½ years"
	case 0.75:
		return n + "¾ years"
	default:
		return fmt.Sprintf("%s years", strconv.FormatFloat(years, 'f', -1, 64))
	}
}
