package service

import (
	"testing"

	"loan-quote/domain"
)

func gbpConfig() domain.LoanConfig {
	return domain.LoanConfig{Currency: domain.Currency{Symbol: "£", Code: "GBP", Locale: "en-GB"}}
}

func eurConfig() domain.LoanConfig {
	return domain.LoanConfig{Currency: domain.Currency{Symbol: "€", Code: "EUR", Locale: "de-DE"}}
}

func dutchConfig() domain.LoanConfig {
	return domain.LoanConfig{Currency: domain.Currency{Symbol: "€", Code: "EUR", Locale: "nl-NL"}}
}

func swissConfig() domain.LoanConfig {
	return domain.LoanConfig{Currency: domain.Currency{Symbol: "CHF", Code: "CHF", Locale: "de-CH"}}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		cfg   domain.LoanConfig
		want  string
	}{
		{"gbp integral", 7500, gbpConfig(), "£7,500"},
		{"gbp small", 217, gbpConfig(), "£217"},
		{"gbp fractional", 1234.56, gbpConfig(), "£1,234.56"},
		{"eur german", 1000, eurConfig(), "1.000 €"},
		{"eur german fractional", 1234.56, eurConfig(), "1.234,56 €"},
		{"negative", -500, gbpConfig(), "-£500"},
		{"eur dutch", 1000, dutchConfig(), "€ 1.000"},
		{"chf swiss german", 1000, swissConfig(), "CHF 1’000"},
		{"chf swiss german fractional", 1234.5, swissConfig(), "CHF 1’234.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCurrency(tt.value, tt.cfg); got != tt.want {
				t.Errorf("FormatCurrency(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormatCurrency_UnknownLocaleFallsBack(t *testing.T) {
	cfg := domain.LoanConfig{Currency: domain.Currency{Symbol: "$", Code: "USD", Locale: "not a locale!"}}
	if got := FormatCurrency(2500, cfg); got != "$2,500" {
		t.Errorf("got %q", got)
	}
}

func TestFormatCurrency_LocaleSymbolWithoutOverride(t *testing.T) {
	cfg := domain.LoanConfig{Currency: domain.Currency{Code: "GBP", Locale: "en-GB"}}
	if got := FormatCurrency(2500, cfg); got != "£2,500" {
		t.Errorf("got %q", got)
	}
}

func TestFormatYears(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{12, "1 year"},
		{18, "1½ years"},
		{30, "2½ years"},
		{24, "2 years"},
		{15, "1¼ years"},
		{21, "1¾ years"},
		{60, "5 years"},
		{1, "1 year"},
		{2.5, "2½ years"},
		{5, "5 years"},
		{0, "0 years"},
	}

	for _, tt := range tests {
		if got := FormatYears(tt.value); got != tt.want {
			t.Errorf("FormatYears(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatYears_RemainderRoundsUpToWholeYear(t *testing.T) {
	// 1.95 years rounds to a remainder of 1, which has no glyph.
	if got := FormatYears(1.95); got != "1.95 years" {
		t.Errorf("got %q", got)
	}
}

func TestFormatTerm_ExplicitUnit(t *testing.T) {
	if got := FormatTerm(6, TermYears); got != "6 years" {
		t.Errorf("6 years: got %q", got)
	}
	if got := FormatTerm(6, TermMonths); got != "0½ years" {
		t.Errorf("6 months: got %q", got)
	}
	if got := FormatYears(6); got != "0½ years" {
		t.Errorf("FormatYears keeps the month heuristic: got %q", got)
	}
}
