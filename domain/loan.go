package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/text/currency"
)

// Currency describes how money is displayed for a configuration.
type Currency struct {
	Symbol string `json:"symbol"`
	Code   string `json:"code"`
	Locale string `json:"locale"`
}

// Bounds describes the slider range of a configurable input.
type Bounds struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

// Clamp limits v to [Min, Max] and snaps it to the nearest step.
func (b Bounds) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return b.Default
	}
	if b.Step > 0 {
		v = b.Min + math.Round((v-b.Min)/b.Step)*b.Step
	}
	return math.Max(b.Min, math.Min(b.Max, v))
}

func (b Bounds) validate(name string) error {
	if b.Min > b.Max {
		return fmt.Errorf("%s: min %v exceeds max %v", name, b.Min, b.Max)
	}
	if b.Step <= 0 {
		return fmt.Errorf("%s: step must be positive", name)
	}
	if b.Default < b.Min || b.Default > b.Max {
		return fmt.Errorf("%s: default %v outside [%v, %v]", name, b.Default, b.Min, b.Max)
	}
	return nil
}

// RateBracket maps an inclusive amount range to an annual rate in percent.
type RateBracket struct {
	MinAmount float64 `json:"minAmount"`
	MaxAmount float64 `json:"maxAmount"`
	Rate      float64 `json:"rate"`
}

// LoanConfig is loaded once per session and never mutated afterwards.
// LoanTerm bounds are expressed in years.
type LoanConfig struct {
	Currency      Currency      `json:"currency"`
	LoanAmount    Bounds        `json:"loanAmount"`
	LoanTerm      Bounds        `json:"loanTerm"`
	InterestRates []RateBracket `json:"interestRates"`
	ResetOnQuote  bool          `json:"resetOnQuote"`
}

// Validate reports the first structural problem in the configuration.
func (c LoanConfig) Validate() error {
	if len(c.InterestRates) == 0 {
		return errors.New("interest rates: at least one bracket is required")
	}
	for i, b := range c.InterestRates {
		if b.MinAmount > b.MaxAmount {
			return fmt.Errorf("interest rates[%d]: minAmount %v exceeds maxAmount %v", i, b.MinAmount, b.MaxAmount)
		}
		if b.Rate <= 0 {
			return fmt.Errorf("interest rates[%d]: rate must be positive", i)
		}
	}
	if err := c.LoanAmount.validate("loan amount"); err != nil {
		return err
	}
	if err := c.LoanTerm.validate("loan term"); err != nil {
		return err
	}
	if _, err := currency.ParseISO(c.Currency.Code); err != nil {
		return fmt.Errorf("currency code %q: %w", c.Currency.Code, err)
	}
	return nil
}

// LoanQuoteRequest is created fresh for every submission attempt.
// LoanTerm is expressed in months.
type LoanQuoteRequest struct {
	LoanAmount float64 `json:"loanAmount"`
	LoanTerm   float64 `json:"loanTerm"`
	HasQuoted  bool    `json:"hasQuoted"`
}

// QuoteResult is the outcome of an accepted quote submission.
type QuoteResult struct {
	Success                   bool   `json:"success"`
	QuoteID                   string `json:"quoteId,omitempty"`
	Message                   string `json:"message"`
	EstimatedProcessingTimeMs int64  `json:"estimatedProcessingTime,omitempty"`
}

// QuoteRecord is an accepted quote as stored by a QuoteRepository.
type QuoteRecord struct {
	QuoteID    string    `json:"quoteId"`
	LoanAmount float64   `json:"loanAmount"`
	LoanTerm   float64   `json:"loanTerm"`
	ClientKey  string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LoanSummary holds the derived figures for one amount/term pair.
type LoanSummary struct {
	LoanAmount     float64 `json:"loanAmount"`
	TermYears      float64 `json:"termYears"`
	InterestRate   float64 `json:"interestRate"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPayment   float64 `json:"totalPayment"`
	TotalInterest  float64 `json:"totalInterest"`

	FormattedAmount  string `json:"formattedAmount"`
	FormattedPayment string `json:"formattedPayment"`
	FormattedTerm    string `json:"formattedTerm"`
}

// LoanInput is a request to derive the figures for an amount and a term in
// years.
type LoanInput struct {
	Amount    float64 `json:"loanAmount"`
	TermYears float64 `json:"loanTerm"`
}
