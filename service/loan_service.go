package service

import (
	"fmt"

	"loan-quote/domain"
)

// LoanService derives the displayed figures for an amount and term under one
// configuration.
type LoanService struct {
	config domain.LoanConfig
	rates  RateTable
}

// NewLoanService creates a LoanService for cfg.
func NewLoanService(cfg domain.LoanConfig) (*LoanService, error) {
	rates, err := NewRateTable(cfg.InterestRates)
	if err != nil {
		return nil, fmt.Errorf("loan config: %w", err)
	}
	return &LoanService{config: cfg, rates: rates}, nil
}

// CalculateLoan computes rate, payment and totals for input. Amount and term
// must lie inside the configured bounds.
func (s *LoanService) CalculateLoan(input domain.LoanInput) (domain.LoanSummary, error) {
	amount, term := s.config.LoanAmount, s.config.LoanTerm

	if !(input.Amount >= amount.Min && input.Amount <= amount.Max) {
		return domain.LoanSummary{}, domain.NewClassifiedError(domain.KindValidation, "VALIDATION_AMOUNT",
			fmt.Sprintf("Loan amount must be between %s and %s",
				FormatCurrency(amount.Min, s.config), FormatCurrency(amount.Max, s.config)))
	}
	if !(input.TermYears >= term.Min && input.TermYears <= term.Max) {
		return domain.LoanSummary{}, domain.NewClassifiedError(domain.KindValidation, "VALIDATION_TERM",
			fmt.Sprintf("Loan term must be between %s and %s",
				FormatTerm(term.Min, TermYears), FormatTerm(term.Max, TermYears)))
	}

	rate := s.rates.RateFor(input.Amount)
	payment := MonthlyPayment(input.Amount, rate, input.TermYears)
	total := payment * input.TermYears * MonthsPerYear

	return domain.LoanSummary{
		LoanAmount:       input.Amount,
		TermYears:        input.TermYears,
		InterestRate:     rate,
		MonthlyPayment:   roundTo2Decimals(payment),
		TotalPayment:     roundTo2Decimals(total),
		TotalInterest:    roundTo2Decimals(total - input.Amount),
		FormattedAmount:  FormatCurrency(input.Amount, s.config),
		FormattedPayment: FormatCurrency(roundTo2Decimals(payment), s.config),
		FormattedTerm:    FormatTerm(input.TermYears, TermYears),
	}, nil
}
