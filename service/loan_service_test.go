package service

import (
	"errors"
	"math"
	"testing"

	"loan-quote/domain"
)

func TestCalculateLoan_WithInterest(t *testing.T) {
	service, err := NewLoanService(testLoanConfig(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := service.CalculateLoan(domain.LoanInput{Amount: 7500, TermYears: 2.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.InterestRate != 8.5 {
		t.Errorf("expected rate 8.5, got %v", result.InterestRate)
	}
	if result.MonthlyPayment != 278 {
		t.Errorf("expected 278, got %.2f", result.MonthlyPayment)
	}
	if result.TotalPayment != 8340 {
		t.Errorf("expected 8340, got %.2f", result.TotalPayment)
	}
	if result.TotalInterest != 840 {
		t.Errorf("expected 840, got %.2f", result.TotalInterest)
	}
	if result.FormattedAmount != "£7,500" || result.FormattedPayment != "£278" || result.FormattedTerm != "2½ years" {
		t.Errorf("unexpected formatting %q %q %q", result.FormattedAmount, result.FormattedPayment, result.FormattedTerm)
	}
}

func TestCalculateLoan_LowestBracket(t *testing.T) {
	service, _ := NewLoanService(testLoanConfig(true))

	result, err := service.CalculateLoan(domain.LoanInput{Amount: 2500, TermYears: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.InterestRate != 7.8 || result.MonthlyPayment != 217 {
		t.Errorf("expected 7.8%% / 217, got %v%% / %.2f", result.InterestRate, result.MonthlyPayment)
	}
	if math.Abs(result.TotalInterest-104) > 1e-9 {
		t.Errorf("expected 104 interest, got %.2f", result.TotalInterest)
	}
}

func TestCalculateLoan_InvalidAmount(t *testing.T) {
	service, _ := NewLoanService(testLoanConfig(true))

	_, err := service.CalculateLoan(domain.LoanInput{Amount: 0, TermYears: 2})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var ce *domain.ClassifiedError
	errors.As(err, &ce)
	if ce.Message != "Loan amount must be between £1,000 and £20,000" {
		t.Errorf("unexpected message %q", ce.Message)
	}
}

func TestCalculateLoan_InvalidTerm(t *testing.T) {
	service, _ := NewLoanService(testLoanConfig(true))

	_, err := service.CalculateLoan(domain.LoanInput{Amount: 5000, TermYears: 6})

	var ce *domain.ClassifiedError
	if !errors.As(err, &ce) || ce.Code != "VALIDATION_TERM" {
		t.Fatalf("expected term validation error, got %v", err)
	}
	if ce.Message != "Loan term must be between 1 year and 5 years" {
		t.Errorf("unexpected message %q", ce.Message)
	}
}

func TestNewLoanService_RequiresBrackets(t *testing.T) {
	cfg := testLoanConfig(true)
	cfg.InterestRates = nil

	if _, err := NewLoanService(cfg); !errors.Is(err, ErrNoRateBrackets) {
		t.Fatalf("expected ErrNoRateBrackets, got %v", err)
	}
}
