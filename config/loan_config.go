package config

import (
	"fmt"
	"log/slog"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"loan-quote/domain"
)

// DefaultLoanConfig is served whenever no valid configuration can be loaded.
func DefaultLoanConfig() domain.LoanConfig {
	return domain.LoanConfig{
		Currency: domain.Currency{Symbol: "£", Code: "GBP", Locale: "en-GB"},
		LoanAmount: domain.Bounds{
			Min: 1000, Max: 20000, Step: 100, Default: 7500,
		},
		LoanTerm: domain.Bounds{
			Min: 1, Max: 5, Step: 0.5, Default: 2.5,
		},
		InterestRates: []domain.RateBracket{
			{MinAmount: 1000, MaxAmount: 4999, Rate: 7.8},
			{MinAmount: 5000, MaxAmount: 9999, Rate: 8.5},
			{MinAmount: 10000, MaxAmount: 20000, Rate: 9.7},
		},
		ResetOnQuote: true,
	}
}

type currencyBlock struct {
	Symbol string `hcl:"symbol"`
	Code   string `hcl:"code"`
	Locale string `hcl:"locale"`
}

type boundsBlock struct {
	Min     float64 `hcl:"min"`
	Max     float64 `hcl:"max"`
	Step    float64 `hcl:"step"`
	Default float64 `hcl:"default"`
}

type bracketBlock struct {
	MinAmount float64 `hcl:"min_amount"`
	MaxAmount float64 `hcl:"max_amount"`
	Rate      float64 `hcl:"rate"`
}

type loanConfigFile struct {
	ResetOnQuote *bool          `hcl:"reset_on_quote,optional"`
	Currency     currencyBlock  `hcl:"currency,block"`
	LoanAmount   boundsBlock    `hcl:"loan_amount,block"`
	LoanTerm     boundsBlock    `hcl:"loan_term,block"`
	Brackets     []bracketBlock `hcl:"rate_bracket,block"`
}

// LoadLoanConfig reads and validates an HCL loan configuration file.
func LoadLoanConfig(path string) (domain.LoanConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return domain.LoanConfig{}, fmt.Errorf("parse %s: %w", path, diags)
	}
	return decodeLoanConfig(file, path)
}

// ParseLoanConfig decodes and validates HCL source. filename is used in
// diagnostics only.
func ParseLoanConfig(src []byte, filename string) (domain.LoanConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return domain.LoanConfig{}, fmt.Errorf("parse %s: %w", filename, diags)
	}
	return decodeLoanConfig(file, filename)
}

func decodeLoanConfig(file *hcl.File, filename string) (domain.LoanConfig, error) {
	var raw loanConfigFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return domain.LoanConfig{}, fmt.Errorf("decode %s: %w", filename, diags)
	}

	cfg := domain.LoanConfig{
		Currency:     domain.Currency(raw.Currency),
		LoanAmount:   domain.Bounds(raw.LoanAmount),
		LoanTerm:     domain.Bounds(raw.LoanTerm),
		ResetOnQuote: true,
	}
	if raw.ResetOnQuote != nil {
		cfg.ResetOnQuote = *raw.ResetOnQuote
	}
	for _, b := range raw.Brackets {
		cfg.InterestRates = append(cfg.InterestRates, domain.RateBracket(b))
	}

	if err := cfg.Validate(); err != nil {
		return domain.LoanConfig{}, fmt.Errorf("invalid loan config %s: %w", filename, err)
	}
	return cfg, nil
}

// LoanConfigOrDefault loads path, falling back to DefaultLoanConfig when path
// is empty or the file cannot be used. The fallback is logged.
func LoanConfigOrDefault(path string, logger *slog.Logger) domain.LoanConfig {
	if path == "" {
		logger.Info("no loan config path set, using built-in defaults")
		return DefaultLoanConfig()
	}
	cfg, err := LoadLoanConfig(path)
	if err != nil {
		logger.Warn("falling back to built-in loan config", "path", path, "error", err)
		return DefaultLoanConfig()
	}
	return cfg
}
