package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-quote/domain"
)

func TestLoadLoanConfig_Default(t *testing.T) {
	cfg, err := LoadLoanConfig(filepath.Join("testdata", "default.hcl"))
	require.NoError(t, err)

	if diff := cmp.Diff(DefaultLoanConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadLoanConfig_ShippedFileMatchesDefault(t *testing.T) {
	cfg, err := LoadLoanConfig(filepath.Join("..", "configs", "loan.hcl"))
	require.NoError(t, err)

	if diff := cmp.Diff(DefaultLoanConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadLoanConfig_EUR(t *testing.T) {
	cfg, err := LoadLoanConfig(filepath.Join("testdata", "eur.hcl"))
	require.NoError(t, err)

	want := domain.LoanConfig{
		Currency:      domain.Currency{Symbol: "€", Code: "EUR", Locale: "de-DE"},
		LoanAmount:    domain.Bounds{Min: 1000, Max: 25000, Step: 500, Default: 5000},
		LoanTerm:      domain.Bounds{Min: 1, Max: 5, Step: 1, Default: 3},
		InterestRates: []domain.RateBracket{{MinAmount: 1000, MaxAmount: 25000, Rate: 6.5}},
		ResetOnQuote:  false,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLoanConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", `currency {`},
		{"missing blocks", `reset_on_quote = true`},
		{"no brackets", `
currency {
  symbol = "£"
  code   = "GBP"
  locale = "en-GB"
}
loan_amount {
  min     = 1000
  max     = 20000
  step    = 100
  default = 7500
}
loan_term {
  min     = 1
  max     = 5
  step    = 0.5
  default = 2.5
}
`},
		{"unknown currency", `
currency {
  symbol = "?"
  code   = "ZZ"
  locale = "en-GB"
}
loan_amount {
  min     = 1000
  max     = 20000
  step    = 100
  default = 7500
}
loan_term {
  min     = 1
  max     = 5
  step    = 0.5
  default = 2.5
}
rate_bracket {
  min_amount = 1000
  max_amount = 20000
  rate       = 7.8
}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLoanConfig([]byte(tt.src), "inline.hcl")
			assert.Error(t, err)
		})
	}
}

func TestLoadLoanConfig_InvalidBracket(t *testing.T) {
	_, err := LoadLoanConfig(filepath.Join("testdata", "inverted_bracket.hcl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maxAmount")
}

func TestLoanConfigOrDefault(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	broken := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(broken, []byte("loan_amount {"), 0o600))

	for _, path := range []string{"", filepath.Join("testdata", "missing.hcl"), broken} {
		cfg := LoanConfigOrDefault(path, logger)
		if diff := cmp.Diff(DefaultLoanConfig(), cfg); diff != "" {
			t.Errorf("%q: expected default config (-want +got):\n%s", path, diff)
		}
	}
	assert.Contains(t, logs.String(), "falling back to built-in loan config")

	cfg := LoanConfigOrDefault(filepath.Join("testdata", "eur.hcl"), logger)
	assert.Equal(t, "EUR", cfg.Currency.Code)
}

func TestDefaultLoanConfig_IsValid(t *testing.T) {
	require.NoError(t, DefaultLoanConfig().Validate())
}
