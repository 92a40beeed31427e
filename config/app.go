// Package config loads process settings from the environment and the loan
// configuration from HCL files.
package config

import (
	"fmt"
	"time"
)

// AppConfig holds the process settings shared by the API server and the CLI.
type AppConfig struct {
	HTTPAddr       string `env:"LOAN_HTTP_ADDR" envDefault:":8080"`
	APIURL         string `env:"LOAN_API_URL" envDefault:"http://localhost:8080"`
	LoanConfigPath string `env:"LOAN_CONFIG_PATH"`
	RedisAddr      string `env:"LOAN_REDIS_ADDR"`
	SQLitePath     string `env:"LOAN_SQLITE_PATH"`

	LogLevel  string `env:"LOAN_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOAN_LOG_FORMAT" envDefault:"text"`

	RateLimitPerMinute int           `env:"LOAN_RATE_LIMIT_PER_MINUTE" envDefault:"10"`
	RequestTimeout     time.Duration `env:"LOAN_REQUEST_TIMEOUT" envDefault:"10s"`

	QuoteFailureRate  float64       `env:"LOAN_SIM_QUOTE_FAILURE_RATE" envDefault:"0"`
	ConfigFailureRate float64       `env:"LOAN_SIM_CONFIG_FAILURE_RATE" envDefault:"0"`
	SimDelayMin       time.Duration `env:"LOAN_SIM_DELAY_MIN" envDefault:"0s"`
	SimDelayMax       time.Duration `env:"LOAN_SIM_DELAY_MAX" envDefault:"0s"`
}

// LoadAppConfig reads AppConfig from the environment and validates it.
func LoadAppConfig() (*AppConfig, error) {
	var cfg AppConfig
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c AppConfig) Validate() error {
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("LOAN_RATE_LIMIT_PER_MINUTE must not be negative")
	}
	for name, rate := range map[string]float64{
		"LOAN_SIM_QUOTE_FAILURE_RATE":  c.QuoteFailureRate,
		"LOAN_SIM_CONFIG_FAILURE_RATE": c.ConfigFailureRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, rate)
		}
	}
	if c.SimDelayMax < c.SimDelayMin {
		return fmt.Errorf("LOAN_SIM_DELAY_MAX must not be below LOAN_SIM_DELAY_MIN")
	}
	return nil
}
