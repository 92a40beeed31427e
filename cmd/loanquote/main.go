// Command loanquote shows the figures for a loan and optionally requests a
// quote, either from the quote API or from an in-process policy.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"loan-quote/config"
	"loan-quote/domain"
	httpLayer "loan-quote/http"
	"loan-quote/repository"
	"loan-quote/service"
)

// exitError carries a specific exit code.
type exitError struct {
	Code    int
	Message string
}

func (e *exitError) Error() string {
	return e.Message
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	amount   float64
	term     float64
	quote    bool
	retry    bool
	local    bool
	logLevel string
}

func parseFlags(args []string, output io.Writer) (*options, error) {
	flagSet := flag.NewFlagSet("loanquote", flag.ContinueOnError)
	flagSet.SetOutput(output)

	opts := &options{}
	flagSet.Float64Var(&opts.amount, "amount", 0, "Loan amount. 0 keeps the saved or default amount.")
	flagSet.Float64Var(&opts.term, "term", 0, "Loan term in years. 0 keeps the saved or default term.")
	flagSet.BoolVar(&opts.quote, "quote", false, "Request a quote for the chosen amount and term.")
	flagSet.BoolVar(&opts.retry, "retry", false, "Retry once if the quote request fails.")
	flagSet.BoolVar(&opts.local, "local", false, "Quote against an in-process policy instead of the API.")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "Override LOAN_LOG_LEVEL: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil
		}
		return nil, &exitError{Code: 2, Message: err.Error()}
	}
	return opts, nil
}

func run(ctx context.Context, args []string, outW, logW io.Writer) error {
	opts, err := parseFlags(args, outW)
	if err != nil || opts == nil {
		return err
	}

	appConfig, err := config.LoadAppConfig()
	if err != nil {
		return err
	}
	level := appConfig.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := config.NewLogger(level, appConfig.LogFormat, logW)

	loanConfig, submitter := buildSubmitter(ctx, appConfig, opts.local, logger)

	snapshots := repository.NewSnapshotRepository(openCache(ctx, appConfig.RedisAddr, logger), logger)
	engine, err := service.NewLoanCalculatorEngine(loanConfig, submitter,
		service.WithSnapshotStore(snapshots),
		service.WithEngineLogger(logger),
		service.WithRetryExecutor(service.NewRetryExecutor(
			service.DefaultMaxRetries, service.DefaultBaseBackoff,
			service.WithAttemptTimeout(appConfig.RequestTimeout),
			service.WithRetryLogger(logger),
		)),
	)
	if err != nil {
		return err
	}
	defer engine.Close()

	engine.Restore(ctx)
	if opts.amount > 0 {
		engine.SetAmount(loanConfig.LoanAmount.Clamp(opts.amount))
	}
	if opts.term > 0 {
		engine.SetTerm(loanConfig.LoanTerm.Clamp(opts.term))
	}

	printFigures(outW, engine)

	if !opts.quote {
		return nil
	}

	engine.RequestQuote(ctx)
	if opts.retry {
		engine.RetryQuote(ctx)
	}
	return printOutcome(outW, engine.State())
}

// buildSubmitter returns the config to use and where quotes go. A failed
// config fetch falls back to the built-in config.
func buildSubmitter(ctx context.Context, appConfig *config.AppConfig, local bool, logger *slog.Logger) (domain.LoanConfig, service.QuoteSubmitter) {
	if local {
		cfg := config.LoanConfigOrDefault(appConfig.LoanConfigPath, logger)
		policy := service.NewQuotePolicy(service.QuotePolicyDeps{
			Config: cfg,
			Quotes: repository.NewQuoteRepositoryMemory(),
			Logger: logger,
		})
		return cfg, service.PolicySubmitter{Policy: policy, ClientKey: "local"}
	}

	client := httpLayer.NewQuoteClient(appConfig.APIURL, appConfig.RequestTimeout)
	cfg, err := client.GetConfig(ctx)
	if err != nil {
		logger.Warn("could not fetch loan config, using built-in defaults", "error", err)
		cfg = config.DefaultLoanConfig()
	}
	return cfg, client
}

func openCache(ctx context.Context, redisAddr string, logger *slog.Logger) repository.CacheRepository {
	if redisAddr == "" {
		return repository.NewMemoryCache()
	}
	cache := repository.NewRedisCache(redisAddr)
	if err := cache.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, state will not outlive this run", "addr", redisAddr, "error", err)
		_ = cache.Close()
		return repository.NewMemoryCache()
	}
	return cache
}

func printFigures(w io.Writer, engine *service.LoanCalculatorEngine) {
	cfg := engine.Config()
	state := engine.State()
	fmt.Fprintf(w, "Borrowing %s over %s at %v%% interest rate\n",
		service.FormatCurrency(state.LoanAmount, cfg),
		service.FormatTerm(state.LoanTerm, service.TermYears),
		engine.InterestRate())
	fmt.Fprintf(w, "Monthly repayment: %s\n", service.FormatCurrency(engine.MonthlyPayment(), cfg))
}

func printOutcome(w io.Writer, state domain.EngineState) error {
	if state.LastError != "" {
		return &exitError{Code: 1, Message: state.LastError}
	}
	if state.LastResult != nil {
		fmt.Fprintf(w, "%s (quote %s)\n", state.LastResult.Message, state.LastResult.QuoteID)
		return nil
	}
	fmt.Fprintln(w, "A quote has already been requested for this loan.")
	return nil
}
