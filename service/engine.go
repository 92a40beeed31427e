package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"loan-quote/domain"
)

// QuoteSubmitter is the quote submission boundary seen by the engine.
type QuoteSubmitter interface {
	SubmitQuote(ctx context.Context, req domain.LoanQuoteRequest) (domain.QuoteResult, error)
}

// SnapshotStore persists engine snapshots between sessions.
type SnapshotStore interface {
	Load(ctx context.Context) (domain.Snapshot, bool)
	Save(ctx context.Context, snap domain.Snapshot) error
	Clear(ctx context.Context) error
}

// LoanCalculatorEngine holds the amount and term chosen by the user, derives
// rate and payment from them on every read and drives quote submission.
//
// RequestQuote is guarded so that at most one submission is in flight and
// none happens once a quote was issued. The mutex is never held while the
// submitter or a backoff wait runs.
type LoanCalculatorEngine struct {
	config    domain.LoanConfig
	rates     RateTable
	submitter QuoteSubmitter
	retry     *RetryExecutor
	store     SnapshotStore
	logger    *slog.Logger

	saveDelay time.Duration
	saver     *debouncer

	mu    sync.Mutex
	state domain.EngineState
}

// EngineOption customizes a LoanCalculatorEngine.
type EngineOption func(*LoanCalculatorEngine)

func WithRetryExecutor(r *RetryExecutor) EngineOption {
	return func(e *LoanCalculatorEngine) { e.retry = r }
}

// WithSnapshotStore enables restoring and debounced saving of state.
func WithSnapshotStore(s SnapshotStore) EngineOption {
	return func(e *LoanCalculatorEngine) { e.store = s }
}

func WithEngineLogger(l *slog.Logger) EngineOption {
	return func(e *LoanCalculatorEngine) { e.logger = l }
}

// WithSaveDebounce overrides the quiet period before a snapshot is saved.
func WithSaveDebounce(d time.Duration) EngineOption {
	return func(e *LoanCalculatorEngine) { e.saveDelay = d }
}

// NewLoanCalculatorEngine creates an engine initialized from the config
// defaults.
func NewLoanCalculatorEngine(cfg domain.LoanConfig, submitter QuoteSubmitter, opts ...EngineOption) (*LoanCalculatorEngine, error) {
	rates, err := NewRateTable(cfg.InterestRates)
	if err != nil {
		return nil, fmt.Errorf("loan config: %w", err)
	}
	if submitter == nil {
		return nil, fmt.Errorf("quote submitter is required")
	}

	e := &LoanCalculatorEngine{
		config:    cfg,
		rates:     rates,
		submitter: submitter,
		saveDelay: SaveDebounce,
		state: domain.EngineState{
			LoanAmount: cfg.LoanAmount.Default,
			LoanTerm:   cfg.LoanTerm.Default,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.retry == nil {
		e.retry = NewRetryExecutor(DefaultMaxRetries, DefaultBaseBackoff, WithRetryLogger(e.logger))
	}
	if e.store != nil {
		e.saver = newDebouncer(e.saveDelay, e.persist)
	}
	return e, nil
}

// Config returns the configuration the engine was built with.
func (e *LoanCalculatorEngine) Config() domain.LoanConfig {
	return e.config
}

// Restore replaces the defaults with a persisted snapshot, unless the config
// resets state after quoting. It reports whether a snapshot was applied.
func (e *LoanCalculatorEngine) Restore(ctx context.Context) bool {
	if e.store == nil || e.config.ResetOnQuote {
		return false
	}
	snap, ok := e.store.Load(ctx)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.LoanAmount = e.config.LoanAmount.Clamp(snap.LoanAmount)
	e.state.LoanTerm = e.config.LoanTerm.Clamp(snap.LoanTerm)
	e.state.HasQuoted = snap.HasQuoted
	e.logger.Debug("restored loan snapshot", "saved_at", snap.SavedAt)
	return true
}

// State returns a copy of the current state.
func (e *LoanCalculatorEngine) State() domain.EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	if s.LastResult != nil {
		r := *s.LastResult
		s.LastResult = &r
	}
	return s
}

func (e *LoanCalculatorEngine) Phase() domain.Phase {
	return e.State().Phase()
}

// SetAmount stores a new loan amount and clears any error. Callers clamp the
// value to the configured bounds.
func (e *LoanCalculatorEngine) SetAmount(v float64) {
	e.mu.Lock()
	e.state.LoanAmount = v
	e.clearErrorLocked()
	e.mu.Unlock()
	e.scheduleSave()
}

// SetTerm stores a new loan term in years and clears any error.
func (e *LoanCalculatorEngine) SetTerm(v float64) {
	e.mu.Lock()
	e.state.LoanTerm = v
	e.clearErrorLocked()
	e.mu.Unlock()
	e.scheduleSave()
}

// InterestRate is recomputed from the current amount on every call.
func (e *LoanCalculatorEngine) InterestRate() float64 {
	e.mu.Lock()
	amount := e.state.LoanAmount
	e.mu.Unlock()
	return e.rates.RateFor(amount)
}

// MonthlyPayment is recomputed from the current amount and term on every
// call.
func (e *LoanCalculatorEngine) MonthlyPayment() float64 {
	e.mu.Lock()
	amount, term := e.state.LoanAmount, e.state.LoanTerm
	e.mu.Unlock()
	return MonthlyPayment(amount, e.rates.RateFor(amount), term)
}

// ClearError dismisses the current error.
func (e *LoanCalculatorEngine) ClearError() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearErrorLocked()
}

func (e *LoanCalculatorEngine) clearErrorLocked() {
	e.state.LastError = ""
	e.state.LastErrorKind = ""
}

// RequestQuote submits the current amount and term. It does nothing while a
// submission is in flight or after a quote was issued. Failures are stored
// as LastError; nothing is returned to the caller.
func (e *LoanCalculatorEngine) RequestQuote(ctx context.Context) {
	e.mu.Lock()
	if e.state.HasQuoted || e.state.IsSubmitting {
		e.mu.Unlock()
		return
	}
	e.state.IsSubmitting = true
	e.clearErrorLocked()
	req := domain.LoanQuoteRequest{
		LoanAmount: e.state.LoanAmount,
		LoanTerm:   math.Round(e.state.LoanTerm * MonthsPerYear),
	}
	e.mu.Unlock()

	result, err := Run(ctx, e.retry, func(ctx context.Context) (domain.QuoteResult, error) {
		return e.submitter.SubmitQuote(ctx, req)
	})

	e.mu.Lock()
	e.state.IsSubmitting = false
	if err != nil {
		e.state.LastError = UserMessage(err)
		e.state.LastErrorKind = domain.KindOf(err)
		e.mu.Unlock()
		e.logger.Error("quote submission failed", "kind", string(domain.KindOf(err)), "error", err)
		return
	}
	e.state.HasQuoted = true
	e.state.LastResult = &result
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.logger.Info("quote accepted", "quote_id", result.QuoteID)
	e.afterQuote(ctx, snap)
}

// RetryQuote re-submits after a failure. Without a current error it does
// nothing.
func (e *LoanCalculatorEngine) RetryQuote(ctx context.Context) {
	e.mu.Lock()
	hasError := e.state.LastError != ""
	e.mu.Unlock()
	if !hasError {
		return
	}
	e.RequestQuote(ctx)
}

// Close writes any pending snapshot.
func (e *LoanCalculatorEngine) Close() {
	if e.saver != nil {
		e.saver.Flush()
	}
}

// UserMessage maps a submission failure to the text shown to the user.
func UserMessage(err error) string {
	var ce *domain.ClassifiedError
	if !errors.As(err, &ce) {
		return "An unexpected error occurred. Please try again."
	}
	switch ce.Kind {
	case domain.KindNetwork:
		return "Network error. Please check your connection and try again."
	case domain.KindServer:
		return "Server error. Our team has been notified. Please try again later."
	case domain.KindValidation:
		return ce.Message
	case domain.KindTimeout:
		return "Request timed out. Please try again."
	case domain.KindRateLimit:
		retryAfter := ce.RetryAfterSeconds
		if retryAfter <= 0 {
			retryAfter = DefaultRetryAfterSeconds
		}
		return fmt.Sprintf("Too many requests. Please wait %d seconds before trying again.", retryAfter)
	default:
		return "An unexpected error occurred. Please try again."
	}
}

func (e *LoanCalculatorEngine) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		LoanAmount: e.state.LoanAmount,
		LoanTerm:   e.state.LoanTerm,
		HasQuoted:  e.state.HasQuoted,
	}
}

func (e *LoanCalculatorEngine) scheduleSave() {
	if e.saver != nil {
		e.saver.Trigger()
	}
}

// persist writes the current state. Failures are logged and dropped. Once a
// quote is issued under ResetOnQuote nothing more is written.
func (e *LoanCalculatorEngine) persist() {
	e.mu.Lock()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	if e.config.ResetOnQuote && snap.HasQuoted {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), SaveTimeout)
	defer cancel()
	if err := e.store.Save(ctx, snap); err != nil {
		e.logger.Warn("failed to save loan state", "error", err)
	}
}

// afterQuote keeps the quoted state for the next session, or forgets the
// session entirely when the config resets on quote.
func (e *LoanCalculatorEngine) afterQuote(ctx context.Context, snap domain.Snapshot) {
	if e.store == nil {
		return
	}
	// Waits for a save already in flight so it cannot land after Clear.
	e.saver.Cancel()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SaveTimeout)
	defer cancel()

	if e.config.ResetOnQuote {
		if err := e.store.Clear(ctx); err != nil {
			e.logger.Warn("failed to clear loan state", "error", err)
		}
		return
	}
	if err := e.store.Save(ctx, snap); err != nil {
		e.logger.Warn("failed to save quoted loan state", "error", err)
	}
}
