package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"loan-quote/domain"
	"loan-quote/repository"
)

// Limiter decides whether a client may make another request. When it may
// not, retryAfter says how long until it may.
type Limiter interface {
	Allow(key string) (allowed bool, retryAfter time.Duration)
}

// QuotePolicyDeps are the collaborators of a QuotePolicy. Every field is
// optional except Config.
type QuotePolicyDeps struct {
	Config    domain.LoanConfig
	Limiter   Limiter
	Simulator *FailureSimulator
	Quotes    repository.QuoteRepository
	Logger    *slog.Logger
	Now       func() time.Time
}

// QuotePolicy is the quote submission boundary: it validates requests,
// enforces the caller's request quota and issues quotes.
type QuotePolicy struct {
	config    domain.LoanConfig
	limiter   Limiter
	simulator *FailureSimulator
	quotes    repository.QuoteRepository
	logger    *slog.Logger
	now       func() time.Time
}

func NewQuotePolicy(deps QuotePolicyDeps) *QuotePolicy {
	p := &QuotePolicy{
		config:    deps.Config,
		limiter:   deps.Limiter,
		simulator: deps.Simulator,
		quotes:    deps.Quotes,
		logger:    deps.Logger,
		now:       deps.Now,
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// ValidateQuoteRequest checks the amount and term (months) ranges.
func (p *QuotePolicy) ValidateQuoteRequest(req domain.LoanQuoteRequest) error {
	if !(req.LoanAmount >= MinQuoteAmount && req.LoanAmount <= MaxQuoteAmount) {
		return domain.NewClassifiedError(domain.KindValidation, "VALIDATION_AMOUNT",
			fmt.Sprintf("Loan amount must be between %s and %s",
				FormatCurrency(MinQuoteAmount, p.config), FormatCurrency(MaxQuoteAmount, p.config)))
	}
	if !(req.LoanTerm >= MinQuoteTermMonths && req.LoanTerm <= MaxQuoteTermMonths) {
		return domain.NewClassifiedError(domain.KindValidation, "VALIDATION_TERM",
			fmt.Sprintf("Loan term must be between %d and %d months",
				int(MinQuoteTermMonths), int(MaxQuoteTermMonths)))
	}
	return nil
}

// Submit validates req and issues a quote for clientKey.
func (p *QuotePolicy) Submit(ctx context.Context, clientKey string, req domain.LoanQuoteRequest) (domain.QuoteResult, error) {
	if err := p.ValidateQuoteRequest(req); err != nil {
		return domain.QuoteResult{}, err
	}
	if err := p.admit(ctx, clientKey); err != nil {
		return domain.QuoteResult{}, err
	}
	if ce := p.simulator.QuoteFailure(); ce != nil {
		return domain.QuoteResult{}, ce
	}

	now := p.now()
	result := domain.QuoteResult{
		Success:                   true,
		QuoteID:                   newQuoteID(now),
		Message:                   QuoteSuccessMessage,
		EstimatedProcessingTimeMs: EstimatedProcessingTime.Milliseconds(),
	}

	if p.quotes != nil {
		record := domain.QuoteRecord{
			QuoteID:    result.QuoteID,
			LoanAmount: req.LoanAmount,
			LoanTerm:   req.LoanTerm,
			ClientKey:  clientKey,
			CreatedAt:  now,
		}
		// Recording is not critical to the caller.
		if err := p.quotes.Save(ctx, record); err != nil {
			p.logger.Warn("failed to record quote", "quote_id", result.QuoteID, "error", err)
		}
	}

	p.logger.Info("quote issued",
		"quote_id", result.QuoteID,
		"loan_amount", req.LoanAmount,
		"loan_term_months", req.LoanTerm)
	return result, nil
}

// Config returns the served loan configuration.
func (p *QuotePolicy) Config(ctx context.Context, clientKey string) (domain.LoanConfig, error) {
	if err := p.admit(ctx, clientKey); err != nil {
		return domain.LoanConfig{}, err
	}
	if ce := p.simulator.ConfigFailure(); ce != nil {
		return domain.LoanConfig{}, ce
	}
	return p.config, nil
}

// admit applies simulated latency and the rate limit.
func (p *QuotePolicy) admit(ctx context.Context, clientKey string) error {
	if d := p.simulator.Latency(); d > 0 {
		if err := sleepContext(ctx, d); err != nil {
			return domain.WrapClassified(domain.KindTimeout, "Request timed out. Please try again.", err)
		}
	}

	if p.limiter == nil {
		return nil
	}
	allowed, retryAfter := p.limiter.Allow(clientKey)
	if allowed {
		return nil
	}
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return domain.NewRateLimitError("Rate limit exceeded. Please wait before making more requests.", seconds)
}

func newQuoteID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("QUOTE_%d_%s", now.UnixMilli(), suffix)
}
