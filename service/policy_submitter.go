package service

import (
	"context"

	"loan-quote/domain"
)

// PolicySubmitter lets an engine submit straight to an in-process
// QuotePolicy under a fixed client key.
type PolicySubmitter struct {
	Policy    *QuotePolicy
	ClientKey string
}

func (s PolicySubmitter) SubmitQuote(ctx context.Context, req domain.LoanQuoteRequest) (domain.QuoteResult, error) {
	return s.Policy.Submit(ctx, s.ClientKey, req)
}
