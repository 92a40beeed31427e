package http

import (
	"net/http"

	"loan-quote/repository"
	"loan-quote/service"
)

// RouterDeps are the services behind the API routes.
type RouterDeps struct {
	Policy  *service.QuotePolicy
	Loans   *service.LoanService
	Quotes  repository.QuoteRepository
	Limiter service.Limiter
}

// NewRouter wires every API route. Quote and config requests are limited by
// the policy itself; calculate requests go through the middleware.
func NewRouter(deps RouterDeps) http.Handler {
	quoteHandler := NewQuoteHandler(deps.Policy, deps.Quotes)
	configHandler := NewConfigHandler(deps.Policy)
	calculateHandler := NewCalculateHandler(deps.Loans)

	var calculate http.Handler = http.HandlerFunc(calculateHandler.CalculateLoan)
	if deps.Limiter != nil {
		calculate = RateLimitMiddleware(deps.Limiter, calculate)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/loan/config", configHandler.GetConfig)
	mux.HandleFunc("/loan/quote", quoteHandler.SubmitQuote)
	mux.HandleFunc("/loan/quotes", quoteHandler.RecentQuotes)
	mux.Handle("/loan/calculate", calculate)
	mux.HandleFunc("/health", Health)
	return mux
}
