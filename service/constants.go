package service

import "time"

const (
	MinQuoteAmount     = 1_000.0
	MaxQuoteAmount     = 25_000.0
	MinQuoteTermMonths = 12.0
	MaxQuoteTermMonths = 60.0

	DefaultMaxRetries  = 3
	DefaultBaseBackoff = 1 * time.Second

	// Snapshots are written after this much quiet time following an update.
	SaveDebounce = 500 * time.Millisecond
	// Bound on a single fire-and-forget snapshot write.
	SaveTimeout = 2 * time.Second

	EstimatedProcessingTime = 24 * time.Hour

	// Used when a rate limit failure carries no hint.
	DefaultRetryAfterSeconds = 60

	MonthsPerYear = 12
)

const QuoteSuccessMessage = "Quote submitted successfully! We'll be in touch within 24 hours."
