package service

import (
	"math/rand/v2"
	"sync"
	"time"

	"loan-quote/domain"
)

// SimulatorConfig tunes the failures and latency injected into the quote
// API. The zero value injects nothing.
type SimulatorConfig struct {
	QuoteFailureRate  float64
	ConfigFailureRate float64
	DelayMin          time.Duration
	DelayMax          time.Duration
}

type weightedFailure struct {
	err    domain.ClassifiedError
	weight float64
}

var simulatedFailures = []weightedFailure{
	{domain.ClassifiedError{Kind: domain.KindNetwork, Message: "Network connection failed. Please check your internet connection."}, 0.30},
	{domain.ClassifiedError{Kind: domain.KindServer, Code: "SERVER_500", Message: "Server is temporarily unavailable. Please try again later."}, 0.25},
	{domain.ClassifiedError{Kind: domain.KindTimeout, Message: "Request timed out. Please try again."}, 0.20},
	{domain.ClassifiedError{Kind: domain.KindValidation, Code: "VALIDATION_400", Message: "Invalid request data. Please refresh the page and try again."}, 0.15},
	{domain.ClassifiedError{Kind: domain.KindRateLimit, Code: "RATE_LIMIT_429", Message: "Too many requests. Please wait before trying again.", RetryAfterSeconds: DefaultRetryAfterSeconds}, 0.10},
}

// FailureSimulator injects random latency and classified failures so clients
// can exercise their retry and error paths against a healthy backend.
type FailureSimulator struct {
	cfg SimulatorConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFailureSimulator creates a simulator. A nil src seeds from the clock.
func NewFailureSimulator(cfg SimulatorConfig, src rand.Source) *FailureSimulator {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>1)
	}
	return &FailureSimulator{cfg: cfg, rng: rand.New(src)}
}

func (s *FailureSimulator) float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Latency returns a delay drawn from [DelayMin, DelayMax).
func (s *FailureSimulator) Latency() time.Duration {
	if s == nil || s.cfg.DelayMax <= 0 {
		return 0
	}
	spread := s.cfg.DelayMax - s.cfg.DelayMin
	if spread <= 0 {
		return s.cfg.DelayMin
	}
	return s.cfg.DelayMin + time.Duration(s.float64()*float64(spread))
}

// QuoteFailure returns an injected failure for a quote submission, or nil.
func (s *FailureSimulator) QuoteFailure() *domain.ClassifiedError {
	if s == nil {
		return nil
	}
	return s.failure(s.cfg.QuoteFailureRate)
}

// ConfigFailure returns an injected failure for a config fetch, or nil.
func (s *FailureSimulator) ConfigFailure() *domain.ClassifiedError {
	if s == nil {
		return nil
	}
	return s.failure(s.cfg.ConfigFailureRate)
}

func (s *FailureSimulator) failure(rate float64) *domain.ClassifiedError {
	if rate <= 0 || s.float64() > rate {
		return nil
	}

	pick := s.float64()
	acc := 0.0
	for _, f := range simulatedFailures {
		acc += f.weight
		if pick <= acc {
			err := f.err
			return &err
		}
	}
	err := simulatedFailures[0].err
	return &err
}
