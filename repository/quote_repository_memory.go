package repository

import (
	"context"
	"sync"

	"loan-quote/domain"
)

// QuoteRepositoryMemory is an in-memory implementation of QuoteRepository.
type QuoteRepositoryMemory struct {
	mu   sync.Mutex
	data []domain.QuoteRecord
}

// NewQuoteRepositoryMemory creates a new in-memory quote repository.
func NewQuoteRepositoryMemory() *QuoteRepositoryMemory {
	return &QuoteRepositoryMemory{
		data: []domain.QuoteRecord{},
	}
}

// Save stores the quote in memory.
func (r *QuoteRepositoryMemory) Save(_ context.Context, record domain.QuoteRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, record)
	return nil
}

func (r *QuoteRepositoryMemory) Recent(_ context.Context, limit int) ([]domain.QuoteRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.QuoteRecord{}
	for i := len(r.data) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.data[i])
	}
	return out, nil
}
