package repository

import (
	"context"

	"loan-quote/domain"
)

// QuoteRepository records accepted quotes.
type QuoteRepository interface {
	Save(ctx context.Context, record domain.QuoteRecord) error
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.QuoteRecord, error)
}
