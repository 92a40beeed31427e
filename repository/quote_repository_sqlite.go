package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"loan-quote/domain"
	"loan-quote/repository/migrations"
)

// QuoteRepositorySQLite persists accepted quotes in SQLite.
type QuoteRepositorySQLite struct {
	db *sql.DB
}

// OpenQuoteRepositorySQLite opens the database at path and applies the
// embedded migrations.
func OpenQuoteRepositorySQLite(ctx context.Context, path string) (*QuoteRepositorySQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	if path == ":memory:" {
		dsn = path
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &QuoteRepositorySQLite{db: db}, nil
}

func (r *QuoteRepositorySQLite) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *QuoteRepositorySQLite) Save(ctx context.Context, record domain.QuoteRecord) error {
	if strings.TrimSpace(record.QuoteID) == "" {
		return fmt.Errorf("quote id is required")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO quotes (quote_id, loan_amount, loan_term_months, client_key, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		record.QuoteID, record.LoanAmount, record.LoanTerm, record.ClientKey,
		record.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert quote %s: %w", record.QuoteID, err)
	}
	return nil
}

func (r *QuoteRepositorySQLite) Recent(ctx context.Context, limit int) ([]domain.QuoteRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT quote_id, loan_amount, loan_term_months, client_key, created_at
		 FROM quotes ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	out := []domain.QuoteRecord{}
	for rows.Next() {
		var (
			rec       domain.QuoteRecord
			createdAt int64
		)
		if err := rows.Scan(&rec.QuoteID, &rec.LoanAmount, &rec.LoanTerm, &rec.ClientKey, &createdAt); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}
	return out, nil
}
