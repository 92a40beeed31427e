package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"loan-quote/domain"
	"loan-quote/repository"
	"loan-quote/service"
)

const (
	defaultRecentQuotes = 20
	maxRecentQuotes     = 100
)

type QuoteHandler struct {
	policy *service.QuotePolicy
	quotes repository.QuoteRepository
}

func NewQuoteHandler(policy *service.QuotePolicy, quotes repository.QuoteRepository) *QuoteHandler {
	return &QuoteHandler{policy: policy, quotes: quotes}
}

// SubmitQuote issues a quote. Failures carry their kind in the body so that
// clients can decide whether to retry.
func (h *QuoteHandler) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.LoanQuoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, domain.NewClassifiedError(domain.KindValidation, "VALIDATION_BODY", "invalid request body"))
		return
	}

	result, err := h.policy.Submit(r.Context(), clientIP(r), req)
	if err != nil {
		slog.InfoContext(r.Context(), "quote rejected", "kind", string(domain.KindOf(err)), "error", err)
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// RecentQuotes lists the latest accepted quotes, newest first.
func (h *QuoteHandler) RecentQuotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultRecentQuotes
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxRecentQuotes)
	}

	records, err := h.quotes.Recent(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "listing quotes", "error", err)
		writeError(w, r, domain.WrapClassified(domain.KindServer, "could not list quotes", err))
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"quotes": records})
}
