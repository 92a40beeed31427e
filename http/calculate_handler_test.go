package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"

	"loan-quote/config"
	"loan-quote/domain"
	"loan-quote/service"
)

func newCalculateHandler(t *testing.T) *CalculateHandler {
	t.Helper()
	svc, err := service.NewLoanService(config.DefaultLoanConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewCalculateHandler(svc)
}

func TestCalculateLoanHandler_OK(t *testing.T) {
	handler := newCalculateHandler(t)

	body := []byte(`{"loanAmount": 7500, "loanTerm": 2.5}`)
	req := httptest.NewRequest(http.MethodPost, "/loan/calculate", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	handler.CalculateLoan(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var summary domain.LoanSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if summary.InterestRate != 8.5 || summary.MonthlyPayment != 278 {
		t.Errorf("expected 8.5%% / 278, got %v%% / %v", summary.InterestRate, summary.MonthlyPayment)
	}
	if summary.FormattedPayment != "£278" || summary.FormattedTerm != "2½ years" {
		t.Errorf("unexpected formatting %q %q", summary.FormattedPayment, summary.FormattedTerm)
	}
}

func TestCalculateLoanHandler_MethodNotAllowed(t *testing.T) {
	handler := newCalculateHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/loan/calculate", nil)
	w := httptest.NewRecorder()

	handler.CalculateLoan(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestCalculateLoanHandler_BadRequest(t *testing.T) {
	handler := newCalculateHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/loan/calculate", bytes.NewBuffer([]byte(`{invalid-json}`)))
	w := httptest.NewRecorder()

	handler.CalculateLoan(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCalculateLoanHandler_OutOfRange(t *testing.T) {
	handler := newCalculateHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/loan/calculate", bytes.NewBuffer([]byte(`{"loanAmount": 50000, "loanTerm": 2}`)))
	w := httptest.NewRecorder()

	handler.CalculateLoan(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Type != "VALIDATION_ERROR" || body.Code != "VALIDATION_AMOUNT" {
		t.Errorf("unexpected error body %+v", body)
	}
}
