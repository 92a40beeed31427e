package http

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"loan-quote/domain"
)

// errorResponse is the body of every non-2xx API response.
type errorResponse struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindRateLimit:
		return http.StatusTooManyRequests
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	case domain.KindNetwork:
		return http.StatusBadGateway
	case domain.KindServer:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	// Encode into a buffer first so a failure does not leave a half-written
	// 200 behind.
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encoding response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.WarnContext(r.Context(), "writing response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ce *domain.ClassifiedError
	if !errors.As(err, &ce) {
		ce = domain.WrapClassified(domain.KindUnknown, "internal server error", err)
	}
	if ce.Kind == domain.KindRateLimit && ce.RetryAfterSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(ce.RetryAfterSeconds))
	}
	writeJSON(w, r, statusForKind(ce.Kind), errorResponse{
		Type:       string(ce.Kind),
		Message:    ce.Message,
		Code:       ce.Code,
		RetryAfter: ce.RetryAfterSeconds,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(v)
}
