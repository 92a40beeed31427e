package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a quote submission failure. The kind decides whether
// the failure is retried and which message the user sees.
type ErrorKind string

const (
	KindUnknown    ErrorKind = "UNKNOWN_ERROR"
	KindNetwork    ErrorKind = "NETWORK_ERROR"
	KindServer     ErrorKind = "SERVER_ERROR"
	KindValidation ErrorKind = "VALIDATION_ERROR"
	KindTimeout    ErrorKind = "TIMEOUT_ERROR"
	KindRateLimit  ErrorKind = "RATE_LIMIT_ERROR"
)

// Retryable reports whether a failure of this kind may succeed on a later
// attempt. Validation and rate limit failures never do.
func (k ErrorKind) Retryable() bool {
	return k != KindValidation && k != KindRateLimit
}

// ParseErrorKind maps a wire value to a kind, defaulting to KindUnknown.
func ParseErrorKind(s string) ErrorKind {
	switch k := ErrorKind(s); k {
	case KindNetwork, KindServer, KindValidation, KindTimeout, KindRateLimit:
		return k
	}
	return KindUnknown
}

// ClassifiedError is an error tagged with the kind that determines its retry
// and display policy.
type ClassifiedError struct {
	Kind              ErrorKind
	Message           string
	Code              string
	RetryAfterSeconds int
	Cause             error
}

func (e *ClassifiedError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// Is matches another ClassifiedError by kind.
func (e *ClassifiedError) Is(target error) bool {
	if t, ok := target.(*ClassifiedError); ok {
		return e.Kind == t.Kind
	}
	return false
}

// NewClassifiedError creates a classified error with a code.
func NewClassifiedError(kind ErrorKind, code, message string) *ClassifiedError {
	return &ClassifiedError{Kind: kind, Code: code, Message: message}
}

// NewRateLimitError creates a RATE_LIMIT_ERROR carrying a retry-after hint.
func NewRateLimitError(message string, retryAfterSeconds int) *ClassifiedError {
	return &ClassifiedError{
		Kind:              KindRateLimit,
		Code:              "RATE_LIMIT_429",
		Message:           message,
		RetryAfterSeconds: retryAfterSeconds,
	}
}

// WrapClassified tags an underlying error with a kind.
func WrapClassified(kind ErrorKind, message string, cause error) *ClassifiedError {
	return &ClassifiedError{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of the first ClassifiedError in err's chain, or
// KindUnknown.
func KindOf(err error) ErrorKind {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// Sentinels for errors.Is checks against a kind.
var (
	ErrValidation = &ClassifiedError{Kind: KindValidation}
	ErrRateLimit  = &ClassifiedError{Kind: KindRateLimit}
	ErrTimeout    = &ClassifiedError{Kind: KindTimeout}
	ErrNetwork    = &ClassifiedError{Kind: KindNetwork}
	ErrServer     = &ClassifiedError{Kind: KindServer}
)
