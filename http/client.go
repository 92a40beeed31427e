package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"loan-quote/domain"
)

const maxErrorBody = 64 << 10

// QuoteClient talks to the quote API. Every failure it returns is a
// *domain.ClassifiedError.
type QuoteClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewQuoteClient(baseURL string, timeout time.Duration) *QuoteClient {
	return &QuoteClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetConfig fetches the loan configuration served by the API.
func (c *QuoteClient) GetConfig(ctx context.Context) (domain.LoanConfig, error) {
	var cfg domain.LoanConfig
	if err := c.do(ctx, http.MethodGet, "/loan/config", nil, &cfg); err != nil {
		return domain.LoanConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return domain.LoanConfig{}, domain.WrapClassified(domain.KindServer, "server sent an invalid loan config", err)
	}
	return cfg, nil
}

// SubmitQuote submits req to the API.
func (c *QuoteClient) SubmitQuote(ctx context.Context, req domain.LoanQuoteRequest) (domain.QuoteResult, error) {
	var result domain.QuoteResult
	if err := c.do(ctx, http.MethodPost, "/loan/quote", req, &result); err != nil {
		return domain.QuoteResult{}, err
	}
	return result, nil
}

func (c *QuoteClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return domain.WrapClassified(domain.KindUnknown, "could not encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return domain.WrapClassified(domain.KindUnknown, "could not build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.WrapClassified(domain.KindServer, "unreadable response from server", err)
	}
	return nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return domain.WrapClassified(domain.KindTimeout, "Request timed out. Please try again.", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.WrapClassified(domain.KindTimeout, "Request timed out. Please try again.", err)
	}
	return domain.WrapClassified(domain.KindNetwork, "Network connection failed. Please check your internet connection.", err)
}

func classifyResponse(resp *http.Response) error {
	var body errorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(raw, &body)

	kind := kindForStatus(resp.StatusCode)
	if body.Type != "" {
		kind = domain.ParseErrorKind(body.Type)
	}

	message := body.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	ce := &domain.ClassifiedError{
		Kind:    kind,
		Message: message,
		Code:    body.Code,
		Cause:   fmt.Errorf("status %d", resp.StatusCode),
	}
	if kind == domain.KindRateLimit {
		ce.RetryAfterSeconds = body.RetryAfter
		if ce.RetryAfterSeconds == 0 {
			ce.RetryAfterSeconds, _ = strconv.Atoi(resp.Header.Get("Retry-After"))
		}
	}
	return ce
}

func kindForStatus(status int) domain.ErrorKind {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return domain.KindValidation
	case status == http.StatusTooManyRequests:
		return domain.KindRateLimit
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return domain.KindTimeout
	case status >= 500:
		return domain.KindServer
	default:
		return domain.KindUnknown
	}
}
