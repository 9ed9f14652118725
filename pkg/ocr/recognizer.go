// Package ocr is the boundary to the external text-recognition service.
// Recognition is best effort: callers fall back to manually supplied text
// whenever it fails.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseBytes = 1 << 20

// Recognizer extracts text from an image
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// RecognizerFunc adapts a function to Recognizer
type RecognizerFunc func(ctx context.Context, image []byte) (string, error)

func (f RecognizerFunc) Recognize(ctx context.Context, image []byte) (string, error) {
	return f(ctx, image)
}

// HTTPRecognizer posts raw image bytes to an OCR sidecar and expects
// {"text": "..."} back.
type HTTPRecognizer struct {
	endpoint string
	language string
	client   *http.Client
}

// NewHTTPRecognizer creates a recognizer for endpoint. language is passed as
// the lang query parameter ("eng" when empty).
func NewHTTPRecognizer(endpoint, language string, timeout time.Duration) *HTTPRecognizer {
	if language == "" {
		language = "eng"
	}
	return &HTTPRecognizer{
		endpoint: endpoint,
		language: language,
		client:   &http.Client{Timeout: timeout},
	}
}

type recognizeResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

func (r *HTTPRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("%w: empty image", ErrRecognitionFailed)
	}

	u, err := url.Parse(r.endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: bad endpoint: %v", ErrRecognitionFailed, err)
	}
	q := u.Query()
	q.Set("lang", r.language)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(image))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrRecognitionFailed, err)
	}
	req.Header.Set("Content-Type", http.DetectContentType(image))
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRecognitionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrRecognitionFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrRecognitionFailed, resp.StatusCode, summarize(body))
	}

	var out recognizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrRecognitionFailed, err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrRecognitionFailed, out.Error)
	}
	return out.Text, nil
}

// GuardedRecognizer bounds each call with a timeout and skips a backend that
// keeps failing.
type GuardedRecognizer struct {
	next    Recognizer
	breaker *CircuitBreaker
	timeout time.Duration
	logger  *slog.Logger
}

func NewGuardedRecognizer(next Recognizer, breaker *CircuitBreaker, timeout time.Duration, logger *slog.Logger) *GuardedRecognizer {
	if logger == nil {
		logger = slog.Default()
	}
	breaker.SetStateChangeHandler(func(from, to CircuitState) {
		logger.Warn("[ocr] circuit breaker state changed", "from", from.String(), "to", to.String())
	})
	return &GuardedRecognizer{next: next, breaker: breaker, timeout: timeout, logger: logger}
}

func (g *GuardedRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	var text string
	err := g.breaker.Call(func() error {
		callCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		t, err := g.next.Recognize(callCtx, image)
		text = t
		return err
	})
	if errors.Is(err, ErrCircuitOpen) {
		g.logger.Debug("[ocr] skipping recognition, circuit open")
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

// Stats exposes the breaker statistics for status endpoints.
func (g *GuardedRecognizer) Stats() CircuitBreakerStats {
	return g.breaker.GetStats()
}

const maxSummaryRunes = 200

func summarize(body []byte) string {
	r := []rune(strings.TrimSpace(string(body)))
	if len(r) > maxSummaryRunes {
		return string(r[:maxSummaryRunes]) + "..."
	}
	return string(r)
}
