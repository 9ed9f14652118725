package ocr

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerLifecycle(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, 30*time.Second)
	cb.now = func() time.Time { return now }

	fail := func() error { return ErrRecognitionFailed }
	ok := func() error { return nil }

	if err := cb.Call(fail); !errors.Is(err, ErrRecognitionFailed) {
		t.Fatalf("expected recognition error, got %v", err)
	}
	if cb.GetState() != CircuitClosed {
		t.Fatalf("expected closed after one failure, got %s", cb.GetState())
	}

	_ = cb.Call(fail)
	if cb.GetState() != CircuitOpen {
		t.Fatalf("expected open after two failures, got %s", cb.GetState())
	}

	if err := cb.Call(ok); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}

	now = now.Add(31 * time.Second)
	if err := cb.Call(ok); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	if cb.GetState() != CircuitClosed {
		t.Fatalf("expected closed after successful probe, got %s", cb.GetState())
	}
}

func TestCircuitBreakerFailedProbeReopens(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(1, time.Second)
	cb.now = func() time.Time { return now }

	_ = cb.Call(func() error { return ErrRecognitionFailed })
	now = now.Add(2 * time.Second)

	if !cb.CanAttempt() {
		t.Fatal("expected a half-open probe to be allowed")
	}
	if cb.CanAttempt() {
		t.Fatal("expected only one half-open probe")
	}
	cb.RecordResult(ErrRecognitionFailed)

	if cb.GetState() != CircuitOpen {
		t.Fatalf("expected open after failed probe, got %s", cb.GetState())
	}
}

func TestCircuitStateString(t *testing.T) {
	tests := []struct {
		state    CircuitState
		expected string
	}{
		{CircuitClosed, "closed"},
		{CircuitOpen, "open"},
		{CircuitHalfOpen, "half-open"},
		{CircuitState(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("String() = %q, expected %q", got, tt.expected)
		}
	}
}
