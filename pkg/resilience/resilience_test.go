package resilience

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

func fastRetryConfig(attempts int) *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	want := errors.New("still down")
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(3), func() error {
		calls++
		return want
	})

	if !errors.Is(err, want) {
		t.Fatalf("Retry() error = %v, want wrapped %v", err, want)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetry_NonRetryableErrorStopsImmediately(t *testing.T) {
	fatal := errors.New("bad config")
	config := fastRetryConfig(5)
	config.RetryableErrors = func(err error) bool { return !errors.Is(err, fatal) }

	calls := 0
	err := Retry(context.Background(), config, func() error {
		calls++
		return fatal
	})

	if !errors.Is(err, fatal) {
		t.Fatalf("Retry() error = %v, want %v", err, fatal)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, fastRetryConfig(3), func() error {
		return errors.New("transient")
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Retry() error = %v, want context.Canceled", err)
	}
}

func TestRetryWithResult_ReturnsValue(t *testing.T) {
	calls := 0
	got, err := RetryWithResult(context.Background(), fastRetryConfig(3), func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("transient")
		}
		return "connected", nil
	})

	if err != nil {
		t.Fatalf("RetryWithResult() error = %v", err)
	}
	if got != "connected" {
		t.Fatalf("result = %q, want %q", got, "connected")
	}
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	config := DefaultCircuitBreakerConfig("test-breaker")
	config.FailureThreshold = 2
	breaker := NewCircuitBreaker(config, slog.Default())

	failing := func() (interface{}, error) { return nil, errors.New("downstream down") }

	for i := 0; i < 2; i++ {
		if _, err := breaker.Execute(context.Background(), failing); err == nil {
			t.Fatalf("Execute() attempt %d: expected error", i)
		}
	}

	_, err := breaker.Execute(context.Background(), func() (interface{}, error) {
		t.Fatal("function called while breaker open")
		return nil, nil
	})
	if err == nil {
		t.Fatal("Execute() expected open-breaker error")
	}
}

func TestCircuitBreaker_PassesThroughResult(t *testing.T) {
	breaker := NewCircuitBreaker(DefaultCircuitBreakerConfig("test-breaker"), slog.Default())

	result, err := breaker.Execute(context.Background(), func() (interface{}, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result != 42 {
		t.Fatalf("result = %v, want 42", result)
	}
}
