package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

var errFlaky = errors.New("upstream timeout")

func flakyClassifier(err error) ErrorClassification {
	return ErrorClassification{
		Retryable:     errors.Is(err, errFlaky),
		RecordFailure: true,
	}
}

func retryOnlyExecutor(maxAttempts int) *Executor {
	return NewExecutor(Config{
		RetryMaxAttempts:    maxAttempts,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	})
}

func TestExecuteRetriesUntilProviderRecovers(t *testing.T) {
	exec := retryOnlyExecutor(3)

	attempts := 0
	err := exec.Execute(context.Background(), "speed_analysis", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errFlaky
		}
		return nil
	}, flakyClassifier)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecuteReturnsLastErrorAtCeiling(t *testing.T) {
	exec := retryOnlyExecutor(2)

	attempts := 0
	err := exec.Execute(context.Background(), "search_metrics", func(context.Context) error {
		attempts++
		return errFlaky
	}, flakyClassifier)
	if !errors.Is(err, errFlaky) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestExecuteDoesNotRetryPermanentFailure(t *testing.T) {
	exec := retryOnlyExecutor(3)

	attempts := 0
	errDenied := errors.New("api key rejected")
	err := exec.Execute(context.Background(), "business_listing", func(context.Context) error {
		attempts++
		return errDenied
	}, func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: false}
	})
	if !errors.Is(err, errDenied) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestExecuteStopsWhenContextCancelled(t *testing.T) {
	exec := retryOnlyExecutor(5)

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := exec.Execute(ctx, "website_scan", func(context.Context) error {
		attempts++
		cancel()
		return errFlaky
	}, flakyClassifier)
	if !errors.Is(err, errFlaky) {
		t.Fatalf("expected the provider error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected cancellation to stop retries, got %d attempts", attempts)
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     1 * time.Millisecond,
		RetryMaxBackoff:         1 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	})

	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "speed_analysis", func(context.Context) error {
			return errFlaky
		}, flakyClassifier)
		if !errors.Is(err, errFlaky) {
			t.Fatalf("expected upstream error on call %d, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "speed_analysis", func(context.Context) error {
		t.Fatal("open circuit must not call the provider")
		return nil
	}, flakyClassifier)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}
	if !IsCircuitOpen(err) {
		t.Fatal("IsCircuitOpen should report the refusal")
	}
}

func TestBreakersAreScopedPerOperation(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     1 * time.Millisecond,
		RetryMaxBackoff:         1 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	})

	for i := 0; i < 3; i++ {
		_ = exec.Execute(context.Background(), "search_metrics", func(context.Context) error {
			return errFlaky
		}, flakyClassifier)
	}

	err := exec.Execute(context.Background(), "website_scan", func(context.Context) error {
		return nil
	}, flakyClassifier)
	if err != nil {
		t.Fatalf("sibling operation should be unaffected, got %v", err)
	}
}
