package testutil

import (
	"context"
	"testing"
	"time"
)

// WaitForCondition polls condition every interval until it returns true
// or timeout elapses, checking once immediately before the first wait.
// Reports whether condition was ever observed true.
func WaitForCondition(t *testing.T, timeout, interval time.Duration, condition func() bool) bool {
	t.Helper()

	if condition() {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if condition() {
				return true
			}
		}
	}
}

// WaitForConditionOrFail is WaitForCondition but fails the test with msg
// on timeout instead of returning false.
func WaitForConditionOrFail(t *testing.T, timeout, interval time.Duration, condition func() bool, msg string) {
	t.Helper()
	if !WaitForCondition(t, timeout, interval, condition) {
		t.Fatalf("timed out waiting: %s", msg)
	}
}
