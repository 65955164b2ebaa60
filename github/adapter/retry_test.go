package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxJitter: time.Millisecond}
}

func TestWithRetry_ExhaustsBudgetOnTransientFailure(t *testing.T) {
	attempts := 0
	_, err := withRetry(context.Background(), fastPolicy(), "op", func() (int, error) {
		attempts++
		return 0, &Error{Kind: KindServerError, Message: "boom", StatusCode: 500}
	})
	require.Error(t, err)
	require.Equal(t, 3, attempts)
	require.Equal(t, KindServerError, ErrorKind(err))
}

func TestWithRetry_SucceedsMidBudget(t *testing.T) {
	attempts := 0
	out, err := withRetry(context.Background(), fastPolicy(), "op", func() (string, error) {
		attempts++
		if attempts < 2 {
			return "", &Error{Kind: KindNetwork, Message: "reset"}
		}
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", out)
	require.Equal(t, 2, attempts)
}

func TestWithRetry_TerminalErrorStopsImmediately(t *testing.T) {
	attempts := 0
	_, err := withRetry(context.Background(), fastPolicy(), "op", func() (int, error) {
		attempts++
		return 0, &Error{Kind: KindNotFound, Message: "missing", StatusCode: 404}
	})
	require.Error(t, err)
	require.Equal(t, 1, attempts)
	require.Equal(t, KindNotFound, ErrorKind(err))
}

func TestWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	policy := RetryPolicy{MaxAttempts: 3, InitialDelay: time.Hour}
	_, err := withRetry(ctx, policy, "op", func() (int, error) {
		attempts++
		cancel()
		return 0, &Error{Kind: KindServerError}
	})
	require.Error(t, err)
	require.Equal(t, 1, attempts)
	require.Equal(t, KindNetwork, ErrorKind(err))
}

func TestBackoff_DoublesPerRetry(t *testing.T) {
	p := RetryPolicy{InitialDelay: 100 * time.Millisecond}
	require.Equal(t, 100*time.Millisecond, p.backoff(0))
	require.Equal(t, 200*time.Millisecond, p.backoff(1))
	require.Equal(t, 400*time.Millisecond, p.backoff(2))
}

func TestBackoff_JitterStaysBounded(t *testing.T) {
	p := RetryPolicy{InitialDelay: 10 * time.Millisecond, MaxJitter: 5 * time.Millisecond}
	for i := 0; i < 50; i++ {
		d := p.backoff(0)
		require.GreaterOrEqual(t, d, 10*time.Millisecond)
		require.Less(t, d, 15*time.Millisecond)
	}
}
