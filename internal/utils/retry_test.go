package utils

import (
	"errors"
	"testing"
	"time"
)

func TestRetryPolicySucceedsFirstTry(t *testing.T) {
	var slept []time.Duration
	p := RetryPolicy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{time.Second},
		Sleep:       func(d time.Duration) { slept = append(slept, d) },
	}

	calls := 0
	err := p.Do(func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(slept) != 0 {
		t.Errorf("slept %v, want no sleeps on first-try success", slept)
	}
}

func TestRetryPolicyFollowsBackoffSchedule(t *testing.T) {
	var slept []time.Duration
	p := RetryPolicy{
		MaxAttempts: 4,
		Backoff:     []time.Duration{100 * time.Millisecond, 300 * time.Millisecond},
		Sleep:       func(d time.Duration) { slept = append(slept, d) },
	}

	calls := 0
	err := p.Do(func() error {
		calls++
		if calls < 4 {
			return errors.New("not yet")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("err = %v, want nil after retries", err)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}

	// The last schedule entry repeats once the schedule runs out.
	want := []time.Duration{100 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond}
	if len(slept) != len(want) {
		t.Fatalf("slept %v, want %v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestRetryPolicyReturnsLastError(t *testing.T) {
	lastErr := errors.New("still broken")
	p := RetryPolicy{
		MaxAttempts: 3,
		Sleep:       func(time.Duration) {},
	}

	calls := 0
	err := p.Do(func() error {
		calls++
		return lastErr
	})

	if !errors.Is(err, lastErr) {
		t.Errorf("err = %v, want the last attempt's error", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want MaxAttempts", calls)
	}
}

func TestRetryPolicyZeroAttemptsStillRunsOnce(t *testing.T) {
	p := RetryPolicy{}

	calls := 0
	_ = p.Do(func() error {
		calls++
		return errors.New("nope")
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
