package utils

import "time"

// RetryPolicy retries an operation over a fixed backoff schedule. Sleep is
// injectable so tests can run the schedule without waiting on the wall clock.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     []time.Duration
	Sleep       func(time.Duration)
}

// DefaultRetryPolicy mirrors the 3-attempt backoff the tracking fallback path
// has always used.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{100 * time.Millisecond, 300 * time.Millisecond, 1 * time.Second},
	}
}

// Do runs fn until it succeeds or MaxAttempts is exhausted, sleeping between
// attempts per the backoff schedule. Returns the last error on exhaustion.
func (p RetryPolicy) Do(fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			p.sleep(p.delay(attempt - 1))
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

func (p RetryPolicy) delay(i int) time.Duration {
	if len(p.Backoff) == 0 {
		return 0
	}
	if i >= len(p.Backoff) {
		return p.Backoff[len(p.Backoff)-1]
	}
	return p.Backoff[i]
}

func (p RetryPolicy) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if p.Sleep != nil {
		p.Sleep(d)
		return
	}
	time.Sleep(d)
}
