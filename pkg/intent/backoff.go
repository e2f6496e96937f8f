package intent

import "time"

// BackoffStrategy calculates the delay before a retry attempt.
// Attempt starts at 1 for the first retry.
type BackoffStrategy interface {
	NextInterval(attempt int) time.Duration
}

// LinearBackoff waits Interval × attempt before each retry, capped at
// MaxInterval. With a 1s interval the delays are 1s, 2s, 3s.
type LinearBackoff struct {
	Interval    time.Duration
	MaxInterval time.Duration
}

func (l LinearBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	interval := l.Interval
	if interval == 0 {
		interval = time.Second
	}

	max := l.MaxInterval
	if max == 0 {
		max = 30 * time.Second
	}

	delay := interval * time.Duration(attempt)
	if delay > max {
		delay = max
	}
	return delay
}

// FixedBackoff waits the same interval before every retry.
type FixedBackoff struct {
	Interval time.Duration
}

func (f FixedBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return f.Interval
}

// DefaultBackoffStrategy returns the orchestrator's default linear backoff.
func DefaultBackoffStrategy() BackoffStrategy {
	return LinearBackoff{
		Interval:    time.Second,
		MaxInterval: 30 * time.Second,
	}
}
