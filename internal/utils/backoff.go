package utils

import (
	"math/rand"
	"time"
)

// Backoff retries fn with exponential sleeps plus jitter. The caller decides
// what counts as retryable by returning nil early.
type Backoff struct {
	base       time.Duration
	maxRetries int
}

func NewBackoff(base time.Duration, maxRetries int) Backoff {
	return Backoff{base: base, maxRetries: maxRetries}
}

func (b Backoff) Do(fn func(i int) error) error {
	var err error
	for i := 0; i <= b.maxRetries; i++ {
		err = fn(i)
		if err == nil {
			return nil
		}
		if i == b.maxRetries {
			break
		}
		t := time.Duration(1<<i) * b.base
		t += time.Duration(rand.Int63n(int64(b.base)/2 + 1))
		time.Sleep(t)
	}
	return err
}
