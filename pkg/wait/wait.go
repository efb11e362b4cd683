// Package wait implements the fixed-interval polling helpers that the
// provisioning layer uses to block on slow external state transitions.
package wait

import (
	"errors"
	"fmt"
	"time"
)

var ErrTimeout = errors.New("waiting timed out")

// Until polls predicate every interval until it returns true and reports the
// time left from timeout. A non-positive timeout disables the deadline and
// performs a single check.
func Until(predicate func() bool, interval, timeout time.Duration) (time.Duration, error) {
	if timeout <= 0 {
		if !predicate() {
			return 0, ErrTimeout
		}
		return 0, nil
	}

	deadline := time.Now().Add(timeout)

	for !predicate() {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, fmt.Errorf("predicate did not pass within %s: %w", timeout, ErrTimeout)
		}

		time.Sleep(min(interval, remaining))
	}

	return time.Until(deadline), nil
}

// UntilPass polls fn until it stops returning an error. On timeout the last
// error from fn is returned wrapped with ErrTimeout.
func UntilPass(fn func() error, interval, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		err := fn()
		if err == nil {
			return nil
		}

		if timeout > 0 && time.Now().After(deadline) {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}

		time.Sleep(interval)
	}
}
