package deadline

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is the stable identity every timeout carries. Use IsTimeout
	// or errors.Is(err, ErrTimeout) for branching; the concrete error is
	// always a *TimeoutError.
	ErrTimeout = errors.New("operation timed out")

	// ErrNilOperation is returned when no operation was supplied.
	ErrNilOperation = errors.New("nil operation")
)

// TimeoutError reports which operation exceeded which bound.
type TimeoutError struct {
	Operation string
	Timeout   time.Duration
}

func (e *TimeoutError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("operation timed out after %s", e.Timeout)
	}
	return fmt.Sprintf("%s timed out after %s", e.Operation, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// IsTimeout reports whether err is (or wraps) a deadline timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
