package orders

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("rate limited")
)

func invalid(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}

// RateLimitError tells the caller when the next submission is accepted.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }
