package orders

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestInvalid_WrapsSentinel(t *testing.T) {
	err := invalid("pages must be between %d and %d", 1, 500)
	require.Equal(t, ErrInvalidInput, errors.Cause(err))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, "pages must be between 1 and 500: invalid input", err.Error())
}

func TestRateLimitError_IsRateLimited(t *testing.T) {
	err := errors.WithStack(&RateLimitError{RetryAfter: 90 * time.Second})
	require.ErrorIs(t, err, ErrRateLimited)

	var rl *RateLimitError
	require.True(t, errors.As(err, &rl))
	require.Equal(t, "rate limited, retry in 1m30s", rl.Error())
}
