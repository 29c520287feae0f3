package notifier

import (
	"context"
	"math/rand"
	"time"
)

type Rand interface {
	Int63n(n int64) int64
}

type RetryConfig struct {
	Attempts int           // default: 4
	Base     time.Duration // default: 500ms
	Max      time.Duration // default: 10s
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Attempts: 4, Base: 500 * time.Millisecond, Max: 10 * time.Second}
}

type backoff struct {
	cfg RetryConfig
	r   Rand
}

func newBackoff(cfg RetryConfig, r Rand) *backoff {
	def := DefaultRetryConfig()
	if cfg.Attempts <= 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.Base <= 0 {
		cfg.Base = def.Base
	}
	if cfg.Max <= 0 {
		cfg.Max = def.Max
	}
	if cfg.Max < cfg.Base {
		cfg.Max = cfg.Base
	}
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &backoff{cfg: cfg, r: r}
}

// Delay before retry number attempt (1-based): base*2^(attempt-1), capped,
// with up to 20% jitter on top.
func (b *backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := b.cfg.Base
	for i := 1; i < attempt && d < b.cfg.Max; i++ {
		d *= 2
	}
	if d > b.cfg.Max {
		d = b.cfg.Max
	}
	if j := int64(d) / 5; j > 0 {
		d += time.Duration(b.r.Int63n(j + 1))
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
