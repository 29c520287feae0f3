// Package seedrand is a small deterministic PRNG seeded from a string.
// Same seed => same sequence, on every platform.
package seedrand

import (
	"hash/fnv"
	"time"
	_ "time/tzdata" // feeds must resolve their timezone in slim containers
)

// Rand is not safe for concurrent use; build one per call.
type Rand struct {
	state uint32
}

func New(seed string) *Rand {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	return &Rand{state: h.Sum32()}
}

// Float64 returns a value in [0,1) (mulberry32).
func (r *Rand) Float64() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// Intn returns a value in [0,n). n <= 0 yields 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Float64() * float64(n))
}

// Between returns a value in [min,max], both inclusive.
func (r *Rand) Between(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + r.Intn(max-min+1)
}

func (r *Rand) Chance(p float64) bool {
	return r.Float64() < p
}

// WeightedIndex picks an index proportionally to weights. Non-positive
// weights are never picked unless every weight is non-positive, in which
// case the pick is uniform.
func (r *Rand) WeightedIndex(weights []float64) int {
	if len(weights) == 0 {
		return -1
	}
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return r.Intn(len(weights))
	}
	x := r.Float64() * total
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if x < w {
			return i
		}
		x -= w
	}
	return last
}

func Pick[T any](r *Rand, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[r.Intn(len(items))]
}

// Shuffle returns a shuffled copy; the input is left untouched.
func Shuffle[T any](r *Rand, items []T) []T {
	out := append([]T(nil), items...)
	for i := len(out) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// DayKey is the calendar date of now in loc, YYYY-MM-DD.
func DayKey(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format("2006-01-02")
}

// LoadLocation falls back to fallback, then UTC, instead of failing.
func LoadLocation(name, fallback string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if fallback != "" {
		if loc, err := time.LoadLocation(fallback); err == nil {
			return loc
		}
	}
	return time.UTC
}

// DaysBetween counts calendar days from a to b (b later => positive),
// both taken in loc.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
