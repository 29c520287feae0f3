// Package activity builds the synthetic "recent orders" social-proof feed.
// Output depends only on the calendar date of now in the configured
// timezone, so every call made on the same day returns the same feed.
package activity

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/BearBump/WriteDesk/internal/seedrand"
)

const (
	DefaultTimezone        = "Asia/Kolkata"
	DefaultDays            = 7
	DefaultMinTotal        = 12
	DefaultMaxTotal        = 18
	DefaultCompletionRatio = 0.25

	maxDays  = 31
	maxTotal = 200

	seedPrefix = "activity-feed|"

	completionChance = 0.3
	completionMaxDay = 3 // today plus three days back
	linkMinDaysBack  = 1
	linkMaxDaysBack  = 5
	streakAttempts   = 4
	firstHourOfDay   = 8
	lastHourOfDay    = 22 // slots end at 22:59
)

type Config struct {
	Timezone        string   `yaml:"timezone"`
	Days            int      `yaml:"days"`
	MinTotal        int      `yaml:"min_total"`
	MaxTotal        int      `yaml:"max_total"`
	// nil means DefaultCompletionRatio; an explicit 0 turns completions off.
	CompletionRatio *float64 `yaml:"completion_ratio"`
}

func DefaultConfig() Config {
	return Config{
		Timezone:        DefaultTimezone,
		Days:            DefaultDays,
		MinTotal:        DefaultMinTotal,
		MaxTotal:        DefaultMaxTotal,
		CompletionRatio: Ratio(DefaultCompletionRatio),
	}
}

func Ratio(v float64) *float64 { return &v }

// normalize clamps cfg instead of rejecting it; the feed must always render.
func (cfg Config) normalize() (Config, *time.Location) {
	loc := seedrand.LoadLocation(cfg.Timezone, DefaultTimezone)
	cfg.Timezone = loc.String()
	if cfg.Days <= 0 {
		cfg.Days = DefaultDays
	}
	if cfg.Days > maxDays {
		cfg.Days = maxDays
	}
	if cfg.MinTotal <= 0 {
		cfg.MinTotal = DefaultMinTotal
	}
	if cfg.MaxTotal <= 0 {
		cfg.MaxTotal = DefaultMaxTotal
	}
	if cfg.MinTotal > maxTotal {
		cfg.MinTotal = maxTotal
	}
	if cfg.MaxTotal > maxTotal {
		cfg.MaxTotal = maxTotal
	}
	if cfg.MaxTotal < cfg.MinTotal {
		cfg.MaxTotal = cfg.MinTotal
	}
	ratio := DefaultCompletionRatio
	if cfg.CompletionRatio != nil {
		ratio = *cfg.CompletionRatio
	}
	if ratio < 0 || math.IsNaN(ratio) {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	cfg.CompletionRatio = &ratio
	return cfg, loc
}

type entry struct {
	seq     int
	day     int
	kind    Kind
	country string
	city    string
	subject string
	at      time.Time
	ref     string
	link    int  // index of the linked order, completions only
	linked  bool // an order some completion points to
}

type generator struct {
	rng     *seedrand.Rand
	loc     *time.Location
	today   time.Time
	dayKey  string
	entries []*entry
	weights []float64
}

// Generate returns the feed for the calendar day of now, newest first.
func Generate(cfg Config, now time.Time) []Notification {
	cfg, loc := cfg.normalize()
	now = now.In(loc)
	return build(cfg, loc, now).render(now)
}

func build(cfg Config, loc *time.Location, now time.Time) *generator {
	dayKey := seedrand.DayKey(now, loc)
	g := &generator{
		rng:    seedrand.New(seedPrefix + dayKey),
		loc:    loc,
		today:  now,
		dayKey: dayKey,
	}
	for _, c := range Countries {
		g.weights = append(g.weights, c.Weight)
	}

	total := g.rng.Between(cfg.MinTotal, cfg.MaxTotal)
	perDay := distribute(g.rng, total, cfg.Days)
	completionsTarget := completionsFor(total, *cfg.CompletionRatio)

	// Oldest day first, so completions can only link to orders that exist.
	placed := 0
	for d := cfg.Days - 1; d >= 0; d-- {
		for s := 0; s < perDay[d]; s++ {
			if g.slot(d, placed < completionsTarget) {
				placed++
			}
		}
	}
	for placed < completionsTarget && g.backfillOne() {
		placed++
	}
	return g
}

func completionsFor(total int, ratio float64) int {
	return int(math.Round(float64(total) * ratio))
}

// Visible drops items stamped after now. Today's slots are spread over
// the whole day, so part of them lie in the future early on.
func Visible(items []Notification, now time.Time) []Notification {
	out := make([]Notification, 0, len(items))
	for _, it := range items {
		if !it.At().After(now) {
			out = append(out, it)
		}
	}
	return out
}

// DayLabel renders ts relative to now in loc.
func DayLabel(ts, now time.Time, loc *time.Location) string {
	switch diff := seedrand.DaysBetween(ts, now, loc); {
	case diff <= 0:
		return "today"
	case diff == 1:
		return "yesterday"
	case diff <= 3:
		return fmt.Sprintf("%d days ago", diff)
	default:
		return ts.In(loc).Format("Mon, Jan 2")
	}
}

func dayBounds(day int) (int, int) {
	switch {
	case day == 0:
		return 1, 3
	case day <= 3:
		return 2, 4
	default:
		return 1, 2
	}
}

// distribute splits total over days and always sums to total exactly.
func distribute(rng *seedrand.Rand, total, days int) []int {
	alloc := make([]int, days)
	remaining := total

	// Minimums go to the most recent days first.
	for d := 0; d < days && remaining > 0; d++ {
		lo, _ := dayBounds(d)
		n := min(lo, remaining)
		alloc[d] = n
		remaining -= n
	}
	for d := 0; d < days && remaining > 0; d++ {
		_, hi := dayBounds(d)
		if room := hi - alloc[d]; room > 0 {
			n := min(rng.Between(0, room), remaining)
			alloc[d] += n
			remaining -= n
		}
	}
	for remaining > 0 {
		progressed := false
		for d := 0; d < days && remaining > 0; d++ {
			if _, hi := dayBounds(d); alloc[d] < hi {
				alloc[d]++
				remaining--
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	// Every day is at its cap; keep going round-robin past it.
	for d := 0; remaining > 0; d = (d + 1) % days {
		alloc[d]++
		remaining--
	}
	return alloc
}

// slot emits one item on day d and reports whether it was a completion.
func (g *generator) slot(d int, wantCompletion bool) bool {
	at := g.timeOn(d)

	if wantCompletion && d <= completionMaxDay && g.rng.Chance(completionChance) {
		if candidates := g.linkCandidates(d); len(candidates) > 0 {
			target := candidates[g.rng.Intn(len(candidates))]
			g.entries[target].linked = true
			g.push(&entry{
				day:     d,
				kind:    KindCompletion,
				country: g.entries[target].country,
				subject: g.entries[target].subject,
				at:      at,
				ref:     g.refCode(),
				link:    target,
			})
			return true
		}
	}

	country := Countries[g.pickCountry()]
	city := country.Cities[g.rng.WeightedIndex(cityWeights(country))]
	g.push(&entry{
		day:     d,
		kind:    KindOrder,
		country: country.Name,
		city:    country.Label(city),
		subject: seedrand.Pick(g.rng, Subjects),
		at:      at,
		link:    -1,
	})
	return false
}

func (g *generator) push(e *entry) {
	e.seq = len(g.entries)
	g.entries = append(g.entries, e)
}

func (g *generator) timeOn(d int) time.Time {
	y, m, day := g.today.Date()
	hour := g.rng.Between(firstHourOfDay, lastHourOfDay)
	minute := g.rng.Intn(60)
	return time.Date(y, m, day-d, hour, minute, 0, 0, g.loc)
}

// linkCandidates lists unlinked orders 1..5 days older than day d whose
// country would not extend a streak at the end of the sequence.
func (g *generator) linkCandidates(d int) []int {
	var out []int
	for i, e := range g.entries {
		if e.kind != KindOrder || e.linked {
			continue
		}
		gap := e.day - d
		if gap < linkMinDaysBack || gap > linkMaxDaysBack {
			continue
		}
		if g.endsStreak(e.country) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func (g *generator) pickCountry() int {
	for attempt := 0; attempt < streakAttempts; attempt++ {
		idx := g.rng.WeightedIndex(g.weights)
		if !g.endsStreak(Countries[idx].Name) {
			return idx
		}
	}
	// Resampling ran dry: take the heaviest country that breaks the streak.
	best := -1
	for i, c := range Countries {
		if g.endsStreak(c.Name) {
			continue
		}
		if best < 0 || c.Weight > Countries[best].Weight {
			best = i
		}
	}
	if best < 0 {
		return g.rng.WeightedIndex(g.weights)
	}
	return best
}

// endsStreak reports whether appending country would make three in a row.
func (g *generator) endsStreak(country string) bool {
	n := len(g.entries)
	return n >= 2 && g.entries[n-1].country == country && g.entries[n-2].country == country
}

// backfillOne turns a fresh order from the recent days into a completion
// of an order one to five days older, closest day first.
func (g *generator) backfillOne() bool {
	for i := len(g.entries) - 1; i >= 0; i-- {
		x := g.entries[i]
		if x.kind != KindOrder || x.linked || x.day > completionMaxDay {
			continue
		}
		for gap := linkMinDaysBack; gap <= linkMaxDaysBack; gap++ {
			for j, y := range g.entries {
				if j == i || y.kind != KindOrder || y.linked || y.day != x.day+gap {
					continue
				}
				if g.streakAt(i, y.country) {
					continue
				}
				y.linked = true
				x.kind = KindCompletion
				x.country = y.country
				x.subject = y.subject
				x.city = ""
				x.ref = g.refCode()
				x.link = j
				return true
			}
		}
	}
	return false
}

// streakAt reports whether setting entry i to country would create three
// equal countries in a row anywhere around i.
func (g *generator) streakAt(i int, country string) bool {
	at := func(k int) string {
		if k == i {
			return country
		}
		return g.entries[k].country
	}
	for start := i - 2; start <= i; start++ {
		if start < 0 || start+2 >= len(g.entries) {
			continue
		}
		if at(start) == at(start+1) && at(start+1) == at(start+2) {
			return true
		}
	}
	return false
}

func (g *generator) refCode() string {
	return fmt.Sprintf("WD-%05d", g.rng.Between(10000, 99999))
}

func (g *generator) id(e *entry) string {
	return fmt.Sprintf("act-%s-%02d", g.dayKey, e.seq)
}

func (g *generator) render(now time.Time) []Notification {
	sorted := slices.Clone(g.entries)
	slices.SortStableFunc(sorted, func(a, b *entry) int {
		if c := b.at.Compare(a.at); c != 0 {
			return c
		}
		return b.seq - a.seq
	})

	out := make([]Notification, 0, len(sorted))
	for _, e := range sorted {
		label := DayLabel(e.at, now, g.loc)
		if e.kind == KindCompletion {
			linked := g.entries[e.link]
			out = append(out, &CompletionNotification{
				ID:                   g.id(e),
				Country:              e.country,
				OrderReferenceCode:   e.ref,
				Subject:              e.subject,
				Timestamp:            e.at,
				DayLabel:             label,
				LinkedOrderID:        g.id(linked),
				LinkedOrderTimestamp: linked.at,
			})
			continue
		}
		out = append(out, &OrderNotification{
			ID:               g.id(e),
			Country:          e.country,
			CityLabel:        e.city,
			Subject:          e.subject,
			Timestamp:        e.at,
			DayLabel:         label,
			RelativeDayIndex: e.day,
		})
	}
	return out
}

func cityWeights(c Country) []float64 {
	w := make([]float64, len(c.Cities))
	for i, city := range c.Cities {
		w[i] = city.Weight
	}
	return w
}
