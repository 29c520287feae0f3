// Package reviews builds the synthetic testimonial feed. Like the activity
// feed it is seeded from the calendar date, so a day always shows the same
// reviews.
package reviews

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/BearBump/WriteDesk/internal/seedrand"
)

const (
	DefaultCount    = 8
	DefaultTimezone = "Asia/Kolkata"

	seedPrefix = "review-feed|"

	minAgeDays = 7
	maxAgeDays = 180

	nounSwapChance    = 0.40
	termChance        = 0.45
	openerChance      = 0.25
	closerChance      = 0.35
	slipChance        = 0.20
	fiveStarChance    = 0.80
	dedupeRetries     = 8
	dayLabelLayout    = "Mon, Jan 2, 2006"
	minSlipWordLength = 4
)

type Review struct {
	ReferenceCode string    `json:"referenceCode"`
	SubjectLabel  string    `json:"subjectLabel"`
	Text          string    `json:"text"`
	Rating        int       `json:"rating"`
	Timestamp     time.Time `json:"timestamp"`
	DayLabel      string    `json:"dayLabel"`
}

type composer struct {
	rng     *seedrand.Rand
	openers []string
	closers []string
	weights []float64
	seen    map[string]struct{}
}

// Generate returns count reviews for the calendar day of now in timezone,
// newest first. count <= 0 means DefaultCount.
func Generate(count int, timezone string, now time.Time) []Review {
	if count <= 0 {
		count = DefaultCount
	}
	loc := seedrand.LoadLocation(timezone, DefaultTimezone)
	now = now.In(loc)

	rng := seedrand.New(seedPrefix + seedrand.DayKey(now, loc))
	c := &composer{
		rng:     rng,
		openers: seedrand.Shuffle(rng, openers),
		closers: seedrand.Shuffle(rng, closers),
		seen:    make(map[string]struct{}, count),
	}
	for _, s := range Subjects {
		c.weights = append(c.weights, s.Weight)
	}

	y, m, d := now.Date()
	out := make([]Review, 0, count)
	for i := 0; i < count; i++ {
		subject := Subjects[rng.WeightedIndex(c.weights)]
		text := c.uniqueText(subject, i)

		age := rng.Between(minAgeDays, maxAgeDays)
		ts := time.Date(y, m, d-age, 12, 0, 0, 0, loc)

		rating := 4
		if rng.Chance(fiveStarChance) {
			rating = 5
		}

		out = append(out, Review{
			ReferenceCode: referenceCode(rng, ts.Year()),
			SubjectLabel:  subject.Label,
			Text:          text,
			Rating:        rating,
			Timestamp:     ts,
			DayLabel:      ts.Format(dayLabelLayout),
		})
	}

	slices.SortStableFunc(out, func(a, b Review) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}

func (c *composer) uniqueText(s Subject, n int) string {
	var text string
	for attempt := 0; attempt <= dedupeRetries; attempt++ {
		text = c.compose(s)
		if _, dup := c.seen[text]; !dup {
			c.seen[text] = struct{}{}
			return text
		}
	}
	for k := n + 1; ; k++ {
		forced := fmt.Sprintf("%s (#%d)", text, k)
		if _, dup := c.seen[forced]; !dup {
			c.seen[forced] = struct{}{}
			return forced
		}
	}
}

func (c *composer) compose(s Subject) string {
	v, ok := vocab[s.Group]
	if !ok {
		v = vocab[GroupGeneral]
	}

	noun := v.nouns[0]
	if len(v.nouns) > 1 && c.rng.Chance(nounSwapChance) {
		noun = v.nouns[1+c.rng.Intn(len(v.nouns)-1)]
	}
	text := fmt.Sprintf(seedrand.Pick(c.rng, v.templates), noun)

	if c.rng.Chance(termChance) {
		term := seedrand.Pick(c.rng, v.terms)
		text = strings.TrimSuffix(text, ".") + " (" + term + ")."
	}
	if len(c.openers) > 0 && c.rng.Chance(openerChance) {
		opener := c.openers[0]
		c.openers = c.openers[1:]
		text = opener + " " + lowerFirst(text)
	}
	if len(c.closers) > 0 && c.rng.Chance(closerChance) {
		closer := c.closers[0]
		c.closers = c.closers[1:]
		text = text + " " + closer
	}
	if c.rng.Chance(slipChance) {
		text = slip(c.rng, text)
	}
	return text
}

// slip adds one small typo: a doubled letter or a double space after
// punctuation.
func slip(rng *seedrand.Rand, text string) string {
	if rng.Chance(0.5) {
		if out, ok := doubleSpace(rng, text); ok {
			return out
		}
	}
	if out, ok := doubleLetter(rng, text); ok {
		return out
	}
	return text
}

func doubleSpace(rng *seedrand.Rand, text string) (string, bool) {
	var spots []int
	for i := 0; i+1 < len(text); i++ {
		if (text[i] == ',' || text[i] == '.') && text[i+1] == ' ' {
			spots = append(spots, i+1)
		}
	}
	if len(spots) == 0 {
		return text, false
	}
	at := seedrand.Pick(rng, spots)
	return text[:at] + " " + text[at:], true
}

func doubleLetter(rng *seedrand.Rand, text string) (string, bool) {
	type span struct{ start, end int }
	var words []span
	start := -1
	for i := 0; i <= len(text); i++ {
		if i < len(text) && isLetter(text[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start >= minSlipWordLength {
			words = append(words, span{start, i})
		}
		start = -1
	}
	if len(words) == 0 {
		return text, false
	}
	w := seedrand.Pick(rng, words)
	at := rng.Between(w.start, w.end-1)
	return text[:at+1] + text[at:], true
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func lowerFirst(s string) string {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return s
	}
	return string(s[0]+('a'-'A')) + s[1:]
}

func referenceCode(rng *seedrand.Rand, year int) string {
	return fmt.Sprintf("WD%04d%03d%c%c", year, rng.Intn(1000), 'A'+rune(rng.Intn(26)), 'A'+rune(rng.Intn(26)))
}
