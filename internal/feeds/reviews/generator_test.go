package reviews

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/BearBump/WriteDesk/internal/seedrand"
	"github.com/stretchr/testify/require"
)

const tz = "Asia/Kolkata"

var (
	loc = seedrand.LoadLocation(tz, "")
	now = time.Date(2026, 10, 18, 15, 30, 0, 0, loc)
)

func TestGenerate_DefaultCount(t *testing.T) {
	require.Len(t, Generate(0, tz, now), DefaultCount)
	require.Len(t, Generate(-4, tz, now), DefaultCount)
	require.Len(t, Generate(20, tz, now), 20)
}

func TestGenerate_StableWithinDay(t *testing.T) {
	a, err := json.Marshal(Generate(12, tz, now))
	require.NoError(t, err)
	b, err := json.Marshal(Generate(12, tz, now.Add(8*time.Hour)))
	require.NoError(t, err)
	require.Equal(t, string(a), string(b))

	c, _ := json.Marshal(Generate(12, tz, now.AddDate(0, 0, 1)))
	require.NotEqual(t, string(a), string(c))
}

func TestGenerate_AgesAndOrder(t *testing.T) {
	for i := 0; i < 30; i++ {
		day := now.AddDate(0, 0, i)
		items := Generate(20, tz, day)
		for k, r := range items {
			age := seedrand.DaysBetween(r.Timestamp, day, loc)
			require.GreaterOrEqual(t, age, 7)
			require.LessOrEqual(t, age, 180)
			require.Equal(t, 12, r.Timestamp.Hour())
			require.Equal(t, r.Timestamp.Format("Mon, Jan 2, 2006"), r.DayLabel)
			if k > 0 {
				require.False(t, r.Timestamp.After(items[k-1].Timestamp))
			}
		}
	}
}

func TestGenerate_FieldsWellFormed(t *testing.T) {
	ref := regexp.MustCompile(`^WD\d{4}\d{3}[A-Z]{2}$`)
	labels := map[string]bool{}
	for _, s := range Subjects {
		labels[s.Label] = true
	}

	for _, r := range Generate(40, tz, now) {
		require.Regexp(t, ref, r.ReferenceCode)
		require.True(t, strings.HasPrefix(r.ReferenceCode, "WD"+r.Timestamp.Format("2006")))
		require.Contains(t, []int{4, 5}, r.Rating)
		require.True(t, labels[r.SubjectLabel], r.SubjectLabel)
		require.NotEmpty(t, r.Text)
	}
}

func TestGenerate_UniqueTexts(t *testing.T) {
	for i := 0; i < 20; i++ {
		seen := map[string]bool{}
		for _, r := range Generate(20, tz, now.AddDate(0, 0, i)) {
			require.False(t, seen[r.Text], "duplicate %q", r.Text)
			seen[r.Text] = true
		}
	}
}

func TestGenerate_UniqueEvenPastVocabulary(t *testing.T) {
	items := Generate(500, tz, now)
	seen := map[string]bool{}
	for _, r := range items {
		require.False(t, seen[r.Text], "duplicate %q", r.Text)
		seen[r.Text] = true
	}
}

func TestGenerate_RatingDistribution(t *testing.T) {
	fives := 0
	items := Generate(2000, tz, now)
	for _, r := range items {
		if r.Rating == 5 {
			fives++
		}
	}
	require.InDelta(t, 0.8, float64(fives)/float64(len(items)), 0.05)
}

func TestGenerate_OpenersAndClosersDoNotRepeat(t *testing.T) {
	items := Generate(60, tz, now)
	for _, pool := range [][]string{openers, closers} {
		for _, phrase := range pool {
			used := 0
			for _, r := range items {
				if strings.Contains(r.Text, phrase) {
					used++
				}
			}
			require.LessOrEqual(t, used, 1, phrase)
		}
	}
}

func TestSlip(t *testing.T) {
	rng := seedrand.New("slip")

	out, ok := doubleSpace(rng, "Great work, thanks. Again")
	require.True(t, ok)
	require.Len(t, out, len("Great work, thanks. Again")+1)
	require.Contains(t, out, "  ")

	_, ok = doubleSpace(rng, "no punctuation here")
	require.False(t, ok)

	out, ok = doubleLetter(rng, "ok so fine")
	require.True(t, ok)
	require.Equal(t, len("ok so fine")+1, len(out))
	require.True(t, strings.HasPrefix(out, "ok so f"))

	_, ok = doubleLetter(rng, "a b cd")
	require.False(t, ok)
}

func TestLowerFirst(t *testing.T) {
	require.Equal(t, "the essay", lowerFirst("The essay"))
	require.Equal(t, "already", lowerFirst("already"))
	require.Equal(t, "", lowerFirst(""))
}
