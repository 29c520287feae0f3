package activity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/BearBump/WriteDesk/internal/seedrand"
	"github.com/stretchr/testify/require"
)

var kolkata = seedrand.LoadLocation("Asia/Kolkata", "")

func TestGenerate_StableWithinDay(t *testing.T) {
	morning := time.Date(2026, 10, 18, 0, 5, 0, 0, kolkata)
	evening := time.Date(2026, 10, 18, 23, 55, 0, 0, kolkata)

	a, err := json.Marshal(Generate(DefaultConfig(), morning))
	require.NoError(t, err)
	b, err := json.Marshal(Generate(DefaultConfig(), evening))
	require.NoError(t, err)
	require.Equal(t, string(a), string(b))
}

func TestGenerate_DiffersAcrossDays(t *testing.T) {
	d1 := time.Date(2026, 10, 18, 12, 0, 0, 0, kolkata)
	d2 := d1.AddDate(0, 0, 1)

	a, _ := json.Marshal(Generate(DefaultConfig(), d1))
	b, _ := json.Marshal(Generate(DefaultConfig(), d2))
	require.NotEqual(t, string(a), string(b))
}

func TestGenerate_UsesConfiguredTimezoneForDayKey(t *testing.T) {
	// 20:00 UTC on the 18th is already the 19th in Kolkata.
	utcEvening := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	nextDayKolkata := time.Date(2026, 10, 19, 9, 0, 0, 0, kolkata)

	a, _ := json.Marshal(Generate(DefaultConfig(), utcEvening))
	b, _ := json.Marshal(Generate(DefaultConfig(), nextDayKolkata))
	require.Equal(t, string(a), string(b))
}

func TestGenerate_Invariants(t *testing.T) {
	cfg := DefaultConfig()
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, kolkata)

	for i := 0; i < 120; i++ {
		now := start.AddDate(0, 0, i)
		items := Generate(cfg, now)

		require.GreaterOrEqual(t, len(items), cfg.MinTotal, now)
		require.LessOrEqual(t, len(items), cfg.MaxTotal, now)

		byID := map[string]*OrderNotification{}
		for _, it := range items {
			if o, ok := it.(*OrderNotification); ok {
				byID[o.ID] = o
			}
		}

		for k, it := range items {
			if k > 0 {
				require.False(t, it.At().After(items[k-1].At()), "not sorted newest first on %s", now)
			}
			age := seedrand.DaysBetween(it.At(), now, kolkata)
			require.GreaterOrEqual(t, age, 0)
			require.Less(t, age, cfg.Days)

			switch n := it.(type) {
			case *OrderNotification:
				require.Equal(t, age, n.RelativeDayIndex)
				require.NotEmpty(t, n.CityLabel)
				hour := n.Timestamp.In(kolkata).Hour()
				require.GreaterOrEqual(t, hour, 8)
				require.Less(t, hour, 23)
			case *CompletionNotification:
				require.True(t, n.LinkedOrderTimestamp.Before(n.Timestamp))
				gap := seedrand.DaysBetween(n.LinkedOrderTimestamp, n.Timestamp, kolkata)
				require.GreaterOrEqual(t, gap, 1)
				require.LessOrEqual(t, gap, 5)

				linked, ok := byID[n.LinkedOrderID]
				require.True(t, ok, "completion %s links to a missing order", n.ID)
				require.Equal(t, linked.Timestamp, n.LinkedOrderTimestamp)
				require.Equal(t, linked.Country, n.Country)
				require.NotEmpty(t, n.OrderReferenceCode)
			default:
				t.Fatalf("unexpected item %T", it)
			}
		}
	}
}

func countCompletions(items []Notification) int {
	n := 0
	for _, it := range items {
		if it.Kind() == KindCompletion {
			n++
		}
	}
	return n
}

func TestGenerate_CompletionsReachTarget(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, kolkata)
	for i := 0; i < 365; i++ {
		now := start.AddDate(0, 0, i)
		items := Generate(DefaultConfig(), now)
		require.Equal(t, completionsFor(len(items), DefaultCompletionRatio), countCompletions(items),
			"on %s", now.Format("2006-01-02"))
	}
}

func TestGenerate_ZeroConfigUsesDefaults(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, kolkata)
	for i := 0; i < 30; i++ {
		now := start.AddDate(0, 0, i)
		items := Generate(Config{}, now)
		require.GreaterOrEqual(t, len(items), DefaultMinTotal)
		require.LessOrEqual(t, len(items), DefaultMaxTotal)
		require.Positive(t, countCompletions(items))

		want, err := json.Marshal(Generate(DefaultConfig(), now))
		require.NoError(t, err)
		got, err := json.Marshal(items)
		require.NoError(t, err)
		require.Equal(t, string(want), string(got))
	}
}

func TestGenerate_ExplicitZeroRatioDisablesCompletions(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, kolkata)
	cfg := DefaultConfig()
	cfg.CompletionRatio = Ratio(0)
	require.Zero(t, countCompletions(Generate(cfg, now)))
}

func TestGenerate_NoCountryStreaksInGenerationOrder(t *testing.T) {
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, kolkata)
	for i := 0; i < 90; i++ {
		cfg, loc := DefaultConfig().normalize()
		now := start.AddDate(0, 0, i).In(loc)
		g := build(cfg, loc, now)

		for k := 2; k < len(g.entries); k++ {
			c := g.entries[k].country
			require.False(t, g.entries[k-1].country == c && g.entries[k-2].country == c,
				"three %s in a row on %s", c, now.Format("2006-01-02"))
		}
	}
}

func TestDistribute_SumsExactly(t *testing.T) {
	rng := seedrand.New("distribute")
	for total := 1; total <= 40; total++ {
		for _, days := range []int{1, 3, 7, 10} {
			alloc := distribute(rng, total, days)
			sum := 0
			for _, n := range alloc {
				require.GreaterOrEqual(t, n, 0)
				sum += n
			}
			require.Equal(t, total, sum, "total=%d days=%d", total, days)
		}
	}

	alloc := distribute(rng, 12, 7)
	for d, n := range alloc {
		lo, hi := dayBounds(d)
		require.GreaterOrEqual(t, n, lo)
		require.LessOrEqual(t, n, hi)
	}
}

func TestGenerate_ClampsPathologicalConfig(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, kolkata)

	items := Generate(Config{Timezone: "Not/AZone", Days: -1, MinTotal: 20, MaxTotal: 5, CompletionRatio: Ratio(7)}, now)
	require.Len(t, items, 20)

	items = Generate(Config{Days: 1, MinTotal: 3, MaxTotal: 3, CompletionRatio: Ratio(0)}, now)
	require.Len(t, items, 3)
	for _, it := range items {
		require.Equal(t, KindOrder, it.Kind())
	}
}

func TestDayLabel(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, kolkata)
	at := func(daysBack int) time.Time { return time.Date(2026, 10, 18-daysBack, 21, 0, 0, 0, kolkata) }

	require.Equal(t, "today", DayLabel(at(0), now, kolkata))
	require.Equal(t, "yesterday", DayLabel(at(1), now, kolkata))
	require.Equal(t, "2 days ago", DayLabel(at(2), now, kolkata))
	require.Equal(t, "3 days ago", DayLabel(at(3), now, kolkata))
	require.Equal(t, "Wed, Oct 14", DayLabel(at(4), now, kolkata))
}

func TestVisible(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, kolkata)
	items := []Notification{
		&OrderNotification{ID: "future", Timestamp: now.Add(time.Hour)},
		&OrderNotification{ID: "now", Timestamp: now},
		&CompletionNotification{ID: "past", Timestamp: now.Add(-time.Hour)},
	}
	out := Visible(items, now)
	require.Len(t, out, 2)
	require.Equal(t, KindCompletion, out[1].Kind())
}

func TestDecodeFeed_RoundTrip(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, kolkata)
	items := Generate(DefaultConfig(), now)
	b, err := json.Marshal(items)
	require.NoError(t, err)
	require.Contains(t, string(b), `"kind":"order"`)

	back, err := DecodeFeed(b)
	require.NoError(t, err)
	require.Len(t, back, len(items))
	for i := range items {
		require.Equal(t, items[i].Kind(), back[i].Kind())
		require.True(t, items[i].At().Equal(back[i].At()))
	}

	_, err = DecodeFeed([]byte(`[{"kind":"banner"}]`))
	require.Error(t, err)
}

func TestCountryLabel(t *testing.T) {
	us := Country{Format: FormatCityCommaRegion}
	ca := Country{Format: FormatCityParenRegion}
	gb := Country{Format: FormatCityOnly}
	require.Equal(t, "Austin, TX", us.Label(City{Name: "Austin", Region: "TX"}))
	require.Equal(t, "Toronto (ON)", ca.Label(City{Name: "Toronto", Region: "ON"}))
	require.Equal(t, "Leeds", gb.Label(City{Name: "Leeds", Region: "WYK"}))
	require.Equal(t, "Dubai", us.Label(City{Name: "Dubai"}))
}
