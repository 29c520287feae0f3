package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/BearBump/WriteDesk/internal/cache"
	"github.com/BearBump/WriteDesk/internal/feeds/activity"
	"github.com/BearBump/WriteDesk/internal/feeds/reviews"
	"github.com/BearBump/WriteDesk/internal/metrics"
	"github.com/BearBump/WriteDesk/internal/seedrand"
)

const MaxReviews = 50

type Config struct {
	Activity activity.Config
}

// Service serves the two synthetic feeds. The output of a day never
// changes, so it is cached until the next local midnight.
type Service struct {
	cfg     Config
	loc     *time.Location
	cache   cache.BytesCache
	metrics *metrics.Registry
	now     func() time.Time
}

func New(cfg Config, c cache.BytesCache, m *metrics.Registry, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		cfg:     cfg,
		loc:     seedrand.LoadLocation(cfg.Activity.Timezone, activity.DefaultTimezone),
		cache:   c,
		metrics: m,
		now:     now,
	}
}

// Activity returns today's activity feed without the items still in the future.
func (s *Service) Activity(ctx context.Context) ([]activity.Notification, error) {
	now := s.now().In(s.loc)
	key := "feeds:activity:" + seedrand.DayKey(now, s.loc)

	if b, ok := s.cached(ctx, key); ok {
		items, err := activity.DecodeFeed(b)
		if err == nil {
			s.metrics.FeedCache("activity", true)
			return activity.Visible(items, now), nil
		}
		slog.Warn("activity feed cache entry is corrupt", "key", key, "err", err)
	}
	s.metrics.FeedCache("activity", false)

	items := activity.Generate(s.cfg.Activity, now)
	s.store(ctx, key, items, now)
	return activity.Visible(items, now), nil
}

// Reviews returns count reviews; count is clamped to [1, MaxReviews],
// zero meaning the default.
func (s *Service) Reviews(ctx context.Context, count int) ([]reviews.Review, error) {
	if count <= 0 {
		count = reviews.DefaultCount
	}
	if count > MaxReviews {
		count = MaxReviews
	}
	now := s.now().In(s.loc)
	key := fmt.Sprintf("feeds:reviews:%s:%d", seedrand.DayKey(now, s.loc), count)

	if b, ok := s.cached(ctx, key); ok {
		var items []reviews.Review
		if err := json.Unmarshal(b, &items); err == nil {
			s.metrics.FeedCache("reviews", true)
			return items, nil
		}
		slog.Warn("review feed cache entry is corrupt", "key", key)
	}
	s.metrics.FeedCache("reviews", false)

	items := reviews.Generate(count, s.loc.String(), now)
	s.store(ctx, key, items, now)
	return items, nil
}

func (s *Service) cached(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("feed cache get failed", "key", key, "err", err)
		return nil, false
	}
	return b, ok
}

func (s *Service) store(ctx context.Context, key string, v any, now time.Time) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		slog.Error("feed marshal failed", "key", key, "err", err)
		return
	}
	if err := s.cache.Set(ctx, key, b, untilMidnight(now, s.loc)); err != nil {
		slog.Warn("feed cache set failed", "key", key, "err", err)
	}
}

func untilMidnight(now time.Time, loc *time.Location) time.Duration {
	now = now.In(loc)
	y, m, d := now.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	if ttl := next.Sub(now); ttl > time.Second {
		return ttl
	}
	return time.Second
}
