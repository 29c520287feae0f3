package orders

import (
	"context"
	"encoding/json"
	"html"
	"io"
	"log/slog"
	"net/mail"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BearBump/WriteDesk/internal/broker/messages"
	"github.com/BearBump/WriteDesk/internal/cache"
	"github.com/BearBump/WriteDesk/internal/integrations/geoip"
	"github.com/BearBump/WriteDesk/internal/metrics"
	"github.com/BearBump/WriteDesk/internal/models"
	"github.com/BearBump/WriteDesk/internal/pricing"
	"github.com/BearBump/WriteDesk/internal/seedrand"
	"github.com/BearBump/WriteDesk/internal/storage/objectstore"
	"github.com/BearBump/WriteDesk/internal/storage/pgorders"
	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id uint64) (*models.Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, int, error)
	UpdateStatus(ctx context.Context, id uint64, from, to string) (*models.Order, error)
	AddOrderFile(ctx context.Context, f *models.OrderFile) error
}

type FileStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

type Config struct {
	Timezone          string
	SubmitLimit       int64
	SubmitWindow      time.Duration
	GeoTimeout        time.Duration
	MaxFileBytes      int64
	AllowedExtensions []string
	Topic             string
}

func (c Config) withDefaults() Config {
	if c.SubmitLimit <= 0 {
		c.SubmitLimit = 5
	}
	if c.SubmitWindow <= 0 {
		c.SubmitWindow = time.Hour
	}
	if c.GeoTimeout <= 0 {
		c.GeoTimeout = 2 * time.Second
	}
	if c.MaxFileBytes <= 0 {
		c.MaxFileBytes = 20 << 20
	}
	if len(c.AllowedExtensions) == 0 {
		c.AllowedExtensions = []string{".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt", ".ppt", ".pptx", ".xls", ".xlsx", ".csv", ".png", ".jpg", ".jpeg", ".zip"}
	}
	if c.Topic == "" {
		c.Topic = messages.TopicOrderSubmitted
	}
	return c
}

// Deps are the collaborators. Limiter, Geo, Publisher and Metrics may be nil.
type Deps struct {
	Repo      Repository
	Files     FileStore
	Publisher Publisher
	Limiter   cache.RateLimiter
	Geo       geoip.Client
	Metrics   *metrics.Registry
	Now       func() time.Time
	NewID     func() string
}

type Service struct {
	cfg    Config
	loc    *time.Location
	deps   Deps
	policy *bluemonday.Policy
	exts   map[string]struct{}
}

func New(cfg Config, deps Deps) *Service {
	cfg = cfg.withDefaults()
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = func() string { return ulid.Make().String() }
	}
	exts := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, e := range cfg.AllowedExtensions {
		exts[strings.ToLower(e)] = struct{}{}
	}
	return &Service{
		cfg:    cfg,
		loc:    seedrand.LoadLocation(cfg.Timezone, "UTC"),
		deps:   deps,
		policy: bluemonday.StrictPolicy(),
		exts:   exts,
	}
}

// Quote prices in against the service clock, so the weekend promotion
// follows the configured timezone.
func (s *Service) Quote(ctx context.Context, in pricing.Input) pricing.Quote {
	s.deps.Metrics.QuoteComputed()
	return pricing.Compute(in, s.deps.Now().In(s.loc))
}

func (s *Service) SubmitOrder(ctx context.Context, sub models.OrderSubmission) (*models.Order, error) {
	sub = s.clean(sub)
	if err := validateSubmission(sub); err != nil {
		s.deps.Metrics.OrderRejected("invalid")
		return nil, err
	}
	if err := s.checkRate(ctx, sub.ClientIP); err != nil {
		s.deps.Metrics.OrderRejected("rate_limited")
		return nil, err
	}

	now := s.deps.Now()
	quote := pricing.Compute(pricing.Input{
		ServiceType:  pricing.ServiceType(sub.ServiceType),
		Pages:        sub.Pages,
		Deadline:     sub.Deadline,
		DocumentType: sub.DocumentType,
	}, now.In(s.loc))
	quoteJSON, err := json.Marshal(quote)
	if err != nil {
		return nil, errors.Wrap(err, "marshal quote")
	}

	o := &models.Order{
		Reference:     "WD-" + s.deps.NewID(),
		Status:        models.OrderStatusPendingPayment,
		ServiceType:   sub.ServiceType,
		DocumentType:  sub.DocumentType,
		Subject:       sub.Subject,
		Topic:         sub.Topic,
		Instructions:  sub.Instructions,
		Pages:         sub.Pages,
		Deadline:      sub.Deadline,
		CustomerName:  sub.Name,
		CustomerEmail: sub.Email,
		Country:       s.country(ctx, sub.ClientIP),
		ClientIP:      sub.ClientIP,
		TotalCents:    decimal.NewFromFloat(quote.TotalPrice).Shift(2).Round(0).IntPart(),
		QuoteJSON:     quoteJSON,
	}
	if sub.Phone != "" {
		phone := sub.Phone
		o.CustomerPhone = &phone
	}

	if err := s.deps.Repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}
	s.deps.Metrics.OrderSubmitted()
	slog.Info("order submitted", "reference", o.Reference, "id", o.ID, "total", o.Total().StringFixed(2), "country", o.Country)

	s.publishSubmitted(ctx, o, quote, now)
	return o, nil
}

// publishSubmitted is best effort: the order is already stored.
func (s *Service) publishSubmitted(ctx context.Context, o *models.Order, q pricing.Quote, at time.Time) {
	if s.deps.Publisher == nil {
		return
	}
	b, err := json.Marshal(messages.OrderSubmitted{
		OrderID:       o.ID,
		Reference:     o.Reference,
		ServiceType:   o.ServiceType,
		DocumentType:  o.DocumentType,
		Subject:       o.Subject,
		Pages:         o.Pages,
		Deadline:      o.Deadline,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Country:       o.Country,
		Total:         o.Total().StringFixed(2),
		IsRushOrder:   q.IsRushOrder,
		SubmittedAt:   at.UTC(),
	})
	if err != nil {
		slog.Error("marshal order.submitted", "reference", o.Reference, "err", err)
		return
	}
	if err := s.deps.Publisher.Publish(ctx, s.cfg.Topic, []byte(o.Reference), b); err != nil {
		slog.Warn("publish order.submitted failed", "reference", o.Reference, "err", err)
	}
}

func (s *Service) AttachFile(ctx context.Context, orderID uint64, up models.FileUpload) (*models.OrderFile, error) {
	if orderID == 0 {
		return nil, invalid("order id is required")
	}
	if up.Body == nil || up.Size <= 0 {
		return nil, invalid("file is empty")
	}
	if up.Size > s.cfg.MaxFileBytes {
		return nil, invalid("file is larger than %d bytes", s.cfg.MaxFileBytes)
	}
	ext := strings.ToLower(filepath.Ext(up.FileName))
	if _, ok := s.exts[ext]; !ok {
		return nil, invalid("file type %q is not allowed", ext)
	}

	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == models.OrderStatusCancelled || o.Status == models.OrderStatusCompleted {
		return nil, errors.Wrapf(ErrConflict, "order is %s", o.Status)
	}

	name := objectstore.SafeName(up.FileName)
	key := o.Reference + "/" + s.deps.NewID() + "-" + name
	url, err := s.deps.Files.Put(ctx, "orders/"+key, io.LimitReader(up.Body, up.Size), up.Size, up.ContentType)
	if err != nil {
		return nil, err
	}

	f := &models.OrderFile{
		OrderID:     o.ID,
		FileName:    name,
		ObjectKey:   "orders/" + key,
		URL:         url,
		ContentType: up.ContentType,
		Size:        up.Size,
	}
	if err := s.deps.Repo.AddOrderFile(ctx, f); err != nil {
		return nil, err
	}
	s.deps.Metrics.FileUploaded(up.Size)
	slog.Info("order file stored", "reference", o.Reference, "key", f.ObjectKey, "size", f.Size)
	return f, nil
}

type Page struct {
	Orders []*models.Order
	Total  int
	Limit  int
	Offset int
}

func (s *Service) ListOrders(ctx context.Context, limit, offset int) (Page, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	list, total, err := s.deps.Repo.ListOrders(ctx, limit, offset)
	if err != nil {
		return Page{}, err
	}
	return Page{Orders: list, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) GetOrder(ctx context.Context, id uint64) (*models.Order, error) {
	if id == 0 {
		return nil, invalid("order id is required")
	}
	o, err := s.deps.Repo.GetOrder(ctx, id)
	if errors.Is(err, pgorders.ErrNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "order %d", id)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uint64, status string) (*models.Order, error) {
	if !models.IsOrderStatus(status) {
		return nil, invalid("unknown status %q", status)
	}
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == status {
		return o, nil
	}
	if !models.CanTransition(o.Status, status) {
		return nil, errors.Wrapf(ErrConflict, "cannot move order from %s to %s", o.Status, status)
	}

	updated, err := s.deps.Repo.UpdateStatus(ctx, id, o.Status, status)
	if errors.Is(err, pgorders.ErrStatusConflict) {
		return nil, errors.Wrap(ErrConflict, "order was modified concurrently")
	}
	if err != nil {
		return nil, err
	}
	slog.Info("order status changed", "reference", updated.Reference, "from", o.Status, "to", status)
	return updated, nil
}

func (s *Service) checkRate(ctx context.Context, ip string) error {
	if s.deps.Limiter == nil || ip == "" {
		return nil
	}
	d, err := s.deps.Limiter.Allow(ctx, "submit:"+ip, s.cfg.SubmitLimit, s.cfg.SubmitWindow)
	if err != nil {
		// Redis недоступен: не блокируем оформление заказа.
		slog.Warn("submit rate limiter unavailable", "err", err)
		return nil
	}
	if !d.Allowed {
		return &RateLimitError{RetryAfter: d.RetryAfter}
	}
	return nil
}

func (s *Service) country(ctx context.Context, ip string) string {
	if s.deps.Geo == nil || !geoip.IsPublic(ip) {
		return models.UnknownCountry
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GeoTimeout)
	defer cancel()

	c, err := s.deps.Geo.Country(ctx, ip)
	if err != nil || c == "" {
		slog.Warn("geo lookup failed", "ip", ip, "err", err)
		return models.UnknownCountry
	}
	return c
}

// clean strips markup from free text and trims every field.
func (s *Service) clean(sub models.OrderSubmission) models.OrderSubmission {
	text := func(v string) string {
		return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
	}
	sub.ServiceType = strings.ToLower(strings.TrimSpace(sub.ServiceType))
	sub.DocumentType = strings.ToLower(strings.TrimSpace(sub.DocumentType))
	sub.Deadline = strings.TrimSpace(sub.Deadline)
	sub.Subject = text(sub.Subject)
	sub.Topic = text(sub.Topic)
	sub.Instructions = text(sub.Instructions)
	sub.Name = text(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Phone = text(sub.Phone)
	sub.ClientIP = strings.TrimSpace(sub.ClientIP)
	return sub
}

func validateSubmission(sub models.OrderSubmission) error {
	switch pricing.ServiceType(sub.ServiceType) {
	case pricing.ServiceWriting, pricing.ServiceEditing, pricing.ServicePresentation:
	default:
		return invalid("serviceType must be writing, editing or presentation")
	}
	if sub.Pages < 1 || sub.Pages > 500 {
		return invalid("pages must be between 1 and 500")
	}
	if !pricing.IsKnownDeadline(sub.Deadline) {
		return invalid("deadline %q is not offered", sub.Deadline)
	}
	if sub.Name == "" {
		return invalid("name is required")
	}
	if sub.Email == "" {
		return invalid("email is required")
	}
	if addr, err := mail.ParseAddress(sub.Email); err != nil || addr.Address != sub.Email {
		return invalid("email is not valid")
	}
	for field, v := range map[string]string{"name": sub.Name, "subject": sub.Subject, "topic": sub.Topic, "phone": sub.Phone} {
		if utf8.RuneCountInString(v) > 200 {
			return invalid("%s is too long", field)
		}
	}
	if utf8.RuneCountInString(sub.Instructions) > 10000 {
		return invalid("instructions are too long")
	}
	return nil
}
