package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BearBump/WriteDesk/internal/broker/kafka"
	"github.com/BearBump/WriteDesk/internal/broker/messages"
	"github.com/BearBump/WriteDesk/internal/integrations/mailer"
	"github.com/BearBump/WriteDesk/internal/metrics"
	"github.com/pkg/errors"
)

type Consumer interface {
	Consume(ctx context.Context, handler func(key, value []byte) error) error
}

// AdminOrderURL is a template with one %d for the order id.
type Config struct {
	From          string
	ReplyTo       string
	AdminTo       []string
	SiteName      string
	SupportEmail  string
	AdminOrderURL string
	Retry         RetryConfig
}

// Notifier turns order.submitted events into a customer confirmation and
// an admin alert.
type Notifier struct {
	consumer Consumer
	mail     mailer.Client
	metrics  *metrics.Registry
	cfg      Config
	backoff  *backoff
	sleep    func(ctx context.Context, d time.Duration) error

	startedAtUnixNano   int64
	lastMessageUnixNano atomic.Int64
	totalReceived       atomic.Int64
	totalSent           atomic.Int64
	totalFailed         atomic.Int64
	totalSkipped        atomic.Int64
	totalRetries        atomic.Int64
	lastErrorMu         sync.Mutex
	lastError           string
}

func New(consumer Consumer, mail mailer.Client, m *metrics.Registry, cfg Config) *Notifier {
	if cfg.SiteName == "" {
		cfg.SiteName = "WriteDesk"
	}
	return &Notifier{
		consumer:          consumer,
		mail:              mail,
		metrics:           m,
		cfg:               cfg,
		backoff:           newBackoff(cfg.Retry, nil),
		sleep:             sleepCtx,
		startedAtUnixNano: time.Now().UTC().UnixNano(),
	}
}

type Stats struct {
	StartedAt     time.Time  `json:"startedAt"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	TotalReceived int64      `json:"totalReceived"`
	TotalSent     int64      `json:"totalSent"`
	TotalFailed   int64      `json:"totalFailed"`
	TotalSkipped  int64      `json:"totalSkipped"`
	TotalRetries  int64      `json:"totalRetries"`
	LastError     string     `json:"lastError,omitempty"`
}

func (n *Notifier) Stats() Stats {
	st := Stats{
		StartedAt:     time.Unix(0, n.startedAtUnixNano).UTC(),
		TotalReceived: n.totalReceived.Load(),
		TotalSent:     n.totalSent.Load(),
		TotalFailed:   n.totalFailed.Load(),
		TotalSkipped:  n.totalSkipped.Load(),
		TotalRetries:  n.totalRetries.Load(),
	}
	if v := n.lastMessageUnixNano.Load(); v > 0 {
		t := time.Unix(0, v).UTC()
		st.LastMessageAt = &t
	}
	n.lastErrorMu.Lock()
	st.LastError = n.lastError
	n.lastErrorMu.Unlock()
	return st
}

// Run consumes until ctx is cancelled or the consumer fails.
func (n *Notifier) Run(ctx context.Context) error {
	return n.consumer.Consume(ctx, func(key, value []byte) error {
		return n.Handle(ctx, value)
	})
}

// Handle processes one order.submitted payload. Mail failures are counted
// and logged but never block the partition; only cancellation is returned.
func (n *Notifier) Handle(ctx context.Context, value []byte) error {
	n.totalReceived.Add(1)
	n.lastMessageUnixNano.Store(time.Now().UTC().UnixNano())

	var msg messages.OrderSubmitted
	if err := json.Unmarshal(value, &msg); err != nil {
		n.totalSkipped.Add(1)
		n.setLastError(err)
		slog.Error("bad order.submitted payload", "error", err.Error())
		return kafka.Skip(errors.Wrap(err, "decode order.submitted"))
	}
	if msg.Reference == "" || msg.CustomerEmail == "" {
		n.totalSkipped.Add(1)
		slog.Error("order.submitted without reference or email", "order_id", msg.OrderID)
		return kafka.Skip(errors.New("incomplete order.submitted"))
	}

	data := mailData{OrderSubmitted: msg, SiteName: n.cfg.SiteName, SupportEmail: n.cfg.SupportEmail}
	if n.cfg.AdminOrderURL != "" && strings.Contains(n.cfg.AdminOrderURL, "%d") {
		data.AdminURL = strings.Replace(n.cfg.AdminOrderURL, "%d", strconv.FormatUint(msg.OrderID, 10), 1)
	}

	customerHTML, err := render("customer.html", data)
	if err != nil {
		return kafka.Skip(err)
	}
	if err := n.send(ctx, "customer", mailer.Message{
		From:    n.cfg.From,
		To:      []string{msg.CustomerEmail},
		ReplyTo: n.cfg.ReplyTo,
		Subject: customerSubject(n.cfg.SiteName, msg),
		HTML:    customerHTML,
	}); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}

	if len(n.cfg.AdminTo) == 0 {
		return nil
	}
	adminHTML, err := render("admin.html", data)
	if err != nil {
		return kafka.Skip(err)
	}
	if err := n.send(ctx, "admin", mailer.Message{
		From:    n.cfg.From,
		To:      n.cfg.AdminTo,
		ReplyTo: msg.CustomerEmail,
		Subject: adminSubject(msg),
		HTML:    adminHTML,
	}); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

func (n *Notifier) send(ctx context.Context, kind string, m mailer.Message) error {
	var err error
	for attempt := 1; attempt <= n.backoff.cfg.Attempts; attempt++ {
		if err = n.mail.Send(ctx, m); err == nil {
			n.totalSent.Add(1)
			n.metrics.MailSent(kind, true)
			return nil
		}

		var me *mailer.Error
		if !errors.As(err, &me) || !me.Temporary || attempt == n.backoff.cfg.Attempts {
			break
		}
		n.totalRetries.Add(1)
		n.metrics.MailRetried()
		slog.Warn("mail send failed, retrying", "kind", kind, "attempt", attempt, "error", err.Error())
		if serr := n.sleep(ctx, n.backoff.Delay(attempt)); serr != nil {
			return serr
		}
	}

	n.totalFailed.Add(1)
	n.metrics.MailSent(kind, false)
	n.setLastError(err)
	slog.Error("mail send failed", "kind", kind, "to", m.To, "error", err.Error())
	return err
}

func (n *Notifier) setLastError(err error) {
	n.lastErrorMu.Lock()
	n.lastError = err.Error()
	n.lastErrorMu.Unlock()
}
