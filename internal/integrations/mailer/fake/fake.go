package fake

import (
	"context"
	"log/slog"
	"sync"

	"github.com/BearBump/WriteDesk/internal/integrations/mailer"
)

// FakeClient пишет письма в лог и запоминает их вместо отправки.
// FailTimes первых вызовов завершаются временной ошибкой.
type FakeClient struct {
	mu        sync.Mutex
	sent      []mailer.Message
	calls     int
	FailTimes int
}

func New() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Send(ctx context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.calls <= f.FailTimes {
		return &mailer.Error{StatusCode: 503, Body: "fake outage", Temporary: true}
	}
	f.sent = append(f.sent, msg)
	slog.Info("fake mail sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (f *FakeClient) Sent() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.Message(nil), f.sent...)
}

func (f *FakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
