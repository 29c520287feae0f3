package mailer

import (
	"context"
	"fmt"
)

type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Error is a provider failure. Temporary ones are worth retrying.
type Error struct {
	StatusCode int
	Body       string
	Temporary  bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("mail provider http %d: %s", e.StatusCode, e.Body)
}
