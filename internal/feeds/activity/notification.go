package activity

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindOrder      Kind = "order"
	KindCompletion Kind = "completion"
)

// Notification is either an *OrderNotification or a *CompletionNotification.
type Notification interface {
	Kind() Kind
	At() time.Time
	isNotification()
}

type OrderNotification struct {
	ID               string    `json:"id"`
	Country          string    `json:"country"`
	CityLabel        string    `json:"cityLabel"`
	Subject          string    `json:"subject"`
	Timestamp        time.Time `json:"timestamp"`
	DayLabel         string    `json:"dayLabel"`
	RelativeDayIndex int       `json:"relativeDayIndex"`
}

type CompletionNotification struct {
	ID                   string    `json:"id"`
	Country              string    `json:"country"`
	OrderReferenceCode   string    `json:"orderReferenceCode"`
	Subject              string    `json:"subject"`
	Timestamp            time.Time `json:"timestamp"`
	DayLabel             string    `json:"dayLabel"`
	LinkedOrderID        string    `json:"linkedOrderId"`
	LinkedOrderTimestamp time.Time `json:"linkedOrderTimestamp"`
}

func (*OrderNotification) Kind() Kind { return KindOrder }
func (n *OrderNotification) At() time.Time { return n.Timestamp }
func (*OrderNotification) isNotification() {}
func (*CompletionNotification) Kind() Kind { return KindCompletion }
func (n *CompletionNotification) At() time.Time { return n.Timestamp }
func (*CompletionNotification) isNotification() {}

func (n *OrderNotification) MarshalJSON() ([]byte, error) {
	type plain OrderNotification
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*plain
	}{KindOrder, (*plain)(n)})
}

func (n *CompletionNotification) MarshalJSON() ([]byte, error) {
	type plain CompletionNotification
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*plain
	}{KindCompletion, (*plain)(n)})
}

// DecodeFeed reverses json.Marshal of a []Notification.
func DecodeFeed(b []byte) ([]Notification, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrap(err, "decode feed")
	}
	out := make([]Notification, 0, len(raw))
	for _, r := range raw {
		var head struct {
			Kind Kind `json:"kind"`
		}
		if err := json.Unmarshal(r, &head); err != nil {
			return nil, errors.Wrap(err, "decode feed item")
		}
		switch head.Kind {
		case KindOrder:
			var n OrderNotification
			if err := json.Unmarshal(r, &n); err != nil {
				return nil, errors.Wrap(err, "decode order item")
			}
			out = append(out, &n)
		case KindCompletion:
			var n CompletionNotification
			if err := json.Unmarshal(r, &n); err != nil {
				return nil, errors.Wrap(err, "decode completion item")
			}
			out = append(out, &n)
		default:
			return nil, errors.Errorf("unknown feed item kind %q", head.Kind)
		}
	}
	return out, nil
}
