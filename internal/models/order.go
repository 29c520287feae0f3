package models

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusInProgress     = "in_progress"
	OrderStatusCompleted      = "completed"
	OrderStatusCancelled      = "cancelled"
)

// Страна клиента, если геолокация не ответила.
const UnknownCountry = "Unknown"

var orderTransitions = map[string][]string{
	OrderStatusPendingPayment: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:           {OrderStatusInProgress, OrderStatusCancelled},
	OrderStatusInProgress:     {OrderStatusCompleted, OrderStatusCancelled},
}

func IsOrderStatus(s string) bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusPaid, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
// completed and cancelled are terminal.
func CanTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID            uint64
	Reference     string
	Status        string
	ServiceType   string
	DocumentType  string
	Subject       string
	Topic         string
	Instructions  string
	Pages         int
	Deadline      string
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	Country       string
	ClientIP      string
	TotalCents    int64
	QuoteJSON     []byte
	Files         []*OrderFile
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (o *Order) Total() decimal.Decimal {
	return decimal.New(o.TotalCents, -2)
}

type OrderFile struct {
	ID          uint64
	OrderID     uint64
	FileName    string
	ObjectKey   string
	URL         string
	ContentType string
	Size        int64
	CreatedAt   time.Time
}

// OrderSubmission is what the checkout form posts.
type OrderSubmission struct {
	ServiceType  string
	DocumentType string
	Subject      string
	Topic        string
	Instructions string
	Pages        int
	Deadline     string
	Name         string
	Email        string
	Phone        string
	ClientIP     string
}

type FileUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}
