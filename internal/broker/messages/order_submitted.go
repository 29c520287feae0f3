package messages

import "time"

const TopicOrderSubmitted = "writedesk.order.submitted"

// OrderSubmitted is published once an order is stored, keyed by reference.
type OrderSubmitted struct {
	OrderID       uint64    `json:"order_id"`
	Reference     string    `json:"reference"`
	ServiceType   string    `json:"service_type"`
	DocumentType  string    `json:"document_type,omitempty"`
	Subject       string    `json:"subject"`
	Pages         int       `json:"pages"`
	Deadline      string    `json:"deadline"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Country       string    `json:"country"`
	Total         string    `json:"total"`
	IsRushOrder   bool      `json:"is_rush_order"`
	SubmittedAt   time.Time `json:"submitted_at"`
}
