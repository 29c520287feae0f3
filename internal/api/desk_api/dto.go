package desk_api

import (
	"encoding/json"
	"time"

	"github.com/BearBump/WriteDesk/internal/feeds/activity"
	"github.com/BearBump/WriteDesk/internal/feeds/reviews"
	"github.com/BearBump/WriteDesk/internal/models"
	"github.com/BearBump/WriteDesk/internal/services/orders"
)

type errorBody struct {
	Error string `json:"error"`
}

type submitOrderRequest struct {
	ServiceType  string `json:"serviceType"`
	DocumentType string `json:"documentType"`
	Subject      string `json:"subject"`
	Topic        string `json:"topic"`
	Instructions string `json:"instructions"`
	Pages        int    `json:"pages"`
	Deadline     string `json:"deadline"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

func (r submitOrderRequest) toModel(ip string) models.OrderSubmission {
	return models.OrderSubmission{
		ServiceType:  r.ServiceType,
		DocumentType: r.DocumentType,
		Subject:      r.Subject,
		Topic:        r.Topic,
		Instructions: r.Instructions,
		Pages:        r.Pages,
		Deadline:     r.Deadline,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		ClientIP:     ip,
	}
}

// submittedOrder is what the customer sees after checkout.
type submittedOrder struct {
	ID        uint64          `json:"id"`
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Total     string          `json:"total"`
	Quote     json.RawMessage `json:"quote,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type orderFile struct {
	ID          uint64    `json:"id"`
	OrderID     uint64    `json:"orderId"`
	FileName    string    `json:"fileName"`
	URL         string    `json:"url"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

type adminOrder struct {
	ID            uint64          `json:"id"`
	Reference     string          `json:"reference"`
	Status        string          `json:"status"`
	ServiceType   string          `json:"serviceType"`
	DocumentType  string          `json:"documentType"`
	Subject       string          `json:"subject"`
	Topic         string          `json:"topic"`
	Instructions  string          `json:"instructions"`
	Pages         int             `json:"pages"`
	Deadline      string          `json:"deadline"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	CustomerPhone string          `json:"customerPhone,omitempty"`
	Country       string          `json:"country"`
	Total         string          `json:"total"`
	Quote         json.RawMessage `json:"quote,omitempty"`
	Files         []orderFile     `json:"files"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type orderPage struct {
	Orders []adminOrder `json:"orders"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type activityFeed struct {
	Items []activity.Notification `json:"items"`
}

type reviewFeed struct {
	Items []reviews.Review `json:"items"`
}

func toSubmitted(o *models.Order) submittedOrder {
	return submittedOrder{
		ID:        o.ID,
		Reference: o.Reference,
		Status:    o.Status,
		Total:     o.Total().StringFixed(2),
		Quote:     rawJSON(o.QuoteJSON),
		CreatedAt: o.CreatedAt,
	}
}

func toFile(f *models.OrderFile) orderFile {
	return orderFile{
		ID:          f.ID,
		OrderID:     f.OrderID,
		FileName:    f.FileName,
		URL:         f.URL,
		ContentType: f.ContentType,
		Size:        f.Size,
		CreatedAt:   f.CreatedAt,
	}
}

func toAdmin(o *models.Order) adminOrder {
	files := make([]orderFile, 0, len(o.Files))
	for _, f := range o.Files {
		files = append(files, toFile(f))
	}
	return adminOrder{
		ID:            o.ID,
		Reference:     o.Reference,
		Status:        o.Status,
		ServiceType:   o.ServiceType,
		DocumentType:  o.DocumentType,
		Subject:       o.Subject,
		Topic:         o.Topic,
		Instructions:  o.Instructions,
		Pages:         o.Pages,
		Deadline:      o.Deadline,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: derefString(o.CustomerPhone),
		Country:       o.Country,
		Total:         o.Total().StringFixed(2),
		Quote:         rawJSON(o.QuoteJSON),
		Files:         files,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toPage(p orders.Page) orderPage {
	out := orderPage{Orders: make([]adminOrder, 0, len(p.Orders)), Total: p.Total, Limit: p.Limit, Offset: p.Offset}
	for _, o := range p.Orders {
		out.Orders = append(out.Orders, toAdmin(o))
	}
	return out
}

func rawJSON(b []byte) json.RawMessage {
	if len(b) == 0 || !json.Valid(b) {
		return nil
	}
	return json.RawMessage(b)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
