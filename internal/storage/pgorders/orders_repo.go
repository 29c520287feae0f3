package pgorders

import (
	"context"
	"time"

	"github.com/BearBump/WriteDesk/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const orderColumns = `
  id, reference, status, service_type, document_type,
  subject, topic, instructions, pages, deadline,
  customer_name, customer_email, customer_phone,
  country, client_ip, total_cents, quote,
  created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	if err := row.Scan(
		&o.ID, &o.Reference, &o.Status, &o.ServiceType, &o.DocumentType,
		&o.Subject, &o.Topic, &o.Instructions, &o.Pages, &o.Deadline,
		&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.Country, &o.ClientIP, &o.TotalCents, &o.QuoteJSON,
		&o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrder inserts o and fills in ID and timestamps.
func (s *Storage) CreateOrder(ctx context.Context, o *models.Order) error {
	now := time.Now().UTC()
	var quote any
	if len(o.QuoteJSON) > 0 {
		quote = o.QuoteJSON
	}

	err := s.db.QueryRow(ctx, `
INSERT INTO orders (
  reference, status, service_type, document_type,
  subject, topic, instructions, pages, deadline,
  customer_name, customer_email, customer_phone,
  country, client_ip, total_cents, quote,
  created_at, updated_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$17)
RETURNING id
`, o.Reference, o.Status, o.ServiceType, o.DocumentType,
		o.Subject, o.Topic, o.Instructions, o.Pages, o.Deadline,
		o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.Country, o.ClientIP, o.TotalCents, quote, now).Scan(&o.ID)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}
	o.CreatedAt = now
	o.UpdatedAt = now
	return nil
}

// GetOrder returns the order with its files, or ErrNotFound.
func (s *Storage) GetOrder(ctx context.Context, id uint64) (*models.Order, error) {
	o, err := scanOrder(s.db.QueryRow(ctx, `SELECT`+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select order")
	}

	files, err := s.ListOrderFiles(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Files = files
	return o, nil
}

// ListOrders pages through orders newest first and reports the total count.
func (s *Storage) ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, int, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count orders")
	}

	rows, err := s.db.Query(ctx, `SELECT`+orderColumns+`
FROM orders
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "select orders")
	}
	defer rows.Close()

	out := make([]*models.Order, 0, limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "scan order")
		}
		out = append(out, o)
	}
	if rows.Err() != nil {
		return nil, 0, errors.Wrap(rows.Err(), "rows")
	}
	return out, total, nil
}

// UpdateStatus moves an order from one status to another. It fails with
// ErrStatusConflict when the stored status is no longer from.
func (s *Storage) UpdateStatus(ctx context.Context, id uint64, from, to string) (*models.Order, error) {
	o, err := scanOrder(s.db.QueryRow(ctx, `
UPDATE orders
SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2
RETURNING`+orderColumns, id, from, to))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, errors.Wrap(err, "update order status")
	}
	return o, nil
}
