package pgorders

import (
	"context"
	"time"

	"github.com/BearBump/WriteDesk/internal/models"
	"github.com/pkg/errors"
)

func (s *Storage) AddOrderFile(ctx context.Context, f *models.OrderFile) error {
	now := time.Now().UTC()
	err := s.db.QueryRow(ctx, `
INSERT INTO order_files (order_id, file_name, object_key, url, content_type, size_bytes, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id
`, f.OrderID, f.FileName, f.ObjectKey, f.URL, f.ContentType, f.Size, now).Scan(&f.ID)
	if err != nil {
		return errors.Wrap(err, "insert order file")
	}
	f.CreatedAt = now
	return nil
}

func (s *Storage) ListOrderFiles(ctx context.Context, orderID uint64) ([]*models.OrderFile, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, order_id, file_name, object_key, url, content_type, size_bytes, created_at
FROM order_files
WHERE order_id = $1
ORDER BY id
`, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "select order files")
	}
	defer rows.Close()

	out := []*models.OrderFile{}
	for rows.Next() {
		var f models.OrderFile
		if err := rows.Scan(&f.ID, &f.OrderID, &f.FileName, &f.ObjectKey, &f.URL, &f.ContentType, &f.Size, &f.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan order file")
		}
		out = append(out, &f)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}
