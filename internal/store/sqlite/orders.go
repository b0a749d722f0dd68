package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/store"
)

// ErrOrderNotFound is returned when an order does not exist.
var ErrOrderNotFound = store.ErrNotFound.WithMessage("order not found")

// orderColumns must match the scan order in scanOrder.
const orderColumns = `id, place_id, title, details, tags, photo_path, photo_blur_hash, created_at`

func scanOrder(scanner interface{ Scan(dest ...any) error }) (*domain.Order, error) {
	var (
		o         domain.Order
		tagsJSON  string
		photo     sql.NullString
		blurHash  sql.NullString
		createdAt string
	)

	err := scanner.Scan(
		&o.ID,
		&o.PlaceID,
		&o.Title,
		&o.Details,
		&tagsJSON,
		&photo,
		&blurHash,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tagsJSON), &o.Tags); err != nil {
		return nil, fmt.Errorf("decode tags for order %s: %w", o.ID, err)
	}
	if o.Tags == nil {
		o.Tags = []string{}
	}
	o.PhotoPath = photo.String
	o.PhotoBlurHash = blurHash.String

	o.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

// CreateOrder inserts a new order.
// Returns ErrPlaceNotFound when the owning place does not exist and
// store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	tags, err := encodeTags(o.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orders (id, place_id, title, details, tags, photo_path, photo_blur_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID,
		o.PlaceID,
		o.Title,
		o.Details,
		tags,
		nullString(o.PhotoPath),
		nullString(o.PhotoBlurHash),
		formatTime(o.CreatedAt),
	)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return store.ErrAlreadyExists
	case isForeignKeyViolation(err):
		return ErrPlaceNotFound
	default:
		return fmt.Errorf("insert order: %w", err)
	}
}

// GetOrder retrieves an order by ID.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, orderID)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ListOrders returns orders matching filter, newest first.
func (s *Store) ListOrders(ctx context.Context, filter store.OrderFilter) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	if filter.PlaceID != "" {
		query += ` WHERE place_id = ?`
		args = append(args, filter.PlaceID)
	}
	query += ` ORDER BY created_at DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		// Tag names are folded in Go; SQLite's lower() only handles ASCII.
		if len(filter.AnyTags) > 0 && !o.HasAnyTag(filter.AnyTags) {
			continue
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// CountOrders returns the live number of orders across all places.
func (s *Store) CountOrders(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

// CountOrdersWithPhotos returns how many orders have a photo attached.
func (s *Store) CountOrdersWithPhotos(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE photo_path IS NOT NULL AND photo_path != ''`).Scan(&n)
	return n, err
}

// UpdateOrder replaces the mutable fields of an order: title, details, tags
// and photo. PlaceID and CreatedAt are fixed at creation.
func (s *Store) UpdateOrder(ctx context.Context, o *domain.Order) error {
	tags, err := encodeTags(o.Tags)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET title = ?, details = ?, tags = ?, photo_path = ?, photo_blur_hash = ?
		WHERE id = ?`,
		o.Title,
		o.Details,
		tags,
		nullString(o.PhotoPath),
		nullString(o.PhotoBlurHash),
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return expectOneRow(res, ErrOrderNotFound)
}

// DeleteOrder removes an order.
func (s *Store) DeleteOrder(ctx context.Context, orderID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return expectOneRow(res, ErrOrderNotFound)
}
