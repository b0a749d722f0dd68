package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/normalize"
	"github.com/secretmenu/secretmenu-server/internal/store"
)

// ErrPlaceNotFound is returned when a place does not exist.
var ErrPlaceNotFound = store.ErrNotFound.WithMessage("place not found")

// placeColumns must match the scan order in scanPlace.
const placeColumns = `id, name, created_at`

func scanPlace(scanner interface{ Scan(dest ...any) error }) (*domain.Place, error) {
	var (
		p         domain.Place
		createdAt string
	)

	if err := scanner.Scan(&p.ID, &p.Name, &createdAt); err != nil {
		return nil, err
	}

	var err error
	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePlace inserts a new place.
// Returns store.ErrAlreadyExists on duplicate ID. Duplicate names are allowed
// here; name uniqueness is a business rule checked before insertion.
func (s *Store) CreatePlace(ctx context.Context, p *domain.Place) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO places (id, name, name_key, created_at)
		VALUES (?, ?, ?, ?)`,
		p.ID,
		p.Name,
		normalize.NameKey(p.Name),
		formatTime(p.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert place: %w", err)
	}
	return nil
}

// GetPlace retrieves a place by ID.
func (s *Store) GetPlace(ctx context.Context, placeID string) (*domain.Place, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+placeColumns+` FROM places WHERE id = ?`, placeID)

	p, err := scanPlace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaceNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindPlaceByName returns the first place whose trimmed name matches name
// case-insensitively. Returns store.ErrNotFound when there is none.
func (s *Store) FindPlaceByName(ctx context.Context, name string) (*domain.Place, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+placeColumns+` FROM places WHERE name_key = ? ORDER BY created_at ASC LIMIT 1`,
		normalize.NameKey(name))

	p, err := scanPlace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaceNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPlaces returns all places sorted by name ascending.
func (s *Store) ListPlaces(ctx context.Context) ([]*domain.Place, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+placeColumns+` FROM places ORDER BY name_key ASC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	places := []*domain.Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

// CountPlaces returns the live number of places.
func (s *Store) CountPlaces(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM places`).Scan(&n)
	return n, err
}

// DeletePlace removes a place and, through the foreign key, all its orders.
// It returns the photo file names of the removed orders so callers can clean
// up the photo directory.
func (s *Store) DeletePlace(ctx context.Context, placeID string) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT photo_path FROM orders WHERE place_id = ? AND photo_path IS NOT NULL`, placeID)
	if err != nil {
		return nil, fmt.Errorf("query photos: %w", err)
	}
	var photos []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, err
		}
		photos = append(photos, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM places WHERE id = ?`, placeID)
	if err != nil {
		return nil, fmt.Errorf("delete place: %w", err)
	}
	if err := expectOneRow(res, ErrPlaceNotFound); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return photos, nil
}
