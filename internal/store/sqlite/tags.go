package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/secretmenu/secretmenu-server/internal/domain"
	"github.com/secretmenu/secretmenu-server/internal/store"
)

// ErrTagNotFound is returned when a tag does not exist.
var ErrTagNotFound = store.ErrNotFound.WithMessage("tag not found")

// tagColumns must match the scan order in scanTag.
const tagColumns = `id, name, color, created_at`

func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var (
		t         domain.Tag
		color     sql.NullString
		createdAt string
	)

	if err := scanner.Scan(&t.ID, &t.Name, &color, &createdAt); err != nil {
		return nil, err
	}

	if color.Valid {
		c := color.String
		t.Color = &c
	}

	var err error
	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTag inserts a new tag. Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, color, created_at)
		VALUES (?, ?, ?, ?)`,
		t.ID,
		t.Name,
		nullableString(t.Color),
		formatTime(t.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

// GetTag retrieves a tag by ID.
func (s *Store) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, tagID)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns all tags sorted by name ascending.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY name COLLATE NOCASE ASC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// UpdateTag replaces a tag's name and color. Orders that carry the old name
// keep it.
func (s *Store) UpdateTag(ctx context.Context, t *domain.Tag) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tags SET name = ?, color = ? WHERE id = ?`,
		t.Name, nullableString(t.Color), t.ID)
	if err != nil {
		return fmt.Errorf("update tag: %w", err)
	}
	return expectOneRow(res, ErrTagNotFound)
}

// DeleteTag removes a tag record. Orders that carry its name keep it.
func (s *Store) DeleteTag(ctx context.Context, tagID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, tagID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return expectOneRow(res, ErrTagNotFound)
}

// CountTags returns the live number of tags.
func (s *Store) CountTags(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags`).Scan(&n)
	return n, err
}
