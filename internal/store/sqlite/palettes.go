package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/coloredin/coloredin-server/internal/domain"
	"github.com/coloredin/coloredin-server/internal/store"
)

// paletteColumns must match the scan order in scanPalette.
const paletteColumns = `id, name, colors, tags, owner_id, created_at, updated_at`

func scanPalette(scanner interface{ Scan(dest ...any) error }) (*domain.Palette, error) {
	var (
		p                    domain.Palette
		colors, tags         string
		createdAt, updatedAt string
	)

	if err := scanner.Scan(&p.ID, &p.Name, &colors, &tags, &p.OwnerID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(colors), &p.Colors); err != nil {
		return nil, fmt.Errorf("decode colors of %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags of %s: %w", p.ID, err)
	}

	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &p, nil
}

// CreatePalette inserts a palette.
// Returns store.ErrAlreadyExists on a duplicate id.
func (s *Store) CreatePalette(ctx context.Context, p *domain.Palette) error {
	colors, err := json.Marshal(nonNil(p.Colors))
	if err != nil {
		return fmt.Errorf("encode colors: %w", err)
	}
	tags, err := json.Marshal(nonNil(p.Tags))
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO palettes (`+paletteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Name,
		string(colors),
		string(tags),
		p.OwnerID,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetPalette returns the palette with id.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetPalette(ctx context.Context, id string) (*domain.Palette, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paletteColumns+` FROM palettes WHERE id = ?`, id)

	p, err := scanPalette(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPalettesByOwner returns every palette owned by ownerID, newest first.
func (s *Store) ListPalettesByOwner(ctx context.Context, ownerID string) ([]*domain.Palette, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+paletteColumns+` FROM palettes
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectPalettes(rows)
}

// ListAllPalettes returns every palette, newest first.
func (s *Store) ListAllPalettes(ctx context.Context) ([]*domain.Palette, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+paletteColumns+` FROM palettes
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collectPalettes(rows)
}

// ListRecentPalettes returns one keyset page of all palettes, newest first.
func (s *Store) ListRecentPalettes(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[*domain.Palette], error) {
	params.Validate()

	after, afterID, err := store.DecodeCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	var rows *sql.Rows
	if afterID == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+paletteColumns+` FROM palettes
			ORDER BY created_at DESC, id DESC
			LIMIT ?`, params.Limit+1)
	} else {
		ts := formatTime(after)
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+paletteColumns+` FROM palettes
			WHERE created_at < ? OR (created_at = ? AND id < ?)
			ORDER BY created_at DESC, id DESC
			LIMIT ?`, ts, ts, afterID, params.Limit+1)
	}
	if err != nil {
		return nil, err
	}

	items, err := collectPalettes(rows)
	if err != nil {
		return nil, err
	}

	result := &store.PaginatedResult[*domain.Palette]{Items: items}
	if len(items) > params.Limit {
		result.Items = items[:params.Limit]
		result.HasMore = true
		last := result.Items[len(result.Items)-1]
		result.NextCursor = store.EncodeCursor(last.CreatedAt, last.ID)
	}
	return result, nil
}

// DeletePalette removes the palette with id.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) DeletePalette(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM palettes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// CountPalettes returns the number of stored palettes.
func (s *Store) CountPalettes(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM palettes`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func collectPalettes(rows *sql.Rows) ([]*domain.Palette, error) {
	defer rows.Close()

	palettes := make([]*domain.Palette, 0)
	for rows.Next() {
		p, err := scanPalette(rows)
		if err != nil {
			return nil, err
		}
		palettes = append(palettes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return palettes, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
