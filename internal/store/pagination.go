package store

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Pagination limits for keyset-paginated lists.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// PaginationParams contains keyset pagination request parameters.
type PaginationParams struct {
	Limit  int    // Items per page, defaults to DefaultLimit and caps at MaxLimit
	Cursor string // Opaque cursor from a previous page, empty for the first page
}

// PaginatedResult contains one page of items.
type PaginatedResult[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"` // Empty on the last page
	HasMore    bool   `json:"has_more"`
}

// Validate clamps Limit into [1, MaxLimit].
func (p *PaginationParams) Validate() {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// EncodeCursor builds an opaque cursor from the sort key of the last item on
// a page: its creation time and id.
func EncodeCursor(createdAt time.Time, id string) string {
	raw := createdAt.UTC().Format(time.RFC3339Nano) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor reverses EncodeCursor. An empty cursor decodes to zero values.
func DecodeCursor(cursor string) (time.Time, string, error) {
	if cursor == "" {
		return time.Time{}, "", nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid cursor: %w", ErrInvalidInput.WithCause(err))
	}

	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return time.Time{}, "", fmt.Errorf("invalid cursor: %w", ErrInvalidInput)
	}

	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid cursor: %w", ErrInvalidInput.WithCause(err))
	}
	return t, id, nil
}
