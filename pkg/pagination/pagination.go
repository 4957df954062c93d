package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size used when the caller does not pass one.
	DefaultLimit = 25
	// MaxLimit caps how many rows a single page can request.
	MaxLimit = 100
)

// Params carries cursor pagination inputs from controllers into repos.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor orders pages by (created_at, id) so rows created in the same
// instant still page deterministically.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Page wraps one page of results with the cursor for the next one.
type Page[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor,omitempty"`
}

// NormalizeLimit clamps limit to [1, MaxLimit], defaulting when unset.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer returns the normalized limit plus one row so repos can
// detect whether another page exists.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// NewPage trims an over-fetched slice to the requested limit and encodes the
// next cursor from the last kept row.
func NewPage[T any](items []T, limit int, cursorOf func(T) Cursor) Page[T] {
	limit = NormalizeLimit(limit)
	if len(items) <= limit {
		return Page[T]{Items: items}
	}
	items = items[:limit]
	next := EncodeCursor(cursorOf(items[len(items)-1]))
	return Page[T]{Items: items, NextCursor: &next}
}

// EncodeCursor builds an opaque base64 cursor from its components.
func EncodeCursor(cursor Cursor) string {
	payload := fmt.Sprintf("%s|%s", cursor.CreatedAt.UTC().Format(time.RFC3339Nano), cursor.ID.String())
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes a cursor string; empty input yields a nil cursor.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{
		CreatedAt: t,
		ID:        id,
	}, nil
}
