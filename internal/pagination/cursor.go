package pagination

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/cloo-solutions/tryonadmin/internal/domain"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// Cursor represents a decoded pagination cursor. A cursor is only valid
// against the view version it was issued for.
type Cursor struct {
	Offset  int
	Version uint64
}

// PageResult represents a paginated result set
type PageResult[T any] struct {
	Items   []T    `json:"items"`
	Cursor  string `json:"cursor,omitempty"`
	HasMore bool   `json:"has_more"`
	Total   int    `json:"total"`
	Version uint64 `json:"version"`
}

// EncodeCursor creates a base64-encoded cursor from a view offset and version
func EncodeCursor(offset int, version uint64) string {
	raw := strconv.Itoa(offset) + "|" + strconv.FormatUint(version, 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor decodes a cursor. An empty cursor decodes to nil.
func DecodeCursor(cursor string) (*Cursor, error) {
	if cursor == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, domain.ErrInvalidCursor
	}

	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, domain.ErrInvalidCursor
	}

	offset, err := strconv.Atoi(parts[0])
	if err != nil || offset < 0 {
		return nil, domain.ErrInvalidCursor
	}
	version, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidCursor
	}

	return &Cursor{Offset: offset, Version: version}, nil
}

// ClampLimit maps non-positive limits to DefaultLimit and caps at MaxLimit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, MaxLimit)
}

// Paginate slices items, which must be the full view at version, into one
// page. A cursor from a different version is rejected with
// domain.ErrStaleCursor.
func Paginate[T any](items []T, version uint64, cursor *Cursor, limit int) (PageResult[T], error) {
	limit = ClampLimit(limit)

	start := 0
	if cursor != nil {
		if cursor.Version != version {
			return PageResult[T]{}, domain.ErrStaleCursor
		}
		start = min(cursor.Offset, len(items))
	}
	end := min(start+limit, len(items))

	page := PageResult[T]{
		Items:   items[start:end],
		HasMore: end < len(items),
		Total:   len(items),
		Version: version,
	}
	if page.HasMore {
		page.Cursor = EncodeCursor(end, version)
	}
	return page, nil
}
