package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any cursor query can request.
	MaxLimit = 100
)

// Cursor represents the pagination cursor components. Score is set for
// ranked listings (trending) where rows are ordered by score first.
type Cursor struct {
	Score     *int64
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer returns the normalization result plus one to detect the next page.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor builds a URL-safe base64 cursor string from the provided values.
func EncodeCursor(cursor Cursor) string {
	payload := fmt.Sprintf("%s|%s", cursor.CreatedAt.UTC().Format(time.RFC3339Nano), cursor.ID.String())
	if cursor.Score != nil {
		payload = strconv.FormatInt(*cursor.Score, 10) + "|" + payload
	}
	return base64.URLEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes the cursor string back into its components.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.Split(string(decoded), "|")

	cursor := &Cursor{}
	switch len(parts) {
	case 2:
	case 3:
		score, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor score: %w", err)
		}
		cursor.Score = &score
		parts = parts[1:]
	default:
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
	cursor.CreatedAt = t
	cursor.ID = id
	return cursor, nil
}

// ParseSortedCursor decodes value and rejects cursors issued for a different
// ordering: ranked listings need a score, chronological ones must not have one.
func ParseSortedCursor(value string, ranked bool) (*Cursor, error) {
	cursor, err := ParseCursor(value)
	if err != nil || cursor == nil {
		return cursor, err
	}
	if ranked && cursor.Score == nil {
		return nil, fmt.Errorf("cursor was issued for a chronological listing")
	}
	if !ranked && cursor.Score != nil {
		return nil, fmt.Errorf("cursor was issued for a ranked listing")
	}
	return cursor, nil
}
