package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	require.Equal(t, DefaultLimit, NormalizeLimit(0))
	require.Equal(t, DefaultLimit, NormalizeLimit(-5))
	require.Equal(t, 10, NormalizeLimit(10))
	require.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
	require.Equal(t, 11, LimitWithBuffer(10))
}

func TestCursorRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 30, 0, 123, time.UTC)
	id := uuid.New()

	plain, err := ParseCursor(EncodeCursor(Cursor{CreatedAt: created, ID: id}))
	require.NoError(t, err)
	require.Nil(t, plain.Score)
	require.True(t, plain.CreatedAt.Equal(created))
	require.Equal(t, id, plain.ID)

	score := int64(42)
	ranked, err := ParseCursor(EncodeCursor(Cursor{Score: &score, CreatedAt: created, ID: id}))
	require.NoError(t, err)
	require.NotNil(t, ranked.Score)
	require.Equal(t, score, *ranked.Score)
	require.Equal(t, id, ranked.ID)
}

func TestParseCursorErrors(t *testing.T) {
	cursor, err := ParseCursor("  ")
	require.NoError(t, err)
	require.Nil(t, cursor)

	for _, raw := range []string{"%%%", "bm9waXBl", "eHxffHl8eg=="} {
		_, err := ParseCursor(raw)
		require.Error(t, err, raw)
	}
}

func TestParseSortedCursorChecksShape(t *testing.T) {
	score := int64(7)
	created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	ranked := EncodeCursor(Cursor{Score: &score, CreatedAt: created, ID: uuid.New()})
	chrono := EncodeCursor(Cursor{CreatedAt: created, ID: uuid.New()})

	got, err := ParseSortedCursor(ranked, true)
	require.NoError(t, err)
	require.Equal(t, score, *got.Score)

	_, err = ParseSortedCursor(chrono, true)
	require.Error(t, err)

	_, err = ParseSortedCursor(ranked, false)
	require.Error(t, err)

	got, err = ParseSortedCursor("", true)
	require.NoError(t, err)
	require.Nil(t, got)
}
