package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name          string
		input         PaginationParams
		expectedLimit int
	}{
		{"valid", PaginationParams{Limit: 20}, 20},
		{"zero defaults", PaginationParams{Limit: 0}, DefaultLimit},
		{"negative defaults", PaginationParams{Limit: -10}, DefaultLimit},
		{"capped", PaginationParams{Limit: 5000}, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.input
			p.Validate()
			assert.Equal(t, tt.expectedLimit, p.Limit)
		})
	}
}

func TestCursor_RoundTrip(t *testing.T) {
	ts := time.Date(2026, 5, 4, 3, 2, 1, 123456789, time.UTC)

	cursor := EncodeCursor(ts, "pal-abc")
	gotTime, gotID, err := DecodeCursor(cursor)
	require.NoError(t, err)
	assert.True(t, ts.Equal(gotTime))
	assert.Equal(t, "pal-abc", gotID)
}

func TestDecodeCursor_Empty(t *testing.T) {
	ts, id, err := DecodeCursor("")
	require.NoError(t, err)
	assert.True(t, ts.IsZero())
	assert.Empty(t, id)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	for _, c := range []string{"!!!", "bm9waXBl", "bm90LWEtdGltZXxpZA"} {
		_, _, err := DecodeCursor(c)
		require.Error(t, err, c)
		assert.True(t, errors.Is(err, ErrInvalidInput), c)
	}
}
