//go:build unit

package queries_test

import (
	"encoding/base64"
	"testing"
	"time"

	"service-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterCursor(t *testing.T) {
	t.Run("round trip keeps microseconds", func(t *testing.T) {
		at := time.Date(2025, 6, 1, 10, 0, 0, 123456789, time.UTC)
		id := uuid.New()

		gotAt, gotID, err := queries.DecodeAfterCursor(queries.EncodeAfterCursor(at, id))
		require.NoError(t, err)
		assert.True(t, at.Truncate(time.Microsecond).Equal(gotAt))
		assert.Equal(t, id, gotID)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		enc := func(s string) string { return base64.URLEncoding.EncodeToString([]byte(s)) }
		for name, cursor := range map[string]string{
			"empty":           "",
			"not base64":      "%%%",
			"unknown version": enc("v2:1-" + uuid.NewString()),
			"no separator":    enc("v1:12345"),
			"bad timestamp":   enc("v1:abc-" + uuid.NewString()),
			"bad uuid":        enc("v1:12345-not-a-uuid"),
		} {
			t.Run(name, func(t *testing.T) {
				_, _, err := queries.DecodeAfterCursor(cursor)
				require.Error(t, err)
			})
		}
	})
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(-5))
	assert.Equal(t, 7, queries.ValidateLimit(7))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(1000))
}

func TestSchedule(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	at, err := queries.ParseSchedule("2025-06-03", "09:30", kolkata)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 3, 4, 0, 0, 0, time.UTC), at.UTC())

	date, clock := queries.SplitSchedule(at.UTC(), kolkata)
	assert.Equal(t, "2025-06-03", date)
	assert.Equal(t, "09:30", clock)

	_, err = queries.ParseSchedule("03/06/2025", "09:30", kolkata)
	require.ErrorIs(t, err, queries.ErrInvalidSchedule)
}
