package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDateKey(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	t.Run("iso prefixed strings truncate to the date part", func(t *testing.T) {
		for _, raw := range []string{
			"2025-11-03",
			"2025-11-03T09:30:00",
			"2025-11-03T09:30:00Z",
			"2025-11-03 09:30:00",
		} {
			key, ok := NormalizeDateKey(raw, loc)
			assert.True(t, ok, raw)
			assert.Equal(t, "2025-11-03", key, raw)
		}
	})

	t.Run("day month abbreviation year", func(t *testing.T) {
		key, ok := NormalizeDateKey("03-Nov-2025", loc)
		assert.True(t, ok)
		assert.Equal(t, "2025-11-03", key)

		key, ok = NormalizeDateKey("3-nov-2025", loc)
		assert.True(t, ok)
		assert.Equal(t, "2025-11-03", key)

		key, ok = NormalizeDateKey("31-DEC-2025", loc)
		assert.True(t, ok)
		assert.Equal(t, "2025-12-31", key)
	})

	t.Run("overflowing calendar days are rejected, not normalized", func(t *testing.T) {
		_, ok := NormalizeDateKey("31-Feb-2025", loc)
		assert.False(t, ok)

		_, ok = NormalizeDateKey("32-Jan-2025", loc)
		assert.False(t, ok)
	})

	t.Run("loose free text shapes", func(t *testing.T) {
		for _, raw := range []string{
			"3 November 2025",
			"3 Nov 2025",
			"Nov 3, 2025",
			"03/11/2025",
			"2025/11/03",
		} {
			key, ok := NormalizeDateKey(raw, loc)
			assert.True(t, ok, raw)
			assert.Equal(t, "2025-11-03", key, raw)
		}
	})

	t.Run("garbage returns ok false, never panics", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "not a date", "99-Zzz-20"} {
			_, ok := NormalizeDateKey(raw, loc)
			assert.False(t, ok, raw)
		}
	})

	t.Run("round trip through parse and format", func(t *testing.T) {
		key, ok := NormalizeDateKey("03-Nov-2025", loc)
		require.True(t, ok)
		date, err := ParseDateKey(key, loc)
		require.NoError(t, err)
		assert.Equal(t, key, FormatDateKey(date))
	})
}

func TestMonthBounds(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	start, end := MonthBounds(time.Date(2025, time.November, 15, 13, 45, 0, 0, loc))
	assert.Equal(t, time.Date(2025, time.November, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, loc), end)
}

func TestParseMonthKey(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	start, err := ParseMonthKey("2025-11", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.November, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, "2025-11", FormatMonthKey(start))

	_, err = ParseMonthKey("November 2025", loc)
	assert.Error(t, err)
}

func TestIsWeekend(t *testing.T) {
	loc := time.UTC

	assert.True(t, IsWeekend(time.Date(2025, time.November, 1, 0, 0, 0, 0, loc)))  // Saturday
	assert.True(t, IsWeekend(time.Date(2025, time.November, 2, 0, 0, 0, 0, loc)))  // Sunday
	assert.False(t, IsWeekend(time.Date(2025, time.November, 3, 0, 0, 0, 0, loc))) // Monday
}

func TestStartCurrentDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	midnight := StartCurrentDay(time.Date(2025, time.November, 3, 18, 22, 7, 0, loc))
	assert.Equal(t, time.Date(2025, time.November, 3, 0, 0, 0, 0, loc), midnight)

	next := StartNextDay(midnight)
	assert.Equal(t, time.Date(2025, time.November, 4, 0, 0, 0, 0, loc), next)
}
