package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginningAndEndOfDay(t *testing.T) {
	at := time.Date(2025, 3, 15, 14, 30, 45, 123456789, time.UTC)

	start := BeginningOfDay(at)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), start)

	end := EndOfDay(at)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, 59, end.Second())
	assert.True(t, end.After(at))
	assert.Equal(t, start.Day(), end.Day())
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2025, 3, 15, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 14, DaysBetween(start, end), "time of day must not affect the count")
	assert.Equal(t, 0, DaysBetween(end, end))
}

func TestParseDateParam(t *testing.T) {
	parsed, err := ParseDateParam("2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), parsed)

	parsed, err = ParseDateParam("2025-03-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, parsed.Hour())

	_, err = ParseDateParam("15/03/2025")
	assert.Error(t, err)
}
