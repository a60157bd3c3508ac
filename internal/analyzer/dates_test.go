package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	start, end, err := ParseDateRange("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 999000000, time.UTC), end, "end date covers the whole day")
}

func TestParseDateRangeSameDay(t *testing.T) {
	start, end, err := ParseDateRange("2024-03-05", "2024-03-05")
	require.NoError(t, err)
	assert.True(t, start.Before(end), "a single-day range is still a valid window")
}

func TestParseDateRangeEmpty(t *testing.T) {
	start, end, err := ParseDateRange("", "")
	require.NoError(t, err)
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())
}

func TestParseDateRangeErrors(t *testing.T) {
	_, _, err := ParseDateRange("03/01/2024", "")
	assert.Error(t, err)

	_, _, err = ParseDateRange("", "not-a-date")
	assert.Error(t, err)

	_, _, err = ParseDateRange("2024-03-31", "2024-03-01")
	assert.Error(t, err)
}
