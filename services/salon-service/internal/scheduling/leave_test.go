package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	r, err := ParseDateRange(start, end)
	require.NoError(t, err)
	return r
}

func TestComputeTotalDays(t *testing.T) {
	days, err := ComputeTotalDays(mustRange(t, "2025-06-01", "2025-06-05"))
	require.NoError(t, err)
	assert.Equal(t, 5, days)

	days, err = ComputeTotalDays(mustRange(t, "2025-06-01", "2025-06-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, days)

	days, err = ComputeTotalDays(mustRange(t, "2024-02-28", "2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 3, days)

	_, err = ComputeTotalDays(mustRange(t, "2025-06-05", "2025-06-01"))
	assert.Error(t, err)
}

func TestRangesOverlapInclusive(t *testing.T) {
	existing := mustRange(t, "2025-01-10", "2025-01-15")

	assert.True(t, RangesOverlap(existing, mustRange(t, "2025-01-15", "2025-01-20")))
	assert.True(t, RangesOverlap(existing, mustRange(t, "2025-01-05", "2025-01-10")))
	assert.True(t, RangesOverlap(existing, mustRange(t, "2025-01-12", "2025-01-12")))
	assert.False(t, RangesOverlap(existing, mustRange(t, "2025-01-16", "2025-01-20")))
	assert.False(t, RangesOverlap(existing, mustRange(t, "2025-01-01", "2025-01-09")))
}

func TestDateRangeContains(t *testing.T) {
	r := mustRange(t, "2025-06-01", "2025-06-05")
	for _, day := range []string{"2025-06-01", "2025-06-03", "2025-06-05"} {
		d, err := ParseDate(day)
		require.NoError(t, err)
		assert.True(t, r.Contains(d), day)
	}
	d, err := ParseDate("2025-06-06")
	require.NoError(t, err)
	assert.False(t, r.Contains(d))
}

func TestParseDateRangeRejectsShape(t *testing.T) {
	_, err := ParseDateRange("2025/06/01", "2025-06-02")
	assert.Error(t, err)
}
