package scheduling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonflow/salonflow/services/salon-service/internal/apperr"
)

func mustWindow(t *testing.T, date, start string, minutes int) Window {
	t.Helper()
	w, err := MakeWindow(date, start, minutes)
	require.NoError(t, err)
	return w
}

func TestMakeWindow(t *testing.T) {
	w := mustWindow(t, "2025-06-01", "10:15", 45)
	assert.Equal(t, 615, w.Start)
	assert.Equal(t, 660, w.End())
	assert.Equal(t, "2025-06-01", w.DateString())
	assert.Equal(t, "11:00", w.EndClock())

	late := mustWindow(t, "2025-06-01", "23:30", 90)
	assert.Equal(t, "25:00", late.EndClock())

	day := mustWindow(t, "2025-06-01", "00:00", MaxDurationMinutes)
	assert.Equal(t, "24:00", day.EndClock())
}

func TestMakeWindowRejectsBadInput(t *testing.T) {
	cases := []struct {
		name     string
		date     string
		start    string
		duration int
	}{
		{"date shape", "2025-6-1", "10:00", 30},
		{"impossible date", "2025-02-30", "10:00", 30},
		{"hour out of range", "2025-06-01", "24:00", 30},
		{"single digit hour", "2025-06-01", "9:00", 30},
		{"seconds", "2025-06-01", "10:00:00", 30},
		{"zero duration", "2025-06-01", "10:00", 0},
		{"negative duration", "2025-06-01", "10:00", -15},
		{"longer than a day", "2025-06-01", "10:00", MaxDurationMinutes + 1},
		{"int32 overflow", "2025-06-01", "23:00", math.MaxInt32},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MakeWindow(tc.date, tc.start, tc.duration)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestOverlapsBoundaryIsExclusive(t *testing.T) {
	a := mustWindow(t, "2025-06-01", "10:00", 30)
	b := mustWindow(t, "2025-06-01", "10:30", 30)
	assert.False(t, Overlaps(a, b))
	assert.False(t, Overlaps(b, a))
}

func TestOverlapsSymmetric(t *testing.T) {
	windows := []Window{
		mustWindow(t, "2025-06-01", "09:00", 60),
		mustWindow(t, "2025-06-01", "09:30", 15),
		mustWindow(t, "2025-06-01", "09:59", 1),
		mustWindow(t, "2025-06-01", "10:00", 120),
		mustWindow(t, "2025-06-01", "11:45", 30),
		mustWindow(t, "2025-06-02", "09:00", 60),
	}
	for _, a := range windows {
		for _, b := range windows {
			assert.Equal(t, Overlaps(a, b), Overlaps(b, a), "%+v vs %+v", a, b)
		}
	}
}

func TestOverlapsNeverAcrossDates(t *testing.T) {
	a := mustWindow(t, "2025-06-01", "10:00", 60)
	b := mustWindow(t, "2025-06-02", "10:00", 60)
	assert.False(t, Overlaps(a, b))
}

func TestOverlapsPartialAndContained(t *testing.T) {
	base := mustWindow(t, "2025-06-01", "10:00", 30)
	assert.True(t, Overlaps(base, mustWindow(t, "2025-06-01", "10:15", 30)))
	assert.True(t, Overlaps(base, mustWindow(t, "2025-06-01", "10:05", 5)))
	assert.True(t, Overlaps(base, mustWindow(t, "2025-06-01", "09:00", 240)))
	assert.False(t, Overlaps(base, mustWindow(t, "2025-06-01", "09:30", 30)))
}
