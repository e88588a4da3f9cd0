package scheduling

import (
	"time"

	"github.com/salonflow/salonflow/services/salon-service/internal/apperr"
)

// DateRange is an inclusive span of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func ParseDateRange(start, end string) (DateRange, error) {
	s, serr := ParseDate(start)
	e, eerr := ParseDate(end)
	if serr != nil || eerr != nil {
		return DateRange{}, apperr.Validation("startDate and endDate must be YYYY-MM-DD")
	}
	return DateRange{Start: s, End: e}, nil
}

func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// RangesOverlap is inclusive: ranges sharing a single boundary day overlap.
func RangesOverlap(a, b DateRange) bool {
	return !a.Start.After(b.End) && !a.End.Before(b.Start)
}

// ComputeTotalDays counts the days in [start, end], both ends included.
func ComputeTotalDays(r DateRange) (int, error) {
	days := int(r.End.Sub(r.Start).Hours()/24) + 1
	if days < 1 {
		return 0, apperr.Validation("endDate must be same or after startDate")
	}
	return days, nil
}
