// Package scheduling decides whether an employee can take a booking: time
// window overlap, approved leave, and least-loaded auto-assignment.
package scheduling

import (
	"fmt"
	"regexp"
	"time"

	"github.com/salonflow/salonflow/services/salon-service/internal/apperr"
)

const DateLayout = "2006-01-02"

// MaxDurationMinutes caps a booking at one day so windows stay within the
// int4 minute range the schema stores.
const MaxDurationMinutes = 24 * 60

var (
	dateShape  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockShape = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

// Window is a booking on one calendar date. Start and end are minutes since
// midnight; the end may run past 24:00 and still belongs to Date.
type Window struct {
	Date            time.Time
	Start           int
	DurationMinutes int
}

func (w Window) End() int { return w.Start + w.DurationMinutes }

func (w Window) DateString() string { return w.Date.Format(DateLayout) }

func (w Window) StartClock() string { return FormatClock(w.Start) }

func (w Window) EndClock() string { return FormatClock(w.End()) }

// ParseDate accepts a real calendar date in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	if !dateShape.MatchString(s) {
		return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD", s)
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not a calendar date", s)
	}
	return d, nil
}

// ParseClock parses a 24h HH:MM time into minutes since midnight.
func ParseClock(s string) (int, error) {
	m := clockShape.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("time %q is not HH:MM", s)
	}
	h := int(m[1][0]-'0')*10 + int(m[1][1]-'0')
	min := int(m[2][0]-'0')*10 + int(m[2][1]-'0')
	return h*60 + min, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func MakeWindow(date, startTime string, durationMinutes int) (Window, error) {
	d, derr := ParseDate(date)
	start, terr := ParseClock(startTime)
	if derr != nil || terr != nil {
		return Window{}, apperr.Validation("appointmentDate must be YYYY-MM-DD and startTime must be HH:mm")
	}
	if durationMinutes < 1 {
		return Window{}, apperr.FieldValidation("durationMinutes", "durationMinutes must be a positive integer")
	}
	if durationMinutes > MaxDurationMinutes {
		return Window{}, apperr.FieldValidation("durationMinutes", fmt.Sprintf("durationMinutes must not exceed %d", MaxDurationMinutes))
	}
	return Window{Date: d, Start: start, DurationMinutes: durationMinutes}, nil
}

// Overlaps treats windows as half-open: one ending at 10:00 does not overlap
// one starting at 10:00. Windows on different dates never overlap.
func Overlaps(a, b Window) bool {
	if !a.Date.Equal(b.Date) {
		return false
	}
	return a.Start < b.End() && b.Start < a.End()
}
