package valueobject

import (
	"fmt"
	"time"

	"github.com/jsamuelsen11/teamspace/internal/domain"
)

const (
	dateLayout      = "2006-01-02"
	timeOfDayLayout = "15:04"
	minutesPerDay   = 24 * 60
)

// Date is a calendar day without a time zone, stored as midnight UTC.
type Date struct{ t time.Time }

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(field, raw string) (Date, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return Date{}, domain.FieldError(field, fmt.Sprintf("must be YYYY-MM-DD, got %q", raw))
	}
	return Date{t: t}, nil
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string        { return d.t.Format(dateLayout) }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) AddDays(n int) Date    { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Before(o Date) bool    { return d.t.Before(o.t) }
func (d Date) After(o Date) bool     { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool     { return d.t.Equal(o.t) }

// TimeOfDay is a wall-clock time in minutes since midnight.
type TimeOfDay struct{ minutes int }

// ParseTimeOfDay parses an HH:MM string. "24:00" is accepted as end of day.
func ParseTimeOfDay(field, raw string) (TimeOfDay, error) {
	if raw == "24:00" {
		return TimeOfDay{minutes: minutesPerDay}, nil
	}
	t, err := time.Parse(timeOfDayLayout, raw)
	if err != nil {
		return TimeOfDay{}, domain.FieldError(field, fmt.Sprintf("must be HH:MM, got %q", raw))
	}
	return TimeOfDay{minutes: t.Hour()*60 + t.Minute()}, nil
}

func (t TimeOfDay) Minutes() int { return t.minutes }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

// Until returns the duration from t to end; end must not precede t.
func (t TimeOfDay) Until(end TimeOfDay) (Duration, error) {
	return NewDuration(end.minutes - t.minutes)
}
