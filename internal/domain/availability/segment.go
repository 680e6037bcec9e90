package availability

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
)

// SegmentInput carries the raw fields of a segment as callers supply them.
// Dates use YYYY-MM-DD, times HH:MM, weekdays 0 (Sunday) to 6, month days 1
// to 31.
type SegmentInput struct {
	Name           string
	Description    string
	StartTime      string
	EndTime        string
	SpecificDates  []string
	ExclusionDates []string
	DaysOfWeek     []int
	DaysOfMonth    []int
}

// Segment is a recurring time-of-day window inside an availability.
type Segment struct {
	id             string
	name           valueobject.Name
	description    valueobject.Description
	startTime      valueobject.TimeOfDay
	endTime        valueobject.TimeOfDay
	specificDates  []valueobject.Date
	exclusionDates []valueobject.Date
	daysOfWeek     []time.Weekday
	daysOfMonth    []int
}

func (s Segment) ID() string                       { return s.id }
func (s Segment) Name() string                     { return s.name.String() }
func (s Segment) Description() string              { return s.description.String() }
func (s Segment) StartTime() valueobject.TimeOfDay { return s.startTime }
func (s Segment) EndTime() valueobject.TimeOfDay   { return s.endTime }
func (s Segment) SpecificDates() []valueobject.Date {
	return slices.Clone(s.specificDates)
}
func (s Segment) ExclusionDates() []valueobject.Date {
	return slices.Clone(s.exclusionDates)
}
func (s Segment) DaysOfWeek() []time.Weekday { return slices.Clone(s.daysOfWeek) }
func (s Segment) DaysOfMonth() []int         { return slices.Clone(s.daysOfMonth) }

// Length is the duration of one occurrence.
func (s Segment) Length() valueobject.Duration {
	d, _ := s.startTime.Until(s.endTime)
	return d
}

// hasRule reports whether the segment restricts the days it applies to.
func (s Segment) hasRule() bool {
	return len(s.specificDates) > 0 || len(s.daysOfWeek) > 0 || len(s.daysOfMonth) > 0
}

// OccursOn reports whether the segment applies on d. Exclusions win over
// every rule; a segment without rules applies every day.
func (s Segment) OccursOn(d valueobject.Date) bool {
	if slices.ContainsFunc(s.exclusionDates, d.Equal) {
		return false
	}
	if !s.hasRule() {
		return true
	}
	return slices.ContainsFunc(s.specificDates, d.Equal) ||
		slices.Contains(s.daysOfWeek, d.Weekday()) ||
		slices.Contains(s.daysOfMonth, d.Day())
}

func newSegment(id string, in SegmentInput) (Segment, error) {
	fields := make(map[string]string)
	collect := func(err error) {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			for k, v := range verr.Fields {
				fields[k] = v
			}
		}
	}

	name, err := valueobject.NewName("name", in.Name)
	collect(err)
	desc, err := valueobject.NewDescription(in.Description)
	collect(err)
	start, err := valueobject.ParseTimeOfDay("start_time", in.StartTime)
	collect(err)
	end, err := valueobject.ParseTimeOfDay("end_time", in.EndTime)
	collect(err)
	if _, ok := fields["start_time"]; !ok {
		if _, ok := fields["end_time"]; !ok && end.Minutes() <= start.Minutes() {
			fields["end_time"] = "must be after start_time"
		}
	}

	specific := parseDates("specific_dates", in.SpecificDates, fields)
	excluded := parseDates("exclusion_dates", in.ExclusionDates, fields)

	weekdays := make([]time.Weekday, 0, len(in.DaysOfWeek))
	for _, wd := range in.DaysOfWeek {
		if wd < 0 || wd > 6 {
			fields["days_of_week"] = fmt.Sprintf("must be 0-6, got %d", wd)
			continue
		}
		if !slices.Contains(weekdays, time.Weekday(wd)) {
			weekdays = append(weekdays, time.Weekday(wd))
		}
	}
	monthDays := make([]int, 0, len(in.DaysOfMonth))
	for _, md := range in.DaysOfMonth {
		if md < 1 || md > 31 {
			fields["days_of_month"] = fmt.Sprintf("must be 1-31, got %d", md)
			continue
		}
		if !slices.Contains(monthDays, md) {
			monthDays = append(monthDays, md)
		}
	}

	if len(fields) > 0 {
		return Segment{}, &domain.ValidationError{Fields: fields}
	}
	return Segment{
		id:             id,
		name:           name,
		description:    desc,
		startTime:      start,
		endTime:        end,
		specificDates:  specific,
		exclusionDates: excluded,
		daysOfWeek:     weekdays,
		daysOfMonth:    monthDays,
	}, nil
}

func parseDates(field string, raw []string, fields map[string]string) []valueobject.Date {
	out := make([]valueobject.Date, 0, len(raw))
	for _, r := range raw {
		d, err := valueobject.ParseDate(field, r)
		if err != nil {
			fields[field] = fmt.Sprintf("must be YYYY-MM-DD, got %q", r)
			continue
		}
		if !slices.ContainsFunc(out, d.Equal) {
			out = append(out, d)
		}
	}
	return out
}

func (s Segment) toPrimitives() SegmentPrimitives {
	p := SegmentPrimitives{
		ID:             s.id,
		Name:           s.name.String(),
		Description:    s.description.String(),
		StartTime:      s.startTime.String(),
		EndTime:        s.endTime.String(),
		SpecificDates:  make([]string, 0, len(s.specificDates)),
		ExclusionDates: make([]string, 0, len(s.exclusionDates)),
		DaysOfWeek:     make([]int, 0, len(s.daysOfWeek)),
		DaysOfMonth:    append(make([]int, 0, len(s.daysOfMonth)), s.daysOfMonth...),
	}
	for _, d := range s.specificDates {
		p.SpecificDates = append(p.SpecificDates, d.String())
	}
	for _, d := range s.exclusionDates {
		p.ExclusionDates = append(p.ExclusionDates, d.String())
	}
	for _, wd := range s.daysOfWeek {
		p.DaysOfWeek = append(p.DaysOfWeek, int(wd))
	}
	return p
}
