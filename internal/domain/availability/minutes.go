package availability

import "github.com/jsamuelsen11/teamspace/internal/domain/valueobject"

// TotalValidMinutes expands every segment's recurrence over the
// availability's own date range and sums the minutes of each occurrence.
// Exclusion dates are skipped and specific dates outside the range are
// ignored.
func (a *Availability) TotalValidMinutes() valueobject.Duration {
	var total valueobject.Duration
	for _, seg := range a.segments {
		total = total.Add(a.segmentMinutes(seg))
	}
	return total
}

// SegmentMinutes is TotalValidMinutes restricted to one segment.
func (a *Availability) SegmentMinutes(segmentID string) (valueobject.Duration, bool) {
	seg, ok := a.Segment(segmentID)
	if !ok {
		return valueobject.Duration{}, false
	}
	return a.segmentMinutes(seg), true
}

func (a *Availability) segmentMinutes(seg Segment) valueobject.Duration {
	var total valueobject.Duration
	per := seg.Length()
	for d := a.startDate; !d.After(a.endDate); d = d.AddDays(1) {
		if seg.OccursOn(d) {
			total = total.Add(per)
		}
	}
	return total
}
