// Package availability implements the Availability aggregate: a date range
// subdivided into recurring time-of-day segments. Segments, dates and details
// can only change while the availability is ACTIVE.
package availability

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
)

const aggregateType = "availability"

// Availability is immutable: every operation returns a new *Availability.
type Availability struct {
	id          string
	projectID   string
	name        valueobject.Name
	description valueobject.Description
	startDate   valueobject.Date
	endDate     valueobject.Date
	state       lifecycle.AvailabilityState
	segments    []Segment
	createdAt   time.Time
	events      event.Pending
}

// New creates an ACTIVE availability over [startDate, endDate].
func New(projectID, actorUserID, name, description, startDate, endDate string, now time.Time) (*Availability, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	if projectID == "" {
		return nil, domain.FieldError("project_id", "is required")
	}
	n, err := valueobject.NewName("name", name)
	if err != nil {
		return nil, err
	}
	d, err := valueobject.NewDescription(description)
	if err != nil {
		return nil, err
	}
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	a := &Availability{
		id:          uuid.NewString(),
		projectID:   projectID,
		name:        n,
		description: d,
		startDate:   start,
		endDate:     end,
		state:       lifecycle.AvailabilityActive,
		createdAt:   now.UTC(),
	}
	a.record(event.AvailabilityCreated, map[string]any{
		"projectId":   projectID,
		"actorUserId": actorUserID,
		"name":        n.String(),
		"startDate":   start.String(),
		"endDate":     end.String(),
	}, now)
	return a, nil
}

func (a *Availability) ID() string                         { return a.id }
func (a *Availability) ProjectID() string                  { return a.projectID }
func (a *Availability) Name() string                       { return a.name.String() }
func (a *Availability) Description() string                { return a.description.String() }
func (a *Availability) StartDate() valueobject.Date        { return a.startDate }
func (a *Availability) EndDate() valueobject.Date          { return a.endDate }
func (a *Availability) State() lifecycle.AvailabilityState { return a.state }
func (a *Availability) CreatedAt() time.Time               { return a.createdAt }

// Segments returns the segments in insertion order.
func (a *Availability) Segments() []Segment { return slices.Clone(a.segments) }

// Segment returns the segment with the given id.
func (a *Availability) Segment(id string) (Segment, bool) {
	if i := a.segmentIndex(id); i >= 0 {
		return a.segments[i], true
	}
	return Segment{}, false
}

// PullDomainEvents returns a copy without pending events together with the
// drained events in emission order.
func (a *Availability) PullDomainEvents() (*Availability, []event.Event) {
	events := a.events.Events()
	next := a.clone()
	next.events = nil
	return next, events
}

// PendingEvents returns the events not yet pulled.
func (a *Availability) PendingEvents() []event.Event { return a.events.Events() }

// AddSegment appends a segment built from in.
func (a *Availability) AddSegment(actorUserID string, in SegmentInput, now time.Time) (*Availability, Segment, error) {
	if err := a.step(actorUserID, lifecycle.AvailabilityAddSegment); err != nil {
		return nil, Segment{}, err
	}
	seg, err := newSegment(uuid.NewString(), in)
	if err != nil {
		return nil, Segment{}, err
	}
	next := a.clone()
	next.segments = append(next.segments, seg)
	next.record(event.AvailabilitySegmentAdded, map[string]any{
		"actorUserId": actorUserID,
		"segmentId":   seg.id,
		"name":        seg.name.String(),
	}, now)
	return next, seg, nil
}

// UpdateSegment replaces every field of an existing segment, keeping its id
// and position.
func (a *Availability) UpdateSegment(actorUserID, segmentID string, in SegmentInput, now time.Time) (*Availability, error) {
	if err := a.step(actorUserID, lifecycle.AvailabilityUpdateSegment); err != nil {
		return nil, err
	}
	i := a.segmentIndex(segmentID)
	if i < 0 {
		return nil, domain.NotFound("segment %s not found in availability %s", segmentID, a.id)
	}
	seg, err := newSegment(segmentID, in)
	if err != nil {
		return nil, err
	}
	next := a.clone()
	next.segments[i] = seg
	next.record(event.AvailabilitySegmentUpdated, map[string]any{
		"actorUserId": actorUserID,
		"segmentId":   segmentID,
	}, now)
	return next, nil
}

// RemoveSegment drops a segment. Unknown ids fail with NOT_FOUND.
func (a *Availability) RemoveSegment(actorUserID, segmentID string, now time.Time) (*Availability, error) {
	if err := a.step(actorUserID, lifecycle.AvailabilityRemoveSegment); err != nil {
		return nil, err
	}
	i := a.segmentIndex(segmentID)
	if i < 0 {
		return nil, domain.NotFound("segment %s not found in availability %s", segmentID, a.id)
	}
	next := a.clone()
	next.segments = slices.Delete(next.segments, i, i+1)
	next.record(event.AvailabilitySegmentRemoved, map[string]any{
		"actorUserId": actorUserID,
		"segmentId":   segmentID,
	}, now)
	return next, nil
}

// UpdateDateRange replaces the date range.
func (a *Availability) UpdateDateRange(actorUserID, startDate, endDate string, now time.Time) (*Availability, error) {
	if err := a.step(actorUserID, lifecycle.AvailabilityUpdateDates); err != nil {
		return nil, err
	}
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	if start.Equal(a.startDate) && end.Equal(a.endDate) {
		return a, nil
	}
	next := a.clone()
	next.startDate, next.endDate = start, end
	next.record(event.AvailabilityDatesUpdated, map[string]any{
		"actorUserId": actorUserID,
		"startDate":   start.String(),
		"endDate":     end.String(),
	}, now)
	return next, nil
}

// UpdateDetails replaces name and description.
func (a *Availability) UpdateDetails(actorUserID, name, description string, now time.Time) (*Availability, error) {
	if err := a.step(actorUserID, lifecycle.AvailabilityUpdateDetails); err != nil {
		return nil, err
	}
	n, err := valueobject.NewName("name", name)
	if err != nil {
		return nil, err
	}
	d, err := valueobject.NewDescription(description)
	if err != nil {
		return nil, err
	}
	if n == a.name && d == a.description {
		return a, nil
	}
	next := a.clone()
	next.name, next.description = n, d
	next.record(event.AvailabilityUpdated, map[string]any{
		"actorUserId": actorUserID,
		"name":        n.String(),
	}, now)
	return next, nil
}

// Archive freezes the availability.
func (a *Availability) Archive(actorUserID string, now time.Time) (*Availability, error) {
	return a.transition(actorUserID, lifecycle.AvailabilityArchive, event.AvailabilityArchived, now)
}

// Reactivate makes an archived availability editable again.
func (a *Availability) Reactivate(actorUserID string, now time.Time) (*Availability, error) {
	return a.transition(actorUserID, lifecycle.AvailabilityReactivate, event.AvailabilityReactivated, now)
}

func (a *Availability) transition(actorUserID string, ev lifecycle.AvailabilityEvent, eventType string, now time.Time) (*Availability, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	reached, err := lifecycle.AvailabilityMachine.Next(a.state, ev)
	if err != nil {
		return nil, err
	}
	next := a.clone()
	next.state = reached
	next.record(eventType, map[string]any{"actorUserId": actorUserID}, now)
	return next, nil
}

// step validates that ev is legal in the current state. Mutating events all
// loop back to ACTIVE, so only legality matters.
func (a *Availability) step(actorUserID string, ev lifecycle.AvailabilityEvent) error {
	if actorUserID == "" {
		return domain.Unauthorized("actor is required")
	}
	_, err := lifecycle.AvailabilityMachine.Next(a.state, ev)
	return err
}

func (a *Availability) segmentIndex(id string) int {
	return slices.IndexFunc(a.segments, func(s Segment) bool { return s.id == id })
}

func (a *Availability) clone() *Availability {
	next := *a
	next.segments = slices.Clone(a.segments)
	return &next
}

func (a *Availability) record(eventType string, payload map[string]any, now time.Time) {
	a.events = a.events.Append(event.New(eventType, aggregateType, a.id, payload, now))
}

func parseRange(startDate, endDate string) (valueobject.Date, valueobject.Date, error) {
	start, err := valueobject.ParseDate("start_date", startDate)
	if err != nil {
		return valueobject.Date{}, valueobject.Date{}, err
	}
	end, err := valueobject.ParseDate("end_date", endDate)
	if err != nil {
		return valueobject.Date{}, valueobject.Date{}, err
	}
	if end.Before(start) {
		return valueobject.Date{}, valueobject.Date{}, domain.FieldError("end_date", "must not precede start_date")
	}
	return start, end, nil
}
