package availability

import (
	"time"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
)

// Primitives is the flat, JSON-serializable snapshot of an Availability.
type Primitives struct {
	ID          string              `json:"id"`
	ProjectID   string              `json:"project_id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	State       string              `json:"state"`
	CreatedAt   time.Time           `json:"created_at"`
	Segments    []SegmentPrimitives `json:"segments"`
}

type SegmentPrimitives struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	SpecificDates  []string `json:"specific_dates"`
	ExclusionDates []string `json:"exclusion_dates"`
	DaysOfWeek     []int    `json:"days_of_week"`
	DaysOfMonth    []int    `json:"days_of_month"`
}

func (a *Availability) ToPrimitives() Primitives {
	segments := make([]SegmentPrimitives, len(a.segments))
	for i, s := range a.segments {
		segments[i] = s.toPrimitives()
	}
	return Primitives{
		ID:          a.id,
		ProjectID:   a.projectID,
		Name:        a.name.String(),
		Description: a.description.String(),
		StartDate:   a.startDate.String(),
		EndDate:     a.endDate.String(),
		State:       string(a.state),
		CreatedAt:   a.createdAt,
		Segments:    segments,
	}
}

// Rehydrate rebuilds an Availability, re-validating every segment.
func Rehydrate(p Primitives) (*Availability, error) {
	if p.ID == "" {
		return nil, domain.FieldError("id", "is required")
	}
	if p.ProjectID == "" {
		return nil, domain.FieldError("project_id", "is required")
	}
	name, err := valueobject.NewName("name", p.Name)
	if err != nil {
		return nil, err
	}
	desc, err := valueobject.NewDescription(p.Description)
	if err != nil {
		return nil, err
	}
	start, end, err := parseRange(p.StartDate, p.EndDate)
	if err != nil {
		return nil, err
	}
	state := lifecycle.AvailabilityState(p.State)
	if !state.IsValid() {
		return nil, domain.InvalidState("availability %s has unknown state %q", p.ID, p.State)
	}

	seen := make(map[string]bool, len(p.Segments))
	segments := make([]Segment, 0, len(p.Segments))
	for _, sp := range p.Segments {
		if sp.ID == "" || seen[sp.ID] {
			return nil, domain.InvalidState("availability %s has a missing or duplicate segment id %q", p.ID, sp.ID)
		}
		seen[sp.ID] = true
		seg, err := newSegment(sp.ID, SegmentInput{
			Name:           sp.Name,
			Description:    sp.Description,
			StartTime:      sp.StartTime,
			EndTime:        sp.EndTime,
			SpecificDates:  sp.SpecificDates,
			ExclusionDates: sp.ExclusionDates,
			DaysOfWeek:     sp.DaysOfWeek,
			DaysOfMonth:    sp.DaysOfMonth,
		})
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}

	return &Availability{
		id:          p.ID,
		projectID:   p.ProjectID,
		name:        name,
		description: desc,
		startDate:   start,
		endDate:     end,
		state:       state,
		segments:    segments,
		createdAt:   p.CreatedAt,
	}, nil
}
