package lifecycle

import "github.com/jsamuelsen11/teamspace/internal/domain/fsm"

// AvailabilityState is the lifecycle state of an availability window.
type AvailabilityState string

const (
	AvailabilityActive   AvailabilityState = "ACTIVE"
	AvailabilityArchived AvailabilityState = "ARCHIVED"
)

// IsValid returns true if the state is one of the defined constants.
func (s AvailabilityState) IsValid() bool {
	return s == AvailabilityActive || s == AvailabilityArchived
}

type AvailabilityEvent string

const (
	AvailabilityArchive       AvailabilityEvent = "ARCHIVE"
	AvailabilityReactivate    AvailabilityEvent = "REACTIVATE"
	AvailabilityAddSegment    AvailabilityEvent = "ADD_SEGMENT"
	AvailabilityRemoveSegment AvailabilityEvent = "REMOVE_SEGMENT"
	AvailabilityUpdateSegment AvailabilityEvent = "UPDATE_SEGMENT"
	AvailabilityUpdateDates   AvailabilityEvent = "UPDATE_DATES"
	AvailabilityUpdateDetails AvailabilityEvent = "UPDATE_DETAILS"
)

// AvailabilityMachine only admits mutations while ACTIVE.
var AvailabilityMachine = fsm.NewMachine("availability", fsm.Table[AvailabilityState, AvailabilityEvent]{
	AvailabilityActive: {
		AvailabilityArchive:       AvailabilityArchived,
		AvailabilityAddSegment:    AvailabilityActive,
		AvailabilityRemoveSegment: AvailabilityActive,
		AvailabilityUpdateSegment: AvailabilityActive,
		AvailabilityUpdateDates:   AvailabilityActive,
		AvailabilityUpdateDetails: AvailabilityActive,
	},
	AvailabilityArchived: {
		AvailabilityReactivate: AvailabilityActive,
	},
})
