package lifecycle

import "github.com/jsamuelsen11/teamspace/internal/domain/fsm"

// MemberState is the lifecycle state of a workspace member record.
type MemberState string

const (
	MemberActive  MemberState = "ACTIVE"
	MemberRemoved MemberState = "REMOVED"
)

type MemberEvent string

const (
	MemberRemove     MemberEvent = "REMOVE"
	MemberReactivate MemberEvent = "REACTIVATE"
)

var MemberMachine = fsm.NewMachine("workspace_member", fsm.Table[MemberState, MemberEvent]{
	MemberActive:  {MemberRemove: MemberRemoved},
	MemberRemoved: {MemberReactivate: MemberActive},
})

// MemberStateOf maps the active flag to a state.
func MemberStateOf(active bool) MemberState {
	if active {
		return MemberActive
	}
	return MemberRemoved
}

// OwnershipState has a single value: a workspace is always owned.
type OwnershipState string

const Owned OwnershipState = "OWNED"

type OwnershipEvent string

const Transfer OwnershipEvent = "TRANSFER"

var OwnershipMachine = fsm.NewMachine("workspace_ownership", fsm.Table[OwnershipState, OwnershipEvent]{
	Owned: {Transfer: Owned},
})
