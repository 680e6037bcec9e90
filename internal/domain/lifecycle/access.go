package lifecycle

import "github.com/jsamuelsen11/teamspace/internal/domain/fsm"

// AccessState describes whether a user has an entry in a project's access list.
type AccessState string

const (
	NoAccess  AccessState = "NO_ACCESS"
	HasAccess AccessState = "HAS_ACCESS"
)

// AccessEvent drives AccessMachine.
type AccessEvent string

const (
	GrantAccess  AccessEvent = "GRANT_ACCESS"
	ChangeRole   AccessEvent = "CHANGE_ROLE"
	RevokeAccess AccessEvent = "REVOKE_ACCESS"
)

var AccessMachine = fsm.NewMachine("project_access", fsm.Table[AccessState, AccessEvent]{
	NoAccess: {
		GrantAccess: HasAccess,
	},
	HasAccess: {
		ChangeRole:   HasAccess,
		RevokeAccess: NoAccess,
	},
})

// AccessStateOf maps presence in the access list to a state.
func AccessStateOf(present bool) AccessState {
	if present {
		return HasAccess
	}
	return NoAccess
}
