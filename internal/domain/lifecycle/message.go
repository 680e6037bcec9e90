package lifecycle

import "github.com/jsamuelsen11/teamspace/internal/domain/fsm"

// MessageState is the lifecycle state shared by task comments and workspace
// conversation messages.
type MessageState string

const (
	MessageActive  MessageState = "ACTIVE"
	MessageDeleted MessageState = "DELETED"
)

// MessageEvent drives MessageMachine.
type MessageEvent string

const (
	MessageEdit   MessageEvent = "EDIT"
	MessageReply  MessageEvent = "REPLY"
	MessageDelete MessageEvent = "DELETE"
)

// MessageMachine: DELETED is terminal.
var MessageMachine = fsm.NewMachine("message", fsm.Table[MessageState, MessageEvent]{
	MessageActive: {
		MessageEdit:   MessageActive,
		MessageReply:  MessageActive,
		MessageDelete: MessageDeleted,
	},
})

// MessageStateOf derives the state from a soft-delete marker.
func MessageStateOf(deleted bool) MessageState {
	if deleted {
		return MessageDeleted
	}
	return MessageActive
}
