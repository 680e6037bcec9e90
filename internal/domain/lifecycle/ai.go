package lifecycle

import "github.com/jsamuelsen11/teamspace/internal/domain/fsm"

// AgentState is the lifecycle state of an AI agent.
type AgentState string

const (
	AgentActive  AgentState = "ACTIVE"
	AgentPaused  AgentState = "PAUSED"
	AgentRevoked AgentState = "REVOKED"
)

// IsValid returns true if the state is one of the defined constants.
func (s AgentState) IsValid() bool {
	switch s {
	case AgentActive, AgentPaused, AgentRevoked:
		return true
	default:
		return false
	}
}

type AgentEvent string

const (
	AgentPause    AgentEvent = "PAUSE"
	AgentActivate AgentEvent = "ACTIVATE"
	AgentRevoke   AgentEvent = "REVOKE"
)

// AgentMachine: REVOKED is terminal.
var AgentMachine = fsm.NewMachine("ai_agent", fsm.Table[AgentState, AgentEvent]{
	AgentActive: {
		AgentPause:  AgentPaused,
		AgentRevoke: AgentRevoked,
	},
	AgentPaused: {
		AgentActivate: AgentActive,
		AgentRevoke:   AgentRevoked,
	},
})

// CommandState is the lifecycle state of a command proposed by an AI agent.
type CommandState string

const (
	CommandProposed CommandState = "PROPOSED"
	CommandApproved CommandState = "APPROVED"
	CommandRejected CommandState = "REJECTED"
	CommandExecuted CommandState = "EXECUTED"
	CommandFailed   CommandState = "FAILED"
)

// IsValid returns true if the state is one of the defined constants.
func (s CommandState) IsValid() bool {
	switch s {
	case CommandProposed, CommandApproved, CommandRejected, CommandExecuted, CommandFailed:
		return true
	default:
		return false
	}
}

type CommandEvent string

const (
	CommandApprove CommandEvent = "APPROVE"
	CommandReject  CommandEvent = "REJECT"
	CommandExecute CommandEvent = "EXECUTE"
	CommandFail    CommandEvent = "FAIL"
)

var CommandMachine = fsm.NewMachine("ai_command", fsm.Table[CommandState, CommandEvent]{
	CommandProposed: {
		CommandApprove: CommandApproved,
		CommandReject:  CommandRejected,
	},
	CommandApproved: {
		CommandExecute: CommandExecuted,
		CommandFail:    CommandFailed,
	},
})

// ConversationState is the lifecycle state of an AI conversation.
type ConversationState string

const (
	ConversationOpen   ConversationState = "OPEN"
	ConversationClosed ConversationState = "CLOSED"
)

// IsValid returns true if the state is one of the defined constants.
func (s ConversationState) IsValid() bool {
	return s == ConversationOpen || s == ConversationClosed
}

type ConversationEvent string

const (
	ConversationAppend ConversationEvent = "APPEND"
	ConversationClose  ConversationEvent = "CLOSE"
	ConversationReopen ConversationEvent = "REOPEN"
)

var ConversationMachine = fsm.NewMachine("ai_conversation", fsm.Table[ConversationState, ConversationEvent]{
	ConversationOpen: {
		ConversationAppend: ConversationOpen,
		ConversationClose:  ConversationClosed,
	},
	ConversationClosed: {
		ConversationReopen: ConversationOpen,
	},
})
