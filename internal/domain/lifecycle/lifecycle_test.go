package lifecycle

import (
	"errors"
	"testing"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/fsm"
)

// checkTotal applies every event in every state and requires each pair to
// either land in a known state or fail with INVALID_TRANSITION.
func checkTotal[S, E comparable](t *testing.T, m fsm.Machine[S, E], states []S, events []E) {
	t.Helper()
	known := make(map[S]bool, len(states))
	for _, s := range states {
		known[s] = true
	}
	for _, s := range states {
		for _, e := range events {
			next, err := m.Next(s, e)
			if err != nil {
				if !errors.Is(err, domain.ErrInvalidTransition) {
					t.Errorf("%s: Next(%v, %v) error = %v, want ErrInvalidTransition", m.Name(), s, e, err)
				}
				if m.Can(s, e) {
					t.Errorf("%s: Can(%v, %v) = true but Next failed", m.Name(), s, e)
				}
				continue
			}
			if !known[next] {
				t.Errorf("%s: Next(%v, %v) = %v, not a declared state", m.Name(), s, e, next)
			}
		}
	}
}

func TestMachines_AreTotal(t *testing.T) {
	t.Parallel()

	checkTotal(t, MemberMachine, []MemberState{MemberActive, MemberRemoved}, []MemberEvent{MemberRemove, MemberReactivate})
	checkTotal(t, OwnershipMachine, []OwnershipState{Owned}, []OwnershipEvent{Transfer})
	checkTotal(t, AccessMachine, []AccessState{NoAccess, HasAccess}, []AccessEvent{GrantAccess, ChangeRole, RevokeAccess})
	checkTotal(t, TaskMachine,
		[]TaskStatus{TaskPending, TaskInProgress, TaskDone, TaskAbandoned},
		[]TaskEvent{TaskStart, TaskPause, TaskComplete, TaskAbandon})
	checkTotal(t, MessageMachine, []MessageState{MessageActive, MessageDeleted}, []MessageEvent{MessageEdit, MessageReply, MessageDelete})
	checkTotal(t, AvailabilityMachine,
		[]AvailabilityState{AvailabilityActive, AvailabilityArchived},
		[]AvailabilityEvent{
			AvailabilityArchive, AvailabilityReactivate, AvailabilityAddSegment, AvailabilityRemoveSegment,
			AvailabilityUpdateSegment, AvailabilityUpdateDates, AvailabilityUpdateDetails,
		})
	checkTotal(t, AgentMachine, []AgentState{AgentActive, AgentPaused, AgentRevoked}, []AgentEvent{AgentPause, AgentActivate, AgentRevoke})
	checkTotal(t, CommandMachine,
		[]CommandState{CommandProposed, CommandApproved, CommandRejected, CommandExecuted, CommandFailed},
		[]CommandEvent{CommandApprove, CommandReject, CommandExecute, CommandFail})
	checkTotal(t, ConversationMachine,
		[]ConversationState{ConversationOpen, ConversationClosed},
		[]ConversationEvent{ConversationAppend, ConversationClose, ConversationReopen})
}

func TestTerminalStates(t *testing.T) {
	t.Parallel()

	if !MessageMachine.IsTerminal(MessageDeleted) {
		t.Error("DELETED messages must be terminal")
	}
	if !AgentMachine.IsTerminal(AgentRevoked) {
		t.Error("REVOKED agents must be terminal")
	}
	for _, s := range []CommandState{CommandRejected, CommandExecuted, CommandFailed} {
		if !CommandMachine.IsTerminal(s) {
			t.Errorf("command state %s must be terminal", s)
		}
	}
	if TaskMachine.IsTerminal(TaskDone) || TaskMachine.IsTerminal(TaskAbandoned) {
		t.Error("finished tasks can be reopened")
	}
}

func TestTaskMachine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    TaskStatus
		target  TaskStatus
		wantErr bool
	}{
		{name: "start pending", from: TaskPending, target: TaskInProgress},
		{name: "complete pending directly", from: TaskPending, target: TaskDone},
		{name: "pause in progress", from: TaskInProgress, target: TaskPending},
		{name: "reopen done", from: TaskDone, target: TaskInProgress},
		{name: "abandon done", from: TaskDone, target: TaskAbandoned, wantErr: true},
		{name: "complete abandoned", from: TaskAbandoned, target: TaskDone, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ev, ok := TaskEventFor(tt.target)
			if !ok {
				t.Fatalf("TaskEventFor(%s) not found", tt.target)
			}
			got, err := TaskMachine.Next(tt.from, ev)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidTransition) {
					t.Errorf("Next(%s, %s) error = %v, want ErrInvalidTransition", tt.from, ev, err)
				}
				return
			}
			if err != nil || got != tt.target {
				t.Errorf("Next(%s, %s) = %s, %v; want %s", tt.from, ev, got, err, tt.target)
			}
		})
	}
}

func TestStateOf(t *testing.T) {
	t.Parallel()
	if MemberStateOf(true) != MemberActive || MemberStateOf(false) != MemberRemoved {
		t.Error("MemberStateOf mapping is wrong")
	}
	if AccessStateOf(true) != HasAccess || AccessStateOf(false) != NoAccess {
		t.Error("AccessStateOf mapping is wrong")
	}
	if MessageStateOf(true) != MessageDeleted || MessageStateOf(false) != MessageActive {
		t.Error("MessageStateOf mapping is wrong")
	}
}

func TestTaskStatus_IsValid(t *testing.T) {
	t.Parallel()
	for _, s := range []TaskStatus{TaskPending, TaskInProgress, TaskDone, TaskAbandoned} {
		if !s.IsValid() {
			t.Errorf("%s.IsValid() = false, want true", s)
		}
	}
	for _, s := range []TaskStatus{"", "pending", "COMPLETED"} {
		if s.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", s)
		}
	}
}
