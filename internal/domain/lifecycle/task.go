package lifecycle

import "github.com/jsamuelsen11/teamspace/internal/domain/fsm"

// TaskStatus is the workflow status of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
	TaskAbandoned  TaskStatus = "ABANDONED"
)

// IsValid returns true if the status is one of the defined constants.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskDone, TaskAbandoned:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s TaskStatus) String() string { return string(s) }

// TaskEvent drives the task status machine.
type TaskEvent string

const (
	TaskStart    TaskEvent = "START"
	TaskPause    TaskEvent = "PAUSE"
	TaskComplete TaskEvent = "COMPLETE"
	TaskAbandon  TaskEvent = "ABANDON"
)

// TaskMachine governs task status changes.
var TaskMachine = fsm.NewMachine("task", fsm.Table[TaskStatus, TaskEvent]{
	TaskPending: {
		TaskStart:    TaskInProgress,
		TaskComplete: TaskDone,
		TaskAbandon:  TaskAbandoned,
	},
	TaskInProgress: {
		TaskPause:    TaskPending,
		TaskComplete: TaskDone,
		TaskAbandon:  TaskAbandoned,
	},
	TaskDone: {
		TaskStart: TaskInProgress,
		TaskPause: TaskPending,
	},
	TaskAbandoned: {
		TaskStart: TaskInProgress,
		TaskPause: TaskPending,
	},
})

// taskEventFor is the reverse lookup used to turn a requested target status
// into the event that reaches it.
var taskEventFor = map[TaskStatus]TaskEvent{
	TaskInProgress: TaskStart,
	TaskPending:    TaskPause,
	TaskDone:       TaskComplete,
	TaskAbandoned:  TaskAbandon,
}

// TaskEventFor returns the event that moves a task into target.
func TaskEventFor(target TaskStatus) (TaskEvent, bool) {
	e, ok := taskEventFor[target]
	return e, ok
}
