package aiagent

import "github.com/jsamuelsen11/teamspace/internal/domain/rbac"

// IntentType names an action an agent may carry out on behalf of a human.
type IntentType string

const (
	IntentCreateProject      IntentType = "CREATE_PROJECT"
	IntentPostChatMessage    IntentType = "POST_CHAT_MESSAGE"
	IntentSummarizeProject   IntentType = "SUMMARIZE_PROJECT"
	IntentListTasks          IntentType = "LIST_TASKS"
	IntentCreateTask         IntentType = "CREATE_TASK"
	IntentUpdateTask         IntentType = "UPDATE_TASK"
	IntentChangeTaskStatus   IntentType = "CHANGE_TASK_STATUS"
	IntentAssignTask         IntentType = "ASSIGN_TASK"
	IntentCommentTask        IntentType = "COMMENT_TASK"
	IntentCreateAvailability IntentType = "CREATE_AVAILABILITY"
)

// Scope tells at which level an intent's permission is resolved.
type Scope string

const (
	ScopeWorkspace Scope = "workspace"
	ScopeProject   Scope = "project"
)

type intentDef struct {
	scope         Scope
	workspacePerm rbac.WorkspacePermission
	projectPerm   rbac.ProjectPermission
	write         bool
}

var intents = map[IntentType]intentDef{
	IntentCreateProject:      {scope: ScopeWorkspace, workspacePerm: rbac.WorkspaceProjectsCreate, write: true},
	IntentPostChatMessage:    {scope: ScopeWorkspace, workspacePerm: rbac.WorkspaceChatPost, write: true},
	IntentSummarizeProject:   {scope: ScopeProject, projectPerm: rbac.ProjectView},
	IntentListTasks:          {scope: ScopeProject, projectPerm: rbac.TaskView},
	IntentCreateTask:         {scope: ScopeProject, projectPerm: rbac.TaskCreate, write: true},
	IntentUpdateTask:         {scope: ScopeProject, projectPerm: rbac.TaskUpdate, write: true},
	IntentChangeTaskStatus:   {scope: ScopeProject, projectPerm: rbac.TaskStatusChange, write: true},
	IntentAssignTask:         {scope: ScopeProject, projectPerm: rbac.TaskAssign, write: true},
	IntentCommentTask:        {scope: ScopeProject, projectPerm: rbac.TaskCommentCreate, write: true},
	IntentCreateAvailability: {scope: ScopeProject, projectPerm: rbac.ProjectAvailabilityCreate, write: true},
}

// IsValid returns true if the intent is part of the catalog.
func (i IntentType) IsValid() bool {
	_, ok := intents[i]
	return ok
}

// Scope returns where the intent's permission is checked. Unknown intents
// report "".
func (i IntentType) Scope() Scope { return intents[i].scope }

// IsWrite reports whether executing the intent mutates state.
func (i IntentType) IsWrite() bool { return intents[i].write }

// WorkspacePermission returns the mapped permission of a workspace-scoped
// intent.
func (i IntentType) WorkspacePermission() (rbac.WorkspacePermission, bool) {
	def, ok := intents[i]
	if !ok || def.scope != ScopeWorkspace {
		return "", false
	}
	return def.workspacePerm, true
}

// ProjectPermission returns the mapped permission of a project-scoped intent.
func (i IntentType) ProjectPermission() (rbac.ProjectPermission, bool) {
	def, ok := intents[i]
	if !ok || def.scope != ScopeProject {
		return "", false
	}
	return def.projectPerm, true
}
