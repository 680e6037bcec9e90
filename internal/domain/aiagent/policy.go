package aiagent

import (
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/project"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/domain/workspace"
)

// ExecutionRequest asks whether Agent may run Intent for InitiatorUserID.
// Project is required for project-scoped intents.
type ExecutionRequest struct {
	Workspace       *workspace.Workspace
	Project         *project.Project
	Agent           *Agent
	InitiatorUserID string
	Intent          IntentType
}

// AuthorizationPolicy gates delegated execution on both the agent's own
// allow-list and the initiator's permissions. An agent never holds more
// authority than the human it acts for.
type AuthorizationPolicy struct {
	rbac rbac.AuthorizationPolicy
}

// CanExecute never fails; every unmet condition yields false. Checks run in
// order: agent belongs to the workspace, agent is ACTIVE, intent is
// allow-listed, initiator holds the intent's permission.
func (p AuthorizationPolicy) CanExecute(req ExecutionRequest) bool {
	if req.Workspace == nil || req.Agent == nil {
		return false
	}
	if req.Agent.WorkspaceID() != req.Workspace.ID() {
		return false
	}
	if req.Agent.State() != lifecycle.AgentActive {
		return false
	}
	if !req.Agent.policy.Allows(req.Intent) {
		return false
	}

	if perm, ok := req.Intent.WorkspacePermission(); ok {
		return p.rbac.CanInWorkspace(req.Workspace, req.InitiatorUserID, perm)
	}
	perm, ok := req.Intent.ProjectPermission()
	if !ok || req.Project == nil {
		return false
	}
	if req.Project.WorkspaceID() != req.Workspace.ID() {
		return false
	}
	return p.rbac.CanInProject(req.Project, req.InitiatorUserID, perm)
}
