// Package rbac holds the static permission catalogs, the role tables for
// workspace system roles and project roles, and the AuthorizationPolicy that
// resolves them. Workspace and project permissions are disjoint types: a
// project role never grants a workspace permission, and the reverse.
package rbac

// WorkspacePermission is a capability scoped to a whole workspace.
type WorkspacePermission string

const (
	WorkspaceView                WorkspacePermission = "workspace.view"
	WorkspaceSettingsUpdate      WorkspacePermission = "workspace.settings.update"
	WorkspaceMembersManage       WorkspacePermission = "workspace.members.manage"
	WorkspaceRolesManage         WorkspacePermission = "workspace.roles.manage"
	WorkspaceOwnershipTransfer   WorkspacePermission = "workspace.ownership.transfer"
	WorkspaceProjectsCreate      WorkspacePermission = "workspace.projects.create"
	WorkspaceProjectAccessManage WorkspacePermission = "workspace.project.access.manage"
	WorkspaceChatPost            WorkspacePermission = "workspace.chat.post"
	WorkspaceChatModerate        WorkspacePermission = "workspace.chat.moderate"
	WorkspaceAIManage            WorkspacePermission = "workspace.ai.manage"
)

// WorkspacePermissions is the closed workspace catalog.
var WorkspacePermissions = []WorkspacePermission{
	WorkspaceView,
	WorkspaceSettingsUpdate,
	WorkspaceMembersManage,
	WorkspaceRolesManage,
	WorkspaceOwnershipTransfer,
	WorkspaceProjectsCreate,
	WorkspaceProjectAccessManage,
	WorkspaceChatPost,
	WorkspaceChatModerate,
	WorkspaceAIManage,
}

// IsValid reports membership in the workspace catalog.
func (p WorkspacePermission) IsValid() bool {
	for _, known := range WorkspacePermissions {
		if p == known {
			return true
		}
	}
	return false
}

// ProjectPermission is a capability scoped to one project. Task permissions
// share this type because they are resolved against the project access list.
type ProjectPermission string

const (
	ProjectView               ProjectPermission = "project.view"
	ProjectUpdate             ProjectPermission = "project.update"
	ProjectAccessManage       ProjectPermission = "project.access.manage"
	ProjectListsCreate        ProjectPermission = "project.lists.create"
	ProjectAvailabilityCreate ProjectPermission = "project.availability.create"
	ProjectAvailabilityManage ProjectPermission = "project.availability.manage"
)

const (
	TaskView            ProjectPermission = "task.view"
	TaskCreate          ProjectPermission = "task.create"
	TaskUpdate          ProjectPermission = "task.update"
	TaskDelete          ProjectPermission = "task.delete"
	TaskStatusChange    ProjectPermission = "task.status.change"
	TaskAssign          ProjectPermission = "task.assign"
	TaskCommentCreate   ProjectPermission = "task.comment.create"
	TaskCommentModerate ProjectPermission = "task.comment.moderate"
)

// ProjectPermissions is the closed project catalog.
var ProjectPermissions = []ProjectPermission{
	ProjectView,
	ProjectUpdate,
	ProjectAccessManage,
	ProjectListsCreate,
	ProjectAvailabilityCreate,
	ProjectAvailabilityManage,
}

// TaskPermissions is the closed task catalog.
var TaskPermissions = []ProjectPermission{
	TaskView,
	TaskCreate,
	TaskUpdate,
	TaskDelete,
	TaskStatusChange,
	TaskAssign,
	TaskCommentCreate,
	TaskCommentModerate,
}

// IsValid reports membership in the project or task catalog.
func (p ProjectPermission) IsValid() bool {
	for _, known := range ProjectPermissions {
		if p == known {
			return true
		}
	}
	for _, known := range TaskPermissions {
		if p == known {
			return true
		}
	}
	return false
}
