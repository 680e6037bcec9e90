package rbac

// RoleID identifies a workspace system role.
type RoleID string

const (
	RoleOwner        RoleID = "OWNER"
	RoleAdmin        RoleID = "ADMIN"
	RoleCollaborator RoleID = "COLLABORATOR"
)

// IsValid returns true if the role is one of the defined system roles.
func (r RoleID) IsValid() bool {
	_, ok := workspaceRoleTable[r]
	return ok
}

// ProjectRole identifies a per-project access role.
type ProjectRole string

const (
	ProjectManager     ProjectRole = "MANAGER"
	ProjectContributor ProjectRole = "CONTRIBUTOR"
	ProjectTracker     ProjectRole = "TRACKER"
	ProjectViewer      ProjectRole = "VIEWER"
)

// IsValid returns true if the role is one of the defined project roles.
func (r ProjectRole) IsValid() bool {
	_, ok := projectRoleTable[r]
	return ok
}

// Role tables are built once here and only read afterwards. Each tier lists
// what it adds on top of the tier below it.
var (
	collaboratorPermissions = []WorkspacePermission{
		WorkspaceView,
		WorkspaceChatPost,
		WorkspaceProjectsCreate,
	}
	adminPermissions = append(append([]WorkspacePermission{}, collaboratorPermissions...),
		WorkspaceSettingsUpdate,
		WorkspaceMembersManage,
		WorkspaceRolesManage,
		WorkspaceProjectAccessManage,
		WorkspaceChatModerate,
		WorkspaceAIManage,
	)
	ownerPermissions = append(append([]WorkspacePermission{}, adminPermissions...),
		WorkspaceOwnershipTransfer,
	)

	viewerPermissions = []ProjectPermission{
		ProjectView,
		TaskView,
	}
	trackerPermissions = append(append([]ProjectPermission{}, viewerPermissions...),
		TaskStatusChange,
		TaskCommentCreate,
	)
	contributorPermissions = append(append([]ProjectPermission{}, trackerPermissions...),
		TaskCreate,
		TaskUpdate,
		TaskAssign,
		ProjectListsCreate,
		ProjectAvailabilityCreate,
	)
	managerPermissions = append(append([]ProjectPermission{}, contributorPermissions...),
		ProjectUpdate,
		ProjectAccessManage,
		ProjectAvailabilityManage,
		TaskDelete,
		TaskCommentModerate,
	)

	workspaceRoleTable = map[RoleID]map[WorkspacePermission]struct{}{
		RoleOwner:        setOf(ownerPermissions),
		RoleAdmin:        setOf(adminPermissions),
		RoleCollaborator: setOf(collaboratorPermissions),
	}

	projectRoleTable = map[ProjectRole]map[ProjectPermission]struct{}{
		ProjectManager:     setOf(managerPermissions),
		ProjectContributor: setOf(contributorPermissions),
		ProjectTracker:     setOf(trackerPermissions),
		ProjectViewer:      setOf(viewerPermissions),
	}
)

func setOf[P comparable](perms []P) map[P]struct{} {
	set := make(map[P]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// WorkspaceRoleGrants reports whether role carries perm.
func WorkspaceRoleGrants(role RoleID, perm WorkspacePermission) bool {
	_, ok := workspaceRoleTable[role][perm]
	return ok
}

// ProjectRoleGrants reports whether role carries perm.
func ProjectRoleGrants(role ProjectRole, perm ProjectPermission) bool {
	_, ok := projectRoleTable[role][perm]
	return ok
}

// PermissionsOfWorkspaceRole returns a copy of the role's permissions in
// catalog order.
func PermissionsOfWorkspaceRole(role RoleID) []WorkspacePermission {
	out := make([]WorkspacePermission, 0, len(workspaceRoleTable[role]))
	for _, p := range WorkspacePermissions {
		if WorkspaceRoleGrants(role, p) {
			out = append(out, p)
		}
	}
	return out
}

// PermissionsOfProjectRole returns a copy of the role's permissions in
// catalog order, project permissions first.
func PermissionsOfProjectRole(role ProjectRole) []ProjectPermission {
	out := make([]ProjectPermission, 0, len(projectRoleTable[role]))
	for _, catalog := range [][]ProjectPermission{ProjectPermissions, TaskPermissions} {
		for _, p := range catalog {
			if ProjectRoleGrants(role, p) {
				out = append(out, p)
			}
		}
	}
	return out
}
