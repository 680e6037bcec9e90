package rbac

// WorkspaceRoles is the read side of a workspace the policy needs: the
// roles a user currently holds there. Inactive members hold no roles.
type WorkspaceRoles interface {
	ActiveRolesOf(userID string) []RoleID
}

// ProjectRoles is the read side of a project the policy needs.
type ProjectRoles interface {
	RoleOf(userID string) (ProjectRole, bool)
}

// AuthorizationPolicy resolves "can user X do P in scope Y". It is stateless;
// the zero value is ready to use.
type AuthorizationPolicy struct{}

// CanInWorkspace resolves perm through the union of the user's active roles.
func (AuthorizationPolicy) CanInWorkspace(ws WorkspaceRoles, userID string, perm WorkspacePermission) bool {
	if ws == nil || userID == "" {
		return false
	}
	for _, role := range ws.ActiveRolesOf(userID) {
		if WorkspaceRoleGrants(role, perm) {
			return true
		}
	}
	return false
}

// CanInProject resolves perm through the user's single project access entry.
func (AuthorizationPolicy) CanInProject(p ProjectRoles, userID string, perm ProjectPermission) bool {
	if p == nil || userID == "" {
		return false
	}
	role, ok := p.RoleOf(userID)
	if !ok {
		return false
	}
	return ProjectRoleGrants(role, perm)
}
