package project

import (
	"time"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
)

// GrantAccess gives targetUserID the project role. The target must be an
// active member of the owning workspace. When the target already has access
// the call becomes a role change, so the list never holds two entries for one
// user.
func (p *Project) GrantAccess(
	actorUserID, targetUserID string,
	role rbac.ProjectRole,
	members MemberDirectory,
	actorHasWorkspaceOverride bool,
	now time.Time,
) (*Project, error) {
	if !role.IsValid() {
		return nil, domain.FieldError("role_id", "invalid: "+string(role))
	}
	if err := p.authorize(actorUserID, rbac.ProjectAccessManage, actorHasWorkspaceOverride); err != nil {
		return nil, err
	}
	if targetUserID == "" {
		return nil, domain.FieldError("target_user_id", "is required")
	}
	if members == nil || !members.IsActiveMember(targetUserID) {
		return nil, domain.Forbidden("user %s is not a member of workspace %s", targetUserID, p.workspaceID)
	}

	if p.HasAccess(targetUserID) {
		return p.ChangeProjectRole(actorUserID, targetUserID, role, actorHasWorkspaceOverride, now)
	}
	if _, err := lifecycle.AccessMachine.Next(lifecycle.NoAccess, lifecycle.GrantAccess); err != nil {
		return nil, err
	}

	next := p.clone()
	next.access = append(next.access, Access{
		UserID:          targetUserID,
		Role:            role,
		GrantedByUserID: actorUserID,
		GrantedAt:       now.UTC(),
	})
	next.record(event.ProjectAccessGranted, map[string]any{
		"actorUserId":  actorUserID,
		"targetUserId": targetUserID,
		"roleId":       string(role),
	}, now)
	return next, nil
}

// ChangeProjectRole replaces the role of an existing entry. Setting the role a
// user already holds returns the receiver unchanged.
func (p *Project) ChangeProjectRole(
	actorUserID, targetUserID string,
	role rbac.ProjectRole,
	actorHasWorkspaceOverride bool,
	now time.Time,
) (*Project, error) {
	if !role.IsValid() {
		return nil, domain.FieldError("role_id", "invalid: "+string(role))
	}
	if err := p.authorize(actorUserID, rbac.ProjectAccessManage, actorHasWorkspaceOverride); err != nil {
		return nil, err
	}
	i := p.indexOf(targetUserID)
	if i < 0 {
		return nil, domain.NotFound("user %s has no access to project %s", targetUserID, p.id)
	}
	if _, err := lifecycle.AccessMachine.Next(lifecycle.HasAccess, lifecycle.ChangeRole); err != nil {
		return nil, err
	}
	previous := p.access[i].Role
	if previous == role {
		return p, nil
	}

	next := p.clone()
	next.access[i].Role = role
	next.access[i].GrantedByUserID = actorUserID
	next.access[i].GrantedAt = now.UTC()
	next.record(event.ProjectRoleChanged, map[string]any{
		"actorUserId":    actorUserID,
		"targetUserId":   targetUserID,
		"previousRoleId": string(previous),
		"roleId":         string(role),
	}, now)
	return next, nil
}

// RevokeAccess drops targetUserID from the access list. Revoking the last
// entry fails: a project always keeps at least one member with access.
func (p *Project) RevokeAccess(actorUserID, targetUserID string, actorHasWorkspaceOverride bool, now time.Time) (*Project, error) {
	if err := p.authorize(actorUserID, rbac.ProjectAccessManage, actorHasWorkspaceOverride); err != nil {
		return nil, err
	}
	i := p.indexOf(targetUserID)
	if i < 0 {
		return nil, domain.NotFound("user %s has no access to project %s", targetUserID, p.id)
	}
	if len(p.access) == 1 {
		return nil, domain.InvalidState("project %s must keep at least one member with access", p.id)
	}
	if _, err := lifecycle.AccessMachine.Next(lifecycle.HasAccess, lifecycle.RevokeAccess); err != nil {
		return nil, err
	}

	next := p.clone()
	removed := next.access[i]
	next.access = append(next.access[:i], next.access[i+1:]...)
	next.record(event.ProjectAccessRevoked, map[string]any{
		"actorUserId":  actorUserID,
		"targetUserId": targetUserID,
		"roleId":       string(removed.Role),
	}, now)
	return next, nil
}
