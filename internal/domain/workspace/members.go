package workspace

import (
	"slices"
	"time"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/lifecycle"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
)

// InviteMember adds targetUserID as a COLLABORATOR. A previously removed
// member is reactivated in place instead, keeping a single record per user.
func (w *Workspace) InviteMember(actorUserID, targetUserID string, now time.Time) (*Workspace, error) {
	if err := w.authorize(actorUserID, rbac.WorkspaceMembersManage); err != nil {
		return nil, err
	}
	if targetUserID == "" {
		return nil, domain.FieldError("target_user_id", "is required")
	}

	i := w.indexOf(targetUserID)
	if i < 0 {
		next := w.clone()
		next.members = append(next.members, Member{
			UserID: targetUserID,
			Roles:  []rbac.RoleID{rbac.RoleCollaborator},
			Active: true,
		})
		next.record(event.WorkspaceMemberInvited, map[string]any{
			"actorUserId":  actorUserID,
			"targetUserId": targetUserID,
			"roleId":       string(rbac.RoleCollaborator),
		}, now)
		return next, nil
	}

	if w.members[i].Active {
		return nil, domain.Duplicate("user %s is already a member of workspace %s", targetUserID, w.id)
	}
	if _, err := lifecycle.MemberMachine.Next(lifecycle.MemberRemoved, lifecycle.MemberReactivate); err != nil {
		return nil, err
	}

	next := w.clone()
	m := &next.members[i]
	m.Active = true
	if len(m.Roles) == 0 {
		m.Roles = []rbac.RoleID{rbac.RoleCollaborator}
	}
	next.record(event.WorkspaceMemberReactivated, map[string]any{
		"actorUserId":  actorUserID,
		"targetUserId": targetUserID,
		"roleIds":      roleStrings(m.Roles),
	}, now)
	return next, nil
}

// RemoveMember deactivates targetUserID. The record stays for history. The
// owner cannot be removed; ownership must be transferred first.
func (w *Workspace) RemoveMember(actorUserID, targetUserID string, now time.Time) (*Workspace, error) {
	if err := w.authorize(actorUserID, rbac.WorkspaceMembersManage); err != nil {
		return nil, err
	}
	i := w.indexOf(targetUserID)
	if i < 0 {
		return nil, domain.NotFound("user %s is not a member of workspace %s", targetUserID, w.id)
	}
	if targetUserID == w.ownerUserID {
		return nil, domain.InvalidState("the workspace owner cannot be removed")
	}
	state := lifecycle.MemberStateOf(w.members[i].Active)
	if _, err := lifecycle.MemberMachine.Next(state, lifecycle.MemberRemove); err != nil {
		return nil, err
	}

	next := w.clone()
	next.members[i].Active = false
	next.record(event.WorkspaceMemberRemoved, map[string]any{
		"actorUserId":  actorUserID,
		"targetUserId": targetUserID,
	}, now)
	return next, nil
}

// TransferOwnership hands OWNER to targetUserID. The previous owner keeps
// membership and receives ADMIN in the same step, so there is never a moment
// with zero or two owners.
func (w *Workspace) TransferOwnership(actorUserID, targetUserID string, now time.Time) (*Workspace, error) {
	if actorUserID == "" {
		return nil, domain.Unauthorized("actor is required")
	}
	if actorUserID == targetUserID {
		return nil, domain.InvalidState("ownership cannot be transferred to the same user")
	}
	if actorUserID != w.ownerUserID || !w.Can(actorUserID, rbac.WorkspaceOwnershipTransfer) {
		return nil, domain.Forbidden("only the owner can transfer workspace %s", w.id)
	}
	ti := w.indexOf(targetUserID)
	if ti < 0 {
		return nil, domain.NotFound("user %s is not a member of workspace %s", targetUserID, w.id)
	}
	if !w.members[ti].Active {
		return nil, domain.InvalidState("user %s is no longer an active member", targetUserID)
	}
	if _, err := lifecycle.OwnershipMachine.Next(lifecycle.Owned, lifecycle.Transfer); err != nil {
		return nil, err
	}

	next := w.clone()
	oi := next.indexOf(actorUserID)
	prev := &next.members[oi]
	prev.Roles = slices.DeleteFunc(prev.Roles, func(r rbac.RoleID) bool { return r == rbac.RoleOwner })
	if !prev.HasRole(rbac.RoleAdmin) {
		prev.Roles = append(prev.Roles, rbac.RoleAdmin)
	}
	target := &next.members[ti]
	if !target.HasRole(rbac.RoleOwner) {
		target.Roles = append(target.Roles, rbac.RoleOwner)
	}
	next.ownerUserID = targetUserID
	next.record(event.WorkspaceOwnershipTransferred, map[string]any{
		"previousOwnerUserId": actorUserID,
		"newOwnerUserId":      targetUserID,
	}, now)
	return next, nil
}

// AssignRole adds a non-owner system role to an active member.
func (w *Workspace) AssignRole(actorUserID, targetUserID string, roleID rbac.RoleID, now time.Time) (*Workspace, error) {
	if !roleID.IsValid() {
		return nil, domain.FieldError("role_id", "invalid: "+string(roleID))
	}
	if err := w.authorize(actorUserID, rbac.WorkspaceRolesManage); err != nil {
		return nil, err
	}
	if roleID == rbac.RoleOwner {
		return nil, domain.InvalidState("OWNER is only granted by ownership transfer")
	}
	i := w.indexOf(targetUserID)
	if i < 0 {
		return nil, domain.NotFound("user %s is not a member of workspace %s", targetUserID, w.id)
	}
	if !w.members[i].Active {
		return nil, domain.InvalidState("user %s is no longer an active member", targetUserID)
	}
	if w.members[i].HasRole(roleID) {
		return nil, domain.Duplicate("user %s already holds %s", targetUserID, roleID)
	}

	next := w.clone()
	next.members[i].Roles = append(next.members[i].Roles, roleID)
	next.record(event.WorkspaceRoleAssigned, map[string]any{
		"actorUserId":  actorUserID,
		"targetUserId": targetUserID,
		"roleId":       string(roleID),
	}, now)
	return next, nil
}

// RevokeRole removes roleID from targetUserID. A member must always keep at
// least one role; remove the member instead of revoking the last one.
func (w *Workspace) RevokeRole(actorUserID, targetUserID string, roleID rbac.RoleID, now time.Time) (*Workspace, error) {
	if !roleID.IsValid() {
		return nil, domain.FieldError("role_id", "invalid: "+string(roleID))
	}
	if err := w.authorize(actorUserID, rbac.WorkspaceRolesManage); err != nil {
		return nil, err
	}
	i := w.indexOf(targetUserID)
	if i < 0 {
		return nil, domain.NotFound("user %s is not a member of workspace %s", targetUserID, w.id)
	}
	if roleID == rbac.RoleOwner {
		return nil, domain.InvalidState("OWNER cannot be revoked, transfer ownership instead")
	}
	m := w.members[i]
	if !m.HasRole(roleID) {
		return nil, domain.NotFound("user %s does not hold %s", targetUserID, roleID)
	}
	remaining := slices.DeleteFunc(slices.Clone(m.Roles), func(r rbac.RoleID) bool { return r == roleID })
	if len(remaining) == 0 {
		return nil, domain.InvalidState("revoking %s would leave user %s without roles", roleID, targetUserID)
	}

	next := w.clone()
	next.members[i].Roles = remaining
	next.record(event.WorkspaceRoleRevoked, map[string]any{
		"actorUserId":  actorUserID,
		"targetUserId": targetUserID,
		"roleId":       string(roleID),
	}, now)
	return next, nil
}

func roleStrings(roles []rbac.RoleID) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
