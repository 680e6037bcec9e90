package workspace

import (
	"slices"
	"time"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
)

// Primitives is the flat, JSON-serializable snapshot of a Workspace.
type Primitives struct {
	ID          string             `json:"id"`
	OwnerUserID string             `json:"owner_user_id"`
	Name        string             `json:"name"`
	CreatedAt   time.Time          `json:"created_at"`
	Members     []MemberPrimitives `json:"members"`
}

// MemberPrimitives is the snapshot of one membership record.
type MemberPrimitives struct {
	UserID  string   `json:"user_id"`
	RoleIDs []string `json:"role_ids"`
	Active  bool     `json:"active"`
}

// ToPrimitives snapshots the workspace. Pending events are not part of the
// snapshot.
func (w *Workspace) ToPrimitives() Primitives {
	members := make([]MemberPrimitives, len(w.members))
	for i, m := range w.members {
		members[i] = MemberPrimitives{UserID: m.UserID, RoleIDs: roleStrings(m.Roles), Active: m.Active}
	}
	return Primitives{
		ID:          w.id,
		OwnerUserID: w.ownerUserID,
		Name:        w.name.String(),
		CreatedAt:   w.createdAt,
		Members:     members,
	}
}

// Rehydrate rebuilds a Workspace from a snapshot, re-checking every
// invariant: one record per user, valid roles, active members hold at least
// one role, and exactly one member holds OWNER, the active owner.
func Rehydrate(p Primitives) (*Workspace, error) {
	if p.ID == "" {
		return nil, domain.FieldError("id", "is required")
	}
	if p.OwnerUserID == "" {
		return nil, domain.FieldError("owner_user_id", "is required")
	}
	name, err := valueobject.NewName("name", p.Name)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(p.Members))
	members := make([]Member, 0, len(p.Members))
	owners := 0
	for _, mp := range p.Members {
		if mp.UserID == "" {
			return nil, domain.InvalidState("workspace %s has a member without user id", p.ID)
		}
		if seen[mp.UserID] {
			return nil, domain.InvalidState("workspace %s lists user %s twice", p.ID, mp.UserID)
		}
		seen[mp.UserID] = true

		roles := make([]rbac.RoleID, 0, len(mp.RoleIDs))
		for _, r := range mp.RoleIDs {
			role := rbac.RoleID(r)
			if !role.IsValid() {
				return nil, domain.InvalidState("workspace %s member %s has unknown role %q", p.ID, mp.UserID, r)
			}
			if slices.Contains(roles, role) {
				return nil, domain.InvalidState("workspace %s member %s holds role %s twice", p.ID, mp.UserID, r)
			}
			roles = append(roles, role)
		}
		m := Member{UserID: mp.UserID, Roles: roles, Active: mp.Active}
		if m.Active && len(roles) == 0 {
			return nil, domain.InvalidState("workspace %s member %s is active without roles", p.ID, mp.UserID)
		}
		if m.HasRole(rbac.RoleOwner) {
			owners++
			if mp.UserID != p.OwnerUserID || !m.Active {
				return nil, domain.InvalidState("workspace %s grants OWNER to %s who is not the active owner", p.ID, mp.UserID)
			}
		}
		members = append(members, m)
	}
	if owners != 1 {
		return nil, domain.InvalidState("workspace %s must have exactly one owner, found %d", p.ID, owners)
	}

	return &Workspace{
		id:          p.ID,
		ownerUserID: p.OwnerUserID,
		name:        name,
		createdAt:   p.CreatedAt,
		members:     members,
	}, nil
}
