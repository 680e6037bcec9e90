// Package workspace implements the Workspace aggregate: the top-level tenant
// that owns members, their system roles, and exactly one owner.
package workspace

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
)

const aggregateType = "workspace"

// Member is one membership record. Removed members keep their record with
// Active set to false.
type Member struct {
	UserID string
	Roles  []rbac.RoleID
	Active bool
}

// HasRole reports whether the member holds role.
func (m Member) HasRole(role rbac.RoleID) bool {
	return slices.Contains(m.Roles, role)
}

func (m Member) clone() Member {
	m.Roles = slices.Clone(m.Roles)
	return m
}

// Workspace is immutable: every operation returns a new *Workspace and leaves
// the receiver untouched.
type Workspace struct {
	id          string
	ownerUserID string
	name        valueobject.Name
	createdAt   time.Time
	members     []Member
	events      event.Pending
}

var authz rbac.AuthorizationPolicy

// New creates a workspace owned by ownerUserID, who becomes its first member
// holding the OWNER role.
func New(ownerUserID, name string, now time.Time) (*Workspace, error) {
	if ownerUserID == "" {
		return nil, domain.Unauthorized("workspace owner is required")
	}
	n, err := valueobject.NewName("name", name)
	if err != nil {
		return nil, err
	}
	w := &Workspace{
		id:          uuid.NewString(),
		ownerUserID: ownerUserID,
		name:        n,
		createdAt:   now.UTC(),
		members: []Member{
			{UserID: ownerUserID, Roles: []rbac.RoleID{rbac.RoleOwner}, Active: true},
		},
	}
	w.events = w.events.Append(w.newEvent(event.WorkspaceCreated, map[string]any{
		"ownerUserId": ownerUserID,
		"name":        n.String(),
	}, now))
	return w, nil
}

func (w *Workspace) ID() string           { return w.id }
func (w *Workspace) OwnerUserID() string  { return w.ownerUserID }
func (w *Workspace) Name() string         { return w.name.String() }
func (w *Workspace) CreatedAt() time.Time { return w.createdAt }

// Members returns a copy of every membership record, active or not, in
// join order.
func (w *Workspace) Members() []Member {
	out := make([]Member, len(w.members))
	for i, m := range w.members {
		out[i] = m.clone()
	}
	return out
}

// Member returns the record for userID.
func (w *Workspace) Member(userID string) (Member, bool) {
	if i := w.indexOf(userID); i >= 0 {
		return w.members[i].clone(), true
	}
	return Member{}, false
}

// IsActiveMember reports whether userID is a current member.
func (w *Workspace) IsActiveMember(userID string) bool {
	m, ok := w.Member(userID)
	return ok && m.Active
}

// ActiveRolesOf implements rbac.WorkspaceRoles.
func (w *Workspace) ActiveRolesOf(userID string) []rbac.RoleID {
	if w == nil {
		return nil
	}
	m, ok := w.Member(userID)
	if !ok || !m.Active {
		return nil
	}
	return m.Roles
}

// Can reports whether userID holds perm in this workspace.
func (w *Workspace) Can(userID string, perm rbac.WorkspacePermission) bool {
	return authz.CanInWorkspace(w, userID, perm)
}

// PullDomainEvents returns a copy without pending events together with the
// drained events in emission order.
func (w *Workspace) PullDomainEvents() (*Workspace, []event.Event) {
	events := w.events.Events()
	next := w.clone()
	next.events = nil
	return next, events
}

// PendingEvents returns the events not yet pulled.
func (w *Workspace) PendingEvents() []event.Event { return w.events.Events() }

// Rename changes the display name.
func (w *Workspace) Rename(actorUserID, name string, now time.Time) (*Workspace, error) {
	if err := w.authorize(actorUserID, rbac.WorkspaceSettingsUpdate); err != nil {
		return nil, err
	}
	n, err := valueobject.NewName("name", name)
	if err != nil {
		return nil, err
	}
	if n == w.name {
		return w, nil
	}
	next := w.clone()
	next.name = n
	next.record(event.WorkspaceRenamed, map[string]any{
		"actorUserId": actorUserID,
		"name":        n.String(),
	}, now)
	return next, nil
}

func (w *Workspace) indexOf(userID string) int {
	return slices.IndexFunc(w.members, func(m Member) bool { return m.UserID == userID })
}

func (w *Workspace) authorize(actorUserID string, perm rbac.WorkspacePermission) error {
	if actorUserID == "" {
		return domain.Unauthorized("actor is required")
	}
	if !w.Can(actorUserID, perm) {
		return domain.NewError(domain.CodeForbidden, "user %s lacks %s in workspace %s", actorUserID, perm, w.id).
			WithDetail("permission", string(perm))
	}
	return nil
}

func (w *Workspace) clone() *Workspace {
	next := *w
	next.members = make([]Member, len(w.members))
	for i, m := range w.members {
		next.members[i] = m.clone()
	}
	return &next
}

func (w *Workspace) newEvent(eventType string, payload map[string]any, now time.Time) event.Event {
	return event.New(eventType, aggregateType, w.id, payload, now)
}

// record must only be called on a fresh clone.
func (w *Workspace) record(eventType string, payload map[string]any, now time.Time) {
	w.events = w.events.Append(w.newEvent(eventType, payload, now))
}
