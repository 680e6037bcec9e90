// Package project implements the Project aggregate: a workspace-scoped unit
// with its own access list. The access list is never empty and holds at most
// one entry per user.
package project

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
)

const aggregateType = "project"

// Access is one entry of the access list.
type Access struct {
	UserID          string
	Role            rbac.ProjectRole
	GrantedByUserID string
	GrantedAt       time.Time
}

// MemberDirectory answers workspace membership questions. *workspace.Workspace
// satisfies it.
type MemberDirectory interface {
	IsActiveMember(userID string) bool
}

// Project is immutable: every operation returns a new *Project.
type Project struct {
	id          string
	workspaceID string
	name        valueobject.Name
	description valueobject.Description
	createdAt   time.Time
	access      []Access
	events      event.Pending
}

var authz rbac.AuthorizationPolicy

// New creates a project whose creator holds MANAGER.
func New(workspaceID, creatorUserID, name, description string, now time.Time) (*Project, error) {
	if creatorUserID == "" {
		return nil, domain.Unauthorized("project creator is required")
	}
	if workspaceID == "" {
		return nil, domain.FieldError("workspace_id", "is required")
	}
	n, err := valueobject.NewName("name", name)
	if err != nil {
		return nil, err
	}
	d, err := valueobject.NewDescription(description)
	if err != nil {
		return nil, err
	}
	p := &Project{
		id:          uuid.NewString(),
		workspaceID: workspaceID,
		name:        n,
		description: d,
		createdAt:   now.UTC(),
		access: []Access{{
			UserID:          creatorUserID,
			Role:            rbac.ProjectManager,
			GrantedByUserID: creatorUserID,
			GrantedAt:       now.UTC(),
		}},
	}
	p.record(event.ProjectCreated, map[string]any{
		"workspaceId":   workspaceID,
		"creatorUserId": creatorUserID,
		"name":          n.String(),
	}, now)
	return p, nil
}

func (p *Project) ID() string           { return p.id }
func (p *Project) WorkspaceID() string  { return p.workspaceID }
func (p *Project) Name() string         { return p.name.String() }
func (p *Project) Description() string  { return p.description.String() }
func (p *Project) CreatedAt() time.Time { return p.createdAt }

// AccessList returns a copy of the access list in grant order.
func (p *Project) AccessList() []Access {
	return slices.Clone(p.access)
}

// HasAccess reports whether userID has an entry in the access list.
func (p *Project) HasAccess(userID string) bool {
	return p.indexOf(userID) >= 0
}

// RoleOf implements rbac.ProjectRoles.
func (p *Project) RoleOf(userID string) (rbac.ProjectRole, bool) {
	if p == nil {
		return "", false
	}
	if i := p.indexOf(userID); i >= 0 {
		return p.access[i].Role, true
	}
	return "", false
}

// HasPermission resolves perm through userID's project role.
func (p *Project) HasPermission(userID string, perm rbac.ProjectPermission) bool {
	return authz.CanInProject(p, userID, perm)
}

// PullDomainEvents returns a copy without pending events together with the
// drained events in emission order.
func (p *Project) PullDomainEvents() (*Project, []event.Event) {
	events := p.events.Events()
	next := p.clone()
	next.events = nil
	return next, events
}

// PendingEvents returns the events not yet pulled.
func (p *Project) PendingEvents() []event.Event { return p.events.Events() }

// Rename requires project.update.
func (p *Project) Rename(actorUserID, name string, now time.Time) (*Project, error) {
	if err := p.authorize(actorUserID, rbac.ProjectUpdate, false); err != nil {
		return nil, err
	}
	n, err := valueobject.NewName("name", name)
	if err != nil {
		return nil, err
	}
	if n == p.name {
		return p, nil
	}
	next := p.clone()
	next.name = n
	next.record(event.ProjectRenamed, map[string]any{"actorUserId": actorUserID, "name": n.String()}, now)
	return next, nil
}

// UpdateDescription requires project.update. An empty description is valid.
func (p *Project) UpdateDescription(actorUserID, description string, now time.Time) (*Project, error) {
	if err := p.authorize(actorUserID, rbac.ProjectUpdate, false); err != nil {
		return nil, err
	}
	d, err := valueobject.NewDescription(description)
	if err != nil {
		return nil, err
	}
	if d == p.description {
		return p, nil
	}
	next := p.clone()
	next.description = d
	next.record(event.ProjectDescriptionUpdated, map[string]any{
		"actorUserId": actorUserID,
		"description": d.String(),
	}, now)
	return next, nil
}

func (p *Project) indexOf(userID string) int {
	return slices.IndexFunc(p.access, func(a Access) bool { return a.UserID == userID })
}

// authorize checks perm; override stands for workspace-level authority the
// caller has already verified.
func (p *Project) authorize(actorUserID string, perm rbac.ProjectPermission, override bool) error {
	if actorUserID == "" {
		return domain.Unauthorized("actor is required")
	}
	if override || p.HasPermission(actorUserID, perm) {
		return nil
	}
	return domain.NewError(domain.CodeForbidden, "user %s lacks %s in project %s", actorUserID, perm, p.id).
		WithDetail("permission", string(perm))
}

func (p *Project) clone() *Project {
	next := *p
	next.access = slices.Clone(p.access)
	return &next
}

func (p *Project) record(eventType string, payload map[string]any, now time.Time) {
	p.events = p.events.Append(event.New(eventType, aggregateType, p.id, payload, now))
}
