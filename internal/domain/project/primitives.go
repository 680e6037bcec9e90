package project

import (
	"time"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
)

// Primitives is the flat, JSON-serializable snapshot of a Project.
type Primitives struct {
	ID          string             `json:"id"`
	WorkspaceID string             `json:"workspace_id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	CreatedAt   time.Time          `json:"created_at"`
	Access      []AccessPrimitives `json:"access"`
}

type AccessPrimitives struct {
	UserID          string    `json:"user_id"`
	RoleID          string    `json:"role_id"`
	GrantedByUserID string    `json:"granted_by_user_id"`
	GrantedAt       time.Time `json:"granted_at"`
}

func (p *Project) ToPrimitives() Primitives {
	access := make([]AccessPrimitives, len(p.access))
	for i, a := range p.access {
		access[i] = AccessPrimitives{
			UserID:          a.UserID,
			RoleID:          string(a.Role),
			GrantedByUserID: a.GrantedByUserID,
			GrantedAt:       a.GrantedAt,
		}
	}
	return Primitives{
		ID:          p.id,
		WorkspaceID: p.workspaceID,
		Name:        p.name.String(),
		Description: p.description.String(),
		CreatedAt:   p.createdAt,
		Access:      access,
	}
}

// Rehydrate rebuilds a Project, rejecting an empty access list, duplicate
// entries and unknown roles.
func Rehydrate(pr Primitives) (*Project, error) {
	if pr.ID == "" {
		return nil, domain.FieldError("id", "is required")
	}
	if pr.WorkspaceID == "" {
		return nil, domain.FieldError("workspace_id", "is required")
	}
	name, err := valueobject.NewName("name", pr.Name)
	if err != nil {
		return nil, err
	}
	desc, err := valueobject.NewDescription(pr.Description)
	if err != nil {
		return nil, err
	}
	if len(pr.Access) == 0 {
		return nil, domain.InvalidState("project %s has an empty access list", pr.ID)
	}

	seen := make(map[string]bool, len(pr.Access))
	access := make([]Access, 0, len(pr.Access))
	for _, a := range pr.Access {
		if a.UserID == "" {
			return nil, domain.InvalidState("project %s has an access entry without user id", pr.ID)
		}
		if seen[a.UserID] {
			return nil, domain.InvalidState("project %s lists user %s twice", pr.ID, a.UserID)
		}
		seen[a.UserID] = true
		role := rbac.ProjectRole(a.RoleID)
		if !role.IsValid() {
			return nil, domain.InvalidState("project %s grants unknown role %q", pr.ID, a.RoleID)
		}
		access = append(access, Access{
			UserID:          a.UserID,
			Role:            role,
			GrantedByUserID: a.GrantedByUserID,
			GrantedAt:       a.GrantedAt,
		})
	}

	return &Project{
		id:          pr.ID,
		workspaceID: pr.WorkspaceID,
		name:        name,
		description: desc,
		createdAt:   pr.CreatedAt,
		access:      access,
	}, nil
}
