package app

import (
	"context"
	"log/slog"
	"time"

	appctx "github.com/jsamuelsen11/teamspace/internal/app/context"
	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/project"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/domain/workspace"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

var _ ports.ProjectService = (*ProjectService)(nil)

// ProjectService runs project and project-access use cases. It resolves the
// workspace facts the project aggregate needs: whether the target is an
// active workspace member and whether the actor holds the workspace-level
// project access override.
type ProjectService struct {
	rt         *Runtime
	workspaces ports.WorkspaceRepository
	projects   ports.ProjectRepository
	policy     rbac.AuthorizationPolicy
}

func NewProjectService(rt *Runtime, workspaces ports.WorkspaceRepository, projects ports.ProjectRepository) *ProjectService {
	return &ProjectService{rt: rt, workspaces: workspaces, projects: projects}
}

// Create requires workspace.projects.create. The creator becomes MANAGER.
func (s *ProjectService) Create(ctx context.Context, actorUserID, workspaceID, name, description string) (*project.Project, error) {
	return run(ctx, s.rt, "CreateProject", workspaceAttrs(actorUserID, workspaceID),
		func(oc *appctx.OperationContext, now time.Time) (*project.Project, error) {
			if err := requireActor(actorUserID); err != nil {
				return nil, err
			}
			ws, err := loadWorkspace(oc, s.workspaces, workspaceID)
			if err != nil {
				return nil, err
			}
			if !s.policy.CanInWorkspace(ws, actorUserID, rbac.WorkspaceProjectsCreate) {
				return nil, domain.Forbidden("user %s cannot create projects in workspace %s", actorUserID, workspaceID)
			}
			p, err := project.New(workspaceID, actorUserID, name, description, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindProject, p, s.projects.Save)
		})
}

// Get requires project.view, or the workspace project access override.
func (s *ProjectService) Get(ctx context.Context, actorUserID, projectID string) (*project.Project, error) {
	return run(ctx, s.rt, "GetProject", projectAttrs(actorUserID, projectID),
		func(oc *appctx.OperationContext, _ time.Time) (*project.Project, error) {
			if err := requireActor(actorUserID); err != nil {
				return nil, err
			}
			ws, p, err := loadProjectScope(oc, s.workspaces, s.projects, projectID)
			if err != nil {
				return nil, err
			}
			if !s.canSee(ws, p, actorUserID) {
				return nil, domain.Forbidden("user %s cannot view project %s", actorUserID, projectID)
			}
			return p, nil
		})
}

// List returns the workspace's projects visible to the actor, who must be
// able to view the workspace.
func (s *ProjectService) List(ctx context.Context, actorUserID, workspaceID string) ([]*project.Project, error) {
	return run(ctx, s.rt, "ListProjects", workspaceAttrs(actorUserID, workspaceID),
		func(oc *appctx.OperationContext, _ time.Time) ([]*project.Project, error) {
			if err := requireActor(actorUserID); err != nil {
				return nil, err
			}
			ws, err := loadWorkspace(oc, s.workspaces, workspaceID)
			if err != nil {
				return nil, err
			}
			if !s.policy.CanInWorkspace(ws, actorUserID, rbac.WorkspaceView) {
				return nil, domain.Forbidden("user %s cannot view workspace %s", actorUserID, workspaceID)
			}
			snapshots, err := s.projects.ListByWorkspace(oc, workspaceID)
			if err != nil {
				return nil, err
			}
			out := []*project.Project{}
			for _, snap := range snapshots {
				p, err := project.Rehydrate(snap)
				if err != nil {
					return nil, err
				}
				if s.canSee(ws, p, actorUserID) {
					out = append(out, p)
				}
			}
			return out, nil
		})
}

func (s *ProjectService) Rename(ctx context.Context, actorUserID, projectID, name string) (*project.Project, error) {
	return s.mutate(ctx, "RenameProject", actorUserID, projectID,
		func(_ *workspace.Workspace, p *project.Project, now time.Time) (*project.Project, error) {
			return p.Rename(actorUserID, name, now)
		})
}

func (s *ProjectService) UpdateDescription(ctx context.Context, actorUserID, projectID, description string) (*project.Project, error) {
	return s.mutate(ctx, "UpdateProjectDescription", actorUserID, projectID,
		func(_ *workspace.Workspace, p *project.Project, now time.Time) (*project.Project, error) {
			return p.UpdateDescription(actorUserID, description, now)
		})
}

// GrantAccess gives an active workspace member a project role. Granting to
// a user who already has access changes the role instead.
func (s *ProjectService) GrantAccess(ctx context.Context, actorUserID, projectID, targetUserID string, role rbac.ProjectRole) (*project.Project, error) {
	return s.mutate(ctx, "GrantProjectAccess", actorUserID, projectID,
		func(ws *workspace.Workspace, p *project.Project, now time.Time) (*project.Project, error) {
			return p.GrantAccess(actorUserID, targetUserID, role, ws, s.override(ws, actorUserID), now)
		})
}

func (s *ProjectService) ChangeRole(ctx context.Context, actorUserID, projectID, targetUserID string, role rbac.ProjectRole) (*project.Project, error) {
	return s.mutate(ctx, "ChangeProjectRole", actorUserID, projectID,
		func(ws *workspace.Workspace, p *project.Project, now time.Time) (*project.Project, error) {
			return p.ChangeProjectRole(actorUserID, targetUserID, role, s.override(ws, actorUserID), now)
		})
}

func (s *ProjectService) RevokeAccess(ctx context.Context, actorUserID, projectID, targetUserID string) (*project.Project, error) {
	return s.mutate(ctx, "RevokeProjectAccess", actorUserID, projectID,
		func(ws *workspace.Workspace, p *project.Project, now time.Time) (*project.Project, error) {
			return p.RevokeAccess(actorUserID, targetUserID, s.override(ws, actorUserID), now)
		})
}

func (s *ProjectService) mutate(
	ctx context.Context,
	operation, actorUserID, projectID string,
	op func(*workspace.Workspace, *project.Project, time.Time) (*project.Project, error),
) (*project.Project, error) {
	return run(ctx, s.rt, operation, projectAttrs(actorUserID, projectID),
		func(oc *appctx.OperationContext, now time.Time) (*project.Project, error) {
			if err := requireActor(actorUserID); err != nil {
				return nil, err
			}
			ws, p, err := loadProjectScope(oc, s.workspaces, s.projects, projectID)
			if err != nil {
				return nil, err
			}
			next, err := op(ws, p, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindProject, next, s.projects.Save)
		})
}

// override reports whether the actor manages project access workspace-wide.
func (s *ProjectService) override(ws *workspace.Workspace, actorUserID string) bool {
	return s.policy.CanInWorkspace(ws, actorUserID, rbac.WorkspaceProjectAccessManage)
}

func (s *ProjectService) canSee(ws *workspace.Workspace, p *project.Project, actorUserID string) bool {
	return s.policy.CanInProject(p, actorUserID, rbac.ProjectView) || s.override(ws, actorUserID)
}

func projectAttrs(actorUserID, projectID string) []slog.Attr {
	return []slog.Attr{
		slog.String("actor_user_id", actorUserID),
		slog.String("project_id", projectID),
	}
}
