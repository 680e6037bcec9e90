package app

import (
	"context"
	"log/slog"
	"time"

	appctx "github.com/jsamuelsen11/teamspace/internal/app/context"
	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/domain/workspace"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

var _ ports.WorkspaceService = (*WorkspaceService)(nil)

// WorkspaceService runs workspace lifecycle and membership use cases.
type WorkspaceService struct {
	rt         *Runtime
	users      ports.UserRepository
	workspaces ports.WorkspaceRepository
	policy     rbac.AuthorizationPolicy
}

func NewWorkspaceService(rt *Runtime, users ports.UserRepository, workspaces ports.WorkspaceRepository) *WorkspaceService {
	return &WorkspaceService{rt: rt, users: users, workspaces: workspaces}
}

// Create registers a workspace owned by the actor, who must be a known user.
func (s *WorkspaceService) Create(ctx context.Context, actorUserID, name string) (*workspace.Workspace, error) {
	return run(ctx, s.rt, "CreateWorkspace", []slog.Attr{slog.String("actor_user_id", actorUserID)},
		func(oc *appctx.OperationContext, now time.Time) (*workspace.Workspace, error) {
			if err := requireActor(actorUserID); err != nil {
				return nil, err
			}
			if _, err := loadUser(oc, s.users, actorUserID); err != nil {
				return nil, err
			}
			ws, err := workspace.New(actorUserID, name, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindWorkspace, ws, s.workspaces.Save)
		})
}

// Get requires workspace.view.
func (s *WorkspaceService) Get(ctx context.Context, actorUserID, workspaceID string) (*workspace.Workspace, error) {
	return run(ctx, s.rt, "GetWorkspace", workspaceAttrs(actorUserID, workspaceID),
		func(oc *appctx.OperationContext, _ time.Time) (*workspace.Workspace, error) {
			ws, err := loadWorkspace(oc, s.workspaces, workspaceID)
			if err != nil {
				return nil, err
			}
			if err := s.require(ws, actorUserID, rbac.WorkspaceView); err != nil {
				return nil, err
			}
			return ws, nil
		})
}

// ListOwned returns the workspaces the actor currently owns.
func (s *WorkspaceService) ListOwned(ctx context.Context, actorUserID string) ([]*workspace.Workspace, error) {
	return run(ctx, s.rt, "ListOwnedWorkspaces", []slog.Attr{slog.String("actor_user_id", actorUserID)},
		func(oc *appctx.OperationContext, _ time.Time) ([]*workspace.Workspace, error) {
			if err := requireActor(actorUserID); err != nil {
				return nil, err
			}
			snapshots, err := s.workspaces.ListByOwnerUserID(oc, actorUserID)
			if err != nil {
				return nil, err
			}
			out := make([]*workspace.Workspace, 0, len(snapshots))
			for _, p := range snapshots {
				ws, err := workspace.Rehydrate(p)
				if err != nil {
					return nil, err
				}
				out = append(out, ws)
			}
			return out, nil
		})
}

// Permissions lists the workspace permissions the actor holds, in catalog
// order. Non-members hold none.
func (s *WorkspaceService) Permissions(ctx context.Context, actorUserID, workspaceID string) ([]rbac.WorkspacePermission, error) {
	return run(ctx, s.rt, "WorkspacePermissions", workspaceAttrs(actorUserID, workspaceID),
		func(oc *appctx.OperationContext, _ time.Time) ([]rbac.WorkspacePermission, error) {
			ws, err := loadWorkspace(oc, s.workspaces, workspaceID)
			if err != nil {
				return nil, err
			}
			out := []rbac.WorkspacePermission{}
			for _, perm := range rbac.WorkspacePermissions {
				if s.policy.CanInWorkspace(ws, actorUserID, perm) {
					out = append(out, perm)
				}
			}
			return out, nil
		})
}

func (s *WorkspaceService) Rename(ctx context.Context, actorUserID, workspaceID, name string) (*workspace.Workspace, error) {
	return s.mutate(ctx, "RenameWorkspace", actorUserID, workspaceID, "",
		func(ws *workspace.Workspace, now time.Time) (*workspace.Workspace, error) {
			return ws.Rename(actorUserID, name, now)
		})
}

// InviteMember adds a registered user as a COLLABORATOR, or reactivates a
// removed one.
func (s *WorkspaceService) InviteMember(ctx context.Context, actorUserID, workspaceID, targetUserID string) (*workspace.Workspace, error) {
	return s.mutate(ctx, "InviteMember", actorUserID, workspaceID, targetUserID,
		func(ws *workspace.Workspace, now time.Time) (*workspace.Workspace, error) {
			return ws.InviteMember(actorUserID, targetUserID, now)
		})
}

func (s *WorkspaceService) RemoveMember(ctx context.Context, actorUserID, workspaceID, targetUserID string) (*workspace.Workspace, error) {
	return s.mutate(ctx, "RemoveMember", actorUserID, workspaceID, "",
		func(ws *workspace.Workspace, now time.Time) (*workspace.Workspace, error) {
			return ws.RemoveMember(actorUserID, targetUserID, now)
		})
}

func (s *WorkspaceService) AssignRole(ctx context.Context, actorUserID, workspaceID, targetUserID string, role rbac.RoleID) (*workspace.Workspace, error) {
	return s.mutate(ctx, "AssignRole", actorUserID, workspaceID, "",
		func(ws *workspace.Workspace, now time.Time) (*workspace.Workspace, error) {
			return ws.AssignRole(actorUserID, targetUserID, role, now)
		})
}

func (s *WorkspaceService) RevokeRole(ctx context.Context, actorUserID, workspaceID, targetUserID string, role rbac.RoleID) (*workspace.Workspace, error) {
	return s.mutate(ctx, "RevokeRole", actorUserID, workspaceID, "",
		func(ws *workspace.Workspace, now time.Time) (*workspace.Workspace, error) {
			return ws.RevokeRole(actorUserID, targetUserID, role, now)
		})
}

// TransferOwnership hands OWNER to an active member in one step.
func (s *WorkspaceService) TransferOwnership(ctx context.Context, actorUserID, workspaceID, targetUserID string) (*workspace.Workspace, error) {
	return s.mutate(ctx, "TransferOwnership", actorUserID, workspaceID, "",
		func(ws *workspace.Workspace, now time.Time) (*workspace.Workspace, error) {
			return ws.TransferOwnership(actorUserID, targetUserID, now)
		})
}

// mutate loads the workspace, applies op and stages the result. A non-empty
// registeredUserID must name a known user.
func (s *WorkspaceService) mutate(
	ctx context.Context,
	operation, actorUserID, workspaceID, registeredUserID string,
	op func(*workspace.Workspace, time.Time) (*workspace.Workspace, error),
) (*workspace.Workspace, error) {
	return run(ctx, s.rt, operation, workspaceAttrs(actorUserID, workspaceID),
		func(oc *appctx.OperationContext, now time.Time) (*workspace.Workspace, error) {
			if err := requireActor(actorUserID); err != nil {
				return nil, err
			}
			ws, err := loadWorkspace(oc, s.workspaces, workspaceID)
			if err != nil {
				return nil, err
			}
			if registeredUserID != "" {
				if _, err := loadUser(oc, s.users, registeredUserID); err != nil {
					return nil, err
				}
			}
			next, err := op(ws, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindWorkspace, next, s.workspaces.Save)
		})
}

func (s *WorkspaceService) require(ws *workspace.Workspace, actorUserID string, perm rbac.WorkspacePermission) error {
	if err := requireActor(actorUserID); err != nil {
		return err
	}
	if !s.policy.CanInWorkspace(ws, actorUserID, perm) {
		return domain.Forbidden("user %s lacks %s in workspace %s", actorUserID, perm, ws.ID())
	}
	return nil
}

func workspaceAttrs(actorUserID, workspaceID string) []slog.Attr {
	return []slog.Attr{
		slog.String("actor_user_id", actorUserID),
		slog.String("workspace_id", workspaceID),
	}
}
