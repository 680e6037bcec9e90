package app

import (
	"context"
	"log/slog"
	"time"

	appctx "github.com/jsamuelsen11/teamspace/internal/app/context"
	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/availability"
	"github.com/jsamuelsen11/teamspace/internal/domain/project"
	"github.com/jsamuelsen11/teamspace/internal/domain/rbac"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

var _ ports.AvailabilityService = (*AvailabilityService)(nil)

// AvailabilityService runs availability use cases. The aggregate validates
// its own data; project permissions are checked here.
type AvailabilityService struct {
	rt             *Runtime
	projects       ports.ProjectRepository
	availabilities ports.AvailabilityRepository
	policy         rbac.AuthorizationPolicy
}

func NewAvailabilityService(rt *Runtime, projects ports.ProjectRepository, availabilities ports.AvailabilityRepository) *AvailabilityService {
	return &AvailabilityService{rt: rt, projects: projects, availabilities: availabilities}
}

// Create requires project.availability.create.
func (s *AvailabilityService) Create(ctx context.Context, actorUserID, projectID, name, description, startDate, endDate string) (*availability.Availability, error) {
	return run(ctx, s.rt, "CreateAvailability", projectAttrs(actorUserID, projectID),
		func(oc *appctx.OperationContext, now time.Time) (*availability.Availability, error) {
			p, err := loadProject(oc, s.projects, projectID)
			if err != nil {
				return nil, err
			}
			if err := s.authorize(p, actorUserID, rbac.ProjectAvailabilityCreate); err != nil {
				return nil, err
			}
			a, err := availability.New(projectID, actorUserID, name, description, startDate, endDate, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindAvailability, a, s.availabilities.Save)
		})
}

func (s *AvailabilityService) Get(ctx context.Context, actorUserID, availabilityID string) (*availability.Availability, error) {
	return run(ctx, s.rt, "GetAvailability", availabilityAttrs(actorUserID, availabilityID),
		func(oc *appctx.OperationContext, _ time.Time) (*availability.Availability, error) {
			p, a, err := s.loadScope(oc, availabilityID)
			if err != nil {
				return nil, err
			}
			if err := s.authorize(p, actorUserID, rbac.ProjectView); err != nil {
				return nil, err
			}
			return a, nil
		})
}

func (s *AvailabilityService) List(ctx context.Context, actorUserID, projectID string) ([]*availability.Availability, error) {
	return run(ctx, s.rt, "ListAvailabilities", projectAttrs(actorUserID, projectID),
		func(oc *appctx.OperationContext, _ time.Time) ([]*availability.Availability, error) {
			p, err := loadProject(oc, s.projects, projectID)
			if err != nil {
				return nil, err
			}
			if err := s.authorize(p, actorUserID, rbac.ProjectView); err != nil {
				return nil, err
			}
			snapshots, err := s.availabilities.ListByProject(oc, projectID)
			if err != nil {
				return nil, err
			}
			out := make([]*availability.Availability, 0, len(snapshots))
			for _, snap := range snapshots {
				a, err := availability.Rehydrate(snap)
				if err != nil {
					return nil, err
				}
				out = append(out, a)
			}
			return out, nil
		})
}

func (s *AvailabilityService) AddSegment(ctx context.Context, actorUserID, availabilityID string, in availability.SegmentInput) (*availability.Availability, availability.Segment, error) {
	type result struct {
		a   *availability.Availability
		seg availability.Segment
	}
	r, err := run(ctx, s.rt, "AddAvailabilitySegment", availabilityAttrs(actorUserID, availabilityID),
		func(oc *appctx.OperationContext, now time.Time) (result, error) {
			a, err := s.manageable(oc, actorUserID, availabilityID)
			if err != nil {
				return result{}, err
			}
			next, seg, err := a.AddSegment(actorUserID, in, now)
			if err != nil {
				return result{}, err
			}
			next, err = persist(oc, kindAvailability, next, s.availabilities.Save)
			return result{a: next, seg: seg}, err
		})
	return r.a, r.seg, err
}

func (s *AvailabilityService) UpdateSegment(ctx context.Context, actorUserID, availabilityID, segmentID string, in availability.SegmentInput) (*availability.Availability, error) {
	return s.mutate(ctx, "UpdateAvailabilitySegment", actorUserID, availabilityID,
		func(a *availability.Availability, now time.Time) (*availability.Availability, error) {
			return a.UpdateSegment(actorUserID, segmentID, in, now)
		})
}

func (s *AvailabilityService) RemoveSegment(ctx context.Context, actorUserID, availabilityID, segmentID string) (*availability.Availability, error) {
	return s.mutate(ctx, "RemoveAvailabilitySegment", actorUserID, availabilityID,
		func(a *availability.Availability, now time.Time) (*availability.Availability, error) {
			return a.RemoveSegment(actorUserID, segmentID, now)
		})
}

func (s *AvailabilityService) UpdateDateRange(ctx context.Context, actorUserID, availabilityID, startDate, endDate string) (*availability.Availability, error) {
	return s.mutate(ctx, "UpdateAvailabilityDateRange", actorUserID, availabilityID,
		func(a *availability.Availability, now time.Time) (*availability.Availability, error) {
			return a.UpdateDateRange(actorUserID, startDate, endDate, now)
		})
}

func (s *AvailabilityService) UpdateDetails(ctx context.Context, actorUserID, availabilityID, name, description string) (*availability.Availability, error) {
	return s.mutate(ctx, "UpdateAvailabilityDetails", actorUserID, availabilityID,
		func(a *availability.Availability, now time.Time) (*availability.Availability, error) {
			return a.UpdateDetails(actorUserID, name, description, now)
		})
}

func (s *AvailabilityService) Archive(ctx context.Context, actorUserID, availabilityID string) (*availability.Availability, error) {
	return s.mutate(ctx, "ArchiveAvailability", actorUserID, availabilityID,
		func(a *availability.Availability, now time.Time) (*availability.Availability, error) {
			return a.Archive(actorUserID, now)
		})
}

func (s *AvailabilityService) Reactivate(ctx context.Context, actorUserID, availabilityID string) (*availability.Availability, error) {
	return s.mutate(ctx, "ReactivateAvailability", actorUserID, availabilityID,
		func(a *availability.Availability, now time.Time) (*availability.Availability, error) {
			return a.Reactivate(actorUserID, now)
		})
}

// TotalMinutes sums the valid minutes of every segment; requires project.view.
func (s *AvailabilityService) TotalMinutes(ctx context.Context, actorUserID, availabilityID string) (int, error) {
	a, err := s.Get(ctx, actorUserID, availabilityID)
	if err != nil {
		return 0, err
	}
	return a.TotalValidMinutes().Minutes(), nil
}

func (s *AvailabilityService) mutate(
	ctx context.Context,
	operation, actorUserID, availabilityID string,
	op func(*availability.Availability, time.Time) (*availability.Availability, error),
) (*availability.Availability, error) {
	return run(ctx, s.rt, operation, availabilityAttrs(actorUserID, availabilityID),
		func(oc *appctx.OperationContext, now time.Time) (*availability.Availability, error) {
			a, err := s.manageable(oc, actorUserID, availabilityID)
			if err != nil {
				return nil, err
			}
			next, err := op(a, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindAvailability, next, s.availabilities.Save)
		})
}

// manageable loads the availability after checking project.availability.manage.
func (s *AvailabilityService) manageable(oc *appctx.OperationContext, actorUserID, availabilityID string) (*availability.Availability, error) {
	p, a, err := s.loadScope(oc, availabilityID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(p, actorUserID, rbac.ProjectAvailabilityManage); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AvailabilityService) loadScope(oc *appctx.OperationContext, availabilityID string) (*project.Project, *availability.Availability, error) {
	a, err := loadAvailability(oc, s.availabilities, availabilityID)
	if err != nil {
		return nil, nil, err
	}
	p, err := loadProject(oc, s.projects, a.ProjectID())
	if err != nil {
		return nil, nil, err
	}
	return p, a, nil
}

func (s *AvailabilityService) authorize(p *project.Project, actorUserID string, perm rbac.ProjectPermission) error {
	if err := requireActor(actorUserID); err != nil {
		return err
	}
	if !s.policy.CanInProject(p, actorUserID, perm) {
		return domain.Forbidden("user %s lacks %s on project %s", actorUserID, perm, p.ID())
	}
	return nil
}

func availabilityAttrs(actorUserID, availabilityID string) []slog.Attr {
	return []slog.Attr{
		slog.String("actor_user_id", actorUserID),
		slog.String("availability_id", availabilityID),
	}
}
