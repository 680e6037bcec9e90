package app

import (
	"context"
	"log/slog"
	"time"

	appctx "github.com/jsamuelsen11/teamspace/internal/app/context"
	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/user"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
	"github.com/jsamuelsen11/teamspace/internal/ports"
)

var _ ports.UserService = (*UserService)(nil)

// UserService registers and authenticates users. Raw passwords are handed
// to the hasher and never leave this service.
type UserService struct {
	rt     *Runtime
	users  ports.UserRepository
	hasher ports.PasswordHasher
}

func NewUserService(rt *Runtime, users ports.UserRepository, hasher ports.PasswordHasher) *UserService {
	return &UserService{rt: rt, users: users, hasher: hasher}
}

// Register creates a user. A taken email fails with DUPLICATE.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*user.User, error) {
	return run(ctx, s.rt, "RegisterUser", nil,
		func(oc *appctx.OperationContext, now time.Time) (*user.User, error) {
			if _, err := s.users.FindByEmail(oc, email); err == nil {
				return nil, domain.Duplicate("email %s is already registered", valueobject.NormalizeEmail(email))
			} else if !isNotFound(err) {
				return nil, err
			}
			hash, err := s.hashPassword(oc, password)
			if err != nil {
				return nil, err
			}
			u, err := user.Register(name, email, hash, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindUser, u, s.users.Save)
		})
}

// Authenticate returns the user whose email and password match. Unknown
// emails and wrong passwords fail the same way with UNAUTHORIZED.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	return run(ctx, s.rt, "AuthenticateUser", nil,
		func(oc *appctx.OperationContext, _ time.Time) (*user.User, error) {
			snap, err := s.users.FindByEmail(oc, email)
			if isNotFound(err) {
				return nil, domain.Unauthorized("invalid email or password")
			}
			if err != nil {
				return nil, err
			}
			u, err := user.Rehydrate(snap)
			if err != nil {
				return nil, err
			}
			if err := s.verify(oc, u, password); err != nil {
				return nil, err
			}
			return u, nil
		})
}

func (s *UserService) Get(ctx context.Context, userID string) (*user.User, error) {
	return run(ctx, s.rt, "GetUser", []slog.Attr{slog.String("user_id", userID)},
		func(oc *appctx.OperationContext, _ time.Time) (*user.User, error) {
			return loadUser(oc, s.users, userID)
		})
}

func (s *UserService) Rename(ctx context.Context, actorUserID, userID, name string) (*user.User, error) {
	return run(ctx, s.rt, "RenameUser", userAttrs(actorUserID, userID),
		func(oc *appctx.OperationContext, now time.Time) (*user.User, error) {
			u, err := loadUser(oc, s.users, userID)
			if err != nil {
				return nil, err
			}
			next, err := u.Rename(actorUserID, name, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindUser, next, s.users.Save)
		})
}

// ChangePassword requires the current password.
func (s *UserService) ChangePassword(ctx context.Context, actorUserID, userID, currentPassword, newPassword string) (*user.User, error) {
	return run(ctx, s.rt, "ChangePassword", userAttrs(actorUserID, userID),
		func(oc *appctx.OperationContext, now time.Time) (*user.User, error) {
			if err := requireActor(actorUserID); err != nil {
				return nil, err
			}
			if actorUserID != userID {
				return nil, domain.Forbidden("user %s cannot modify user %s", actorUserID, userID)
			}
			u, err := loadUser(oc, s.users, userID)
			if err != nil {
				return nil, err
			}
			if err := s.verify(oc, u, currentPassword); err != nil {
				return nil, err
			}
			hash, err := s.hashPassword(oc, newPassword)
			if err != nil {
				return nil, err
			}
			next, err := u.ChangePassword(actorUserID, hash, now)
			if err != nil {
				return nil, err
			}
			return persist(oc, kindUser, next, s.users.Save)
		})
}

func (s *UserService) hashPassword(ctx context.Context, password string) (valueobject.PasswordHash, error) {
	hash, salt, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return valueobject.PasswordHash{}, err
	}
	return valueobject.NewPasswordHash(hash, salt)
}

func (s *UserService) verify(ctx context.Context, u *user.User, password string) error {
	ok, err := s.hasher.Verify(ctx, password, u.PasswordHash().Hash(), u.PasswordHash().Salt())
	if err != nil {
		return err
	}
	if !ok {
		return domain.Unauthorized("invalid email or password")
	}
	return nil
}

func userAttrs(actorUserID, userID string) []slog.Attr {
	return []slog.Attr{
		slog.String("actor_user_id", actorUserID),
		slog.String("user_id", userID),
	}
}
